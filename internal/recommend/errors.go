package recommend

import "fmt"

// RetrievalError means embedding or vector search failed. It is fatal to the
// request: the caller surfaces it as a service error.
type RetrievalError struct {
	Stage string
	Cause error
}

func (e *RetrievalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("retrieval unavailable at %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("retrieval unavailable at %s", e.Stage)
}

func (e *RetrievalError) Unwrap() error {
	return e.Cause
}

// RerankError means LLM reranking failed. Non-fatal: the engine logs it and
// keeps similarity order.
type RerankError struct {
	Message string
	Cause   error
}

func (e *RerankError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rerank skipped: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rerank skipped: %s", e.Message)
}

func (e *RerankError) Unwrap() error {
	return e.Cause
}
