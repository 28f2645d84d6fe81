// Package pipeline routes a query through the recommendation flow: intent
// classification, input inspection, requirement extraction, retrieval, and
// answer generation. Routing is a linear state machine with one path to
// completion per intent.
package pipeline

import "github.com/jonathan/assessment-recommender/internal/intent"

// Stage is a state in the routing machine.
type Stage string

const (
	StageStart      Stage = "start"
	StageClassified Stage = "classified"
	StageInputCheck Stage = "input_check"
	StageExtracting Stage = "extracting"
	StageEnhancing  Stage = "enhancing"
	StageRetrieving Stage = "retrieving"
	StageFormatting Stage = "formatting"
	StageAnswering  Stage = "answering"
	StageDone       Stage = "done"
)

// RouteContext is the accumulated request context the transition function
// consumes. It is fixed after classification and input inspection.
type RouteContext struct {
	Intent intent.Intent
	HasURL bool
}

// Next returns the stage that follows current for the given context. The
// machine is a linear DAG: every stage has exactly one successor per
// context, and every path ends at StageDone. Unknown stages resolve to
// StageDone so no request can strand.
func Next(current Stage, rc RouteContext) Stage {
	switch current {
	case StageStart:
		return StageClassified
	case StageClassified:
		switch rc.Intent {
		case intent.IntentJobDescription:
			return StageInputCheck
		case intent.IntentGeneral:
			return StageAnswering
		default:
			return StageDone
		}
	case StageInputCheck:
		return StageExtracting
	case StageExtracting:
		return StageEnhancing
	case StageEnhancing:
		return StageRetrieving
	case StageRetrieving:
		return StageFormatting
	case StageFormatting, StageAnswering:
		return StageDone
	default:
		return StageDone
	}
}

// Path returns every stage a request with this context visits, in order.
func Path(rc RouteContext) []Stage {
	stages := []Stage{StageStart}
	current := StageStart
	for current != StageDone {
		current = Next(current, rc)
		stages = append(stages, current)
	}
	return stages
}
