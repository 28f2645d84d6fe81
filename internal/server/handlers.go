package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/pipeline"
	"github.com/jonathan/assessment-recommender/internal/recommend"
	"github.com/jonathan/assessment-recommender/internal/session"
)

var validate = validator.New()

// queryRequest is the body of POST /recommend and POST /chat.
type queryRequest struct {
	Query     string `json:"query" validate:"required,min=3,max=8000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid"`
}

// assessmentResponse is one recommended assessment on the wire.
type assessmentResponse struct {
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	Duration        int      `json:"duration,omitempty"`
	RemoteSupport   string   `json:"remote_support,omitempty"`
	AdaptiveSupport string   `json:"adaptive_support,omitempty"`
	TestTypes       []string `json:"test_type"`
	Description     string   `json:"description,omitempty"`
	Relevance       float64  `json:"relevance"`
	Reason          string   `json:"reason,omitempty"`
}

// queryResponse is the body returned by POST /recommend and POST /chat.
type queryResponse struct {
	Kind                   string               `json:"kind"`
	Intent                 string               `json:"intent"`
	Confidence             float64              `json:"confidence"`
	RecommendedAssessments []assessmentResponse `json:"recommended_assessments,omitempty"`
	Answer                 string               `json:"answer,omitempty"`
	RelatedAssessments     []string             `json:"related_assessments,omitempty"`
	Message                string               `json:"message,omitempty"`
	Warnings               []string             `json:"warnings,omitempty"`
	FetchFailed            bool                 `json:"fetch_failed,omitempty"`
	SessionID              string               `json:"session_id,omitempty"`
}

// handleRecommend runs the full pipeline for one query.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r)
}

// handleChat is an alias for the same pipeline with session persistence as
// the expected use.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			verr := &ErrValidation{Field: errs[0].Field(), Message: errs[0].Tag()}
			s.errorResponse(w, HTTPStatus(verr), verr.Error())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := pipeline.ValidateQuery(req.Query); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	outcome, err := s.router.Run(r.Context(), req.Query)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusServiceUnavailable {
			s.errorResponse(w, status, "retrieval is temporarily unavailable, please retry")
		} else {
			s.errorResponse(w, status, err.Error())
		}
		return
	}

	resp := outcomeResponse(outcome)
	resp.SessionID = s.recordInteraction(r, req, outcome)
	s.jsonResponse(w, http.StatusOK, resp)
}

func outcomeResponse(outcome *pipeline.Outcome) queryResponse {
	resp := queryResponse{
		Kind:        string(outcome.Kind),
		Intent:      string(outcome.Intent),
		Confidence:  outcome.Confidence,
		Warnings:    outcome.Warnings,
		FetchFailed: outcome.FetchFailed,
	}

	switch outcome.Kind {
	case pipeline.OutcomeRecommendation:
		for _, c := range outcome.Recommendations.Candidates {
			resp.RecommendedAssessments = append(resp.RecommendedAssessments, toAssessmentResponse(c))
		}
	case pipeline.OutcomeAnswer:
		resp.Answer = outcome.AnswerText
		resp.RelatedAssessments = outcome.Related
	default:
		resp.Message = outcome.RedirectMessage
	}
	return resp
}

func toAssessmentResponse(c recommend.Candidate) assessmentResponse {
	types := make([]string, len(c.Assessment.TestTypes))
	for i, t := range c.Assessment.TestTypes {
		types[i] = string(t)
	}
	return assessmentResponse{
		Name:            c.Assessment.Name,
		URL:             c.Assessment.URL,
		Duration:        c.Assessment.Duration,
		RemoteSupport:   c.Assessment.RemoteSupport,
		AdaptiveSupport: c.Assessment.AdaptiveSupport,
		TestTypes:       types,
		Description:     c.Assessment.Description,
		Relevance:       c.Relevance,
		Reason:          c.Reason,
	}
}

// recordInteraction persists the exchange when sessions are enabled.
// Returns the session ID echoed back to the client, or "".
func (s *Server) recordInteraction(r *http.Request, req queryRequest, outcome *pipeline.Outcome) string {
	if s.sessions == nil {
		return ""
	}

	var sessionID uuid.UUID
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			return ""
		}
		// Load-or-create: a client-minted ID must have a session row
		// before the interaction insert can reference it.
		if err := s.sessions.EnsureSession(r.Context(), parsed); err != nil {
			log.Printf("server: failed to ensure session: %v", err)
			return ""
		}
		sessionID = parsed
	} else {
		created, err := s.sessions.CreateSession(r.Context())
		if err != nil {
			log.Printf("server: failed to create session: %v", err)
			return ""
		}
		sessionID = created.ID
	}

	interaction := session.Interaction{
		SessionID:   sessionID,
		Query:       req.Query,
		Intent:      string(outcome.Intent),
		OutcomeKind: string(outcome.Kind),
	}
	switch outcome.Kind {
	case pipeline.OutcomeRecommendation:
		for _, a := range outcome.Recommendations.Assessments() {
			interaction.Recommendations = append(interaction.Recommendations, a.Name)
		}
	case pipeline.OutcomeAnswer:
		interaction.ResponseText = outcome.AnswerText
	default:
		interaction.ResponseText = outcome.RedirectMessage
	}

	if err := s.sessions.AppendInteraction(r.Context(), interaction); err != nil {
		log.Printf("server: failed to record interaction: %v", err)
	}
	return sessionID.String()
}

// handleTestTypes lists the test-type code enumeration.
func (s *Server) handleTestTypes(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	var entries []entry
	for _, t := range catalog.AllTestTypes() {
		entries = append(entries, entry{Code: string(t), Name: t.Name()})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"test_types": entries})
}

// handleGetSession returns a session and its recent interactions.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}

	sess, err := s.sessions.GetSession(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if sess == nil {
		notFound := &ErrSessionNotFound{SessionID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	history, err := s.sessions.History(r.Context(), id, 20)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load session history")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"session":      sess,
		"interactions": history,
	})
}

// authTokenRequest exchanges the admin key for a JWT.
type authTokenRequest struct {
	AdminKey string `json:"admin_key" validate:"required"`
}

func (s *Server) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Enabled() {
		s.errorResponse(w, http.StatusNotFound, "admin endpoints are not configured")
		return
	}

	var req authTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "admin_key is required")
		return
	}

	if !s.auth.VerifyAdminKey(req.AdminKey) {
		unauthorized := &ErrUnauthorized{}
		s.errorResponse(w, HTTPStatus(unauthorized), unauthorized.Error())
		return
	}

	token, err := s.jwtService.GenerateToken("admin")
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}

// handleRefresh rebuilds the catalog snapshot. Guarded by the admin token
// middleware.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresher == nil {
		s.errorResponse(w, http.StatusNotFound, "catalog refresh is not configured")
		return
	}

	start := time.Now()
	count, err := s.refresher.Refresh(r.Context())
	if err != nil {
		log.Printf("server: catalog refresh failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "catalog refresh failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"indexed":  count,
		"duration": time.Since(start).String(),
	})
}
