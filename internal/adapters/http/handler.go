package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vishaltiwari230996/life-sorter/internal/app/diagnostic"
	"github.com/vishaltiwari230996/life-sorter/internal/domain"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

// maxBodyBytes bounds request bodies; answers are free text but short.
const maxBodyBytes = 64 << 10

type Server struct {
	svc *diagnostic.Service
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type setOutcomeRequest struct {
	SessionID    string `json:"session_id"`
	Outcome      string `json:"outcome"`
	OutcomeLabel string `json:"outcome_label,omitempty"`
}

type setDomainRequest struct {
	SessionID string `json:"session_id"`
	Domain    string `json:"domain"`
}

type setTaskRequest struct {
	SessionID string `json:"session_id"`
	Task      string `json:"task"`
}

type setTaskResponse struct {
	Session             *diagnostic.Summary      `json:"session"`
	MatchedTask         string                   `json:"matched_task"`
	MatchTier           string                   `json:"match_tier"`
	PersonaDoc          string                   `json:"persona_doc"`
	Questions           []domain.DynamicQuestion `json:"questions"`
	NoDiagnosticContent bool                     `json:"no_diagnostic_content"`
}

type submitAnswerRequest struct {
	SessionID     string `json:"session_id"`
	QuestionIndex *int   `json:"question_index"`
	Answer        string `json:"answer"`
}

type submitAnswerResponse struct {
	Session      *diagnostic.Summary     `json:"session"`
	NextQuestion *domain.DynamicQuestion `json:"next_question,omitempty"`
	AllAnswered  bool                    `json:"all_answered"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type recommendResponse struct {
	Session         *diagnostic.Summary      `json:"session"`
	Recommendations domain.RecommendationSet `json:"recommendations"`
}

type personasResponse struct {
	Domains []string `json:"domains"`
}

type tasksResponse struct {
	Domain string   `json:"domain"`
	Tasks  []string `json:"tasks"`
}

type archiveListResponse struct {
	Sessions []*domain.ArchivedSession `json:"sessions"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"domains": len(s.svc.ListDomains(r.Context())),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.CreateSession(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, diagnostic.NewSummary(sess))
}

func (s *Server) handleSetOutcome(w http.ResponseWriter, r *http.Request) {
	var req setOutcomeRequest
	if !decodeRequest(w, r, &req) || !requireSessionID(w, req.SessionID) {
		return
	}
	if strings.TrimSpace(req.Outcome) == "" {
		writeError(w, http.StatusBadRequest, "outcome is required")
		return
	}

	sess, err := s.svc.SetOutcome(r.Context(), domain.SessionID(req.SessionID), req.Outcome, req.OutcomeLabel)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, diagnostic.NewSummary(sess))
}

func (s *Server) handleSetDomain(w http.ResponseWriter, r *http.Request) {
	var req setDomainRequest
	if !decodeRequest(w, r, &req) || !requireSessionID(w, req.SessionID) {
		return
	}
	if strings.TrimSpace(req.Domain) == "" {
		writeError(w, http.StatusBadRequest, "domain is required")
		return
	}

	sess, err := s.svc.SetDomain(r.Context(), domain.SessionID(req.SessionID), req.Domain)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, diagnostic.NewSummary(sess))
}

func (s *Server) handleSetTask(w http.ResponseWriter, r *http.Request) {
	var req setTaskRequest
	if !decodeRequest(w, r, &req) || !requireSessionID(w, req.SessionID) {
		return
	}
	if strings.TrimSpace(req.Task) == "" {
		writeError(w, http.StatusBadRequest, "task is required")
		return
	}

	out, err := s.svc.SetTask(r.Context(), domain.SessionID(req.SessionID), req.Task)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setTaskResponse{
		Session:             diagnostic.NewSummary(out.Session),
		MatchedTask:         out.MatchedTask,
		MatchTier:           out.Tier,
		PersonaDoc:          out.DocumentName,
		Questions:           out.Questions,
		NoDiagnosticContent: out.NoDiagnosticContent,
	})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if !decodeRequest(w, r, &req) || !requireSessionID(w, req.SessionID) {
		return
	}
	if req.QuestionIndex == nil {
		writeError(w, http.StatusBadRequest, "question_index is required")
		return
	}

	out, err := s.svc.SubmitAnswer(r.Context(), domain.SessionID(req.SessionID), *req.QuestionIndex, req.Answer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitAnswerResponse{
		Session:      diagnostic.NewSummary(out.Session),
		NextQuestion: out.NextQuestion,
		AllAnswered:  out.AllAnswered,
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeRequest(w, r, &req) || !requireSessionID(w, req.SessionID) {
		return
	}

	out, err := s.svc.Recommend(r.Context(), domain.SessionID(req.SessionID))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendResponse{
		Session:         diagnostic.NewSummary(out.Session),
		Recommendations: out.Recommendations,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.GetSessionSummary(r.Context(), domain.SessionID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteSession(r.Context(), domain.SessionID(chi.URLParam(r, "id"))); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, personasResponse{Domains: s.svc.ListDomains(r.Context())})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")
	tasks, err := s.svc.ListTasks(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksResponse{Domain: name, Tasks: tasks})
}

func (s *Server) handleListArchived(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	sessions, err := s.svc.Archived(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, archiveListResponse{Sessions: sessions})
}

func (s *Server) handleGetArchived(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.ArchivedSession(r.Context(), domain.SessionID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func requireSessionID(w http.ResponseWriter, id string) bool {
	if strings.TrimSpace(id) == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownDomain):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidIndex), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
