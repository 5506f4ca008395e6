package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/meeting-coordinator/internal/hold"
	"github.com/example/meeting-coordinator/internal/workflow"
)

// SchedulingService is the workflow surface the HTTP layer consumes.
type SchedulingService interface {
	CreateSession(ctx context.Context, params workflow.CreateSessionParams) (workflow.Session, error)
	GetSession(ctx context.Context, sessionID string) (workflow.Session, error)
	GetCandidates(ctx context.Context, sessionID string) ([]workflow.Candidate, error)
	GetHoldsBySession(ctx context.Context, sessionID string) ([]hold.Hold, error)
	CommitCandidate(ctx context.Context, userID, sessionID, candidateID string) (workflow.Session, error)
	CancelSession(ctx context.Context, userID, sessionID string) (workflow.Session, error)
}

// SessionHandler serves the scheduling session endpoints.
type SessionHandler struct {
	service   SchedulingService
	responder responder
	logger    *slog.Logger
}

// NewSessionHandler builds a handler over the given service.
func NewSessionHandler(service SchedulingService, logger *slog.Logger) *SessionHandler {
	logger = defaultLogger(logger)
	return &SessionHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type createSessionRequest struct {
	Title           string   `json:"title"`
	Participants    []string `json:"participants"`
	WindowStart     string   `json:"window_start"`
	WindowEnd       string   `json:"window_end"`
	DurationMinutes int      `json:"duration_minutes"`
	HoldTTL         string   `json:"hold_ttl,omitempty"`
	MaxCandidates   int      `json:"max_candidates,omitempty"`
}

type commitRequest struct {
	CandidateID string `json:"candidate_id"`
}

type candidateResponse struct {
	CandidateID string `json:"candidate_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

type holdResponse struct {
	HoldID          string  `json:"hold_id"`
	SessionID       string  `json:"session_id"`
	AccountID       string  `json:"account_id"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	Status          string  `json:"status"`
	ProviderEventID *string `json:"provider_event_id,omitempty"`
	ExpiresAt       string  `json:"expires_at"`
}

type sessionResponse struct {
	SessionID            string              `json:"session_id"`
	CreatorID            string              `json:"creator_id"`
	Title                string              `json:"title"`
	Participants         []string            `json:"participants"`
	Status               string              `json:"status"`
	WindowStart          string              `json:"window_start"`
	WindowEnd            string              `json:"window_end"`
	DurationMinutes      int                 `json:"duration_minutes"`
	CommittedCandidateID *string             `json:"committed_candidate_id,omitempty"`
	Candidates           []candidateResponse `json:"candidates"`
	Holds                []holdResponse      `json:"holds"`
	CreatedAt            string              `json:"created_at"`
	UpdatedAt            string              `json:"updated_at"`
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "sessions", "create")

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingPrincipal)
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	params, err := req.toParams(principal.UserID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	session, err := h.service.CreateSession(ctx, params)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "session created", "session_id", session.SessionID)
	h.responder.writeJSON(ctx, w, http.StatusCreated, toSessionResponse(session))
}

// Get handles GET /sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := SessionIDFromContext(ctx)
	if !ok || sessionID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	session, err := h.service.GetSession(ctx, sessionID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toSessionResponse(session))
}

// ListCandidates handles GET /sessions/{id}/candidates.
func (h *SessionHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := SessionIDFromContext(ctx)
	if !ok || sessionID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	// A lookup guards against leaking whether candidate rows exist for an
	// unknown session.
	if _, err := h.service.GetSession(ctx, sessionID); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	candidates, err := h.service.GetCandidates(ctx, sessionID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	payload := make([]candidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		payload = append(payload, toCandidateResponse(candidate))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, payload)
}

// ListHolds handles GET /sessions/{id}/holds.
func (h *SessionHandler) ListHolds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := SessionIDFromContext(ctx)
	if !ok || sessionID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	if _, err := h.service.GetSession(ctx, sessionID); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	holds, err := h.service.GetHoldsBySession(ctx, sessionID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	payload := make([]holdResponse, 0, len(holds))
	for _, item := range holds {
		payload = append(payload, toHoldResponse(item))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, payload)
}

// Commit handles POST /sessions/{id}/commit.
func (h *SessionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "sessions", "commit")

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingPrincipal)
		return
	}

	sessionID, ok := SessionIDFromContext(ctx)
	if !ok || sessionID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CandidateID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	session, err := h.service.CommitCandidate(ctx, principal.UserID, sessionID, req.CandidateID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "session committed", "candidate_id", req.CandidateID)
	h.responder.writeJSON(ctx, w, http.StatusOK, toSessionResponse(session))
}

// Cancel handles POST /sessions/{id}/cancel.
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "sessions", "cancel")

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingPrincipal)
		return
	}

	sessionID, ok := SessionIDFromContext(ctx)
	if !ok || sessionID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	session, err := h.service.CancelSession(ctx, principal.UserID, sessionID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "session cancelled")
	h.responder.writeJSON(ctx, w, http.StatusOK, toSessionResponse(session))
}

func (req createSessionRequest) toParams(creatorID string) (workflow.CreateSessionParams, error) {
	vErr := &workflow.ValidationError{}

	windowStart, err := time.Parse(time.RFC3339, req.WindowStart)
	if err != nil {
		vErr.Add("window_start", "must be an RFC 3339 timestamp")
	}
	windowEnd, err := time.Parse(time.RFC3339, req.WindowEnd)
	if err != nil {
		vErr.Add("window_end", "must be an RFC 3339 timestamp")
	}

	var holdTTL time.Duration
	if req.HoldTTL != "" {
		holdTTL, err = time.ParseDuration(req.HoldTTL)
		if err != nil || holdTTL <= 0 {
			vErr.Add("hold_ttl", "must be a positive duration such as 2h or 48h")
		}
	}

	if vErr.HasErrors() {
		return workflow.CreateSessionParams{}, vErr
	}

	return workflow.CreateSessionParams{
		CreatorID:       creatorID,
		Title:           req.Title,
		Participants:    req.Participants,
		WindowStart:     windowStart,
		WindowEnd:       windowEnd,
		DurationMinutes: req.DurationMinutes,
		HoldTTL:         holdTTL,
		MaxCandidates:   req.MaxCandidates,
	}, nil
}

func toSessionResponse(session workflow.Session) sessionResponse {
	candidates := make([]candidateResponse, 0, len(session.Candidates))
	for _, candidate := range session.Candidates {
		candidates = append(candidates, toCandidateResponse(candidate))
	}
	holds := make([]holdResponse, 0, len(session.Holds))
	for _, item := range session.Holds {
		holds = append(holds, toHoldResponse(item))
	}
	return sessionResponse{
		SessionID:            session.SessionID,
		CreatorID:            session.CreatorID,
		Title:                session.Title,
		Participants:         session.Participants,
		Status:               string(session.Status),
		WindowStart:          session.WindowStart.UTC().Format(time.RFC3339),
		WindowEnd:            session.WindowEnd.UTC().Format(time.RFC3339),
		DurationMinutes:      session.DurationMinutes,
		CommittedCandidateID: session.CommittedCandidateID,
		Candidates:           candidates,
		Holds:                holds,
		CreatedAt:            session.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            session.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toCandidateResponse(candidate workflow.Candidate) candidateResponse {
	return candidateResponse{
		CandidateID: candidate.CandidateID,
		Start:       candidate.Start.UTC().Format(time.RFC3339),
		End:         candidate.End.UTC().Format(time.RFC3339),
		Score:       candidate.Score,
		Explanation: candidate.Explanation,
	}
}

func toHoldResponse(item hold.Hold) holdResponse {
	return holdResponse{
		HoldID:          item.ID,
		SessionID:       item.SessionID,
		AccountID:       item.AccountID,
		Start:           item.Start.UTC().Format(time.RFC3339),
		End:             item.End.UTC().Format(time.RFC3339),
		Status:          string(item.Status),
		ProviderEventID: item.ProviderEventID,
		ExpiresAt:       item.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
