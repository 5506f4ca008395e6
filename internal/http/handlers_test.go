package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/meeting-coordinator/internal/hold"
	"github.com/example/meeting-coordinator/internal/workflow"
)

type stubService struct {
	createFn     func(ctx context.Context, params workflow.CreateSessionParams) (workflow.Session, error)
	getFn        func(ctx context.Context, sessionID string) (workflow.Session, error)
	candidatesFn func(ctx context.Context, sessionID string) ([]workflow.Candidate, error)
	holdsFn      func(ctx context.Context, sessionID string) ([]hold.Hold, error)
	commitFn     func(ctx context.Context, userID, sessionID, candidateID string) (workflow.Session, error)
	cancelFn     func(ctx context.Context, userID, sessionID string) (workflow.Session, error)
}

func (s *stubService) CreateSession(ctx context.Context, params workflow.CreateSessionParams) (workflow.Session, error) {
	return s.createFn(ctx, params)
}

func (s *stubService) GetSession(ctx context.Context, sessionID string) (workflow.Session, error) {
	if s.getFn == nil {
		return workflow.Session{SessionID: sessionID, Status: workflow.StatusCandidatesReady}, nil
	}
	return s.getFn(ctx, sessionID)
}

func (s *stubService) GetCandidates(ctx context.Context, sessionID string) ([]workflow.Candidate, error) {
	return s.candidatesFn(ctx, sessionID)
}

func (s *stubService) GetHoldsBySession(ctx context.Context, sessionID string) ([]hold.Hold, error) {
	return s.holdsFn(ctx, sessionID)
}

func (s *stubService) CommitCandidate(ctx context.Context, userID, sessionID, candidateID string) (workflow.Session, error) {
	return s.commitFn(ctx, userID, sessionID, candidateID)
}

func (s *stubService) CancelSession(ctx context.Context, userID, sessionID string) (workflow.Session, error) {
	return s.cancelFn(ctx, userID, sessionID)
}

func newTestRouter(service SchedulingService) http.Handler {
	return NewRouter(RouterConfig{
		Sessions: NewSessionHandler(service, nil),
		Middleware: []func(http.Handler) http.Handler{
			RequirePrincipal(nil),
		},
	})
}

func sampleSession() workflow.Session {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return workflow.Session{
		SessionID:       "ses_1",
		CreatorID:       "alice",
		Title:           "Design review",
		Participants:    []string{"alice", "bob"},
		Status:          workflow.StatusCandidatesReady,
		WindowStart:     start,
		WindowEnd:       start.Add(24 * time.Hour),
		DurationMinutes: 60,
		Candidates: []workflow.Candidate{{
			CandidateID: "cand_1",
			Start:       start,
			End:         start.Add(time.Hour),
			Score:       55,
			Explanation: "morning slot within working hours",
		}},
		CreatedAt: start,
		UpdatedAt: start,
	}
}

func TestSessionHandlers(t *testing.T) {
	t.Parallel()

	t.Run("create returns the new session with candidates", func(t *testing.T) {
		t.Parallel()

		var captured workflow.CreateSessionParams
		service := &stubService{
			createFn: func(_ context.Context, params workflow.CreateSessionParams) (workflow.Session, error) {
				captured = params
				return sampleSession(), nil
			},
		}

		body := `{
			"title": "Design review",
			"participants": ["bob"],
			"window_start": "2025-03-03T00:00:00Z",
			"window_end": "2025-03-04T00:00:00Z",
			"duration_minutes": 60,
			"hold_ttl": "2h"
		}`
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
		req.Header.Set(principalHeader, "alice")
		recorder := httptest.NewRecorder()

		newTestRouter(service).ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if captured.CreatorID != "alice" {
			t.Fatalf("expected creator from principal header, got %q", captured.CreatorID)
		}
		if captured.HoldTTL != 2*time.Hour {
			t.Fatalf("expected parsed hold TTL, got %v", captured.HoldTTL)
		}

		var payload sessionResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload.SessionID != "ses_1" || len(payload.Candidates) != 1 {
			t.Fatalf("unexpected payload %+v", payload)
		}
	})

	t.Run("create rejects malformed timestamps with field errors", func(t *testing.T) {
		t.Parallel()

		service := &stubService{
			createFn: func(context.Context, workflow.CreateSessionParams) (workflow.Session, error) {
				t.Fatal("service should not be called for invalid input")
				return workflow.Session{}, nil
			},
		}

		body := `{"window_start": "tomorrow", "window_end": "later", "duration_minutes": 60}`
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
		req.Header.Set(principalHeader, "alice")
		recorder := httptest.NewRecorder()

		newTestRouter(service).ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", recorder.Code)
		}
		var payload errorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if _, ok := payload.Errors["window_start"]; !ok {
			t.Fatalf("expected window_start field error, got %v", payload.Errors)
		}
	})

	t.Run("requests without a principal header are rejected", func(t *testing.T) {
		t.Parallel()

		service := &stubService{}
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()

		newTestRouter(service).ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("commit maps sentinel errors to status codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{"non-participant", workflow.ErrUnauthorized, http.StatusForbidden},
			{"unknown candidate", workflow.ErrNotFound, http.StatusNotFound},
			{"terminal session", &workflow.SessionStateError{SessionID: "ses_1", Status: workflow.StatusExpired}, http.StatusConflict},
			{"owner outage", &workflow.DependencyError{UserID: "bob", Op: "create event"}, http.StatusBadGateway},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				service := &stubService{
					commitFn: func(context.Context, string, string, string) (workflow.Session, error) {
						return workflow.Session{}, tc.err
					},
				}

				req := httptest.NewRequest(http.MethodPost, "/sessions/ses_1/commit", strings.NewReader(`{"candidate_id":"cand_1"}`))
				req.Header.Set(principalHeader, "alice")
				recorder := httptest.NewRecorder()

				newTestRouter(service).ServeHTTP(recorder, req)

				if recorder.Code != tc.expectedStatus {
					t.Fatalf("expected %d, got %d: %s", tc.expectedStatus, recorder.Code, recorder.Body.String())
				}
			})
		}
	})

	t.Run("commit passes the principal as the committing user", func(t *testing.T) {
		t.Parallel()

		var gotUser, gotCandidate string
		service := &stubService{
			commitFn: func(_ context.Context, userID, _, candidateID string) (workflow.Session, error) {
				gotUser = userID
				gotCandidate = candidateID
				committed := sampleSession()
				committed.Status = workflow.StatusCommitted
				return committed, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/sessions/ses_1/commit", strings.NewReader(`{"candidate_id":"cand_1"}`))
		req.Header.Set(principalHeader, "bob")
		recorder := httptest.NewRecorder()

		newTestRouter(service).ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if gotUser != "bob" || gotCandidate != "cand_1" {
			t.Fatalf("expected bob/cand_1, got %s/%s", gotUser, gotCandidate)
		}
	})

	t.Run("candidates list is served for known sessions", func(t *testing.T) {
		t.Parallel()

		service := &stubService{
			candidatesFn: func(_ context.Context, sessionID string) ([]workflow.Candidate, error) {
				if sessionID != "ses_1" {
					t.Fatalf("unexpected session id %q", sessionID)
				}
				return sampleSession().Candidates, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/sessions/ses_1/candidates", nil)
		req.Header.Set(principalHeader, "alice")
		recorder := httptest.NewRecorder()

		newTestRouter(service).ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		var payload []candidateResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(payload) != 1 || payload[0].CandidateID != "cand_1" {
			t.Fatalf("unexpected payload %+v", payload)
		}
	})

	t.Run("holds expose synthetic account tokens only", func(t *testing.T) {
		t.Parallel()

		expiry := time.Date(2025, 3, 3, 13, 0, 0, 0, time.UTC)
		service := &stubService{
			holdsFn: func(context.Context, string) ([]hold.Hold, error) {
				return []hold.Hold{{
					ID:        "hld_1",
					SessionID: "ses_1",
					AccountID: "group_a1b2c3d4e5f6",
					Start:     expiry.Add(-4 * time.Hour),
					End:       expiry.Add(-3 * time.Hour),
					ExpiresAt: expiry,
					Status:    hold.StatusHeld,
				}}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/sessions/ses_1/holds", nil)
		req.Header.Set(principalHeader, "alice")
		recorder := httptest.NewRecorder()

		newTestRouter(service).ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		var payload []holdResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(payload) != 1 || !strings.HasPrefix(payload[0].AccountID, "group_") {
			t.Fatalf("unexpected payload %+v", payload)
		}
	})

	t.Run("unknown actions and methods are rejected", func(t *testing.T) {
		t.Parallel()

		service := &stubService{}
		router := newTestRouter(service)

		req := httptest.NewRequest(http.MethodDelete, "/sessions/ses_1/commit", nil)
		req.Header.Set(principalHeader, "alice")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/sessions/ses_1/unknown", nil)
		req.Header.Set(principalHeader, "alice")
		recorder = httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
	})

	t.Run("health endpoint bypasses authentication", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		recorder := httptest.NewRecorder()

		newTestRouter(&stubService{}).ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
	})
}
