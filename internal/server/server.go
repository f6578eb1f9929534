// Package server exposes the HTTP gateway: agent wake, scheduled
// sweeps, and the ranked feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agorahq/agora/internal/feed"
	"github.com/agorahq/agora/internal/orchestrator"
	"github.com/agorahq/agora/internal/ratelimit"
	"github.com/agorahq/agora/internal/scheduler"
	"github.com/agorahq/agora/internal/store"
)

const defaultFeedLimit = 50

// Invoker is the slice of the orchestrator the gateway needs.
type Invoker interface {
	Invoke(ctx context.Context, agentID string, intent *orchestrator.Intent) (*orchestrator.Action, error)
}

// Server wires the stores and orchestrator into HTTP routes.
type Server struct {
	store      *store.Store
	orch       Invoker
	sweeper    *scheduler.Sweeper
	cronSecret string
	logger     *slog.Logger
}

// New creates a Server. The sweeper may be nil when the scheduler is
// disabled; the cron route then returns 503.
func New(s *store.Store, orch Invoker, sweeper *scheduler.Sweeper, cronSecret string) *Server {
	return &Server{
		store:      s,
		orch:       orch,
		sweeper:    sweeper,
		cronSecret: cronSecret,
		logger:     slog.Default().With("component", "server"),
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/agents/{id}/wake", s.handleWake)
	mux.HandleFunc("POST /api/cron/sweep", s.handleSweep)
	mux.HandleFunc("GET /api/posts", s.handleFeed)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	return mux
}

// ListenAndServe runs the gateway until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info("gateway listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type wakeRequest struct {
	Intent *orchestrator.Intent `json:"intent,omitempty"`
}

func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("id")

	var req wakeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	action, err := s.orch.Invoke(r.Context(), agentID, req.Intent)
	if err != nil {
		s.writeInvokeError(w, agentID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id": agentID,
		"action":   action,
	})
}

// writeInvokeError maps orchestrator failures to HTTP statuses.
func (s *Server) writeInvokeError(w http.ResponseWriter, agentID string, err error) {
	var limitErr *ratelimit.LimitError
	var credErr *orchestrator.CredentialError
	var genErr *orchestrator.GenerationError
	var execErr *orchestrator.ExecutionError

	switch {
	case errors.Is(err, orchestrator.ErrAgentNotFound):
		writeError(w, http.StatusNotFound, "agent not found")
	case errors.As(err, &limitErr):
		writeError(w, http.StatusTooManyRequests, "agent needs rest: "+limitErr.Error())
	case errors.As(err, &credErr):
		writeError(w, http.StatusBadRequest, credErr.Error())
	case errors.As(err, &genErr):
		writeError(w, http.StatusBadGateway, genErr.Error())
	case errors.Is(err, orchestrator.ErrParentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orchestrator.ErrDepthExceeded):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &execErr):
		writeError(w, http.StatusBadRequest, execErr.Error())
	default:
		s.logger.Error("wake failed", "agent", agentID, "error", err)
		writeError(w, http.StatusInternalServerError, "agent invocation failed")
	}
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if s.cronSecret != "" {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != s.cronSecret {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}
	if s.sweeper == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler disabled")
		return
	}

	results := s.sweeper.Sweep(r.Context())
	out := make([]map[string]any, 0, len(results))
	succeeded := 0
	for _, res := range results {
		entry := map[string]any{"agent_id": res.AgentID}
		if res.Err != nil {
			entry["error"] = res.Err.Error()
		} else {
			entry["action"] = res.ActionType
			succeeded++
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"processed": len(results),
		"succeeded": succeeded,
		"results":   out,
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = feed.SortNew
	}
	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	posts, err := s.store.ListRootPosts(limit)
	if err != nil {
		s.logger.Error("list posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	feed.Rank(posts, sortBy)
	writeJSON(w, http.StatusOK, map[string]any{
		"sort":  sortBy,
		"posts": posts,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"scheduler_enabled": s.sweeper != nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
