// Package httpapi exposes a counter session as a JSON API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/mala/internal/logging"
	"github.com/mesh-intelligence/mala/internal/session"
	"github.com/mesh-intelligence/mala/pkg/types"
)

// DefaultHistoryLimit applies when GET /history has no limit parameter.
const DefaultHistoryLimit = 50

// Counter is the session surface the API drives.
type Counter interface {
	Dispatch(ctx context.Context, cmd session.Command) (session.Result, error)
	Snapshot() types.Snapshot
	History(ctx context.Context, limit int) ([]types.HistoryEntry, error)
}

// Server serves the counter routes.
type Server struct {
	counter Counter
	log     *slog.Logger
	metrics http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for server-side failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the router for c.
func NewHandler(c Counter, opts ...Option) http.Handler {
	s := &Server{counter: c, log: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Route("/counter", func(r chi.Router) {
		r.Get("/", s.getCounter)
		r.Post("/increment", s.command(session.CmdIncrement))
		r.Post("/decrement", s.command(session.CmdDecrement))
		r.With(requireConfirm).Post("/reset", s.command(session.CmdResetCount))
		r.With(requireConfirm).Post("/reset-cycle", s.command(session.CmdResetCycle))
		r.Put("/cycle-size", s.setting(session.CmdSetCycleSize))
		r.Put("/goal", s.setting(session.CmdSetGoal))
		r.Put("/feedback", s.setting(session.CmdSetFeedback))
		r.Put("/mode", s.setting(session.CmdSwitchMode))
	})
	r.Get("/history", s.getHistory)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// counterResponse is the body of every counter route.
type counterResponse struct {
	State         types.Snapshot `json:"state"`
	Progress      types.Progress `json:"progress"`
	Changed       *bool          `json:"changed,omitempty"`
	Notifications []string       `json:"notifications,omitempty"`
}

type settingRequest struct {
	Value json.RawMessage `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) getCounter(w http.ResponseWriter, r *http.Request) {
	snap := s.counter.Snapshot()
	s.writeJSON(w, http.StatusOK, counterResponse{State: snap, Progress: snap.Progress()})
}

func (s *Server) command(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.dispatch(w, r, session.Command{Name: name})
	}
}

func (s *Server) setting(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body settingRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		arg, err := settingArg(body.Value)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.dispatch(w, r, session.Command{Name: name, Arg: arg})
	}
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, cmd session.Command) {
	res, err := s.counter.Dispatch(r.Context(), cmd)
	if err != nil {
		s.writeDispatchError(w, cmd, err)
		return
	}

	resp := counterResponse{
		State:    res.State,
		Progress: res.Progress,
		Changed:  &res.Changed,
	}
	for _, e := range res.Events {
		switch e.Kind {
		case types.EventCycleCompleted:
			resp.Notifications = append(resp.Notifications, types.AchievementText(e.State.Mode, e.State.CycleSize))
		case types.EventGoalReached:
			resp.Notifications = append(resp.Notifications, types.GoalText(e.State.CompletedCycles))
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	limit := DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.counter.History(r.Context(), limit)
	if err != nil {
		s.log.Error("reading history", "error", err)
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if entries == nil {
		entries = []types.HistoryEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// requireConfirm rejects destructive requests without confirm=true.
func requireConfirm(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusPreconditionRequired)
			_ = json.NewEncoder(w).Encode(errorResponse{Error: "reset requires confirm=true"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// settingArg turns a JSON scalar into a dispatch argument. Numbers must be
// whole: 1e2 and 50.0 pass as "100" and "50", 50.5 is rejected.
func settingArg(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("value is required")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("invalid value: %w", err)
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return wholeNumber(v)
	}
	return "", errors.New("value must be a string, number or boolean")
}

// maxExactFloat is the largest magnitude a float64 holds without losing
// integer precision.
const maxExactFloat = 1 << 53

func wholeNumber(n json.Number) (string, error) {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
		return "", fmt.Errorf("value must be a whole number, got %s", n)
	}
	return strconv.FormatInt(int64(f), 10), nil
}

func (s *Server) writeDispatchError(w http.ResponseWriter, cmd session.Command, err error) {
	switch {
	case errors.Is(err, types.ErrOutOfRange):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, session.ErrInvalidArgument), errors.Is(err, types.ErrInvalidMode):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error("dispatching command", "command", cmd.Name, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", "error", err)
	}
}
