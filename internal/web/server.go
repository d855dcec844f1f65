// Package web serves the day plan over a JSON HTTP API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"workplate/internal/config"
	"workplate/internal/planner"
	"workplate/internal/timeline"
)

// Planner is the subset of the planner the API drives.
type Planner interface {
	Plan(ctx context.Context, date string) (*planner.DayPlan, error)
	MoveLunch(ctx context.Context, date, proposed string) (string, bool, error)
	Assign(ctx context.Context, date string, ordinal int, title string) (*planner.DayPlan, error)
	Unassign(ctx context.Context, date string, ordinal int) (*planner.DayPlan, error)
	Swap(ctx context.Context, date string, from, to int) (*planner.DayPlan, error)
	PlateTasks(ctx context.Context) ([]string, error)
}

type Server struct {
	logger      *slog.Logger
	planner     Planner
	settings    config.SettingsStore
	today       func() string
	pxPerMinute float64
}

// NewServer creates the API server. today supplies the date used when a
// request does not name one.
func NewServer(logger *slog.Logger, p Planner, settings config.SettingsStore, today func() string) *Server {
	return &Server{
		logger:      logger,
		planner:     p,
		settings:    settings,
		today:       today,
		pxPerMinute: timeline.DefaultPxPerMinute,
	}
}

// Handler returns the routed, CORS-enabled handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger), middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/plan", s.handleGetPlan)
		r.Post("/plan/lunch", s.handleMoveLunch)
		r.Post("/plan/assign", s.handleAssign)
		r.Post("/plan/swap", s.handleSwap)
		r.Get("/plate", s.handlePlate)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not found")
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info("Starting HTTP server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planner.Plan(r.Context(), s.dateOr(r.URL.Query().Get("date")))
	if err != nil {
		s.writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(plan, s.pxPerMinute))
}

func (s *Server) handleMoveLunch(w http.ResponseWriter, r *http.Request) {
	var req lunchRequest
	if !decode(w, r, &req) {
		return
	}
	start, accepted, err := s.planner.MoveLunch(r.Context(), s.dateOr(req.Date), req.Start)
	if err != nil {
		s.writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lunchResponse{LunchStart: start, Accepted: accepted})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !decode(w, r, &req) {
		return
	}
	var plan *planner.DayPlan
	var err error
	if req.Task == "" {
		plan, err = s.planner.Unassign(r.Context(), s.dateOr(req.Date), req.Ordinal)
	} else {
		plan, err = s.planner.Assign(r.Context(), s.dateOr(req.Date), req.Ordinal, req.Task)
	}
	if err != nil {
		s.writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(plan, s.pxPerMinute))
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if !decode(w, r, &req) {
		return
	}
	plan, err := s.planner.Swap(r.Context(), s.dateOr(req.Date), req.From, req.To)
	if err != nil {
		s.writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(plan, s.pxPerMinute))
}

func (s *Server) handlePlate(w http.ResponseWriter, r *http.Request) {
	titles, err := s.planner.PlateTasks(r.Context())
	if err != nil {
		s.writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plateResponse{Tasks: titles})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.LoadWork(r.Context(), s.settings)
	if err != nil {
		s.writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handlePutSettings applies the given fields on top of the current
// configuration.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.LoadWork(r.Context(), s.settings)
	if err != nil {
		s.writePlannerError(w, err)
		return
	}
	if !decode(w, r, &cfg) {
		return
	}
	if err := config.SaveWork(r.Context(), s.settings, cfg); err != nil {
		s.writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) dateOr(date string) string {
	if date == "" {
		return s.today()
	}
	return date
}

func (s *Server) writePlannerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planner.ErrInvalidDate),
		errors.Is(err, planner.ErrInvalidOrdinal),
		errors.Is(err, config.ErrInvalidSetting):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, planner.ErrFetch),
		errors.Is(err, planner.ErrNoProviders):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
