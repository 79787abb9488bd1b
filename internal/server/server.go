package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"boardgame-tracker/internal/config"
	"boardgame-tracker/internal/service"
	"boardgame-tracker/internal/stats"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server exposes the analytics and sync services as JSON endpoints. Report
// payloads are numeric/structured data only; rendering belongs to clients.
type Server struct {
	statsSvc *service.StatsService
	syncSvc  *service.SyncService
	games    service.GameStore
	plays    service.PlayStore
	cfg      *config.Config
	logger   zerolog.Logger
}

func New(statsSvc *service.StatsService, syncSvc *service.SyncService, games service.GameStore, plays service.PlayStore, cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{statsSvc: statsSvc, syncSvc: syncSvc, games: games, plays: plays, cfg: cfg, logger: logger}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Get("/plays", s.handleListPlays)
		r.Post("/sync", s.handleSync)
		r.Route("/stats", func(r chi.Router) {
			r.Get("/milestones", s.handleMilestones)
			r.Get("/cost-clubs", s.handleCostClubs)
			r.Get("/h-index", s.handleHIndex)
		})
	})
	return r
}

// yearParam parses ?year=; absence means all-time.
func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return stats.AllTime, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

func metricParam(r *http.Request) (stats.Metric, error) {
	switch r.URL.Query().Get("metric") {
	case "", "plays":
		return stats.MetricPlays, nil
	case "sessions":
		return stats.MetricSessions, nil
	case "hours":
		return stats.MetricHours, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", r.URL.Query().Get("metric"))
	}
}

func (s *Server) handleMilestones(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	metric, err := metricParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid metric")
		return
	}

	report, err := s.statsSvc.MilestoneReport(r.Context(), year, metric)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build milestone report")
		s.writeError(w, http.StatusInternalServerError, "failed to build milestone report")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCostClubs(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	metric, err := metricParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid metric")
		return
	}

	report, err := s.statsSvc.CostClubReport(r.Context(), year, metric)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build cost club report")
		s.writeError(w, http.StatusInternalServerError, "failed to build cost club report")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHIndex(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}

	report, err := s.statsSvc.HIndexReport(r.Context(), year)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build h-index report")
		s.writeError(w, http.StatusInternalServerError, "failed to build h-index report")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.games.ListWithCopies(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list games")
		s.writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}
	s.writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleListPlays(w http.ResponseWriter, r *http.Request) {
	plays, err := s.plays.List(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list plays")
		s.writeError(w, http.StatusInternalServerError, "failed to list plays")
		return
	}
	s.writeJSON(w, http.StatusOK, plays)
}

type syncRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		req.Username = s.cfg.BGGUsername
	}
	if req.Username == "" {
		s.writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	result, err := s.syncSvc.Sync(r.Context(), req.Username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", req.Username).Msg("sync failed")
		s.writeError(w, http.StatusBadGateway, "sync failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
