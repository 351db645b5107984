// Package server exposes the optimizer and scoring operations as a JSON API
// for dashboards.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/omarshaarawi/lineupcoach/internal/models"
	"github.com/omarshaarawi/lineupcoach/internal/service"
)

// Service is the league-backed part of the fantasy service used by the API.
type Service interface {
	OptimalLineup(ctx context.Context, week int) (service.LineupReport, error)
	RankFreeAgents(ctx context.Context, pos models.Position, threshold float64) (service.FreeAgentReport, error)
	RecordResult(ctx context.Context, week int, actual float64) (models.LogEntry, error)
	Entries() ([]models.LogEntry, error)
	Slots() models.SlotRequirements
	Threshold() float64
}

type Server struct {
	engine *gin.Engine
	srv    *http.Server
}

func New(addr string, svc Service) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	h := &handler{svc: svc}
	engine.GET("/health", h.health)

	api := engine.Group("/api")
	api.POST("/optimize", h.optimize)
	api.POST("/verdict", h.verdict)
	api.POST("/trade/compare", h.compareTrade)
	api.GET("/lineup", h.lineup)
	api.GET("/freeagents", h.freeAgents)
	api.GET("/log", h.history)
	api.POST("/log", h.logResult)

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error starting HTTP server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
