package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/jobs"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. redisCache may be nil.
func NewServer(port string, db *store.Database, redisCache *cache.RedisCache, jobsSvc *jobs.Service, corsOrigins []string, logger *logrus.Logger) *Server {
	handler := NewHandler(db, redisCache)
	jobsHandler := NewJobsHandler(jobsSvc)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware(corsOrigins))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Players
	api.HandleFunc("/players/{playerID}/stats", handler.GetPlayerSeason).Methods("GET")
	api.HandleFunc("/players/{playerID}/splits", handler.GetPlayerSplits).Methods("GET")

	// Week-level tables
	api.HandleFunc("/weeks/{week}/scores", handler.GetWeekScores).Methods("GET")
	api.HandleFunc("/weeks/{week}/usage", handler.GetWeekUsage).Methods("GET")
	api.HandleFunc("/weeks/{week}/splits", handler.GetWeekSplits).Methods("GET")

	// Teams
	api.HandleFunc("/teams/{team}/context", handler.GetTeamContext).Methods("GET")
	api.HandleFunc("/teams/{team}/depth-chart", handler.GetDepthChart).Methods("GET")

	// Schedule
	api.HandleFunc("/schedule", handler.GetSchedule).Methods("GET")

	// ETL job operations
	api.HandleFunc("/jobs", jobsHandler.HandleEnqueue).Methods("POST")
	api.HandleFunc("/jobs/status", jobsHandler.HandleStatus).Methods("GET")
	api.HandleFunc("/jobs/{jobID}", jobsHandler.HandleGetJob).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
