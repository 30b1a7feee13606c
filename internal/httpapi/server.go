// internal/httpapi/server.go
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/service"
	"github.com/rovshanmuradov/tokenstats/internal/types"
)

// Backend is the service surface the API exposes.
type Backend interface {
	Stats(ctx context.Context) (*types.TokenStatistics, error)
	Holders(ctx context.Context) (*types.HolderTable, error)
	Chart(ctx context.Context, r types.TimeRange) ([]types.PricePoint, error)
}

// Config holds server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	MaxAge         time.Duration
}

// Server serves the token statistics API.
type Server struct {
	cfg     Config
	backend Backend
	mux     *http.ServeMux
	handler http.Handler
	logger  *zap.Logger
}

// New registers every route and wraps the mux with CORS.
func New(cfg Config, backend Backend, logger *zap.Logger) *Server {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 30 * time.Second
	}

	s := &Server{
		cfg:     cfg,
		backend: backend,
		mux:     http.NewServeMux(),
		logger:  logger.Named("httpapi"),
	}

	s.mux.HandleFunc("/healthz", s.healthz)
	s.mux.HandleFunc("/api/token-data", s.wrap(s.handleTokenData))
	s.mux.HandleFunc("/api/token-price", s.wrap(s.handleTokenData))
	s.mux.HandleFunc("/api/token-history", s.wrap(s.handleTokenHistory))
	s.mux.HandleFunc("/api/holders", s.wrap(s.handleHolders))

	s.handler = cors.New(cors.Options{
		AllowedOrigins:       cfg.AllowedOrigins,
		AllowedMethods:       []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type"},
		OptionsSuccessStatus: http.StatusOK,
	}).Handler(s.mux)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down HTTP API")
		return srv.Shutdown(shutdownCtx)
	}
}

// wrap enforces GET, answers bare OPTIONS and sets JSON headers.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		switch r.Method {
		case http.MethodGet:
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		default:
			s.writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method Not Allowed"})
			return
		}
		w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(s.cfg.MaxAge.Seconds())))
		next(w, r)
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write response", zap.Error(err))
	}
}

// writeError maps domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrConfigurationMissing):
		status = http.StatusServiceUnavailable
	case errors.Is(err, types.ErrNoDataAvailable), errors.Is(err, types.ErrSourceUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	s.logger.Warn("Request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

// ignoreStale treats a superseded result as a normal answer.
func ignoreStale(err error) error {
	if errors.Is(err, service.ErrStale) {
		return nil
	}
	return err
}
