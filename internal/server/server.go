package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eldadfux/isAWSback/internal/config"
	"github.com/eldadfux/isAWSback/internal/constants"
	"github.com/eldadfux/isAWSback/internal/feed"
	"github.com/eldadfux/isAWSback/internal/observability"
	"github.com/eldadfux/isAWSback/internal/status"
)

type Server struct {
	config  *config.Config
	checker *status.Checker
	server  *http.Server

	logger    *observability.Logger
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	startTime time.Time
}

func New(cfg *config.Config) (*Server, error) {
	logger, err := observability.NewLogger(cfg.Observability.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics := observability.NewMetrics()
	if err := metrics.Register(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	tracer, err := observability.NewTracer(cfg.Observability.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	checker := status.New(
		BuildAcquirers(cfg.Feed, logger, metrics),
		cfg.Feed.Freshness,
		logger, metrics, tracer,
	)

	return &Server{
		config:    cfg,
		checker:   checker,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		startTime: time.Now(),
	}, nil
}

// BuildAcquirers wires the acquisition chain for the configured feed: the
// rich pipeline first, the minimal fallback second.
func BuildAcquirers(cfg config.FeedConfig, logger *observability.Logger, metrics *observability.Metrics) []feed.Acquirer {
	client := feed.NewClient(cfg.URL, cfg.UserAgent, cfg.FetchTimeout)
	return []feed.Acquirer{
		feed.NewPipeline(client, logger.Logger, metrics.DroppedEvents),
		feed.NewMinimal(client),
	}
}

// Metrics exposes the server metrics for collaborators wired in main.
func (s *Server) Metrics() *observability.Metrics {
	return s.metrics
}

// Checker exposes the verdict checker, used by hot reload to apply new
// tunables.
func (s *Server) Checker() *status.Checker {
	return s.checker
}

// Logger exposes the server logger for collaborators wired in main.
func (s *Server) Logger() *observability.Logger {
	return s.logger
}

// Handler builds the full HTTP handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(constants.PathStatus, s.statusHandler)
	mux.HandleFunc(constants.PathHealth, s.healthHandler)
	mux.HandleFunc(constants.PathReady, s.readinessHandler)
	mux.HandleFunc("/", s.rootHandler)

	return s.applyMiddleware(mux)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	s.logger.Info("Starting server",
		zap.String("host", s.config.Server.Host),
		zap.String("port", s.config.Server.Port),
		zap.String("feed_url", s.config.Feed.URL),
		zap.Duration("freshness", s.config.Feed.Freshness),
	)

	s.metrics.SetHealthStatus(true)

	var metricsServer *http.Server
	if s.config.Observability.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(s.config.Observability.Metrics.Path, s.metrics.Handler())
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%s", s.config.Server.MetricsPort),
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		s.logger.Info("Starting metrics server",
			zap.String("port", s.config.Server.MetricsPort),
		)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutting down server...")
	s.metrics.SetHealthStatus(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	if metricsServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metricsServer.Shutdown(ctx); err != nil {
				s.logger.Error("Failed to shutdown metrics server", zap.Error(err))
				errChan <- fmt.Errorf("metrics server shutdown: %w", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shutdown main server", zap.Error(err))
			errChan <- fmt.Errorf("main server shutdown: %w", err)
		}
	}()

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}
