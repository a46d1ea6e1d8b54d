package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/eldadfux/isAWSback/internal/constants"
	"github.com/eldadfux/isAWSback/internal/observability"
)

// statusHandler serves the current verdict. This is the single outward
// query operation of the core; failures surface as an "unknown" verdict,
// never as an error response.
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, span := s.tracer.StartSpan(r.Context(), "get_status",
		attribute.String("http.method", r.Method),
		attribute.String("http.path", r.URL.Path),
	)
	defer span.End()

	if r.Method != http.MethodGet {
		s.sendErrorResponse(w, http.StatusMethodNotAllowed, "only GET is supported")
		s.metrics.RecordRequest(r.Method, constants.PathStatus, http.StatusMethodNotAllowed, time.Since(start))
		return
	}

	v := s.checker.GetStatus(ctx)
	span.SetAttributes(attribute.String("verdict.status", v.Status.String()))

	buf, err := json.Marshal(v)
	if err != nil {
		s.sendErrorResponse(w, http.StatusInternalServerError, err.Error())
		s.metrics.RecordRequest(r.Method, constants.PathStatus, http.StatusInternalServerError, time.Since(start))
		s.logger.Error("Failed to serialize verdict", zap.Error(err))
		return
	}

	s.sendJSONResponse(w, http.StatusOK, buf)
	s.metrics.RecordRequest(r.Method, constants.PathStatus, http.StatusOK, time.Since(start))
	s.logger.Debug("Status served",
		zap.String("status", v.Status.Answer()),
		zap.String("details", v.Details),
		zap.Duration("duration", time.Since(start)),
	)
}

// healthHandler handles health check requests
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.StartSpan(r.Context(), "health_check")
	defer span.End()

	health := observability.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(s.startTime).String(),
		Checks: map[string]bool{
			"checker": s.checker != nil,
		},
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// readinessHandler handles readiness check requests
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.StartSpan(r.Context(), "readiness_check")
	defer span.End()

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	if s.checker != nil {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
}

// rootHandler documents the available endpoints
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	doc := struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}{
		Message: "isAWSback status service",
		Version: "1.0.0",
		Endpoints: map[string]string{
			"status": constants.PathStatus,
			"health": constants.PathHealth,
			"ready":  constants.PathReady,
		},
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	_ = json.NewEncoder(w).Encode(doc)
}
