package server

import (
	"net/http"

	"github.com/eldadfux/isAWSback/internal/server/middleware"
)

// applyMiddleware applies the complete middleware chain to the handler
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	// Applied in reverse order

	if s.config.Security.CORS.Enabled {
		corsMiddleware := middleware.NewCORSMiddleware(
			s.config.Security.CORS.AllowedOrigins,
			s.config.Security.CORS.AllowedMethods,
			s.config.Security.CORS.AllowedHeaders,
			s.config.Security.CORS.MaxAge,
		)
		handler = corsMiddleware.Handler(handler)
	}

	if s.config.Security.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			s.config.Security.RateLimit.RequestsPerSecond,
			s.config.Security.RateLimit.BurstSize,
		)
		handler = rateLimiter.Middleware(handler)
	}

	handler = middleware.LoggingMiddleware(s.logger.Logger)(handler)

	return handler
}
