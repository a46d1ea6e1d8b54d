package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/eldadfux/isAWSback/internal/constants"
)

// CORSMiddleware handles cross-origin requests; the status endpoint is
// consumed by browser pages hosted on other origins.
type CORSMiddleware struct {
	allowedOrigins []string
	allowedMethods []string
	allowedHeaders []string
	maxAge         int
}

func NewCORSMiddleware(origins, methods, headers []string, maxAge int) *CORSMiddleware {
	return &CORSMiddleware{
		allowedOrigins: origins,
		allowedMethods: methods,
		allowedHeaders: headers,
		maxAge:         maxAge,
	}
}

func (c *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && c.originAllowed(origin) {
			allowed := origin
			for _, o := range c.allowedOrigins {
				if o == "*" {
					allowed = "*"
					break
				}
			}
			w.Header().Set(constants.HeaderAccessControlAllowOrigin, allowed)
			w.Header().Set(constants.HeaderAccessControlAllowMethods, strings.Join(c.allowedMethods, ", "))
			w.Header().Set(constants.HeaderAccessControlAllowHeaders, strings.Join(c.allowedHeaders, ", "))
			w.Header().Set(constants.HeaderAccessControlMaxAge, strconv.Itoa(c.maxAge))
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (c *CORSMiddleware) originAllowed(origin string) bool {
	for _, o := range c.allowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
