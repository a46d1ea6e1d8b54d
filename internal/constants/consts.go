package constants

import "time"

// Environment variable constants
const (
	EnvHost            = "IS_AWS_BACK_HOST"
	EnvPort            = "IS_AWS_BACK_PORT"
	EnvMetricsPort     = "IS_AWS_BACK_METRICS_PORT"
	EnvReadTimeout     = "IS_AWS_BACK_READ_TIMEOUT"
	EnvWriteTimeout    = "IS_AWS_BACK_WRITE_TIMEOUT"
	EnvIdleTimeout     = "IS_AWS_BACK_IDLE_TIMEOUT"
	EnvShutdownTimeout = "IS_AWS_BACK_SHUTDOWN_TIMEOUT"
	EnvFeedURL         = "IS_AWS_BACK_FEED_URL"
	EnvFetchTimeout    = "IS_AWS_BACK_FETCH_TIMEOUT"
	EnvFreshness       = "IS_AWS_BACK_FRESHNESS"
	EnvUserAgent       = "IS_AWS_BACK_USER_AGENT"
	EnvHotReload       = "IS_AWS_BACK_HOT_RELOAD"
	EnvLogLevel        = "IS_AWS_BACK_LOG_LEVEL"
)

// HTTP header constants
const (
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderAcceptCharset = "Accept-Charset"
	HeaderUserAgent     = "User-Agent"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// Content type constants
const (
	ContentTypeJSON = "application/json"
)

// CORS headers
const (
	HeaderAccessControlAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders = "Access-Control-Allow-Headers"
	HeaderAccessControlMaxAge       = "Access-Control-Max-Age"
)

// Rate limiting headers
const (
	HeaderXRateLimitLimit     = "X-RateLimit-Limit"
	HeaderXRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRetryAfter          = "Retry-After"
)

// Rate limiter internal constants
const (
	// RateLimitCleanupInterval is the interval for cleaning up the rate limit cache
	RateLimitCleanupInterval = 5 * time.Minute
	// RateLimitMaxCacheSize is the maximum size of the rate limit cache
	RateLimitMaxCacheSize = 10000
)

// Feed acquisition defaults
const (
	// DefaultFeedURL is the public incident feed of the monitored platform
	DefaultFeedURL = "https://status.aws.amazon.com/currentevents.json"
	// DefaultFetchTimeout bounds a single feed fetch attempt
	DefaultFetchTimeout = 8 * time.Second
	// DefaultFreshness is how long a cached verdict is served without refetching
	DefaultFreshness = 10 * time.Second
	// DefaultUserAgent identifies this service to the upstream feed
	DefaultUserAgent = "isAWSback/1.0 (+https://github.com/eldadfux/isAWSback)"
)

// Server timeout constants
const (
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 15 * time.Second
	ServerIdleTimeout     = 60 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Path constants
const (
	PathStatus  = "/api/status"
	PathHealth  = "/health"
	PathReady   = "/ready"
	PathMetrics = "/metrics"
)
