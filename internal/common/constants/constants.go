package constants

import "time"

const (
	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20
	DefaultMaxUploadSize  = 10 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 60 * time.Second
	ServerWriteTimeout      = 90 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "3001"
	DefaultRequestTimeout = 5 * time.Second
	DefaultJWTLifetime    = 24 * time.Hour
	DefaultBcryptCost     = 10

	DefaultOCRLanguage    = "eng"
	DefaultOCREngineMode  = 1
	DefaultOCRPageSegMode = 3
	DefaultOCRTimeout     = 60 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.2
	RateLimitRegisterBurst             = 3
	RateLimitUploadRequestsPerSecond   = 0.5
	RateLimitUploadBurst               = 5
	RateLimitGeneralRequestsPerSecond  = 10.0
	RateLimitGeneralBurst              = 20

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
	DefaultLogDir    = "/var/log/ocr-notes"

	TestJWTSecret  = "test-secret-key-must-be-at-least-32-bytes-long"
	TestTokenTTL   = 15 * time.Minute
	TestBcryptCost = 4
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
