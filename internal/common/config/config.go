package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/common/constants"
	commonerrors "github.com/AlibekovAA/ocr-notes/internal/common/errors"
)

type APIConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	JWTLifetime    time.Duration
	BcryptCost     int
	RequestTimeout time.Duration
	MaxUploadSize  int64
	OCR            OCRConfig
	S3             S3Config
	Log            LogConfig
	Telemetry      TelemetryConfig
}

type LogConfig struct {
	Dir   string
	Level string
}

type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

func (c TelemetryConfig) Enabled() bool {
	return c.Endpoint != ""
}

type OCRConfig struct {
	Language    string
	EngineMode  int
	PageSegMode int
	Timeout     time.Duration
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

func LoadAPIConfig() (APIConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET_KEY")
	if err != nil {
		return APIConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return APIConfig{}, err
	}

	lifetime := constants.DefaultJWTLifetime
	if raw, ok := os.LookupEnv("JWT_LIFETIME"); ok && raw != "" {
		lifetime, err = ParseLifetime(raw)
		if err != nil {
			return APIConfig{}, commonerrors.ErrInvalidConfigValue.WithCause(fmt.Errorf("JWT_LIFETIME: %w", err))
		}
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return APIConfig{}, err
	}

	return APIConfig{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		JWTLifetime:    lifetime,
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		MaxUploadSize:  getInt64Env("MAX_UPLOAD_SIZE", constants.DefaultMaxUploadSize),
		OCR: OCRConfig{
			Language:    getEnv("OCR_LANG", constants.DefaultOCRLanguage),
			EngineMode:  getIntEnv("OCR_ENGINE_MODE", constants.DefaultOCREngineMode),
			PageSegMode: getIntEnv("OCR_PAGE_SEG_MODE", constants.DefaultOCRPageSegMode),
			Timeout:     getDurationEnv("OCR_TIMEOUT", constants.DefaultOCRTimeout),
		},
		S3: S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", constants.DefaultLogDir),
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		Telemetry: TelemetryConfig{
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure: getEnv("OTEL_EXPORTER_OTLP_INSECURE", "") == "true",
		},
	}, nil
}

// ParseLifetime accepts a Go duration ("90m", "24h"), a day count ("7d")
// or a bare number of seconds ("3600").
func ParseLifetime(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty lifetime")
	}

	var d time.Duration
	switch {
	case strings.HasSuffix(raw, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", raw)
		}
		d = time.Duration(days) * 24 * time.Hour
	default:
		if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
			d = time.Duration(secs) * time.Second
			break
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return 0, err
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("lifetime must be positive, got %q", raw)
	}
	return d, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
