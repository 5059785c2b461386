package server

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/common/constants"
)

type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// DefaultServerConfig stretches the write timeout when OCR may take longer
// than the default, so a slow recognition is not cut off mid-response.
func DefaultServerConfig(port string, ocrTimeout time.Duration) ServerConfig {
	writeTimeout := constants.ServerWriteTimeout
	if minWrite := ocrTimeout + 30*time.Second; minWrite > writeTimeout {
		writeTimeout = minWrite
	}

	return ServerConfig{
		Addr:              ":" + port,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
	}
}

func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
