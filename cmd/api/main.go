package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/ocr-notes/internal/auth/http"
	authservice "github.com/AlibekovAA/ocr-notes/internal/auth/service"
	"github.com/AlibekovAA/ocr-notes/internal/common/bootstrap"
	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	"github.com/AlibekovAA/ocr-notes/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/ocr-notes/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/ocr-notes/internal/common/http"
	"github.com/AlibekovAA/ocr-notes/internal/common/jwtverify"
	srv "github.com/AlibekovAA/ocr-notes/internal/common/server"
	"github.com/AlibekovAA/ocr-notes/internal/common/telemetry"
	ocrhttp "github.com/AlibekovAA/ocr-notes/internal/ocr/http"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/recognizer"
	ocrservice "github.com/AlibekovAA/ocr-notes/internal/ocr/service"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/storage"
)

const serviceName = "api"

func main() {
	ctx := context.Background()

	app, err := bootstrap.NewAPIApp(ctx, serviceName)
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to start %s: %v\n", serviceName, err))
		os.Exit(1)
	}
	log := app.Log
	cfg := app.Config

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, "ocr-notes-"+serviceName, log)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}

	clk := clock.NewRealClock()
	idGenerator := commoncrypto.NewUUIDGenerator()
	tokenIssuer := authservice.NewTokenIssuer(cfg.JWTSecret, clk)

	authService := authservice.NewAuthService(
		authservice.AuthServiceDeps{
			Repo:        app.UserRepo,
			Hasher:      commoncrypto.NewBcryptHasher(cfg.BcryptCost),
			IDGenerator: idGenerator,
			Tokens:      tokenIssuer,
			Clock:       clk,
			Log:         log,
		},
		authservice.AuthServiceConfig{
			TokenTTL: cfg.JWTLifetime,
		},
	)

	tesseract, err := recognizer.NewTesseractRecognizer(recognizer.Options{
		Language:    cfg.OCR.Language,
		EngineMode:  cfg.OCR.EngineMode,
		PageSegMode: cfg.OCR.PageSegMode,
	})
	if err != nil {
		log.Fatalf("failed to configure recognizer: %v", err)
	}

	var archive storage.ImageArchive
	if cfg.S3.Enabled() {
		s3Archive, err := storage.NewS3Archive(ctx, cfg.S3, idGenerator, clk)
		if err != nil {
			log.Fatalf("failed to configure image archive: %v", err)
		}
		archive = s3Archive
		log.Infof("image archive enabled: bucket=%s", cfg.S3.Bucket)
	}

	ocrService := ocrservice.NewOCRService(
		ocrservice.OCRServiceDeps{
			Recognizer:  tesseract,
			Repo:        app.ResultRepo,
			Archive:     archive,
			IDGenerator: idGenerator,
			Clock:       clk,
			Log:         log,
		},
		ocrservice.OCRServiceConfig{
			RecognitionTimeout: cfg.OCR.Timeout,
			StorageTimeout:     cfg.RequestTimeout,
		},
	)

	rateLimiter := commonhttp.NewStrictRateLimiter()

	mux := http.NewServeMux()
	mux.HandleFunc("/", commonhttp.RootHandler())
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	authhttp.NewHandler(authService, cfg.RequestTimeout, log).RegisterRoutes(mux, rateLimiter)
	ocrhttp.NewHandler(ocrService, cfg.MaxUploadSize, log).
		RegisterRoutes(mux, rateLimiter, jwtverify.Middleware(tokenIssuer, log))

	baseHandler := commonhttp.BuildBaseHandler(serviceName, log, cfg.MaxUploadSize+constants.DefaultMaxRequestSize, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort, cfg.OCR.Timeout)
	server := srv.NewServer(serverConfig, baseHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			rateLimiter.Stop()
			return nil
		},
		func(ctx context.Context) error {
			return shutdownTracing(ctx)
		},
		func(ctx context.Context) error {
			log.Infof("%s service: closing database pool", serviceName)
			return app.Close()
		},
	}

	if err := srv.StartWithGracefulShutdownAndHooks(server, log, serviceName, shutdownHooks); err != nil {
		os.Exit(1)
	}
}
