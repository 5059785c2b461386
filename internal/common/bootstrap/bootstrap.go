package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/ocr-notes/internal/common/config"
	"github.com/AlibekovAA/ocr-notes/internal/common/constants"
	"github.com/AlibekovAA/ocr-notes/internal/common/db"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	ocrrepo "github.com/AlibekovAA/ocr-notes/internal/ocr/repository"
	userrepo "github.com/AlibekovAA/ocr-notes/internal/user/repository"
)

// App holds the process-wide dependencies shared by every feature package.
type App struct {
	Log        *logger.Logger
	Config     config.APIConfig
	Pool       *pgxpool.Pool
	UserRepo   userrepo.Repository
	ResultRepo ocrrepo.Repository

	stopMetrics context.CancelFunc
}

func NewAPIApp(ctx context.Context, serviceName string) (*App, error) {
	log, err := initializeLogger(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		_ = log.Close()
		return nil, err
	}
	log.SetLevel(cfg.Log.Level)

	app, err := initializeApp(ctx, log, cfg)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	return app, nil
}

// Close stops background pool metrics and releases the pool and log file.
func (a *App) Close() error {
	if a.stopMetrics != nil {
		a.stopMetrics()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	return a.Log.Close()
}

func initializeApp(ctx context.Context, log *logger.Logger, cfg config.APIConfig) (*App, error) {
	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if err := db.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}

	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)

	return &App{
		Log:         log,
		Config:      cfg,
		Pool:        pool,
		UserRepo:    userrepo.NewPgRepository(pool, log),
		ResultRepo:  ocrrepo.NewPgRepository(pool, log),
		stopMetrics: stopMetrics,
	}, nil
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
