//go:build integration

// Package dbtest starts a disposable PostgreSQL container with the service
// schema applied. It is only built with the integration tag.
package dbtest

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AlibekovAA/ocr-notes/internal/common/db"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
)

const postgresImage = "postgres:16-alpine"

func NewLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "test", "debug")
}

// StartPostgres runs a container, connects a pool and applies migrations.
// The container and pool are released through t.Cleanup.
func StartPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase("ocr_notes"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	log := NewLogger()
	pool, err := db.NewPool(ctx, log, connStr)
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return pool
}
