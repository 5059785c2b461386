package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/sethvargo/go-retry"

	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
)

type RetryConfig struct {
	MaxAttempts  uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

func (c RetryConfig) backoff() retry.Backoff {
	b := retry.NewExponential(c.InitialDelay)
	b = retry.WithCappedDuration(c.MaxDelay, b)
	if c.MaxAttempts > 1 {
		b = retry.WithMaxRetries(c.MaxAttempts-1, b)
	} else {
		b = retry.WithMaxRetries(0, b)
	}
	return b
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "08000", "08003", "08006", "08001", "08004", "08007", "08P01":
			return true
		case "40001", "40P01":
			return true
		case "55P03":
			return true
		}
	}

	return false
}

// RetryWithBackoff retries operation only for connection and serialization
// failures; any other error is returned on the first attempt.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, config RetryConfig, operation func(ctx context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, config.backoff(), func(ctx context.Context) error {
		attempt++
		err := operation(ctx)
		if err == nil {
			if attempt > 1 {
				log.Infof("database operation succeeded after %d attempts", attempt)
			}
			return nil
		}

		if !isRetryableError(err) {
			return err
		}

		log.Warnf("database operation failed (attempt %d/%d): %v", attempt, config.MaxAttempts, err)
		return retry.RetryableError(err)
	})
}
