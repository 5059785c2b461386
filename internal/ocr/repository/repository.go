package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/ocr-notes/internal/common/db"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/domain"
)

// Repository is the result store. FindByUser returns only rows owned by
// userID, oldest first.
type Repository interface {
	Create(ctx context.Context, result domain.Result) (domain.Result, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Result, error)
}

type PgRepository struct {
	pool  *pgxpool.Pool
	log   *logger.Logger
	retry db.RetryConfig
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log, retry: db.DefaultRetryConfig}
}

func (r *PgRepository) Create(ctx context.Context, result domain.Result) (domain.Result, error) {
	start := time.Now()
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO ocr_results (id, user_id, base64_image, text, image_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		string(result.ID),
		result.UserID,
		result.Base64Image,
		result.Text,
		result.ImageKey,
	).Scan(&result.CreatedAt)
	if err := db.HandleExecError(err, "create ocr result", start); err != nil {
		return domain.Result{}, err
	}

	return result, nil
}

func (r *PgRepository) FindByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	var results []domain.Result
	err := db.RetryWithBackoff(ctx, r.log, r.retry, func(ctx context.Context) error {
		start := time.Now()
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, user_id, base64_image, text, image_key, created_at
			 FROM ocr_results
			 WHERE user_id = $1
			 ORDER BY created_at, id`,
			userID,
		)
		if err != nil {
			return db.HandleExecError(err, "find ocr results by user", start)
		}
		defer rows.Close()

		results = results[:0]
		for rows.Next() {
			var res domain.Result
			if err := rows.Scan(&res.ID, &res.UserID, &res.Base64Image, &res.Text, &res.ImageKey, &res.CreatedAt); err != nil {
				return db.HandleExecError(err, "scan ocr result", start)
			}
			results = append(results, res)
		}

		return db.HandleExecError(rows.Err(), "find ocr results by user", start)
	})
	if err != nil {
		return nil, err
	}

	if results == nil {
		results = []domain.Result{}
	}
	return results, nil
}
