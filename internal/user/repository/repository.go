package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/ocr-notes/internal/common/db"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	"github.com/AlibekovAA/ocr-notes/internal/user/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Repository is the credential store. Create must reject a second user with
// the same email atomically; callers may still check FindByEmail first.
type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type PgRepository struct {
	pool  *pgxpool.Pool
	log   *logger.Logger
	retry db.RetryConfig
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log, retry: db.DefaultRetryConfig}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (id, email, password_hash)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING created_at`,
		string(user.ID),
		user.Email,
		user.PasswordHash,
	)

	err := row.Scan(&user.CreatedAt)
	if db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("create user", start)
		return domain.User{}, ErrEmailAlreadyExists
	}
	if err := db.HandleQueryError(err, ErrEmailAlreadyExists, "create user", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := db.RetryWithBackoff(ctx, r.log, r.retry, func(ctx context.Context) error {
		start := time.Now()
		row := r.pool.QueryRow(
			ctx,
			`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`,
			email,
		)
		err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
		return db.HandleQueryError(err, ErrUserNotFound, "find user by email", start)
	})
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
