package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/auth/service"
	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	"github.com/AlibekovAA/ocr-notes/internal/common/constants"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	userdomain "github.com/AlibekovAA/ocr-notes/internal/user/domain"
	userrepo "github.com/AlibekovAA/ocr-notes/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user userdomain.User) (userdomain.User, error)
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "user-123", nil
}

type mockTokenIssuer struct {
	issueFunc func(userID string, ttl time.Duration) (string, error)
}

func (m *mockTokenIssuer) Issue(userID string, ttl time.Duration) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(userID, ttl)
	}
	return "token-for-" + userID, nil
}

type authFixture struct {
	svc    *service.AuthService
	repo   *mockUserRepo
	hasher *mockHasher
	ids    *mockIDGenerator
	tokens *mockTokenIssuer
	clock  *clock.MockClock
}

func setupAuthService(t *testing.T) authFixture {
	t.Helper()

	f := authFixture{
		repo:   &mockUserRepo{},
		hasher: &mockHasher{},
		ids:    &mockIDGenerator{},
		tokens: &mockTokenIssuer{},
		clock:  clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	}

	f.svc = service.NewAuthService(
		service.AuthServiceDeps{
			Repo:        f.repo,
			Hasher:      f.hasher,
			IDGenerator: f.ids,
			Tokens:      f.tokens,
			Clock:       f.clock,
			Log:         logger.NewWithWriter(io.Discard, "test", "debug"),
		},
		service.AuthServiceConfig{
			TokenTTL: constants.TestTokenTTL,
		},
	)

	return f
}
