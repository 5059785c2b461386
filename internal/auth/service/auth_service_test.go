package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/auth/service"
	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	"github.com/AlibekovAA/ocr-notes/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/ocr-notes/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/ocr-notes/internal/common/errors"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	userdomain "github.com/AlibekovAA/ocr-notes/internal/user/domain"
	userrepo "github.com/AlibekovAA/ocr-notes/internal/user/repository"
)

func TestAuthService_Register_Success(t *testing.T) {
	f := setupAuthService(t)

	var created userdomain.User
	f.repo.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		created = user
		return user, nil
	}

	var issuedFor string
	var issuedTTL time.Duration
	f.tokens.issueFunc = func(userID string, ttl time.Duration) (string, error) {
		issuedFor = userID
		issuedTTL = ttl
		return "signed-token", nil
	}

	result, err := f.svc.Register(context.Background(), service.RegisterInput{
		Email:    "a@x.io",
		Password: "pw1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Token != "signed-token" {
		t.Errorf("expected token signed-token, got %s", result.Token)
	}
	if result.UserID != "user-123" {
		t.Errorf("expected user id user-123, got %s", result.UserID)
	}
	if created.Email != "a@x.io" {
		t.Errorf("expected email a@x.io, got %s", created.Email)
	}
	if created.PasswordHash != "hashed_pw1" {
		t.Errorf("expected stored hash hashed_pw1, got %s", created.PasswordHash)
	}
	if issuedFor != "user-123" {
		t.Errorf("expected token for user-123, got %s", issuedFor)
	}
	if issuedTTL != constants.TestTokenTTL {
		t.Errorf("expected ttl %v, got %v", constants.TestTokenTTL, issuedTTL)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	cases := []service.RegisterInput{
		{Email: "", Password: "pw"},
		{Email: "a@x.io", Password: ""},
		{},
	}

	for _, input := range cases {
		f := setupAuthService(t)
		lookups := 0
		f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
			lookups++
			return userdomain.User{}, userrepo.ErrUserNotFound
		}

		_, err := f.svc.Register(context.Background(), input)
		if !errors.Is(err, service.ErrInvalidInput) {
			t.Errorf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
		if lookups != 0 {
			t.Errorf("input %+v: expected no store lookup, got %d", input, lookups)
		}
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	f := setupAuthService(t)

	_, err := f.svc.Register(context.Background(), service.RegisterInput{
		Email:    "a@x.io",
		Password: strings.Repeat("p", 73),
	})
	if !errors.Is(err, service.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestAuthService_Register_UserAlreadyExists(t *testing.T) {
	f := setupAuthService(t)

	f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{ID: "existing", Email: email, PasswordHash: "h"}, nil
	}
	f.repo.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		t.Fatal("create must not be called for an existing email")
		return userdomain.User{}, nil
	}

	_, err := f.svc.Register(context.Background(), service.RegisterInput{
		Email:    "a@x.io",
		Password: "pw2",
	})
	if !errors.Is(err, service.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}

	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatal("expected domain error")
	}
	if domainErr.HTTPStatus() != 400 || domainErr.Message() != "User already exists" {
		t.Errorf("unexpected error shape: %d %q", domainErr.HTTPStatus(), domainErr.Message())
	}
}

func TestAuthService_Register_ConflictOnInsert(t *testing.T) {
	f := setupAuthService(t)

	f.repo.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		return userdomain.User{}, userrepo.ErrEmailAlreadyExists
	}

	_, err := f.svc.Register(context.Background(), service.RegisterInput{
		Email:    "a@x.io",
		Password: "pw1",
	})
	if !errors.Is(err, service.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	f := setupAuthService(t)

	f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}

	_, err := f.svc.Register(context.Background(), service.RegisterInput{
		Email:    "a@x.io",
		Password: "pw1",
	})
	if !errors.Is(err, service.ErrInternalProcessing) {
		t.Fatalf("expected ErrInternalProcessing, got %v", err)
	}
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	f := setupAuthService(t)

	f.hasher.hashFunc = func(password string) (string, error) {
		return "", errors.New("hash failed")
	}

	_, err := f.svc.Register(context.Background(), service.RegisterInput{
		Email:    "a@x.io",
		Password: "pw1",
	})
	if !errors.Is(err, service.ErrInternalProcessing) {
		t.Fatalf("expected ErrInternalProcessing, got %v", err)
	}
}

func TestAuthService_Register_TokenFailure(t *testing.T) {
	f := setupAuthService(t)

	f.tokens.issueFunc = func(userID string, ttl time.Duration) (string, error) {
		return "", errors.New("sign failed")
	}

	_, err := f.svc.Register(context.Background(), service.RegisterInput{
		Email:    "a@x.io",
		Password: "pw1",
	})
	if !errors.Is(err, service.ErrInternalProcessing) {
		t.Fatalf("expected ErrInternalProcessing, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := setupAuthService(t)

	f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		if email != "a@x.io" {
			t.Errorf("expected email a@x.io, got %s", email)
		}
		return userdomain.User{ID: "user-42", Email: email, PasswordHash: "hashed_pw1"}, nil
	}
	f.hasher.compareFunc = func(hash string, password string) error {
		if hash != "hashed_"+password {
			return commoncrypto.ErrPasswordMismatch
		}
		return nil
	}

	result, err := f.svc.Login(context.Background(), service.LoginInput{
		Email:    "a@x.io",
		Password: "pw1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.UserID != "user-42" {
		t.Errorf("expected user-42, got %s", result.UserID)
	}
	if result.Token != "token-for-user-42" {
		t.Errorf("unexpected token %s", result.Token)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	f := setupAuthService(t)

	_, err := f.svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@x.io",
		Password: "pw",
	})
	if !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	f := setupAuthService(t)

	f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{ID: "user-42", Email: email, PasswordHash: "hashed_pw1"}, nil
	}
	f.hasher.compareFunc = func(hash string, password string) error {
		return commoncrypto.ErrPasswordMismatch
	}
	f.tokens.issueFunc = func(userID string, ttl time.Duration) (string, error) {
		t.Fatal("no token may be issued for a wrong password")
		return "", nil
	}

	_, err := f.svc.Login(context.Background(), service.LoginInput{
		Email:    "a@x.io",
		Password: "wrong",
	})
	if !errors.Is(err, service.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.HTTPStatus() != 200 {
		t.Errorf("expected status 200, got %d", domainErr.HTTPStatus())
	}
}

func TestAuthService_Login_CorruptHash(t *testing.T) {
	f := setupAuthService(t)

	f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{ID: "user-42", Email: email, PasswordHash: "not-a-bcrypt-hash"}, nil
	}
	f.hasher.compareFunc = func(hash string, password string) error {
		return errors.New("crypto/bcrypt: hashedSecret too short")
	}

	_, err := f.svc.Login(context.Background(), service.LoginInput{
		Email:    "a@x.io",
		Password: "pw1",
	})
	if !errors.Is(err, service.ErrInternalProcessing) {
		t.Fatalf("expected ErrInternalProcessing, got %v", err)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	f := setupAuthService(t)

	_, err := f.svc.Login(context.Background(), service.LoginInput{Email: "a@x.io"})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// memoryUserRepo enforces email uniqueness under a lock so the real hasher
// and token issuer can be exercised end to end.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]userdomain.User
}

func (r *memoryUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return userdomain.User{}, userrepo.ErrEmailAlreadyExists
	}
	r.users[user.Email] = user
	return user, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := service.NewTokenIssuer(constants.TestJWTSecret, clk)
	repo := &memoryUserRepo{users: map[string]userdomain.User{}}

	svc := service.NewAuthService(
		service.AuthServiceDeps{
			Repo:        repo,
			Hasher:      commoncrypto.NewBcryptHasher(constants.TestBcryptCost),
			IDGenerator: commoncrypto.NewUUIDGenerator(),
			Tokens:      issuer,
			Clock:       clk,
			Log:         logger.NewWithWriter(io.Discard, "test", "info"),
		},
		service.AuthServiceConfig{TokenTTL: constants.TestTokenTTL},
	)

	ctx := context.Background()
	registered, err := svc.Register(ctx, service.RegisterInput{Email: "a@x.io", Password: "pw1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	stored := repo.users["a@x.io"]
	if stored.PasswordHash == "pw1" || !strings.HasPrefix(stored.PasswordHash, "$2") {
		t.Errorf("expected a bcrypt hash to be stored, got %q", stored.PasswordHash)
	}

	userID, err := issuer.Verify(registered.Token)
	if err != nil {
		t.Fatalf("verify register token: %v", err)
	}
	if userID != string(stored.ID) {
		t.Errorf("expected token for %s, got %s", stored.ID, userID)
	}

	loggedIn, err := svc.Login(ctx, service.LoginInput{Email: "a@x.io", Password: "pw1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got, _ := issuer.Verify(loggedIn.Token); got != userID {
		t.Errorf("login token identifies %s, expected %s", got, userID)
	}

	if _, err := svc.Login(ctx, service.LoginInput{Email: "a@x.io", Password: "nope"}); !errors.Is(err, service.ErrIncorrectPassword) {
		t.Errorf("expected ErrIncorrectPassword, got %v", err)
	}

	if _, err := svc.Register(ctx, service.RegisterInput{Email: "a@x.io", Password: "pw2"}); !errors.Is(err, service.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}
	if repo.users["a@x.io"].PasswordHash != stored.PasswordHash {
		t.Error("existing credentials must not change on duplicate register")
	}
}

func TestAuthService_ConcurrentRegisterSameEmail(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := &memoryUserRepo{users: map[string]userdomain.User{}}

	svc := service.NewAuthService(
		service.AuthServiceDeps{
			Repo:        repo,
			Hasher:      &mockHasher{},
			IDGenerator: commoncrypto.NewUUIDGenerator(),
			Tokens:      &mockTokenIssuer{},
			Clock:       clk,
			Log:         logger.NewWithWriter(io.Discard, "test", "info"),
		},
		service.AuthServiceConfig{TokenTTL: constants.TestTokenTTL},
	)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), service.RegisterInput{Email: "race@x.io", Password: "pw"})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, service.ErrUserAlreadyExists) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one successful registration, got %d", successes)
	}
}
