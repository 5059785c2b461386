package service

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/ocr-notes/internal/common/crypto"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	userdomain "github.com/AlibekovAA/ocr-notes/internal/user/domain"
	userrepo "github.com/AlibekovAA/ocr-notes/internal/user/repository"
)

type TokenIssuerInterface interface {
	Issue(userID string, ttl time.Duration) (string, error)
}

type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	tokens      TokenIssuerInterface
	validator   CredentialValidator
	clock       clock.Clock
	log         *logger.Logger
	tokenTTL    time.Duration
}

type AuthServiceDeps struct {
	Repo        userrepo.Repository
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Tokens      TokenIssuerInterface
	Clock       clock.Clock
	Log         *logger.Logger
}

type AuthServiceConfig struct {
	TokenTTL time.Duration
}

func NewAuthService(deps AuthServiceDeps, config AuthServiceConfig) *AuthService {
	return &AuthService{
		repo:        deps.Repo,
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		tokens:      deps.Tokens,
		validator:   NewCredentialValidator(),
		clock:       deps.Clock,
		log:         deps.Log,
		tokenTTL:    config.TokenTTL,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	UserID string
	Token  string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := s.validator.Validate(input.Email, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		recordRegistration("invalid_input")
		return AuthResult{}, err
	}

	_, err := s.repo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_email_exists",
		}).Warn("register failed: already exists")
		recordRegistration("already_exists")
		return AuthResult{}, ErrUserAlreadyExists
	case !errors.Is(err, userrepo.ErrUserNotFound):
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_lookup_failed",
		}).Errorf("register failed: lookup error: %v", err)
		recordRegistration("error")
		return AuthResult{}, ErrInternalProcessing.WithCause(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		recordRegistration("error")
		return AuthResult{}, ErrInternalProcessing.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		recordRegistration("error")
		return AuthResult{}, ErrInternalProcessing.WithCause(err)
	}

	user, err := s.repo.Create(ctx, userdomain.User{
		ID:           userdomain.ID(id),
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_email_exists_on_insert",
			}).Warn("register failed: concurrent registration for the same email")
			recordRegistration("already_exists")
			return AuthResult{}, ErrUserAlreadyExists
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		recordRegistration("error")
		return AuthResult{}, ErrInternalProcessing.WithCause(err)
	}

	token, err := s.tokens.Issue(string(user.ID), s.tokenTTL)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		recordRegistration("error")
		return AuthResult{}, ErrInternalProcessing.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")
	recordRegistration("success")

	return AuthResult{UserID: string(user.ID), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := s.validator.Validate(input.Email, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		recordLogin("invalid_input")
		return AuthResult{}, err
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			recordLogin("not_found")
			return AuthResult{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		recordLogin("error")
		return AuthResult{}, ErrInternalProcessing.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, commoncrypto.ErrPasswordMismatch) {
			s.log.WithFields(ctx, logger.Fields{
				"email":   input.Email,
				"user_id": string(user.ID),
				"action":  "login_invalid_password",
			}).Warn("login failed: invalid password")
			recordLogin("incorrect_password")
			return AuthResult{}, ErrIncorrectPassword
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_compare_failed",
		}).Errorf("login failed: stored hash unusable: %v", err)
		recordLogin("error")
		return AuthResult{}, ErrInternalProcessing.WithCause(err)
	}

	token, err := s.tokens.Issue(string(user.ID), s.tokenTTL)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLogin("error")
		return AuthResult{}, ErrInternalProcessing.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")
	recordLogin("success")

	return AuthResult{UserID: string(user.ID), Token: token}, nil
}
