package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	"github.com/AlibekovAA/ocr-notes/internal/common/jwtverify"
)

var (
	ErrMalformedToken   = jwtverify.ErrMalformedToken
	ErrInvalidSignature = jwtverify.ErrInvalidSignature
	ErrTokenExpired     = jwtverify.ErrTokenExpired
	ErrInvalidTTL       = errors.New("token ttl must be positive")
)

type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies stateless HS256 session tokens. The secret
// is fixed at construction; nothing is persisted per token.
type TokenIssuer struct {
	jwtSecret []byte
	clock     clock.Clock
	parser    *jwt.Parser
}

func NewTokenIssuer(jwtSecret string, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		clock:     clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clk.Now),
		),
	}
}

func (ti *TokenIssuer) Issue(userID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	now := ti.clock.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}

// Verify returns the embedded user id. Errors are ErrMalformedToken,
// ErrInvalidSignature or ErrTokenExpired; the user is not looked up.
func (ti *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &tokenClaims{}
	_, err := ti.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return ti.jwtSecret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}

	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing userId claim", ErrMalformedToken)
	}

	return claims.UserID, nil
}
