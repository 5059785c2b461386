package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/ocr-notes/internal/auth/service"
	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	"github.com/AlibekovAA/ocr-notes/internal/common/constants"
)

func newIssuer() (*service.TokenIssuer, *clock.MockClock) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return service.NewTokenIssuer(constants.TestJWTSecret, clk), clk
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer, _ := newIssuer()

	token, err := issuer.Issue("u1", time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact JWS, got %s", token)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userID != "u1" {
		t.Errorf("expected u1, got %s", userID)
	}
}

func TestTokenIssuer_ClaimsShape(t *testing.T) {
	issuer, clk := newIssuer()

	token, err := issuer.Issue("u1", 24*time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if claims["userId"] != "u1" {
		t.Errorf("expected userId u1, got %v", claims["userId"])
	}
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)
	if int64(iat) != clk.Now().Unix() {
		t.Errorf("expected iat %d, got %v", clk.Now().Unix(), iat)
	}
	if int64(exp-iat) != int64((24 * time.Hour).Seconds()) {
		t.Errorf("expected exp-iat of 24h, got %v", exp-iat)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer, clk := newIssuer()

	token, err := issuer.Issue("u1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clk.Advance(time.Hour + time.Second)

	if _, err := issuer.Verify(token); !errors.Is(err, service.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_DifferentSecret(t *testing.T) {
	issuer, clk := newIssuer()
	other := service.NewTokenIssuer("another-secret-key-that-is-32-bytes-or-more", clk)

	token, err := other.Issue("u1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, service.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer, _ := newIssuer()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(token); !errors.Is(err, service.ErrMalformedToken) {
			t.Errorf("token %q: expected ErrMalformedToken, got %v", token, err)
		}
	}
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	issuer, clk := newIssuer()

	claims := jwt.MapClaims{
		"userId": "u1",
		"iat":    clk.Now().Unix(),
		"exp":    clk.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(constants.TestJWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expected HS512 token to be rejected")
	}
}

func TestTokenIssuer_MissingUserID(t *testing.T) {
	issuer, clk := newIssuer()

	claims := jwt.MapClaims{
		"iat": clk.Now().Unix(),
		"exp": clk.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(constants.TestJWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, service.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestTokenIssuer_InvalidTTL(t *testing.T) {
	issuer, _ := newIssuer()

	if _, err := issuer.Issue("u1", 0); !errors.Is(err, service.ErrInvalidTTL) {
		t.Fatalf("expected ErrInvalidTTL, got %v", err)
	}
}
