package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	commonerrors "github.com/AlibekovAA/ocr-notes/internal/common/errors"
	commonhttp "github.com/AlibekovAA/ocr-notes/internal/common/http"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	"github.com/AlibekovAA/ocr-notes/internal/observability/metrics"
)

// Failure kinds a Verifier reports. They are used for logging and metrics
// only; the client always sees the same response.
var (
	ErrMalformedToken   = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token has expired")
)

// Verifier returns the user id embedded in a valid token.
type Verifier interface {
	Verify(token string) (string, error)
}

type Identity struct {
	UserID string
}

type contextKey string

const identityKey contextKey = "identity"

var (
	errMissingHeader = errors.New("authorization header missing")
	errBadScheme     = errors.New("authorization header is not a bearer token")
)

// unauthenticatedBody carries the message under both keys older clients and
// newer ones read.
type unauthenticatedBody struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// Middleware admits requests carrying a valid bearer token. Every failure
// produces the same 401 response; the reason is only logged and counted.
func Middleware(verifier Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.JWTValidationsTotal.Inc()

			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				reject(w, r, log, reasonFor(err), err)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				reject(w, r, log, reasonFor(err), err)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errBadScheme
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", errBadScheme
	}

	return token, nil
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, errMissingHeader):
		return "missing_header"
	case errors.Is(err, errBadScheme):
		return "bad_scheme"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

func reject(w http.ResponseWriter, r *http.Request, log *logger.Logger, reason string, err error) {
	metrics.JWTValidationsFailed.WithLabelValues(reason).Inc()

	log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"reason": reason,
		"action": "auth_rejected",
	}).Warnf("jwt auth failed: %v", err)

	msg := commonerrors.ErrUnauthenticated.Message()
	commonhttp.WriteJSON(w, commonerrors.ErrUnauthenticated.HTTPStatus(), unauthenticatedBody{
		Msg:     msg,
		Message: msg,
	})
}
