package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/auth/service"
	commonhttp "github.com/AlibekovAA/ocr-notes/internal/common/http"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
)

type Authenticator interface {
	Register(ctx context.Context, input service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
	Success bool   `json:"success"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	auth           Authenticator
	requestTimeout time.Duration
	log            *logger.Logger
}

func NewHandler(auth Authenticator, requestTimeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{auth: auth, requestTimeout: requestTimeout, log: log}
}

// RegisterRoutes mounts POST /register and POST /login, each behind its own
// rate limiter bucket.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, limiter *commonhttp.StrictRateLimiter) {
	post := commonhttp.RequireMethod(http.MethodPost)
	timeout := commonhttp.WithTimeout(h.requestTimeout)

	mux.Handle("/register", limiter.MiddlewareForPath("/register")(post(timeout(h.register))))
	mux.Handle("/login", limiter.MiddlewareForPath("/login")(post(timeout(h.login))))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "register_invalid_json",
		}).Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, registerResponse{
		Status:  http.StatusOK,
		Message: "User created successfully",
		Token:   result.Token,
		Success: true,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Token:   result.Token,
		Success: true,
		Message: "Login successful",
	})
}
