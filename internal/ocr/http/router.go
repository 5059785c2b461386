package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	commonhttp "github.com/AlibekovAA/ocr-notes/internal/common/http"
	"github.com/AlibekovAA/ocr-notes/internal/common/jwtverify"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/domain"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/service"
)

const fileField = "file"

type OCR interface {
	Upload(ctx context.Context, userID string, image []byte) (service.UploadResult, error)
	List(ctx context.Context, userID string) ([]domain.Result, error)
}

type uploadResponse struct {
	Base64String string `json:"base64String"`
	Text         string `json:"text"`
	Success      bool   `json:"success"`
}

type resultResponse struct {
	ID           string    `json:"_id"`
	UserID       string    `json:"userId"`
	Base64String string    `json:"base64String"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Handler struct {
	ocr           OCR
	maxUploadSize int64
	log           *logger.Logger
}

func NewHandler(ocr OCR, maxUploadSize int64, log *logger.Logger) *Handler {
	return &Handler{ocr: ocr, maxUploadSize: maxUploadSize, log: log}
}

// RegisterRoutes mounts the guarded OCR endpoints. gate must attach a
// jwtverify.Identity to the request context.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, limiter *commonhttp.StrictRateLimiter, gate func(http.Handler) http.Handler) {
	mux.Handle("/upload", limiter.MiddlewareForPath("/upload")(gate(commonhttp.RequireMethod(http.MethodPost)(h.upload))))
	mux.Handle("/getAllOcrData", limiter.MiddlewareForPath("/getAllOcrData")(gate(commonhttp.RequireMethod(http.MethodGet)(h.list))))
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, errMissingIdentity, h.log)
		return
	}

	image, err := h.readFile(w, r)
	if err != nil {
		if isTooLarge(err) {
			h.log.WithFields(r.Context(), logger.Fields{
				"user_id": identity.UserID,
				"action":  "ocr_upload_too_large",
			}).Warnf("upload rejected: %v", err)
			commonhttp.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": identity.UserID,
			"action":  "ocr_upload_no_file",
		}).Debugf("no file in upload: %v", err)
		image = nil
	}

	result, err := h.ocr.Upload(r.Context(), identity.UserID, image)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, uploadResponse{
		Base64String: result.Base64Image,
		Text:         result.Text,
		Success:      true,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, errMissingIdentity, h.log)
		return
	}

	results, err := h.ocr.List(r.Context(), identity.UserID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	out := make([]resultResponse, 0, len(results))
	for _, res := range results {
		out = append(out, resultResponse{
			ID:           string(res.ID),
			UserID:       res.UserID,
			Base64String: res.Base64Image,
			Text:         res.Text,
			CreatedAt:    res.CreatedAt,
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) readFile(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile(fileField)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

var errMissingIdentity = errors.New("request reached a guarded handler without identity")

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || errors.Is(err, commonhttp.ErrRequestTooLarge)
}
