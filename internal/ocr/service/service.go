package service

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/ocr-notes/internal/common/crypto"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	"github.com/AlibekovAA/ocr-notes/internal/observability/metrics"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/domain"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/recognizer"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/repository"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/storage"
)

type OCRServiceDeps struct {
	Recognizer  recognizer.Recognizer
	Repo        repository.Repository
	Archive     storage.ImageArchive
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type OCRServiceConfig struct {
	RecognitionTimeout time.Duration
	StorageTimeout     time.Duration
}

type OCRService struct {
	recognizer         recognizer.Recognizer
	repo               repository.Repository
	archive            storage.ImageArchive
	idGenerator        commoncrypto.IDGenerator
	clock              clock.Clock
	log                *logger.Logger
	recognitionTimeout time.Duration
	storageTimeout     time.Duration
}

// NewOCRService accepts a nil Archive; uploads are then kept only inline.
func NewOCRService(deps OCRServiceDeps, config OCRServiceConfig) *OCRService {
	return &OCRService{
		recognizer:         deps.Recognizer,
		repo:               deps.Repo,
		archive:            deps.Archive,
		idGenerator:        deps.IDGenerator,
		clock:              deps.Clock,
		log:                deps.Log,
		recognitionTimeout: config.RecognitionTimeout,
		storageTimeout:     config.StorageTimeout,
	}
}

type UploadResult struct {
	Base64Image string
	Text        string
}

func (s *OCRService) Upload(ctx context.Context, userID string, image []byte) (UploadResult, error) {
	fields := logger.Fields{
		"user_id": userID,
		"bytes":   len(image),
		"action":  "ocr_upload",
	}

	if len(image) == 0 {
		s.log.WithFields(ctx, fields).Warn("upload rejected: no file")
		metrics.OCRUploadsTotal.WithLabelValues("no_file").Inc()
		return UploadResult{}, ErrFileRequired
	}
	metrics.OCRUploadBytes.Observe(float64(len(image)))

	text, err := s.recognize(ctx, image)
	if err != nil {
		s.log.WithFields(ctx, fields).Errorf("upload failed: recognition error: %v", err)
		metrics.OCRUploadsTotal.WithLabelValues("recognition_failed").Inc()
		return UploadResult{}, ErrProcessingFailed.WithCause(err)
	}

	encoded := base64.StdEncoding.EncodeToString(image)

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, fields).Errorf("upload failed: id generation error: %v", err)
		metrics.OCRUploadsTotal.WithLabelValues("storage_failed").Inc()
		return UploadResult{}, ErrProcessingFailed.WithCause(err)
	}

	storeCtx, cancel := s.storageContext(ctx)
	defer cancel()

	var imageKey string
	if s.archive != nil {
		imageKey, err = s.archive.Put(storeCtx, userID, image)
		if err != nil {
			s.log.WithFields(ctx, fields).Errorf("upload failed: archive error: %v", err)
			metrics.OCRUploadsTotal.WithLabelValues("archive_failed").Inc()
			return UploadResult{}, ErrProcessingFailed.WithCause(err)
		}
	}

	_, err = s.repo.Create(storeCtx, domain.Result{
		ID:          domain.ID(id),
		UserID:      userID,
		Base64Image: encoded,
		Text:        text,
		ImageKey:    imageKey,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		s.log.WithFields(ctx, fields).Errorf("upload failed: store error: %v", err)
		metrics.OCRUploadsTotal.WithLabelValues("storage_failed").Inc()
		return UploadResult{}, ErrProcessingFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":   userID,
		"result_id": id,
		"chars":     len(text),
		"archived":  imageKey != "",
		"action":    "ocr_upload_success",
	}).Info("upload processed")
	metrics.OCRUploadsTotal.WithLabelValues("success").Inc()

	return UploadResult{Base64Image: encoded, Text: text}, nil
}

func (s *OCRService) List(ctx context.Context, userID string) ([]domain.Result, error) {
	storeCtx, cancel := s.storageContext(ctx)
	defer cancel()

	results, err := s.repo.FindByUser(storeCtx, userID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "ocr_list_failed",
		}).Errorf("list failed: %v", err)
		return nil, ErrListFailed.WithCause(err)
	}

	return results, nil
}

func (s *OCRService) recognize(ctx context.Context, image []byte) (string, error) {
	if s.recognitionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.recognitionTimeout)
		defer cancel()
	}
	return s.recognizer.Recognize(ctx, image)
}

func (s *OCRService) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storageTimeout > 0 {
		return context.WithTimeout(ctx, s.storageTimeout)
	}
	return context.WithCancel(ctx)
}
