package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/domain"
	"github.com/AlibekovAA/ocr-notes/internal/ocr/service"
)

type mockRecognizer struct {
	calls         int
	recognizeFunc func(ctx context.Context, image []byte) (string, error)
}

func (m *mockRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	m.calls++
	if m.recognizeFunc != nil {
		return m.recognizeFunc(ctx, image)
	}
	return "recognized text", nil
}

type mockResultRepo struct {
	createFunc     func(ctx context.Context, result domain.Result) (domain.Result, error)
	findByUserFunc func(ctx context.Context, userID string) ([]domain.Result, error)
}

func (m *mockResultRepo) Create(ctx context.Context, result domain.Result) (domain.Result, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, result)
	}
	return result, nil
}

func (m *mockResultRepo) FindByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return []domain.Result{}, nil
}

type mockArchive struct {
	putFunc func(ctx context.Context, userID string, data []byte) (string, error)
}

func (m *mockArchive) Put(ctx context.Context, userID string, data []byte) (string, error) {
	if m.putFunc != nil {
		return m.putFunc(ctx, userID, data)
	}
	return "users/" + userID + "/key", nil
}

type mockIDGenerator struct{}

func (mockIDGenerator) NewID() (string, error) { return "result-1", nil }

type ocrFixture struct {
	svc        *service.OCRService
	recognizer *mockRecognizer
	repo       *mockResultRepo
	archive    *mockArchive
}

func setupOCRService(t *testing.T, withArchive bool) ocrFixture {
	t.Helper()

	f := ocrFixture{
		recognizer: &mockRecognizer{},
		repo:       &mockResultRepo{},
		archive:    &mockArchive{},
	}

	deps := service.OCRServiceDeps{
		Recognizer:  f.recognizer,
		Repo:        f.repo,
		IDGenerator: mockIDGenerator{},
		Clock:       clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		Log:         logger.NewWithWriter(io.Discard, "test", "info"),
	}
	if withArchive {
		deps.Archive = f.archive
	}

	f.svc = service.NewOCRService(deps, service.OCRServiceConfig{
		RecognitionTimeout: time.Second,
		StorageTimeout:     time.Second,
	})
	return f
}
