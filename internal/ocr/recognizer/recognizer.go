package recognizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/AlibekovAA/ocr-notes/internal/common/constants"
	"github.com/AlibekovAA/ocr-notes/internal/observability/metrics"
)

var (
	ErrUnsupportedEngineMode = errors.New("unsupported ocr engine mode")
	ErrInvalidPageSegMode    = errors.New("invalid ocr page segmentation mode")
	ErrEmptyImage            = errors.New("image is empty")
)

// Engine modes served by the LSTM engine that gosseract initializes.
const (
	EngineModeLSTMOnly = 1
	EngineModeDefault  = 3
)

type Options struct {
	Language    string
	EngineMode  int
	PageSegMode int
}

type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TesseractRecognizer creates a gosseract client per call; clients wrap a
// single Tesseract API handle and cannot be shared between goroutines.
type TesseractRecognizer struct {
	opts          Options
	clientFactory func() *gosseract.Client
}

func NewTesseractRecognizer(opts Options) (*TesseractRecognizer, error) {
	if opts.Language == "" {
		opts.Language = constants.DefaultOCRLanguage
	}

	switch opts.EngineMode {
	case EngineModeLSTMOnly, EngineModeDefault:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedEngineMode, opts.EngineMode)
	}

	if opts.PageSegMode < int(gosseract.PSM_OSD_ONLY) || opts.PageSegMode > int(gosseract.PSM_RAW_LINE) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSegMode, opts.PageSegMode)
	}

	return &TesseractRecognizer{opts: opts, clientFactory: gosseract.NewClient}, nil
}

func (r *TesseractRecognizer) Options() Options {
	return r.opts
}

// Recognize returns ctx.Err() if the context ends first. The Tesseract call
// itself cannot be interrupted and finishes in the background.
func (r *TesseractRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		c := r.clientFactory()
		defer c.Close()
		text, err := r.recognizeWithClient(c, image)
		done <- outcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case out := <-done:
		metrics.OCRRecognitionDurationSeconds.Observe(time.Since(start).Seconds())
		return out.text, out.err
	}
}

func (r *TesseractRecognizer) recognizeWithClient(c *gosseract.Client, image []byte) (string, error) {
	if err := c.SetLanguage(strings.Split(r.opts.Language, "+")...); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(r.opts.PageSegMode)); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
