package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OCRUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocr_uploads_total",
			Help: "Total number of OCR uploads by outcome",
		},
		[]string{"outcome"},
	)

	OCRRecognitionDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ocr_recognition_duration_seconds",
			Help:    "Duration of OCR recognition in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	OCRUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ocr_upload_bytes",
			Help:    "Size of uploaded images in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
		},
	)

	OCRImagesArchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ocr_images_archived_total",
			Help: "Total number of images copied to object storage",
		},
	)
)
