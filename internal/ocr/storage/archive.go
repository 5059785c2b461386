package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/AlibekovAA/ocr-notes/internal/common/clock"
	"github.com/AlibekovAA/ocr-notes/internal/common/config"
	commoncrypto "github.com/AlibekovAA/ocr-notes/internal/common/crypto"
	"github.com/AlibekovAA/ocr-notes/internal/observability/metrics"
)

var ErrArchiveDisabled = errors.New("image archive is not configured")

// ImageArchive stores original upload bytes and returns the object key.
type ImageArchive interface {
	Put(ctx context.Context, userID string, data []byte) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archive struct {
	client objectPutter
	bucket string
	ids    commoncrypto.IDGenerator
	clock  clock.Clock
}

// NewS3Archive builds a client for AWS or any S3-compatible endpoint such as
// MinIO. Static credentials are used when both keys are set, otherwise the
// default AWS credential chain applies.
func NewS3Archive(ctx context.Context, cfg config.S3Config, ids commoncrypto.IDGenerator, clk clock.Clock) (*S3Archive, error) {
	if !cfg.Enabled() {
		return nil, ErrArchiveDisabled
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Archive(client, cfg.Bucket, ids, clk), nil
}

func newS3Archive(client objectPutter, bucket string, ids commoncrypto.IDGenerator, clk clock.Clock) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, ids: ids, clock: clk}
}

func (a *S3Archive) Put(ctx context.Context, userID string, data []byte) (string, error) {
	key, err := a.objectKey(userID)
	if err != nil {
		return "", err
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	metrics.OCRImagesArchived.Inc()
	return key, nil
}

func (a *S3Archive) objectKey(userID string) (string, error) {
	id, err := a.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate object id: %w", err)
	}
	now := a.clock.Now().UTC()
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/%s", userID, now.Year(), int(now.Month()), now.Day(), id), nil
}
