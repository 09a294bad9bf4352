package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// ObjectStore removes stored product images
type ObjectStore interface {
	Remove(ctx context.Context, key string) error
}

// Config holds the S3 connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// MinioStore is an ObjectStore backed by any S3 compatible service
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the object store. An empty endpoint disables it and returns nil.
func NewMinioStore(cfg Config) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	logger.Logger.Info().Str("endpoint", endpoint).Str("bucket", cfg.Bucket).Msg("Object store configured")
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// Remove deletes the object stored under key
func (s *MinioStore) Remove(ctx context.Context, key string) error {
	ctx, span := otel.Tracer("storage").Start(ctx, "ObjectStore.Remove")
	defer span.End()

	key = strings.TrimLeft(key, "/")
	span.SetAttributes(
		attribute.String("storage.bucket", s.bucket),
		attribute.String("storage.key", key),
	)

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("storage delete failed: %w", err)
	}

	span.SetStatus(codes.Ok, "object removed")
	return nil
}
