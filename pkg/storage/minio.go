package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds object storage connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // Base URL for serving objects, e.g. a CDN or the endpoint itself
}

// ObjectStorage wraps a MinIO client for product image uploads
type ObjectStorage struct {
	client *minio.Client
	config Config
}

// NewObjectStorage creates a new object storage client and ensures the bucket exists
func NewObjectStorage(ctx context.Context, cfg Config) (*ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	s := &ObjectStorage{client: client, config: cfg}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// ensureBucket creates the configured bucket if it does not exist
func (s *ObjectStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.config.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// objectKey derives a storage key namespaced per tenant, with a random name
// so one store's images cannot collide with another's and re-uploads of the
// same filename never overwrite.
func objectKey(tenantID uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%s%s", tenantID.String(), uuid.New().String(), path.Ext(filename))
}

// Upload stores an object and returns its key
func (s *ObjectStorage) Upload(ctx context.Context, tenantID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	key := objectKey(tenantID, filename)

	_, err := s.client.PutObject(ctx, s.config.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return key, nil
}

// Delete removes an object by key
func (s *ObjectStorage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.config.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PublicURL returns the publicly accessible URL for an object key
func (s *ObjectStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.config.PublicURL, s.config.Bucket, key)
}

// PresignedURL returns a time-limited URL for direct object access
func (s *ObjectStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.config.Bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object URL: %w", err)
	}
	return u.String(), nil
}
