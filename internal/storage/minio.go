package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Diluksha-Upeka/Neurospace/internal/config"
)

// ObjectStore is the backup sink for raw uploaded files.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, objectName string) error
	Download(ctx context.Context, objectName, localPath string) error
}

type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore connects to the object store and creates the bucket if it
// does not exist. An unreachable endpoint is fatal here; per-object
// failures later are left to the caller's retry policy.
func NewMinIOStore(ctx context.Context, cfg config.StorageConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	s := &MinIOStore{client: client, bucket: cfg.Bucket}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("could not reach object store at %s: %w", cfg.Endpoint, err)
	}
	if !exists {
		log.Printf("Creating bucket: %s", cfg.Bucket)
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket '%s': %w", cfg.Bucket, err)
		}
	}

	return s, nil
}

func (s *MinIOStore) Upload(ctx context.Context, localPath, objectName string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to upload '%s': %w", objectName, err)
	}
	return nil
}

func (s *MinIOStore) Download(ctx context.Context, objectName, localPath string) error {
	if err := s.client.FGetObject(ctx, s.bucket, objectName, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("failed to download '%s': %w", objectName, err)
	}
	return nil
}
