package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/BerylCAtieno/requirements-testgen/internal/config"
)

const (
	RequirementsObject = "requirements.txt"
	SuiteObject        = "test_senaryolari.json"
)

// Storage archives the artifacts of a generation run: the uploaded
// requirements and the generated suite.
type Storage interface {
	PutArtifact(ctx context.Context, runID, name string, data []byte, contentType string) error
	// DeleteRun removes every artifact stored for runID.
	DeleteRun(ctx context.Context, runID string) error
}

type s3Storage struct {
	client     *minio.Client
	bucketName string
}

// New returns the S3 store when it is enabled and a no-op store otherwise.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	if !cfg.S3Enabled {
		return nopStorage{}, nil
	}
	return NewS3Storage(ctx, cfg)
}

func NewS3Storage(ctx context.Context, cfg *config.Config) (Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &s3Storage{
		client:     client,
		bucketName: cfg.S3BucketName,
	}, nil
}

// RunPrefix is the key prefix shared by all artifacts of a run.
func RunPrefix(runID string) string {
	return fmt.Sprintf("runs/%s/", runID)
}

func RunKey(runID, name string) string {
	return RunPrefix(runID) + name
}

func (s *s3Storage) PutArtifact(ctx context.Context, runID, name string, data []byte, contentType string) error {
	key := RunKey(runID, name)

	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"run-id": runID,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	return nil
}

func (s *s3Storage) DeleteRun(ctx context.Context, runID string) error {
	objects := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    RunPrefix(runID),
		Recursive: true,
	})

	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("failed to list artifacts of run %s: %w", runID, obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucketName, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete %s from S3: %w", obj.Key, err)
		}
	}

	return nil
}

type nopStorage struct{}

func (nopStorage) PutArtifact(context.Context, string, string, []byte, string) error { return nil }

func (nopStorage) DeleteRun(context.Context, string) error { return nil }
