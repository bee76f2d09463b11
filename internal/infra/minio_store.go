package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/software-students-fall2024/5-final-y2k/internal/configuration"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
)

type MinioObjectStore struct {
	client     *minio.Client
	bucketName string
}

func NewMinioObjectStore(ctx context.Context, cfg configuration.MinIOConfig) (ports.ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	// Create bucket if it doesn't exist
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("[minio] created bucket: %s", cfg.BucketName)
	}

	return &MinioObjectStore{
		client:     client,
		bucketName: cfg.BucketName,
	}, nil
}

func (s *MinioObjectStore) Store(ctx context.Context, data []byte, filename, contentType string) (uuid.UUID, error) {
	id := uuid.New()

	_, err := s.client.PutObject(
		ctx,
		s.bucketName,
		id.String(),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{"filename": filename},
		},
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: put object: %v", shared.ErrStorage, err)
	}

	return id, nil
}

func (s *MinioObjectStore) Fetch(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, id.String(), minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("%w: get object: %v", shared.ErrStorage, err)
	}
	defer obj.Close()

	// GetObject is lazy; the first read surfaces a missing key
	stat, err := obj.Stat()
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, "", shared.ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: stat object: %v", shared.ErrStorage, err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read object: %v", shared.ErrStorage, err)
	}

	return data, stat.ContentType, nil
}
