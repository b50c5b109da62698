package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/vidtube/backend/internal/config"
)

// MinIOStore stores assets in a MinIO bucket, creating it on first use.
type MinIOStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOStore(ctx context.Context, cfg config.MediaConfig) (*MinIOStore, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	if endpoint == "" {
		return nil, fmt.Errorf("minio storage: endpoint is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio storage: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Bucket)
	}

	s := &MinIOStore{client: client, bucket: cfg.Bucket, baseURL: baseURL}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio storage: bucket check: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("minio storage: make bucket: %w", err)
		}
	}
	return nil
}

func (s *MinIOStore) Upload(ctx context.Context, folder string, u Upload) (Asset, error) {
	if u.Open == nil {
		return Asset{}, ErrEmptyUpload
	}
	body, err := u.Open()
	if err != nil {
		return Asset{}, fmt.Errorf("open %s: %w", u.Filename, err)
	}
	defer body.Close()

	key := objectKey(folder, u.Filename)
	size := u.Size
	if size <= 0 {
		size = -1
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType(u),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("minio storage upload %s: %w", key, err)
	}
	return Asset{URL: publicURL(s.baseURL, key), ID: key}, nil
}

func (s *MinIOStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio storage delete %s: %w", id, err)
	}
	return nil
}
