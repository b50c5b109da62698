// Package media uploads and deletes user-supplied assets (avatars, cover
// images, video files, thumbnails) in an object store.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/config"
)

// Folders group assets by purpose inside the bucket.
const (
	FolderAvatars    = "avatars"
	FolderCovers     = "covers"
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

var ErrEmptyUpload = errors.New("media: empty upload")

// Asset is a stored object: a durable URL plus the identifier used to delete it.
type Asset struct {
	URL string
	ID  string
}

// Upload describes a file to store. Open may be called more than once so a
// failed attempt can be retried from the start.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type Store interface {
	Upload(ctx context.Context, folder string, u Upload) (Asset, error)
	Delete(ctx context.Context, id string) error
}

// FromFileHeader adapts a multipart file to an Upload.
func FromFileHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromBytes is an Upload over an in-memory payload.
func FromBytes(filename, contentType string, data []byte) Upload {
	return Upload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(string(data))), nil
		},
	}
}

func objectKey(folder, filename string) string {
	return path.Join(folder, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

func contentType(u Upload) string {
	if u.ContentType != "" {
		return u.ContentType
	}
	return "application/octet-stream"
}

func publicURL(baseURL, key string) string {
	if baseURL == "" {
		return key
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + key
}

// NewStore builds the configured backend wrapped in retries.
func NewStore(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	var (
		store Store
		err   error
	)
	switch strings.ToLower(cfg.Driver) {
	case "s3", "":
		store, err = NewS3Store(ctx, cfg)
	case "minio":
		store, err = NewMinIOStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("media: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewRetrying(store, cfg.MaxAttempts), nil
}
