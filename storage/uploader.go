package storage

import (
	"context"
	"errors"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

type disabledUploader struct{}

// NewDisabledUploader возвращает загрузчик-заглушку для окружений без
// настроенного объектного хранилища.
func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	return nil, errors.New("file storage is not configured")
}

func (disabledUploader) Delete(ctx context.Context, key string) error {
	return errors.New("file storage is not configured")
}

func (disabledUploader) GetPublicURL(key string) string { return "" }
