package storage

import (
	"context"
	"errors"
	"io"
)

// ErrStorageDisabled is returned by DisabledService when no object store is
// configured. Attachment flows treat it like any other upload failure.
var ErrStorageDisabled = errors.New("object storage is not configured")

// DisabledService satisfies StorageService when MinIO is not configured.
type DisabledService struct{}

func NewDisabledService() *DisabledService {
	return &DisabledService{}
}

func (*DisabledService) UploadFile(context.Context, string, string, string, string, io.Reader, int64) (string, error) {
	return "", ErrStorageDisabled
}

func (*DisabledService) GenerateDownloadURL(context.Context, string, string) (*PresignedURL, error) {
	return nil, ErrStorageDisabled
}

func (*DisabledService) DeleteObject(context.Context, string, string) error {
	return ErrStorageDisabled
}

func (*DisabledService) EnsureBucketExists(context.Context, string) error {
	return ErrStorageDisabled
}

func (*DisabledService) ValidateContentType(string) error {
	return ErrStorageDisabled
}

func (*DisabledService) ValidateFileSize(int64) error {
	return ErrStorageDisabled
}

// Compile-time check that DisabledService implements StorageService
var _ StorageService = (*DisabledService)(nil)
