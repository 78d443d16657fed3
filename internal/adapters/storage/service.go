// Package storage adapts S3-compatible object storage for the rest of the
// application. Lead documents and remark attachments live here; the database
// keeps only file keys.
package storage

import (
	"context"
	"io"
	"time"
)

// PresignedURL is a time-limited download link for a stored object.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StorageService is what the modules program against. It knows nothing
// about leads or remarks, only buckets and keys.
type StorageService interface {
	// UploadFile streams a file into the bucket and returns the key it
	// was stored under.
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// GenerateDownloadURL mints a presigned download link for fileKey.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)

	// DeleteObject removes fileKey from the bucket.
	DeleteObject(ctx context.Context, bucket, fileKey string) error

	// EnsureBucketExists creates the bucket when missing.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// ValidateContentType rejects MIME types outside the allow list.
	ValidateContentType(contentType string) error

	// ValidateFileSize rejects empty and oversized uploads.
	ValidateFileSize(sizeBytes int64) error
}

// Config is the slice of application config the adapter reads.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
