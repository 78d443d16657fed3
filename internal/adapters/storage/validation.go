package storage

import (
	"fmt"
	"strings"
)

// AllowedContentTypes lists what partners may attach to leads and remarks:
// scanned prescriptions and reports, plus common document formats.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,

	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel":                                          true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
	"text/csv":   true,
}

func (s *MinIOService) ValidateContentType(contentType string) error {
	// Strip parameters such as charset before matching.
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))

	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds the %d byte limit", sizeBytes, s.maxFileSize)
	}
	return nil
}
