package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps a single uploaded image.
const MaxUploadSize = 10 << 20

// MaxFilesPerRequest caps a multi-image upload.
const MaxFilesPerRequest = 10

var (
	ErrTooLarge        = errors.New("file exceeds the 10MB limit")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrPresignOnly     = errors.New("presigned uploads need the s3 image store")
)

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ImageStore hosts uploaded images and hands back their public URLs.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, filename, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, folder, id string) error
}

// PresignResult describes a direct browser upload.
type PresignResult struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	Key       string            `json:"key"`
	PublicURL string            `json:"public_url"`
	ExpiresIn int64             `json:"expires_in"`
}

// Presigner is implemented by stores that support direct uploads.
type Presigner interface {
	Presign(ctx context.Context, filename, contentType string) (*PresignResult, error)
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var allowedExts = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".webp": true, ".gif": true}

// Validate checks the size and type of an upload. Either a known content type or a known extension is enough.
func Validate(filename, contentType string, size int64) error {
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if _, ok := allowedTypes[ct]; ok {
		return nil
	}
	if allowedExts[strings.ToLower(filepath.Ext(filename))] && (ct == "" || ct == "application/octet-stream") {
		return nil
	}
	return ErrUnsupportedType
}

// extFor picks a file extension from the name, falling back to the content type.
func extFor(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); allowedExts[ext] {
		return ext
	}
	if ext, ok := allowedTypes[strings.ToLower(contentType)]; ok {
		return ext
	}
	return ""
}
