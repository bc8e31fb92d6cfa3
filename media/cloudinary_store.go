package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// cloudinaryUploader is the part of the SDK upload API the store calls.
type cloudinaryUploader interface {
	UnsignedUpload(ctx context.Context, file interface{}, uploadPreset string, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
}

type CloudinaryStore struct {
	api    cloudinaryUploader
	preset string
	signed bool
	now    func() time.Time
}

func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	if cfg.CloudName == "" {
		return nil, errors.New("CLOUDINARY_CLOUD_NAME not set")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return newCloudinaryStore(&cld.Upload, cfg), nil
}

func newCloudinaryStore(api cloudinaryUploader, cfg CloudinaryConfig) *CloudinaryStore {
	preset := cfg.UploadPreset
	if preset == "" {
		preset = "profile"
	}
	return &CloudinaryStore{
		api:    api,
		preset: preset,
		signed: cfg.APIKey != "" && cfg.APISecret != "",
		now:    time.Now,
	}
}

// Upload tries the unsigned preset first and falls back to a signed upload when credentials exist.
// The body is buffered so the retry can resend it.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, filename, contentType string) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	res, err := s.api.UnsignedUpload(ctx, bytes.NewReader(data), s.preset, uploader.UploadParams{})
	if err = resultErr(res, err); err == nil {
		return &UploadResult{URL: res.SecureURL, PublicID: res.PublicID}, nil
	}
	if !s.signed {
		return nil, fmt.Errorf("cloudinary unsigned upload failed: %w", err)
	}
	zap.L().Warn("Unsigned upload failed, retrying signed", zap.Error(err))

	res, err = s.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: fmt.Sprintf("vastrashahi_%d", s.now().UnixMilli()),
	})
	if err = resultErr(res, err); err != nil {
		return nil, fmt.Errorf("cloudinary signed upload failed: %w", err)
	}
	return &UploadResult{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete destroys folder/id, or just id when no folder is given.
func (s *CloudinaryStore) Delete(ctx context.Context, folder, id string) error {
	publicID := id
	if folder != "" {
		publicID = folder + "/" + id
	}
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy failed: %s", res.Error.Message)
	}
	return nil
}

func resultErr(res *uploader.UploadResult, err error) error {
	if err != nil {
		return err
	}
	if res == nil {
		return errors.New("empty upload response")
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}
