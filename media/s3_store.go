package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PresignExpiry is how long a presigned upload URL stays valid.
const PresignExpiry = 15 * time.Minute

// objectUploader is satisfied by *manager.Uploader.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// objectDeleter is satisfied by *s3.Client.
type objectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Config struct {
	Bucket           string
	Prefix           string
	CloudFrontDomain string
	Endpoint         string
}

type S3Store struct {
	uploader  objectUploader
	deleter   objectDeleter
	presigner awspkg.PresignPutter
	cfg       S3Config
}

func NewS3Store(client *s3.Client, cfg S3Config) *S3Store {
	return newS3Store(manager.NewUploader(client), client, awspkg.NewPresigner(client), cfg)
}

func newS3Store(up objectUploader, del objectDeleter, pre awspkg.PresignPutter, cfg S3Config) *S3Store {
	if cfg.Bucket == "" {
		cfg.Bucket = "vastrashahi"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "products/"
	}
	return &S3Store{uploader: up, deleter: del, presigner: pre, cfg: cfg}
}

func (s *S3Store) key(filename, contentType string) string {
	return s.cfg.Prefix + uuid.NewString() + extFor(filename, contentType)
}

// publicURL prefers CloudFront, then a custom endpoint, then the bucket's virtual-host URL.
func (s *S3Store) publicURL(key string) string {
	switch {
	case s.cfg.CloudFrontDomain != "":
		return fmt.Sprintf("https://%s/%s", strings.TrimRight(s.cfg.CloudFrontDomain, "/"), key)
	case s.cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.Bucket, key)
	}
}

func (s *S3Store) Upload(ctx context.Context, file io.Reader, filename, contentType string) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	key := s.key(filename, contentType)
	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(s.cfg.Bucket),
		Key:    sdkaws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("s3 upload failed: %w", err)
	}
	return &UploadResult{URL: s.publicURL(key), PublicID: key}, nil
}

// Delete removes folder/id from the bucket; folder defaults to the configured prefix.
func (s *S3Store) Delete(ctx context.Context, folder, id string) error {
	key := id
	if folder != "" {
		key = strings.TrimRight(folder, "/") + "/" + id
	} else if !strings.HasPrefix(id, s.cfg.Prefix) {
		key = s.cfg.Prefix + id
	}
	if _, err := s.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: sdkaws.String(s.cfg.Bucket),
		Key:    sdkaws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (s *S3Store) Presign(ctx context.Context, filename, contentType string) (*PresignResult, error) {
	if err := Validate(filename, contentType, 0); err != nil {
		return nil, err
	}
	key := s.key(filename, contentType)
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(s.cfg.Bucket),
		Key:         sdkaws.String(key),
		ContentType: sdkaws.String(contentType),
	}, awspkg.WithExpiry(PresignExpiry))
	if err != nil {
		return nil, err
	}
	return &PresignResult{
		UploadURL: req.URL,
		Method:    req.Method,
		Headers:   req.Headers,
		Key:       key,
		PublicURL: s.publicURL(key),
		ExpiresIn: int64(PresignExpiry.Seconds()),
	}, nil
}
