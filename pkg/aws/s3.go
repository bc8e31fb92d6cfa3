package aws

import (
	"context"
	"fmt"
	"os"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates an S3 client. Path-style addressing is forced when a custom endpoint is set.
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := os.Getenv("AWS_S3_ENDPOINT"); ep != "" {
			o.BaseEndpoint = sdkaws.String(ep)
			o.UsePathStyle = true
		} else if cfg.BaseEndpoint != nil {
			o.UsePathStyle = true
		}
	})
}

// PresignPutter is the part of the S3 presign client used for direct uploads.
type PresignPutter interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error)
}

// PresignedRequest mirrors the fields callers need from a presigned HTTP request.
type PresignedRequest struct {
	URL     string
	Method  string
	Headers map[string]string
}

// Presigner wraps s3.PresignClient behind PresignPutter.
type Presigner struct {
	client *s3.PresignClient
}

func NewPresigner(client *s3.Client) *Presigner {
	return &Presigner{client: s3.NewPresignClient(client)}
}

func (p *Presigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	req, err := p.client.PresignPutObject(ctx, params, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to presign put object: %w", err)
	}
	headers := make(map[string]string, len(req.SignedHeader))
	for k, v := range req.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return &PresignedRequest{URL: req.URL, Method: req.Method, Headers: headers}, nil
}

// WithExpiry sets the lifetime of a presigned request.
func WithExpiry(d time.Duration) func(*s3.PresignOptions) {
	return func(o *s3.PresignOptions) {
		o.Expires = d
	}
}
