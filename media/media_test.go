package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudinary struct {
	unsignedErr    string
	unsignedPreset string
	signedCalls    int
	signedParams   uploader.UploadParams
	destroyedID    string
}

func (f *fakeCloudinary) UnsignedUpload(_ context.Context, _ interface{}, preset string, _ uploader.UploadParams) (*uploader.UploadResult, error) {
	f.unsignedPreset = preset
	if f.unsignedErr != "" {
		return &uploader.UploadResult{Error: api.ErrorResp{Message: f.unsignedErr}}, nil
	}
	return &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/u.jpg", PublicID: "u"}, nil
}

func (f *fakeCloudinary) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.signedCalls++
	f.signedParams = params
	data, _ := io.ReadAll(file.(io.Reader))
	if len(data) == 0 {
		return nil, errors.New("empty body")
	}
	return &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/s.jpg", PublicID: params.PublicID}, nil
}

func (f *fakeCloudinary) Destroy(_ context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyedID = params.PublicID
	return &uploader.DestroyResult{Result: "ok"}, nil
}

func TestCloudinaryStore_UnsignedUpload(t *testing.T) {
	fake := &fakeCloudinary{}
	store := newCloudinaryStore(fake, CloudinaryConfig{CloudName: "demo"})

	res, err := store.Upload(context.Background(), strings.NewReader("img"), "a.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/u.jpg", res.URL)
	assert.Equal(t, "profile", fake.unsignedPreset)
	assert.Zero(t, fake.signedCalls)
}

func TestCloudinaryStore_FallsBackToSigned(t *testing.T) {
	fake := &fakeCloudinary{unsignedErr: "Upload preset not found"}
	store := newCloudinaryStore(fake, CloudinaryConfig{CloudName: "demo", APIKey: "k", APISecret: "s"})
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	res, err := store.Upload(context.Background(), strings.NewReader("img"), "a.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.signedCalls)
	assert.Equal(t, "vastrashahi_1700000000000", res.PublicID)
}

func TestCloudinaryStore_NoFallbackWithoutCredentials(t *testing.T) {
	fake := &fakeCloudinary{unsignedErr: "Upload preset not found"}
	store := newCloudinaryStore(fake, CloudinaryConfig{CloudName: "demo"})

	_, err := store.Upload(context.Background(), strings.NewReader("img"), "a.jpg", "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
	assert.Zero(t, fake.signedCalls)
}

func TestCloudinaryStore_Delete(t *testing.T) {
	fake := &fakeCloudinary{}
	store := newCloudinaryStore(fake, CloudinaryConfig{CloudName: "demo"})

	require.NoError(t, store.Delete(context.Background(), "vastrashahi", "abc"))
	assert.Equal(t, "vastrashahi/abc", fake.destroyedID)
}

type fakeUploader struct {
	input *s3.PutObjectInput
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.input = input
	return &manager.UploadOutput{}, nil
}

type fakeDeleter struct {
	key string
}

func (f *fakeDeleter) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.key = *params.Key
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	expires time.Duration
}

func (f *fakePresigner) PresignPutObject(_ context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*awspkg.PresignedRequest, error) {
	opts := &s3.PresignOptions{}
	for _, fn := range optFns {
		fn(opts)
	}
	f.expires = opts.Expires
	return &awspkg.PresignedRequest{URL: "https://bucket.s3/" + *params.Key + "?sig", Method: "PUT"}, nil
}

func TestS3Store_UploadUsesCloudFront(t *testing.T) {
	up := &fakeUploader{}
	store := newS3Store(up, &fakeDeleter{}, &fakePresigner{}, S3Config{Bucket: "shop", Prefix: "img/", CloudFrontDomain: "cdn.example.com"})

	res, err := store.Upload(context.Background(), strings.NewReader("img"), "photo.png", "image/png")
	require.NoError(t, err)
	require.NotNil(t, up.input)
	assert.Equal(t, "shop", *up.input.Bucket)
	assert.True(t, strings.HasPrefix(*up.input.Key, "img/"))
	assert.True(t, strings.HasSuffix(*up.input.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+*up.input.Key, res.URL)
}

func TestS3Store_BucketURLWithoutCDN(t *testing.T) {
	store := newS3Store(&fakeUploader{}, &fakeDeleter{}, &fakePresigner{}, S3Config{Bucket: "shop"})
	assert.Equal(t, "https://shop.s3.amazonaws.com/products/x.jpg", store.publicURL("products/x.jpg"))
}

func TestS3Store_Presign(t *testing.T) {
	pre := &fakePresigner{}
	store := newS3Store(&fakeUploader{}, &fakeDeleter{}, pre, S3Config{Bucket: "shop"})

	res, err := store.Presign(context.Background(), "a.webp", "image/webp")
	require.NoError(t, err)
	assert.Equal(t, PresignExpiry, pre.expires)
	assert.Equal(t, int64(900), res.ExpiresIn)
	assert.Equal(t, "PUT", res.Method)

	_, err = store.Presign(context.Background(), "a.exe", "application/x-msdownload")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestS3Store_Delete(t *testing.T) {
	del := &fakeDeleter{}
	store := newS3Store(&fakeUploader{}, del, &fakePresigner{}, S3Config{Bucket: "shop"})

	require.NoError(t, store.Delete(context.Background(), "", "abc.jpg"))
	assert.Equal(t, "products/abc.jpg", del.key)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("a.jpg", "image/jpeg", 1024))
	assert.NoError(t, Validate("a.gif", "application/octet-stream", 1024))
	assert.ErrorIs(t, Validate("a.jpg", "image/jpeg", MaxUploadSize+1), ErrTooLarge)
	assert.ErrorIs(t, Validate("a.pdf", "application/pdf", 10), ErrUnsupportedType)
}
