package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/media"
	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PresignRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
}

type MediaController struct {
	store     media.ImageStore
	presigner media.Presigner
	metrics   awspkg.MetricsRecorder
}

// NewMediaController serves uploads through store. presigner may be nil when the store cannot presign.
func NewMediaController(store media.ImageStore, presigner media.Presigner, metrics awspkg.MetricsRecorder) *MediaController {
	return &MediaController{store: store, presigner: presigner, metrics: metrics}
}

func uploadFailed(c *gin.Context, err error) {
	zap.L().Error("Image upload failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Upload failed", "error": err.Error()})
}

func checkFile(fh *multipart.FileHeader) error {
	if err := media.Validate(fh.Filename, fh.Header.Get("Content-Type"), fh.Size); err != nil {
		if errors.Is(err, media.ErrTooLarge) {
			return apperrors.BadRequest("File size exceeds 10MB limit")
		}
		return apperrors.BadRequest("Invalid image type. Allowed: jpeg, jpg, png, webp, gif")
	}
	return nil
}

func (ctrl *MediaController) upload(c *gin.Context, fh *multipart.FileHeader) (*media.UploadResult, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	result, err := ctrl.store.Upload(c.Request.Context(), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	awspkg.RecordCountAsync(ctrl.metrics, awspkg.MetricImagesUploaded, map[string]string{"Service": "vastrashahi"}, zap.L())
	return result, nil
}

func (ctrl *MediaController) AddImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadSize+(1<<20))
	fh, err := c.FormFile("image")
	if err != nil {
		_ = c.Error(apperrors.BadRequest("No image provided"))
		return
	}
	if err := checkFile(fh); err != nil {
		_ = c.Error(err)
		return
	}
	result, err := ctrl.upload(c, fh)
	if err != nil {
		uploadFailed(c, err)
		return
	}
	respond(c, http.StatusOK, "", result)
}

func (ctrl *MediaController) AddMultipleImages(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxFilesPerRequest*media.MaxUploadSize+(1<<20))
	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		_ = c.Error(apperrors.BadRequest("No image provided"))
		return
	}
	files := form.File["images"]
	if len(files) > media.MaxFilesPerRequest {
		_ = c.Error(apperrors.BadRequest(fmt.Sprintf("Maximum %d images allowed", media.MaxFilesPerRequest)))
		return
	}
	for _, fh := range files {
		if err := checkFile(fh); err != nil {
			_ = c.Error(err)
			return
		}
	}

	results := make([]*media.UploadResult, 0, len(files))
	for _, fh := range files {
		result, err := ctrl.upload(c, fh)
		if err != nil {
			uploadFailed(c, err)
			return
		}
		results = append(results, result)
	}
	respond(c, http.StatusOK, "", results)
}

func (ctrl *MediaController) DeleteImage(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		_ = c.Error(apperrors.BadRequest("id is required"))
		return
	}
	if err := ctrl.store.Delete(c.Request.Context(), c.Query("folder_name"), id); err != nil {
		_ = c.Error(apperrors.Internal("Failed to delete image", err))
		return
	}
	respond(c, http.StatusOK, "Image deleted successfully", nil)
}

// Presign hands the admin panel a direct upload URL.
func (ctrl *MediaController) Presign(c *gin.Context) {
	if ctrl.presigner == nil {
		_ = c.Error(apperrors.BadRequest(media.ErrPresignOnly.Error()))
		return
	}
	var req PresignRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	result, err := ctrl.presigner.Presign(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			_ = c.Error(apperrors.BadRequest("Invalid image type. Allowed: jpeg, jpg, png, webp, gif"))
			return
		}
		_ = c.Error(apperrors.Internal("Failed to create upload URL", err))
		return
	}
	respond(c, http.StatusOK, "", result)
}
