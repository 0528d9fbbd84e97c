package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	aws_pkg "github.com/devmazaharul/fcommerce/pkg/aws"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const uploadURLExpiry = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImagePresigner is satisfied by aws_pkg.Presigner.
type ImagePresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (*aws_pkg.PresignedUpload, error)
}

// ImageUpload is returned to the admin UI: where to PUT the file and the
// URL to store on the product afterwards.
type ImageUpload struct {
	*aws_pkg.PresignedUpload
	PublicURL string `json:"public_url"`
}

type UploadService struct {
	presigner     ImagePresigner
	publicBaseURL string
	logger        *zap.Logger
}

func NewUploadService(presigner ImagePresigner, publicBaseURL string, logger *zap.Logger) *UploadService {
	return &UploadService{
		presigner:     presigner,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// ProductImageURL presigns an upload slot for a product image.
func (s *UploadService) ProductImageURL(ctx context.Context, contentType string) (*ImageUpload, *ServiceError) {
	if s.presigner == nil {
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Image uploads are not configured", Err: ErrBackendUnavailable}
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, validationError("Unsupported image type")
	}

	key := "products/" + uuid.NewString() + ext
	upload, err := s.presigner.PresignPut(ctx, key, strings.ToLower(contentType), uploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.String("key", key), zap.Error(err))
		return nil, unavailableError("Failed to create upload URL")
	}
	return &ImageUpload{PresignedUpload: upload, PublicURL: s.publicBaseURL + "/" + key}, nil
}
