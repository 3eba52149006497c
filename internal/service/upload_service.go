package service

import (
	"context"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"
)

// UploadService pushes product imagery to Cloudinary and hands back the
// delivery URL stored on the product.
type UploadService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewUploadService creates a new UploadService.
func NewUploadService(cloudName, apiKey, apiSecret, folder string) (*UploadService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &UploadService{cld: cld, folder: folder}, nil
}

// UploadProductImage stores an uploaded file and returns its secure URL.
func (s *UploadService) UploadProductImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return "", err
	}

	log.Info().Str("public_id", result.PublicID).Msg("product image uploaded")
	return result.SecureURL, nil
}
