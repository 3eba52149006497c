package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// Cloudinary caps free-tier uploads at 10MB; reject earlier with a clear error.
const maxUploadBytes = 10 << 20

// UploadHandler handles backoffice image uploads.
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage handles POST /v1/admin/uploads/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "File is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		utils.Error(c, 400, "FILE_TOO_LARGE", "File exceeds the 10MB limit")
		return
	}

	url, err := h.uploadService.UploadProductImage(c.Request.Context(), fileHeader)
	if err != nil {
		utils.Error(c, 502, "UPLOAD_FAILED", "Image upload failed")
		return
	}

	utils.Success(c, 201, "Image uploaded", gin.H{"url": url})
}
