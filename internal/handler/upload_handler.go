package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inkwell/internal/errors"
	"inkwell/internal/storage"
)

// UploadHandler handles image uploads to the object host.
type UploadHandler struct {
	uploader *storage.Uploader
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// UploadResponse carries the public URL of the stored image.
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Upload godoc
// @Summary Upload an image
// @Tags upload
// @Accept mpfd
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "No file provided",
			Code:    "VALIDATION_ERROR",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Message: "failed to read uploaded file",
			Code:    "UPLOAD_FAILED",
		})
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.uploader.Upload(c.Request().Context(), fileHeader.Filename, contentType, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Message: "failed to store uploaded file",
			Code:    "UPLOAD_FAILED",
		})
	}

	return c.JSON(http.StatusOK, UploadResponse{ImageURL: url})
}
