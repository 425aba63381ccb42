package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/internal/maintenance"
	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/storage"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/prometheus"
)

// UploadRequestImage stores a supporting image for a High-urgency request.
// The image is uploaded to the object store first and the reference attached
// second; an upload orphaned by a failed attach is harmless.
func UploadRequestImage(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	requestID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	// Only the owner may attach an image, and only to a High-urgency request
	request, err := requests.Get(requestID)
	if err != nil {
		if errors.Is(err, maintenance.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		log.Error("Failed to load request", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load request"})
	}
	if request.TenantID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	// Reject before touching the object store so a misdirected upload never
	// consumes one of the tenant's image slots
	if request.UrgencyLevel != model.UrgencyHigh {
		return c.JSON(http.StatusConflict, echo.Map{"error": "images are only collected for high-urgency requests"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "an image file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read uploaded file"})
	}
	defer file.Close()

	url, err := images.UploadRequestImage(
		c.Request().Context(),
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidImageType),
			errors.Is(err, storage.ErrImageTooLarge):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, storage.ErrImageLimit):
			prometheus.RecordPortalError("image_limit")
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			log.Error("Image upload failed", zap.Error(err))
			prometheus.RecordPortalError("storage_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload image"})
		}
	}

	updated, err := requests.AttachImage(requestID, url)
	if err != nil {
		if errors.Is(err, maintenance.ErrInvalidUrgency) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "images are only collected for high-urgency requests"})
		}
		log.Error("Failed to attach image reference", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to attach image"})
	}

	return c.JSON(http.StatusOK, updated)
}
