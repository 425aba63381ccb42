package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/realtime"
	"github.com/Beikwaw/RezTek/pkg/database"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/pkg/validation"
	"github.com/Beikwaw/RezTek/prometheus"
)

// GetProfile returns the authenticated tenant's profile
func GetProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, userID); result.Error != nil {
		log.Error("Tenant not found", zap.Uint("tenant_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}

	return c.JSON(http.StatusOK, tenant)
}

// UpdateProfile updates the tenant's contact number. By policy that is the
// only tenant-editable field; name, surname and tenant code are fixed at
// sign-up.
func UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		ContactNumber string `json:"contact_number"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse profile update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validation.IsValidPhoneNumber(req.ContactNumber) {
		prometheus.RecordPortalError("invalid_phone")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid South African mobile number"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, userID); result.Error != nil {
		log.Error("Tenant not found for update", zap.Uint("tenant_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}

	if result := database.GetDB().Model(&tenant).Update("contact_number", req.ContactNumber); result.Error != nil {
		log.Error("Failed to update contact number", zap.Error(result.Error))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	log.Info("Contact number updated", zap.Uint("tenant_id", userID))
	tenant.ContactNumber = req.ContactNumber

	feed.Publish(realtime.Event{
		Collection: realtime.CollectionTenants,
		Action:     realtime.ActionUpdated,
		Payload:    tenant,
	})

	return c.JSON(http.StatusOK, tenant)
}

// ListTenants returns all tenant profiles for the admin dashboard, optionally
// filtered by residence.
func ListTenants(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Order("created_at DESC")
	residence := c.QueryParam("residence")
	if residence != "" && residence != "All" {
		query = query.Where("residence = ?", residence)
	}

	var tenants []model.Tenant
	if result := query.Find(&tenants); result.Error != nil {
		log.Error("Failed to list tenants", zap.Error(result.Error))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve tenants"})
	}

	log.Info("Tenants retrieved", zap.Int("count", len(tenants)))
	return c.JSON(http.StatusOK, tenants)
}
