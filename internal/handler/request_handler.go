package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/internal/maintenance"
	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/prometheus"
)

// CreateRequest files a new maintenance request for the authenticated tenant
func CreateRequest(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		IssueLocation model.IssueLocation `json:"issue_location"`
		UrgencyLevel  model.UrgencyLevel  `json:"urgency_level"`
		Description   string              `json:"description"`
		ImageURL      string              `json:"image_url,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request creation", zap.Error(err))
		prometheus.RecordPortalError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	request, err := requests.Create(maintenance.CreateInput{
		TenantID:      userID,
		IssueLocation: req.IssueLocation,
		UrgencyLevel:  req.UrgencyLevel,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrInvalidLocation),
			errors.Is(err, maintenance.ErrInvalidUrgency),
			errors.Is(err, maintenance.ErrEmptyDescription):
			prometheus.RecordPortalError("invalid_request")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			prometheus.RecordPortalError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit request"})
		}
	}

	prometheus.RequestSubmittedCounter.WithLabelValues(string(request.UrgencyLevel)).Inc()
	return c.JSON(http.StatusCreated, request)
}

// ListMyRequests returns the authenticated tenant's requests, newest first
func ListMyRequests(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	list, err := requests.ListByTenant(userID)
	if err != nil {
		log.Error("Failed to list requests", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve requests"})
	}

	return c.JSON(http.StatusOK, list)
}

// GetRequest returns a single request. Tenants may only read their own;
// admins may read any.
func GetRequest(c echo.Context) error {
	log := logger.FromContext(c)

	requestID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	request, err := requests.Get(requestID)
	if err != nil {
		if errors.Is(err, maintenance.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		log.Error("Failed to get request", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve request"})
	}

	role, _ := c.Get("role").(string)
	userID, _ := c.Get("user_id").(uint)
	if role != model.RoleAdmin && request.TenantID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	return c.JSON(http.StatusOK, request)
}

// AdminListRequests returns requests for the admin dashboard with optional
// status and residence filters
func AdminListRequests(c echo.Context) error {
	log := logger.FromContext(c)

	filter := maintenance.ListFilter{}
	if status := c.QueryParam("status"); status != "" && status != "All" {
		filter.Status = model.RequestStatus(status)
		if !filter.Status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
	}
	if residence := c.QueryParam("residence"); residence != "" && residence != "All" {
		filter.Residence = model.Residence(residence)
		if !filter.Residence.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown residence"})
		}
	}

	list, err := requests.List(filter)
	if err != nil {
		log.Error("Failed to list requests", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve requests"})
	}

	log.Info("Requests retrieved", zap.Int("count", len(list)))
	return c.JSON(http.StatusOK, list)
}

// ChangeRequestStatus moves a request through the workflow (admin only)
func ChangeRequestStatus(c echo.Context) error {
	log := logger.FromContext(c)

	requestID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	var req struct {
		Status model.RequestStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse status change", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	actor, _ := c.Get("email").(string)

	defer prometheus.TrackDBOperation("update")(time.Now())
	request, err := requests.ChangeStatus(requestID, req.Status, actor)
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrRequestNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case errors.Is(err, maintenance.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, maintenance.ErrBackwardTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			log.Error("Failed to change status", zap.Error(err))
			prometheus.RecordPortalError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
		}
	}

	prometheus.StatusChangeCounter.WithLabelValues(string(req.Status)).Inc()
	return c.JSON(http.StatusOK, request)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
