package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/internal/maintenance"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/prometheus"
)

// SubmitFeedback attaches a rating to a completed request. A request accepts
// feedback exactly once.
func SubmitFeedback(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	requestID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse feedback", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	feedback, err := requests.AttachFeedback(requestID, userID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrRequestNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case errors.Is(err, maintenance.ErrWrongTenant):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		case errors.Is(err, maintenance.ErrInvalidRating):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, maintenance.ErrNotCompleted):
			prometheus.RecordPortalError("feedback_precondition")
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, maintenance.ErrFeedbackExists):
			prometheus.RecordPortalError("duplicate_feedback")
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			log.Error("Failed to attach feedback", zap.Error(err))
			prometheus.RecordPortalError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit feedback"})
		}
	}

	prometheus.FeedbackCounter.WithLabelValues(strconv.Itoa(req.Rating)).Inc()
	return c.JSON(http.StatusCreated, feedback)
}

// AdminListFeedback returns all feedback rows for the admin view
func AdminListFeedback(c echo.Context) error {
	log := logger.FromContext(c)

	feedback, err := requests.ListFeedback()
	if err != nil {
		log.Error("Failed to list feedback", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve feedback"})
	}

	log.Info("Feedback retrieved", zap.Int("count", len(feedback)))
	return c.JSON(http.StatusOK, feedback)
}
