package maintenance

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/realtime"
	"github.com/Beikwaw/RezTek/pkg/validation"
)

// Engine failures callers are expected to branch on.
var (
	ErrInvalidLocation     = errors.New("issue location is required and must be a known location")
	ErrInvalidUrgency      = errors.New("urgency level is required and must be Low, Medium or High")
	ErrEmptyDescription    = errors.New("description is required")
	ErrInvalidStatus       = errors.New("unknown request status")
	ErrBackwardTransition  = errors.New("request status cannot move backward")
	ErrRequestNotFound     = errors.New("maintenance request not found")
	ErrNotCompleted        = errors.New("feedback is only accepted on completed requests")
	ErrFeedbackExists      = errors.New("feedback has already been submitted for this request")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrWrongTenant         = errors.New("request does not belong to this tenant")
)

// Engine governs creation and status transitions of maintenance requests and
// the one-to-one linkage to feedback. It owns no global state: the database
// handle and change-feed hub are injected at construction.
type Engine struct {
	db  *gorm.DB
	log *zap.Logger
	hub *realtime.Hub
}

// NewEngine creates a request lifecycle engine.
func NewEngine(db *gorm.DB, log *zap.Logger, hub *realtime.Hub) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log, hub: hub}
}

// CreateInput carries everything a tenant supplies when filing a request.
type CreateInput struct {
	TenantID      uint
	IssueLocation model.IssueLocation
	UrgencyLevel  model.UrgencyLevel
	Description   string
	ImageURL      string
}

// Create validates the input, generates a waiting number and persists a new
// request with status Submitted. An image reference is only attached when the
// urgency is High; for lower urgencies a supplied image is dropped.
func (e *Engine) Create(input CreateInput) (*model.MaintenanceRequest, error) {
	if !input.IssueLocation.Valid() {
		return nil, ErrInvalidLocation
	}
	if !input.UrgencyLevel.Valid() {
		return nil, ErrInvalidUrgency
	}
	if input.Description == "" {
		return nil, ErrEmptyDescription
	}

	imageURL := input.ImageURL
	if input.UrgencyLevel != model.UrgencyHigh {
		imageURL = ""
	}

	now := time.Now()
	request := model.MaintenanceRequest{
		WaitingNumber: validation.GenerateWaitingNumber(),
		TenantID:      input.TenantID,
		IssueLocation: input.IssueLocation,
		UrgencyLevel:  input.UrgencyLevel,
		Description:   input.Description,
		ImageURL:      imageURL,
		Status:        model.StatusSubmitted,
		HasFeedback:   false,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}

	if result := e.db.Create(&request); result.Error != nil {
		e.log.Error("Failed to create maintenance request",
			zap.Uint("tenant_id", input.TenantID),
			zap.Error(result.Error))
		return nil, result.Error
	}

	e.log.Info("Maintenance request created",
		zap.Uint("request_id", request.ID),
		zap.String("waiting_number", request.WaitingNumber),
		zap.String("urgency", string(request.UrgencyLevel)))

	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionRequests,
		Action:     realtime.ActionCreated,
		Payload:    request,
	})

	return &request, nil
}

// ChangeStatus moves a request to a new workflow state. The four states are
// ordered and a request never moves backward: re-setting the current status
// is accepted, a lower-ranked target is rejected.
func (e *Engine) ChangeStatus(requestID uint, newStatus model.RequestStatus, actor string) (*model.MaintenanceRequest, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	var request model.MaintenanceRequest
	if result := e.db.First(&request, requestID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, result.Error
	}

	if newStatus.Rank() < request.Status.Rank() {
		e.log.Warn("Rejected backward status transition",
			zap.Uint("request_id", requestID),
			zap.String("current", string(request.Status)),
			zap.String("requested", string(newStatus)))
		return nil, ErrBackwardTransition
	}

	request.Status = newStatus
	request.UpdatedAt = time.Now()
	if result := e.db.Model(&request).Select("status", "updated_at").Updates(&request); result.Error != nil {
		e.log.Error("Failed to update request status",
			zap.Uint("request_id", requestID),
			zap.Error(result.Error))
		return nil, result.Error
	}

	e.log.Info("Request status changed",
		zap.Uint("request_id", requestID),
		zap.String("status", string(newStatus)),
		zap.String("actor", actor))

	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionRequests,
		Action:     realtime.ActionUpdated,
		Payload:    request,
	})

	return &request, nil
}

// AttachFeedback records a tenant's rating of completed work. The feedback
// row and the request's has_feedback flag are written in one transaction so
// neither can be observed without the other. A second submission for the same
// request is rejected before any write.
func (e *Engine) AttachFeedback(requestID, tenantID uint, rating int, comment string) (*model.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var request model.MaintenanceRequest
	if result := e.db.First(&request, requestID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, result.Error
	}

	if request.TenantID != tenantID {
		return nil, ErrWrongTenant
	}
	if request.Status != model.StatusCompleted {
		return nil, ErrNotCompleted
	}
	if request.HasFeedback {
		return nil, ErrFeedbackExists
	}

	// The flag can lag behind the row if an earlier write half-applied, so
	// check the feedback collection itself as well.
	var existing int64
	e.db.Model(&model.Feedback{}).Where("request_id = ?", requestID).Count(&existing)
	if existing > 0 {
		return nil, ErrFeedbackExists
	}

	feedback := model.Feedback{
		RequestID:   requestID,
		TenantID:    tenantID,
		Rating:      rating,
		Comment:     comment,
		SubmittedAt: time.Now(),
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&feedback); result.Error != nil {
			return result.Error
		}
		return tx.Model(&model.MaintenanceRequest{}).
			Where("id = ?", requestID).
			Updates(map[string]interface{}{"has_feedback": true, "updated_at": time.Now()}).Error
	})
	if err != nil {
		e.log.Error("Failed to attach feedback",
			zap.Uint("request_id", requestID),
			zap.Error(err))
		return nil, err
	}

	e.log.Info("Feedback attached",
		zap.Uint("request_id", requestID),
		zap.Int("rating", rating))

	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionFeedback,
		Action:     realtime.ActionCreated,
		Payload:    feedback,
	})

	return &feedback, nil
}

// Get returns a single request by id.
func (e *Engine) Get(requestID uint) (*model.MaintenanceRequest, error) {
	var request model.MaintenanceRequest
	if result := e.db.First(&request, requestID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, result.Error
	}
	return &request, nil
}

// ListByTenant returns the tenant's own requests, newest first.
func (e *Engine) ListByTenant(tenantID uint) ([]model.MaintenanceRequest, error) {
	var requests []model.MaintenanceRequest
	result := e.db.Where("tenant_id = ?", tenantID).
		Order("submitted_at DESC").
		Find(&requests)
	return requests, result.Error
}

// ListFilter narrows the admin listing. Zero values mean no filter.
type ListFilter struct {
	Status    model.RequestStatus
	Residence model.Residence
}

// List returns requests for the admin dashboard with tenant profiles
// preloaded, newest first.
func (e *Engine) List(filter ListFilter) ([]model.MaintenanceRequest, error) {
	query := e.db.Preload("Tenant").Order("submitted_at DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Residence != "" {
		query = query.Joins("JOIN tenants ON tenants.id = maintenance_requests.tenant_id").
			Where("tenants.residence = ?", filter.Residence)
	}

	var requests []model.MaintenanceRequest
	result := query.Find(&requests)
	return requests, result.Error
}

// ListFeedback returns all feedback rows, newest first.
func (e *Engine) ListFeedback() ([]model.Feedback, error) {
	var feedback []model.Feedback
	result := e.db.Order("submitted_at DESC").Find(&feedback)
	return feedback, result.Error
}

// FeedbackForRequest returns the feedback attached to a request, if any.
func (e *Engine) FeedbackForRequest(requestID uint) (*model.Feedback, error) {
	var feedback model.Feedback
	result := e.db.Where("request_id = ?", requestID).First(&feedback)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &feedback, nil
}

// AttachImage stores an uploaded image reference on an existing High-urgency
// request. Lower urgencies never carry images.
func (e *Engine) AttachImage(requestID uint, imageURL string) (*model.MaintenanceRequest, error) {
	var request model.MaintenanceRequest
	if result := e.db.First(&request, requestID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, result.Error
	}

	if request.UrgencyLevel != model.UrgencyHigh {
		return nil, ErrInvalidUrgency
	}

	request.ImageURL = imageURL
	request.UpdatedAt = time.Now()
	if result := e.db.Model(&request).Select("image_url", "updated_at").Updates(&request); result.Error != nil {
		return nil, result.Error
	}

	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionRequests,
		Action:     realtime.ActionUpdated,
		Payload:    request,
	})

	return &request, nil
}
