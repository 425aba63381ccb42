package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/realtime"
)

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.MaintenanceRequest{},
		&model.Feedback{},
	))

	return NewEngine(db, nil, realtime.NewHub(nil)), db
}

func seedTenant(t *testing.T, db *gorm.DB) model.Tenant {
	t.Helper()
	tenant := model.Tenant{
		Name:       "Thabo",
		Surname:    "Mokoena",
		Email:      "thabo@example.com",
		RoomNumber: "A101",
		Residence:  model.ResidenceSaltRiver,
		TenantCode: "THA1234A101",
	}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func TestCreateRequest(t *testing.T) {
	engine, _ := newTestEngine(t)
	tenant := seedTenant(t, engine.db)

	request, err := engine.Create(CreateInput{
		TenantID:      tenant.ID,
		IssueLocation: model.LocationBathroom,
		UrgencyLevel:  model.UrgencyHigh,
		Description:   "water leak",
		ImageURL:      "http://images.example/leak.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusSubmitted, request.Status)
	assert.False(t, request.HasFeedback)
	assert.Regexp(t, `^REQ-\d{6}-\d{3}$`, request.WaitingNumber)
	assert.Equal(t, "http://images.example/leak.jpg", request.ImageURL)
	assert.Equal(t, request.SubmittedAt, request.UpdatedAt)
}

func TestCreateRequestDropsImageForLowUrgency(t *testing.T) {
	engine, _ := newTestEngine(t)
	tenant := seedTenant(t, engine.db)

	request, err := engine.Create(CreateInput{
		TenantID:      tenant.ID,
		IssueLocation: model.LocationKitchen,
		UrgencyLevel:  model.UrgencyLow,
		Description:   "dripping tap",
		ImageURL:      "http://images.example/tap.jpg",
	})
	require.NoError(t, err)
	assert.Empty(t, request.ImageURL)

	var persisted model.MaintenanceRequest
	require.NoError(t, engine.db.First(&persisted, request.ID).Error)
	assert.Empty(t, persisted.ImageURL)
}

func TestCreateRequestValidation(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Create(CreateInput{
		IssueLocation: "Garage",
		UrgencyLevel:  model.UrgencyLow,
		Description:   "broken",
	})
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = engine.Create(CreateInput{
		IssueLocation: model.LocationKitchen,
		UrgencyLevel:  "",
		Description:   "broken",
	})
	assert.ErrorIs(t, err, ErrInvalidUrgency)

	_, err = engine.Create(CreateInput{
		IssueLocation: model.LocationKitchen,
		UrgencyLevel:  model.UrgencyLow,
		Description:   "",
	})
	assert.ErrorIs(t, err, ErrEmptyDescription)
}

func TestChangeStatus(t *testing.T) {
	engine, _ := newTestEngine(t)
	tenant := seedTenant(t, engine.db)

	request, err := engine.Create(CreateInput{
		TenantID:      tenant.ID,
		IssueLocation: model.LocationBedroom,
		UrgencyLevel:  model.UrgencyMedium,
		Description:   "broken window",
	})
	require.NoError(t, err)

	// Forward progression through the workflow
	updated, err := engine.ChangeStatus(request.ID, model.StatusViewed, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.StatusViewed, updated.Status)

	updated, err = engine.ChangeStatus(request.ID, model.StatusCompleted, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)

	// Backward transitions are rejected
	_, err = engine.ChangeStatus(request.ID, model.StatusSubmitted, "admin")
	assert.ErrorIs(t, err, ErrBackwardTransition)

	var persisted model.MaintenanceRequest
	require.NoError(t, engine.db.First(&persisted, request.ID).Error)
	assert.Equal(t, model.StatusCompleted, persisted.Status)

	// Re-setting the current status is accepted
	_, err = engine.ChangeStatus(request.ID, model.StatusCompleted, "admin")
	assert.NoError(t, err)

	_, err = engine.ChangeStatus(request.ID, "Bogus", "admin")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = engine.ChangeStatus(9999, model.StatusPending, "admin")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestAttachFeedback(t *testing.T) {
	engine, _ := newTestEngine(t)
	tenant := seedTenant(t, engine.db)

	request, err := engine.Create(CreateInput{
		TenantID:      tenant.ID,
		IssueLocation: model.LocationUtilities,
		UrgencyLevel:  model.UrgencyLow,
		Description:   "flickering light",
	})
	require.NoError(t, err)

	// Feedback is only accepted on completed requests
	_, err = engine.AttachFeedback(request.ID, tenant.ID, 4, "quick fix")
	assert.ErrorIs(t, err, ErrNotCompleted)

	_, err = engine.ChangeStatus(request.ID, model.StatusCompleted, "admin")
	require.NoError(t, err)

	_, err = engine.AttachFeedback(request.ID, tenant.ID, 6, "too good")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = engine.AttachFeedback(request.ID, tenant.ID+1, 4, "not mine")
	assert.ErrorIs(t, err, ErrWrongTenant)

	feedback, err := engine.AttachFeedback(request.ID, tenant.ID, 4, "quick fix")
	require.NoError(t, err)
	assert.Equal(t, 4, feedback.Rating)

	var persisted model.MaintenanceRequest
	require.NoError(t, engine.db.First(&persisted, request.ID).Error)
	assert.True(t, persisted.HasFeedback)

	// A second submission is rejected and only one row exists
	_, err = engine.AttachFeedback(request.ID, tenant.ID, 5, "again")
	assert.ErrorIs(t, err, ErrFeedbackExists)

	var count int64
	engine.db.Model(&model.Feedback{}).Where("request_id = ?", request.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestListByTenantNewestFirst(t *testing.T) {
	engine, _ := newTestEngine(t)
	tenant := seedTenant(t, engine.db)

	for _, desc := range []string{"first", "second", "third"} {
		_, err := engine.Create(CreateInput{
			TenantID:      tenant.ID,
			IssueLocation: model.LocationKitchen,
			UrgencyLevel:  model.UrgencyLow,
			Description:   desc,
		})
		require.NoError(t, err)
	}

	list, err := engine.ListByTenant(tenant.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, !list[0].SubmittedAt.Before(list[1].SubmittedAt))
	assert.True(t, !list[1].SubmittedAt.Before(list[2].SubmittedAt))
}

func TestRequestLifecycleEndToEnd(t *testing.T) {
	engine, _ := newTestEngine(t)
	tenant := seedTenant(t, engine.db)

	request, err := engine.Create(CreateInput{
		TenantID:      tenant.ID,
		IssueLocation: model.LocationBathroom,
		UrgencyLevel:  model.UrgencyHigh,
		Description:   "water leak",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, request.Status)
	assert.Regexp(t, `^REQ-\d{6}-\d{3}$`, request.WaitingNumber)
	assert.False(t, request.HasFeedback)

	_, err = engine.ChangeStatus(request.ID, model.StatusPending, "admin")
	require.NoError(t, err)
	_, err = engine.ChangeStatus(request.ID, model.StatusCompleted, "admin")
	require.NoError(t, err)

	_, err = engine.AttachFeedback(request.ID, tenant.ID, 4, "sorted quickly")
	require.NoError(t, err)

	refreshed, err := engine.Get(request.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.HasFeedback)

	_, err = engine.AttachFeedback(request.ID, tenant.ID, 5, "again")
	assert.ErrorIs(t, err, ErrFeedbackExists)
}
