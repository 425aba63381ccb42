package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beikwaw/RezTek/internal/maintenance"
	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/realtime"
	"github.com/Beikwaw/RezTek/pkg/config"
)

func newUploadContext(t *testing.T, requestID, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", requestID))
	c.Set("user_id", userID)
	return c, rec
}

func TestUploadRejectsLowUrgencyBeforeStoringAnything(t *testing.T) {
	db := newTestDB(t)
	engine := maintenance.NewEngine(db, nil, realtime.NewHub(nil))
	// The nil image store would panic on any object-store call, so a clean
	// 409 proves the urgency check runs before the upload
	Init(engine, nil, nil, realtime.NewHub(nil), config.AdminConfig{})

	tenant := seedTenant(t, db, "thabo@test.co.za")
	request, err := engine.Create(maintenance.CreateInput{
		TenantID:      tenant.ID,
		IssueLocation: model.LocationKitchen,
		UrgencyLevel:  model.UrgencyLow,
		Description:   "dripping tap",
	})
	require.NoError(t, err)

	c, rec := newUploadContext(t, request.ID, tenant.ID)
	require.NoError(t, UploadRequestImage(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUploadRejectsNonOwnerBeforeStoringAnything(t *testing.T) {
	db := newTestDB(t)
	engine := maintenance.NewEngine(db, nil, realtime.NewHub(nil))
	Init(engine, nil, nil, realtime.NewHub(nil), config.AdminConfig{})

	owner := seedTenant(t, db, "owner@test.co.za")
	intruder := seedTenant(t, db, "intruder@test.co.za")
	request, err := engine.Create(maintenance.CreateInput{
		TenantID:      owner.ID,
		IssueLocation: model.LocationBathroom,
		UrgencyLevel:  model.UrgencyHigh,
		Description:   "burst geyser",
	})
	require.NoError(t, err)

	c, rec := newUploadContext(t, request.ID, intruder.ID)
	require.NoError(t, UploadRequestImage(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUploadUnknownRequestIsNotFound(t *testing.T) {
	db := newTestDB(t)
	engine := maintenance.NewEngine(db, nil, realtime.NewHub(nil))
	Init(engine, nil, nil, realtime.NewHub(nil), config.AdminConfig{})

	tenant := seedTenant(t, db, "thabo@test.co.za")
	c, rec := newUploadContext(t, 9999, tenant.ID)
	require.NoError(t, UploadRequestImage(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
