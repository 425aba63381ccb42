package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beikwaw/RezTek/internal/realtime"
	"github.com/Beikwaw/RezTek/pkg/config"
	"github.com/Beikwaw/RezTek/pkg/database"
	"github.com/Beikwaw/RezTek/pkg/jwtutil"
)

func TestUpdateProfilePublishesTenantEvent(t *testing.T) {
	db := newTestDB(t)
	database.DB = db
	hub := realtime.NewHub(nil)
	Init(nil, nil, nil, hub, config.AdminConfig{})

	tenant := seedTenant(t, db, "thabo@test.co.za")

	sub := hub.Subscribe(realtime.CollectionTenants)
	defer sub.Cancel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"contact_number":"0823456789"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", tenant.ID)

	require.NoError(t, UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	event := <-sub.C
	assert.Equal(t, realtime.CollectionTenants, event.Collection)
	assert.Equal(t, realtime.ActionUpdated, event.Action)
}

func TestSignupPublishesTenantEvent(t *testing.T) {
	db := newTestDB(t)
	database.DB = db
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "testsecret", ExpirationHours: 1})
	hub := realtime.NewHub(nil)
	Init(nil, nil, nil, hub, config.AdminConfig{})

	sub := hub.Subscribe(realtime.CollectionTenants)
	defer sub.Cancel()

	body := `{
		"name": "Lerato",
		"surname": "Dlamini",
		"email": "lerato@test.co.za",
		"password": "password123",
		"contact_number": "0612345678",
		"room_number": "B202",
		"residence": "My Domain Observatory"
	}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	event := <-sub.C
	assert.Equal(t, realtime.CollectionTenants, event.Collection)
	assert.Equal(t, realtime.ActionCreated, event.Action)
}
