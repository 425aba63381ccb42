package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/realtime"
	"github.com/Beikwaw/RezTek/pkg/database"
	"github.com/Beikwaw/RezTek/pkg/jwtutil"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/pkg/validation"
	"github.com/Beikwaw/RezTek/prometheus"
)

// Signup registers a new tenant profile and opens a session. Name, surname
// and the generated tenant code are fixed at this point and never editable
// afterwards.
func Signup(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.SignupCounter.Inc()

	var req struct {
		Name          string          `json:"name"`
		Surname       string          `json:"surname"`
		Email         string          `json:"email"`
		Password      string          `json:"password"`
		ContactNumber string          `json:"contact_number"`
		RoomNumber    string          `json:"room_number"`
		Residence     model.Residence `json:"residence"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse signup request", zap.Error(err))
		prometheus.RecordPortalError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" || req.Surname == "" || req.RoomNumber == "" {
		prometheus.RecordPortalError("incomplete_signup")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, surname and room number are required"})
	}
	if !validation.IsValidEmail(req.Email) {
		prometheus.RecordPortalError("invalid_email")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	}
	if !validation.IsValidPhoneNumber(req.ContactNumber) {
		prometheus.RecordPortalError("invalid_phone")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid South African mobile number"})
	}
	if !validation.IsStrongPassword(req.Password) {
		prometheus.RecordPortalError("weak_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}
	if !req.Residence.Valid() {
		prometheus.RecordPortalError("invalid_residence")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown residence"})
	}

	// Reject duplicate accounts up front
	var count int64
	database.GetDB().Model(&model.Tenant{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		log.Warn("Signup with existing email", zap.String("email", req.Email))
		prometheus.RecordPortalError("duplicate_email")
		return c.JSON(http.StatusConflict, echo.Map{"error": "an account with this email already exists"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordPortalError("hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	tenant := model.Tenant{
		Name:          req.Name,
		Surname:       req.Surname,
		Email:         req.Email,
		Password:      string(hashed),
		ContactNumber: req.ContactNumber,
		RoomNumber:    req.RoomNumber,
		Residence:     req.Residence,
		TenantCode:    validation.GenerateTenantCode(req.Name, req.RoomNumber),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&tenant); result.Error != nil {
		log.Error("Failed to create tenant", zap.Error(result.Error))
		prometheus.RecordPortalError("tenant_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	token, err := jwtutil.GenerateToken(tenant.ID, tenant.Email, model.RoleTenant, tenant.Name, tenant.TenantCode)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordPortalError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Tenant signed up",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("tenant_code", tenant.TenantCode),
		zap.String("residence", string(tenant.Residence)))

	feed.Publish(realtime.Event{
		Collection: realtime.CollectionTenants,
		Action:     realtime.ActionCreated,
		Payload:    tenant,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"token":  token,
		"tenant": tenant,
	})
}

// Login authenticates a tenant or the administrator. The distinguished admin
// identity is classified by its configured email; everyone else is looked up
// as a tenant.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordPortalError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	if req.Email == adminCfg.Email {
		var admin model.Admin
		if result := database.GetDB().Where("email = ?", req.Email).First(&admin); result.Error != nil {
			log.Error("Admin account not found", zap.String("email", req.Email))
			prometheus.RecordPortalError("login_failure")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
			log.Error("Invalid admin password", zap.String("email", req.Email))
			prometheus.RecordPortalError("login_failure")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}

		token, err := jwtutil.GenerateToken(admin.ID, admin.Email, model.RoleAdmin, admin.Username, "")
		if err != nil {
			log.Error("Failed to generate token", zap.Error(err))
			prometheus.RecordPortalError("token_generation_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
		}

		log.Info("Administrator logged in", zap.String("email", admin.Email))
		return c.JSON(http.StatusOK, echo.Map{
			"token": token,
			"role":  model.RoleAdmin,
			"admin": admin,
		})
	}

	var tenant model.Tenant
	if result := database.GetDB().Where("email = ?", req.Email).First(&tenant); result.Error != nil {
		log.Error("Tenant not found", zap.String("email", req.Email))
		prometheus.RecordPortalError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(tenant.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordPortalError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(tenant.ID, tenant.Email, model.RoleTenant, tenant.Name, tenant.TenantCode)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordPortalError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Tenant logged in",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("tenant_code", tenant.TenantCode))

	return c.JSON(http.StatusOK, echo.Map{
		"token":  token,
		"role":   model.RoleTenant,
		"tenant": tenant,
	})
}
