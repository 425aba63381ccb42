package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/pkg/jwtutil"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/prometheus"
)

// AuthMiddleware validates the JWT token from the Authorization header
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordPortalError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordPortalError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordPortalError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store principal info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("name", claims.Name)
		if claims.TenantCode != "" {
			c.Set("tenant_code", claims.TenantCode)
		}

		return next(c)
	}
}

// RequireAdmin rejects requests whose session does not carry the admin role
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != model.RoleAdmin {
			logger.FromContext(c).Warn("Non-admin access to admin route",
				zap.String("role", role),
				zap.String("path", c.Path()))
			prometheus.RecordPortalError("admin_access_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "administrator access required"})
		}
		return next(c)
	}
}

// RequireTenant rejects requests whose session does not carry the tenant role
func RequireTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != model.RoleTenant {
			logger.FromContext(c).Warn("Non-tenant access to tenant route",
				zap.String("role", role),
				zap.String("path", c.Path()))
			prometheus.RecordPortalError("tenant_access_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant access required"})
		}
		return next(c)
	}
}
