package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Beikwaw/RezTek/pkg/config"
)

var cfg *config.JWTConfig

// SessionClaims represents the JWT claims carried by a portal session. Role
// is "admin" or "tenant"; TenantCode is set for tenant sessions only.
type SessionClaims struct {
	Email      string `json:"email"`
	UserID     uint   `json:"user_id"`
	Role       string `json:"role"`
	Name       string `json:"name,omitempty"`
	TenantCode string `json:"tenant_code,omitempty"`
	jwt.RegisteredClaims
}

// Initialize stores the JWT configuration for token operations
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

// GenerateToken creates a signed session token for the given principal
func GenerateToken(userID uint, email, role, name, tenantCode string) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := SessionClaims{
		Email:      email,
		UserID:     userID,
		Role:       role,
		Name:       name,
		TenantCode: tenantCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses a session token
func ValidateToken(tokenString string) (*SessionClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
