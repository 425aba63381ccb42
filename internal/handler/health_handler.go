package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Beikwaw/RezTek/prometheus"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "reztek-portal",
	})
}

// MetricsHandler exposes Prometheus metrics
func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
