package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FromContext retrieves the request-scoped logger from the Echo context. The
// request-ID middleware stores a logger annotated with the request ID under
// the "logger" key; handlers fall back to the global logger when absent.
func FromContext(c echo.Context) *zap.Logger {
	logger, ok := c.Get("logger").(*zap.Logger)
	if !ok {
		return GetLogger()
	}
	return logger
}
