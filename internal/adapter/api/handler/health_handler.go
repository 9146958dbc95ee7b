package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const banner = "University Issue Management Server is running"

type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) Banner(c echo.Context) error {
	return c.String(http.StatusOK, banner)
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}
