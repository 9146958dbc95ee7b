package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campusissues/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo, healthHandler *handler.HealthHandler, metrics http.Handler) {
	e.GET("/", healthHandler.Banner)
	e.GET("/health", healthHandler.CheckHealth)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}
