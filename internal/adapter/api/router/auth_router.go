package router

import (
	"github.com/labstack/echo/v4"

	"campusissues/internal/adapter/api/handler"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, g Gates) {
	if g.LoginRate != nil {
		e.POST("/login", authHandler.Login, g.LoginRate)
		return
	}
	e.POST("/login", authHandler.Login)
}
