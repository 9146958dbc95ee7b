package router

import (
	"github.com/labstack/echo/v4"

	"campusissues/internal/adapter/api/handler"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, g Gates) {
	e.POST("/users", userHandler.Create)

	e.GET("/user-email/:email", userHandler.GetByEmail, g.Auth.Authenticate)
	e.PATCH("/user-update/:email", userHandler.UpdateProfile, g.Auth.Authenticate)

	e.GET("/users", userHandler.List, g.Auth.Authenticate, g.Role.AdminOnly)
	e.PATCH("/user-role/:id", userHandler.SetRole, g.Auth.Authenticate, g.Role.AdminOnly)
	e.DELETE("/remove-user/:id", userHandler.Delete, g.Auth.Authenticate, g.Role.AdminOnly)
}
