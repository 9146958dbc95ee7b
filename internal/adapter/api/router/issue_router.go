package router

import (
	"github.com/labstack/echo/v4"

	"campusissues/internal/adapter/api/handler"
)

func SetupIssueRouter(e *echo.Echo, issueHandler *handler.IssueHandler, g Gates) {
	e.GET("/issue-stats", issueHandler.Stats)

	e.GET("/issue-id/:id", issueHandler.Get, g.Auth.Authenticate)
	e.DELETE("/delete-issue/:id", issueHandler.Delete, g.Auth.Authenticate)

	e.GET("/get-issues", issueHandler.List, g.Auth.Authenticate, g.Role.AdminOrStudent)
	e.GET("/status/:verification_status", issueHandler.ListByStatus, g.Auth.Authenticate, g.Role.AdminOrStudent)

	e.GET("/my-issues/:email", issueHandler.ListMine, g.Auth.Authenticate, g.Role.StudentOnly)
	e.POST("/issues", issueHandler.Create, g.Auth.Authenticate, g.Role.StudentOnly)
	e.PUT("/update-issue/:id", issueHandler.Update, g.Auth.Authenticate, g.Role.StudentOnly)

	e.PATCH("/verification/:id", issueHandler.SetVerification, g.Auth.Authenticate, g.Role.AdminOnly)
	e.PATCH("/solve/:id", issueHandler.SetSolved, g.Auth.Authenticate, g.Role.AdminOnly)
}
