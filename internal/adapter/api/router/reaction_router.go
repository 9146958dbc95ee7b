package router

import (
	"github.com/labstack/echo/v4"

	"campusissues/internal/adapter/api/handler"
)

func SetupReactionRouter(e *echo.Echo, reactionHandler *handler.ReactionHandler, g Gates) {
	e.GET("/likes/:issueId", reactionHandler.Likes, g.Auth.Authenticate)
	e.POST("/likes/:issueId", reactionHandler.ToggleLike, g.Auth.Authenticate)

	e.GET("/saved/check/:issueId", reactionHandler.IsSaved, g.Auth.Authenticate)
	e.GET("/saved/:email", reactionHandler.SavedIssues, g.Auth.Authenticate)
	e.POST("/saves/:issueId", reactionHandler.ToggleSave, g.Auth.Authenticate)
	e.DELETE("/delete-saved/:id", reactionHandler.DeleteSaved, g.Auth.Authenticate)
}
