package handler

import (
	"github.com/labstack/echo/v4"

	"campusissues/internal/adapter/api/middleware"
	"campusissues/internal/usecase"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Issue    *IssueHandler
	Reaction *ReactionHandler
	Health   *HealthHandler
}

func New(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	issueUseCase *usecase.IssueUseCase,
	toggleUseCase *usecase.ToggleUseCase,
	reactionUseCase *usecase.ReactionUseCase,
) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(authUseCase),
		User:     NewUserHandler(userUseCase),
		Issue:    NewIssueHandler(issueUseCase),
		Reaction: NewReactionHandler(toggleUseCase, reactionUseCase),
		Health:   NewHealthHandler(),
	}
}

func callerEmail(c echo.Context) string {
	return middleware.CallerEmail(c)
}
