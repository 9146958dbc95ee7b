package handler

import (
	"github.com/labstack/echo/v4"

	"campusissues/internal/domain/entity"
	"campusissues/internal/usecase"
	"campusissues/pkg/errors"
	"campusissues/pkg/response"
)

// ReactionHandler serves likes and saved issues.
type ReactionHandler struct {
	toggleUseCase   *usecase.ToggleUseCase
	reactionUseCase *usecase.ReactionUseCase
}

func NewReactionHandler(toggleUseCase *usecase.ToggleUseCase, reactionUseCase *usecase.ReactionUseCase) *ReactionHandler {
	return &ReactionHandler{
		toggleUseCase:   toggleUseCase,
		reactionUseCase: reactionUseCase,
	}
}

type toggleRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type likeResponse struct {
	Action     string `json:"action"`
	TotalLikes int64  `json:"totalLikes"`
}

type saveResponse struct {
	Action     string `json:"action"`
	TotalSaves int64  `json:"totalSaves"`
}

// ownEmail checks that an email taken from the request belongs to the caller.
func ownEmail(c echo.Context, email string) error {
	if email == "" {
		return errors.BadRequest("User email required", nil)
	}
	if email != callerEmail(c) {
		return errors.Forbidden("Access Denied: email does not match the signed-in user", nil)
	}
	return nil
}

func (h *ReactionHandler) Likes(c echo.Context) error {
	summary, err := h.reactionUseCase.Likes(c.Request().Context(), c.Param("issueId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, summary)
}

func (h *ReactionHandler) ToggleLike(c echo.Context) error {
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := ownEmail(c, req.Email); err != nil {
		return response.Error(c, err)
	}

	result, err := h.toggleUseCase.Toggle(c.Request().Context(), entity.ReactionLike, c.Param("issueId"), req.Email)
	if err != nil {
		return response.Error(c, err)
	}

	action := "liked"
	if result.Action == usecase.ToggleRemoved {
		action = "unliked"
	}
	return response.Success(c, likeResponse{Action: action, TotalLikes: result.TotalCount})
}

func (h *ReactionHandler) ToggleSave(c echo.Context) error {
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := ownEmail(c, req.Email); err != nil {
		return response.Error(c, err)
	}

	result, err := h.toggleUseCase.Toggle(c.Request().Context(), entity.ReactionSave, c.Param("issueId"), req.Email)
	if err != nil {
		return response.Error(c, err)
	}

	if result.Action == usecase.ToggleRemoved {
		return response.SuccessMessage(c, "Post unsaved", saveResponse{Action: "unsaved", TotalSaves: result.TotalCount})
	}
	return response.SuccessMessage(c, "Post saved successfully", saveResponse{Action: "saved", TotalSaves: result.TotalCount})
}

func (h *ReactionHandler) IsSaved(c echo.Context) error {
	email := c.QueryParam("email")
	if err := ownEmail(c, email); err != nil {
		return response.Error(c, err)
	}

	saved, err := h.reactionUseCase.IsSaved(c.Request().Context(), c.Param("issueId"), email)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"isSaved": saved})
}

func (h *ReactionHandler) SavedIssues(c echo.Context) error {
	email := c.Param("email")
	if err := ownEmail(c, email); err != nil {
		return response.Error(c, err)
	}

	saved, err := h.reactionUseCase.SavedIssues(c.Request().Context(), email)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, saved)
}

func (h *ReactionHandler) DeleteSaved(c echo.Context) error {
	email := c.QueryParam("email")
	if err := ownEmail(c, email); err != nil {
		return response.Error(c, err)
	}

	if err := h.reactionUseCase.DeleteSaved(c.Request().Context(), c.Param("id"), email); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Saved issue removed successfully", nil)
}
