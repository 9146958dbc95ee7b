package handler

import (
	"log"

	"github.com/labstack/echo/v4"

	"campusissues/internal/domain/entity"
	"campusissues/internal/usecase"
	"campusissues/pkg/errors"
	"campusissues/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type createUserRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Name         string `json:"name" validate:"max=100"`
	PhotoURL     string `json:"photoURL" validate:"omitempty,url"`
	UniversityID string `json:"universityID" validate:"max=50"`
	Department   string `json:"department" validate:"max=100"`
	Role         string `json:"role" validate:"omitempty,oneof=User"`
}

type updateProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	PhotoURL     *string `json:"photoURL" validate:"omitempty,url"`
	UniversityID *string `json:"universityID" validate:"omitempty,max=50"`
	Department   *string `json:"department" validate:"omitempty,max=100"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"omitempty,oneof=Admin User Fraud"`
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

// GetByEmail answers with a one-element list, the shape existing clients read.
func (h *UserHandler) GetByEmail(c echo.Context) error {
	user, err := h.userUseCase.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, []*entity.User{user})
}

func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.userUseCase.Create(c.Request().Context(), usecase.CreateUserInput{
		Email:        req.Email,
		Name:         req.Name,
		PhotoURL:     req.PhotoURL,
		UniversityID: req.UniversityID,
		Department:   req.Department,
		Role:         req.Role,
	})
	if err != nil {
		return response.Error(c, err)
	}

	if result.Created {
		return response.Created(c, result)
	}
	return response.SuccessMessage(c, result.Message, result)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	update := entity.ProfileUpdate{
		Name:         req.Name,
		PhotoURL:     req.PhotoURL,
		UniversityID: req.UniversityID,
		Department:   req.Department,
	}
	if update.IsEmpty() {
		return response.Error(c, errors.BadRequest("No profile fields provided", nil))
	}

	result, err := h.userUseCase.UpdateProfile(c.Request().Context(), callerEmail(c), c.Param("email"), update)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, "Profile updated successfully", result)
}

func (h *UserHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.userUseCase.SetRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return response.Error(c, err)
	}

	log.Printf("Role of user %s set to %q by %s", c.Param("id"), req.Role, callerEmail(c))
	return response.Success(c, result)
}

func (h *UserHandler) Delete(c echo.Context) error {
	result, err := h.userUseCase.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, "User deleted successfully", result)
}
