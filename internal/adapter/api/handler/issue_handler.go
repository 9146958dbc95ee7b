package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"campusissues/internal/usecase"
	"campusissues/pkg/response"
)

type IssueHandler struct {
	issueUseCase *usecase.IssueUseCase
}

func NewIssueHandler(issueUseCase *usecase.IssueUseCase) *IssueHandler {
	return &IssueHandler{
		issueUseCase: issueUseCase,
	}
}

// issueRequest is the body of both create and full update. Ownership and
// moderation fields sent by the client are ignored.
type issueRequest struct {
	StudentName  string     `json:"student_name" validate:"max=100"`
	StudentImage string     `json:"student_image" validate:"omitempty,url"`
	Title        string     `json:"issue_title" validate:"required,max=200"`
	Category     string     `json:"issue_category" validate:"required,max=100"`
	Location     string     `json:"issue_location" validate:"required,max=200"`
	Date         string     `json:"issue_date" validate:"max=40"`
	Time         string     `json:"issue_time" validate:"max=40"`
	Details      string     `json:"issue_details" validate:"required,max=5000"`
	Image        string     `json:"issue_image" validate:"omitempty,url"`
	SubmitDate   *time.Time `json:"submit_date"`
}

func (r issueRequest) input() usecase.IssueInput {
	return usecase.IssueInput{
		StudentName:  r.StudentName,
		StudentImage: r.StudentImage,
		Title:        r.Title,
		Category:     r.Category,
		Location:     r.Location,
		Date:         r.Date,
		Time:         r.Time,
		Details:      r.Details,
		Image:        r.Image,
		SubmitDate:   r.SubmitDate,
	}
}

type verificationRequest struct {
	Status string `json:"verification_status" validate:"required,oneof=pending verified rejected"`
}

type solveRequest struct {
	IsSolved *bool `json:"isSolved" validate:"required"`
}

func (h *IssueHandler) List(c echo.Context) error {
	issues, err := h.issueUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, issues)
}

func (h *IssueHandler) ListByStatus(c echo.Context) error {
	issues, err := h.issueUseCase.ListByStatus(c.Request().Context(), c.Param("verification_status"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, issues)
}

func (h *IssueHandler) ListMine(c echo.Context) error {
	issues, err := h.issueUseCase.ListMine(c.Request().Context(), callerEmail(c), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, issues)
}

func (h *IssueHandler) Stats(c echo.Context) error {
	stats, err := h.issueUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

func (h *IssueHandler) Get(c echo.Context) error {
	issue, err := h.issueUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, issue)
}

func (h *IssueHandler) Create(c echo.Context) error {
	var req issueRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	issue, err := h.issueUseCase.Create(c.Request().Context(), callerEmail(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, issue)
}

func (h *IssueHandler) Update(c echo.Context) error {
	var req issueRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.issueUseCase.Update(c.Request().Context(), callerEmail(c), c.Param("id"), req.input())
	if err != nil {
		return response.Error(c, err)
	}

	if result.Created {
		return response.Created(c, result)
	}
	return response.Success(c, result)
}

func (h *IssueHandler) SetVerification(c echo.Context) error {
	var req verificationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	issue, err := h.issueUseCase.SetVerification(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, issue)
}

func (h *IssueHandler) SetSolved(c echo.Context) error {
	var req solveRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	issue, err := h.issueUseCase.SetSolved(c.Request().Context(), c.Param("id"), *req.IsSolved)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, issue)
}

func (h *IssueHandler) Delete(c echo.Context) error {
	if err := h.issueUseCase.Delete(c.Request().Context(), callerEmail(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, "Issue deleted successfully", map[string]int{"deletedCount": 1})
}
