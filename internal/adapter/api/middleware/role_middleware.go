package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"campusissues/internal/domain/entity"
	"campusissues/pkg/errors"
	"campusissues/pkg/response"
)

// RoleReader looks up the role stored for an email right now.
type RoleReader interface {
	CurrentRole(ctx context.Context, email string) (string, error)
}

// RoleMiddleware gates routes on the stored role. It must run after
// Authenticate; the role claim inside the token is never trusted.
type RoleMiddleware struct {
	roles RoleReader
}

func NewRoleMiddleware(roles RoleReader) *RoleMiddleware {
	return &RoleMiddleware{
		roles: roles,
	}
}

func (m *RoleMiddleware) Require(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := CallerEmail(c)
			if email == "" {
				return response.Error(c, errors.Unauthenticated("Forbidden Access", nil))
			}

			role, err := m.roles.CurrentRole(c.Request().Context(), email)
			if err != nil {
				if errors.Is(err, "NOT_FOUND") {
					return response.Error(c, errors.Forbidden("Access Denied", nil))
				}
				return response.Error(c, err)
			}

			for _, r := range allowed {
				if role == r {
					return next(c)
				}
			}

			return response.Error(c, errors.Forbidden("Access Denied", nil))
		}
	}
}

func (m *RoleMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(entity.RoleAdmin)(next)
}

func (m *RoleMiddleware) StudentOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(entity.RoleStudent)(next)
}

func (m *RoleMiddleware) AdminOrStudent(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(entity.RoleAdmin, entity.RoleStudent)(next)
}
