package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"campusissues/internal/infrastructure/token"
	"campusissues/pkg/errors"
	"campusissues/pkg/response"
)

// ContextKeyEmail is where Authenticate stores the caller's email.
const ContextKeyEmail = "email"

type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthenticated("Forbidden Access", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return response.Error(c, errors.Unauthenticated("Forbidden Access", nil))
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			return response.Error(c, errors.Unauthenticated("Forbidden Access", err))
		}

		c.Set(ContextKeyEmail, claims.Email)

		return next(c)
	}
}

// CallerEmail returns the email Authenticate stored, or "" on ungated routes.
func CallerEmail(c echo.Context) string {
	email, _ := c.Get(ContextKeyEmail).(string)
	return email
}
