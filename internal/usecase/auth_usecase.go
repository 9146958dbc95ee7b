package usecase

import (
	"context"
	"log"
	"strings"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type AuthResult struct {
	User  *entity.User
	Token string
}

// Login issues a token for a registered email. There is no password step;
// the frontend authenticates with the identity provider before calling this.
func (uc *AuthUseCase) Login(ctx context.Context, email string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.BadRequest("email is required", nil)
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("User not found", err)
		}
		return nil, err
	}

	token, err := uc.tokens.Issue(user.Email, user.Role)
	if err != nil {
		log.Printf("Failed to issue token for %s: %v", email, err)
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}
