package repository

import (
	"context"

	"campusissues/internal/domain/entity"
)

type UserRepository interface {
	// CreateIfAbsent inserts the user unless one with the same email exists.
	// created is false when the email was already taken.
	CreateIfAbsent(ctx context.Context, user *entity.User) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// UpdateProfile applies the non-nil fields. matched is false when no user has the email.
	UpdateProfile(ctx context.Context, email string, update entity.ProfileUpdate) (matched bool, err error)
	SetRole(ctx context.Context, id, role string) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
}
