package usecase

import (
	"context"
	"log"
	"strings"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

type UserUseCase struct {
	userRepo  repository.UserRepository
	issueRepo repository.IssueRepository
	accounts  AccountRemover
	recorder  Recorder
}

// NewUserUseCase wires the user lifecycle. accounts may be nil, in which case
// deleting a user leaves the auth-provider account alone.
func NewUserUseCase(
	userRepo repository.UserRepository,
	issueRepo repository.IssueRepository,
	accounts AccountRemover,
	recorder Recorder,
) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		issueRepo: issueRepo,
		accounts:  accounts,
		recorder:  recorderOrNoop(recorder),
	}
}

type CreateUserInput struct {
	Email        string
	Name         string
	PhotoURL     string
	UniversityID string
	Department   string
	Role         string
}

type CreateUserResult struct {
	Created    bool    `json:"created"`
	InsertedID *string `json:"insertedId"`
	Message    string  `json:"message"`
}

type UpdateProfileResult struct {
	UserMatched   bool   `json:"matched"`
	IssuesUpdated *int64 `json:"issuesUpdated,omitempty"`
}

type SetRoleResult struct {
	ModifiedCount int    `json:"modifiedCount"`
	DeletedIssues *int64 `json:"deletedIssues,omitempty"`
}

type DeleteUserResult struct {
	Deleted            bool   `json:"deleted"`
	AuthAccountDeleted bool   `json:"authAccountDeleted"`
	AuthAccountError   string `json:"authAccountError,omitempty"`
}

// CurrentRole reads the role stored for email right now. The authorization gate
// calls it on every gated request so role changes apply to live tokens.
func (uc *UserUseCase) CurrentRole(ctx context.Context, email string) (string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (uc *UserUseCase) List(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx)
}

func (uc *UserUseCase) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return uc.userRepo.GetByEmail(ctx, email)
}

// Create registers a user on first login. Repeating it for a known email is a no-op.
func (uc *UserUseCase) Create(ctx context.Context, input CreateUserInput) (*CreateUserResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, errors.BadRequest("email is required", nil)
	}
	// Elevated roles are only granted through SetRole.
	if input.Role != "" && input.Role != entity.RoleStudent {
		return nil, errors.BadRequest("role must be User or empty", nil)
	}

	user := &entity.User{
		Email:        email,
		Name:         input.Name,
		PhotoURL:     input.PhotoURL,
		UniversityID: input.UniversityID,
		Department:   input.Department,
		Role:         input.Role,
	}

	created, err := uc.userRepo.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, err
	}
	if !created {
		return &CreateUserResult{Created: false, InsertedID: nil, Message: "user already exists"}, nil
	}

	log.Printf("Registered user %s (%s)", user.ID, user.Email)
	return &CreateUserResult{Created: true, InsertedID: &user.ID, Message: "user created"}, nil
}

// UpdateProfile applies the provided profile fields. Students also get their
// name and photo copied onto every issue they own.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, callerEmail, email string, update entity.ProfileUpdate) (*UpdateProfileResult, error) {
	if email == "" {
		return nil, errors.BadRequest("Email param required", nil)
	}
	if err := uc.requireSelfOrAdmin(ctx, callerEmail, email); err != nil {
		return nil, err
	}

	matched, err := uc.userRepo.UpdateProfile(ctx, email, update)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, errors.NotFound("User", nil)
	}

	result := &UpdateProfileResult{UserMatched: true}

	role, err := uc.CurrentRole(ctx, email)
	if err != nil {
		return nil, err
	}
	if role != entity.RoleStudent || (update.Name == nil && update.PhotoURL == nil) {
		return result, nil
	}

	n, err := uc.issueRepo.UpdateStudentProfile(ctx, email, update.Name, update.PhotoURL)
	result.IssuesUpdated = &n
	if err != nil {
		log.Printf("Profile of %s updated but issue sync failed after %d issues: %v", email, n, err)
		uc.recorder.RecordPartialFailure("profile_cascade")
		return nil, errors.PartialFailure("User updated but owned issues were not fully updated", err).
			WithDetails(map[string]interface{}{
				"userUpdated":   true,
				"issuesUpdated": n,
			})
	}

	return result, nil
}

// SetRole overwrites a user's role. Marking a user Fraud also deletes every
// issue they own. The two writes are not atomic; a failed cascade is logged,
// counted and returned as PARTIAL_FAILURE with the role change left in place.
func (uc *UserUseCase) SetRole(ctx context.Context, id, role string) (*SetRoleResult, error) {
	if !entity.IsKnownRole(role) {
		return nil, errors.BadRequest("role must be one of Admin, User, Fraud", nil)
	}

	user, err := uc.userRepo.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	result := &SetRoleResult{ModifiedCount: 1}
	if role != entity.RoleFraud {
		return result, nil
	}

	deleted, err := uc.issueRepo.DeleteByStudent(ctx, user.Email)
	result.DeletedIssues = &deleted
	if err != nil {
		log.Printf("User %s marked Fraud but issue cascade failed after %d deletions: %v", user.Email, deleted, err)
		uc.recorder.RecordPartialFailure("fraud_cascade")
		return nil, errors.PartialFailure("Role updated but the user's issues were not fully deleted", err).
			WithDetails(map[string]interface{}{
				"roleUpdated":   true,
				"deletedIssues": deleted,
			})
	}

	uc.recorder.RecordFraudCascade(deleted)
	log.Printf("Deleted %d issues for Fraud user %s", deleted, user.Email)
	return result, nil
}

// Delete removes the user record and then, if configured, the auth-provider
// account. A provider failure does not undo the record delete.
func (uc *UserUseCase) Delete(ctx context.Context, id string) (*DeleteUserResult, error) {
	user, err := uc.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &DeleteUserResult{Deleted: true}
	if uc.accounts == nil {
		return result, nil
	}

	removed, err := uc.accounts.DeleteAccountByEmail(ctx, user.Email)
	switch {
	case err != nil:
		log.Printf("User %s deleted but auth account removal failed: %v", user.Email, err)
		uc.recorder.RecordAuthProviderDeletion("error")
		result.AuthAccountError = "Failed to delete authentication account"
	case removed:
		uc.recorder.RecordAuthProviderDeletion("deleted")
		result.AuthAccountDeleted = true
	default:
		uc.recorder.RecordAuthProviderDeletion("absent")
	}

	return result, nil
}

func (uc *UserUseCase) requireSelfOrAdmin(ctx context.Context, callerEmail, email string) error {
	if callerEmail == email {
		return nil
	}
	role, err := uc.CurrentRole(ctx, callerEmail)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return errors.Forbidden("Access Denied: you can only change your own profile", nil)
		}
		return err
	}
	if role != entity.RoleAdmin {
		return errors.Forbidden("Access Denied: you can only change your own profile", nil)
	}
	return nil
}
