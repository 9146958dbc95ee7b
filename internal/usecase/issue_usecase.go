package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

type IssueUseCase struct {
	issueRepo repository.IssueRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

func NewIssueUseCase(issueRepo repository.IssueRepository, userRepo repository.UserRepository) *IssueUseCase {
	return &IssueUseCase{
		issueRepo: issueRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// IssueInput holds the student-editable fields of an issue.
type IssueInput struct {
	StudentName  string
	StudentImage string
	Title        string
	Category     string
	Location     string
	Date         string
	Time         string
	Details      string
	Image        string
	SubmitDate   *time.Time
}

func (in IssueInput) validate() error {
	missing := []string{}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "issue_title")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "issue_category")
	}
	if strings.TrimSpace(in.Location) == "" {
		missing = append(missing, "issue_location")
	}
	if strings.TrimSpace(in.Details) == "" {
		missing = append(missing, "issue_details")
	}
	if len(missing) > 0 {
		return errors.BadRequest("missing required fields: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

type UpsertIssueResult struct {
	Issue   *entity.Issue `json:"issue"`
	Created bool          `json:"upserted"`
}

func (uc *IssueUseCase) List(ctx context.Context) ([]*entity.Issue, error) {
	return uc.issueRepo.List(ctx)
}

func (uc *IssueUseCase) ListByStatus(ctx context.Context, status string) ([]*entity.Issue, error) {
	if !entity.IsValidStatus(status) {
		return nil, errors.BadRequest("verification_status must be one of: pending verified rejected", nil)
	}
	return uc.issueRepo.ListByStatus(ctx, status)
}

// ListMine returns the issues owned by email; students may only list their own.
func (uc *IssueUseCase) ListMine(ctx context.Context, callerEmail, email string) ([]*entity.Issue, error) {
	if callerEmail != email {
		return nil, errors.Forbidden("Access Denied: you can only list your own issues", nil)
	}
	return uc.issueRepo.ListByStudent(ctx, email)
}

func (uc *IssueUseCase) Stats(ctx context.Context) (*entity.IssueStats, error) {
	return uc.issueRepo.Stats(ctx)
}

func (uc *IssueUseCase) Get(ctx context.Context, id string) (*entity.Issue, error) {
	return uc.issueRepo.GetByID(ctx, id)
}

// Create files a new pending issue owned by the caller.
func (uc *IssueUseCase) Create(ctx context.Context, callerEmail string, input IssueInput) (*entity.Issue, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	issue := uc.fromInput(ctx, callerEmail, input)
	issue.VerificationStatus = entity.StatusPending
	issue.IsSolved = false

	if err := uc.issueRepo.Create(ctx, issue); err != nil {
		return nil, err
	}

	log.Printf("Issue %s created by %s", issue.ID, callerEmail)
	return issue, nil
}

// Update overwrites every student-editable field of the issue, creating it
// when the id is unknown. Verification status and the solved flag are kept,
// and only the owner may overwrite an existing issue.
func (uc *IssueUseCase) Update(ctx context.Context, callerEmail, id string, input IssueInput) (*UpsertIssueResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	issue := uc.fromInput(ctx, callerEmail, input)
	issue.ID = id
	if input.SubmitDate == nil {
		issue.SubmitDate = time.Time{}
	}

	created, err := uc.issueRepo.Upsert(ctx, issue)
	if err != nil {
		return nil, err
	}

	return &UpsertIssueResult{Issue: issue, Created: created}, nil
}

// SetVerification overwrites the status without looking at the current value.
func (uc *IssueUseCase) SetVerification(ctx context.Context, id, status string) (*entity.Issue, error) {
	if !entity.IsValidStatus(status) {
		return nil, errors.BadRequest("verification_status must be one of: pending verified rejected", nil)
	}
	if err := uc.issueRepo.SetVerificationStatus(ctx, id, status); err != nil {
		return nil, err
	}
	log.Printf("Issue %s verification set to %s", id, status)
	return uc.issueRepo.GetByID(ctx, id)
}

func (uc *IssueUseCase) SetSolved(ctx context.Context, id string, solved bool) (*entity.Issue, error) {
	if err := uc.issueRepo.SetSolved(ctx, id, solved); err != nil {
		return nil, err
	}
	return uc.issueRepo.GetByID(ctx, id)
}

// Delete removes an issue for its owner or an admin. Likes and saved rows
// pointing at it are left behind.
func (uc *IssueUseCase) Delete(ctx context.Context, callerEmail, id string) error {
	issue, err := uc.issueRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if issue.StudentEmail != callerEmail {
		caller, err := uc.userRepo.GetByEmail(ctx, callerEmail)
		if err != nil && !errors.Is(err, "NOT_FOUND") {
			return err
		}
		if caller == nil || caller.Role != entity.RoleAdmin {
			return errors.Forbidden("Access Denied: only the owner or an admin can delete this issue", nil)
		}
	}

	if err := uc.issueRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("Issue %s deleted by %s", id, callerEmail)
	return nil
}

func (uc *IssueUseCase) fromInput(ctx context.Context, callerEmail string, input IssueInput) *entity.Issue {
	issue := &entity.Issue{
		StudentEmail: callerEmail,
		StudentName:  input.StudentName,
		StudentImage: input.StudentImage,
		Title:        input.Title,
		Category:     input.Category,
		Location:     input.Location,
		Date:         input.Date,
		Time:         input.Time,
		Details:      input.Details,
		Image:        input.Image,
		SubmitDate:   uc.now(),
	}
	if input.SubmitDate != nil {
		issue.SubmitDate = *input.SubmitDate
	}

	if issue.StudentName == "" || issue.StudentImage == "" {
		if owner, err := uc.userRepo.GetByEmail(ctx, callerEmail); err == nil {
			if issue.StudentName == "" {
				issue.StudentName = owner.Name
			}
			if issue.StudentImage == "" {
				issue.StudentImage = owner.PhotoURL
			}
		}
	}

	return issue
}
