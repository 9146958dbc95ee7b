package repository

import (
	"context"
	"time"

	"campusissues/internal/domain/entity"
	"campusissues/pkg/errors"
)

type IssueRepository interface {
	Create(ctx context.Context, issue *entity.Issue) error
	GetByID(ctx context.Context, id string) (*entity.Issue, error)
	// GetMany returns the issues that still exist, keyed by id.
	GetMany(ctx context.Context, ids []string) (map[string]*entity.Issue, error)
	List(ctx context.Context) ([]*entity.Issue, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Issue, error)
	ListByStudent(ctx context.Context, email string) ([]*entity.Issue, error)
	// Upsert overwrites every mutable field, creating the issue when the id is
	// unknown. The ownership check and the MergeUpsert carry-over run in the same
	// atomic step as the write, and issue is left holding what was stored.
	Upsert(ctx context.Context, issue *entity.Issue) (created bool, err error)
	SetVerificationStatus(ctx context.Context, id, status string) error
	SetSolved(ctx context.Context, id string, solved bool) error
	Delete(ctx context.Context, id string) error
	// UpdateStudentProfile copies name/photo onto every issue owned by email.
	UpdateStudentProfile(ctx context.Context, email string, name, image *string) (int64, error)
	DeleteByStudent(ctx context.Context, email string) (int64, error)
	Stats(ctx context.Context) (*entity.IssueStats, error)
}

// MergeUpsert folds the stored issue into an incoming overwrite. existing is nil
// for a new id, which starts pending and unsolved. Otherwise the caller in
// issue.StudentEmail must own it, and its verification status and solved flag
// are kept. A zero SubmitDate takes the stored date, or now for a new issue.
func MergeUpsert(issue, existing *entity.Issue, now time.Time) error {
	if existing == nil {
		issue.VerificationStatus = entity.StatusPending
		issue.IsSolved = false
		if issue.SubmitDate.IsZero() {
			issue.SubmitDate = now
		}
		return nil
	}

	if existing.StudentEmail != issue.StudentEmail {
		return errors.Forbidden("Access Denied: you can only update your own issues", nil)
	}
	issue.VerificationStatus = existing.VerificationStatus
	issue.IsSolved = existing.IsSolved
	if issue.SubmitDate.IsZero() {
		issue.SubmitDate = existing.SubmitDate
	}
	return nil
}
