package repository

import (
	"context"

	"campusissues/internal/domain/entity"
)

// ReactionRepository stores likes and saved rows. (IssueID, UserEmail) is unique per kind.
type ReactionRepository interface {
	// Insert fails with a CONFLICT AppError when the pair already exists.
	Insert(ctx context.Context, kind entity.ReactionKind, reaction *entity.Reaction) error
	// Delete removes the pair and reports whether a row was there.
	Delete(ctx context.Context, kind entity.ReactionKind, issueID, userEmail string) (bool, error)
	Exists(ctx context.Context, kind entity.ReactionKind, issueID, userEmail string) (bool, error)
	Count(ctx context.Context, kind entity.ReactionKind, issueID string) (int64, error)
	ListByIssue(ctx context.Context, kind entity.ReactionKind, issueID string) ([]*entity.Reaction, error)
	// ListByUser returns the user's rows newest first.
	ListByUser(ctx context.Context, kind entity.ReactionKind, userEmail string) ([]*entity.Reaction, error)
	// DeleteOwned removes the row with the given id only if it belongs to userEmail.
	DeleteOwned(ctx context.Context, kind entity.ReactionKind, id, userEmail string) (bool, error)
}
