package usecase

import (
	"context"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

// ReactionUseCase serves the read side of likes and saved issues.
type ReactionUseCase struct {
	reactions repository.ReactionRepository
	issueRepo repository.IssueRepository
}

func NewReactionUseCase(reactions repository.ReactionRepository, issueRepo repository.IssueRepository) *ReactionUseCase {
	return &ReactionUseCase{reactions: reactions, issueRepo: issueRepo}
}

type LikesSummary struct {
	Count      int64    `json:"count"`
	LikedUsers []string `json:"likedUsers"`
}

func (uc *ReactionUseCase) Likes(ctx context.Context, issueID string) (*LikesSummary, error) {
	rows, err := uc.reactions.ListByIssue(ctx, entity.ReactionLike, issueID)
	if err != nil {
		return nil, err
	}
	summary := &LikesSummary{Count: int64(len(rows)), LikedUsers: make([]string, 0, len(rows))}
	for _, r := range rows {
		summary.LikedUsers = append(summary.LikedUsers, r.UserEmail)
	}
	return summary, nil
}

func (uc *ReactionUseCase) IsSaved(ctx context.Context, issueID, email string) (bool, error) {
	if email == "" {
		return false, errors.BadRequest("Email is required", nil)
	}
	return uc.reactions.Exists(ctx, entity.ReactionSave, issueID, email)
}

// SavedIssues joins the user's saved rows with their issues, newest save
// first. Rows whose issue has been deleted are skipped.
func (uc *ReactionUseCase) SavedIssues(ctx context.Context, email string) ([]*entity.SavedIssue, error) {
	if email == "" {
		return nil, errors.BadRequest("Email is required", nil)
	}

	rows, err := uc.reactions.ListByUser(ctx, entity.ReactionSave, email)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*entity.SavedIssue{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.IssueID)
	}
	issues, err := uc.issueRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	saved := make([]*entity.SavedIssue, 0, len(rows))
	for _, r := range rows {
		issue, ok := issues[r.IssueID]
		if !ok {
			continue
		}
		saved = append(saved, &entity.SavedIssue{Issue: issue, SavedAt: r.CreatedAt, SavedID: r.ID})
	}
	return saved, nil
}

// DeleteSaved removes a saved row by its id, only when it belongs to email.
func (uc *ReactionUseCase) DeleteSaved(ctx context.Context, id, email string) error {
	if email == "" {
		return errors.BadRequest("Email is required", nil)
	}
	removed, err := uc.reactions.DeleteOwned(ctx, entity.ReactionSave, id, email)
	if err != nil {
		return err
	}
	if !removed {
		return errors.NotFound("Saved issue", nil)
	}
	return nil
}
