package usecase

import (
	"context"
	"log"
	"time"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

type ToggleResult struct {
	Action     string `json:"action"`
	TotalCount int64  `json:"totalCount"`
}

// ToggleUseCase flips a per-user relation to an issue. Concurrent toggles
// never leave two rows for the same pair: the store rejects the second insert
// and that rejection is what turns the call into a delete.
type ToggleUseCase struct {
	reactions repository.ReactionRepository
	recorder  Recorder
	now       func() time.Time
}

func NewToggleUseCase(reactions repository.ReactionRepository, recorder Recorder) *ToggleUseCase {
	return &ToggleUseCase{
		reactions: reactions,
		recorder:  recorderOrNoop(recorder),
		now:       time.Now,
	}
}

func (uc *ToggleUseCase) Toggle(ctx context.Context, kind entity.ReactionKind, issueID, email string) (*ToggleResult, error) {
	if issueID == "" || email == "" {
		return nil, errors.BadRequest("issue id and email are required", nil)
	}

	action, err := uc.flip(ctx, kind, issueID, email)
	if err != nil {
		return nil, err
	}

	count, err := uc.reactions.Count(ctx, kind, issueID)
	if err != nil {
		return nil, err
	}

	uc.recorder.RecordToggle(string(kind), action)
	return &ToggleResult{Action: action, TotalCount: count}, nil
}

// flip tries insert first, falls back to delete on conflict and retries the
// insert once if a concurrent toggle removed the row in between.
func (uc *ToggleUseCase) flip(ctx context.Context, kind entity.ReactionKind, issueID, email string) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		err := uc.reactions.Insert(ctx, kind, &entity.Reaction{
			ID:        entity.ReactionID(issueID, email),
			IssueID:   issueID,
			UserEmail: email,
			CreatedAt: uc.now().UTC(),
		})
		if err == nil {
			return ToggleAdded, nil
		}
		if !errors.Is(err, "CONFLICT") {
			return "", err
		}

		removed, err := uc.reactions.Delete(ctx, kind, issueID, email)
		if err != nil {
			return "", err
		}
		if removed {
			return ToggleRemoved, nil
		}
		log.Printf("Toggle %s on %s by %s raced, retrying", kind, issueID, email)
	}
	return "", errors.Conflict("Toggle raced with a concurrent request, try again")
}
