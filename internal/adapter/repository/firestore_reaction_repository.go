package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

type firestoreReactionRepository struct {
	client *firestore.Client
}

// NewFirestoreReactionRepository stores likes and saves. Each row lives at a
// document id derived from (issueId, userEmail), so the document id is the
// uniqueness constraint and Create fails with AlreadyExists on a duplicate.
func NewFirestoreReactionRepository(client *firestore.Client) repository.ReactionRepository {
	return &firestoreReactionRepository{client: client}
}

func (r *firestoreReactionRepository) collection(kind entity.ReactionKind) *firestore.CollectionRef {
	if kind == entity.ReactionSave {
		return r.client.Collection(savesCollection)
	}
	return r.client.Collection(likesCollection)
}

func (r *firestoreReactionRepository) Insert(ctx context.Context, kind entity.ReactionKind, reaction *entity.Reaction) error {
	reaction.ID = entity.ReactionID(reaction.IssueID, reaction.UserEmail)
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now()
	}

	_, err := r.collection(kind).Doc(reaction.ID).Create(ctx, reaction)
	if err != nil {
		if IsAlreadyExists(err) {
			return errors.Conflict("Already " + string(kind) + "d")
		}
		return storeError("Failed to store "+string(kind), err)
	}

	return nil
}

func (r *firestoreReactionRepository) Delete(ctx context.Context, kind entity.ReactionKind, issueID, userEmail string) (bool, error) {
	id := entity.ReactionID(issueID, userEmail)

	_, err := r.collection(kind).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, storeError("Failed to remove "+string(kind), err)
	}

	return true, nil
}

func (r *firestoreReactionRepository) Exists(ctx context.Context, kind entity.ReactionKind, issueID, userEmail string) (bool, error) {
	id := entity.ReactionID(issueID, userEmail)

	doc, err := r.collection(kind).Doc(id).Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, storeError("Failed to check "+string(kind), err)
	}

	return doc.Exists(), nil
}

func (r *firestoreReactionRepository) Count(ctx context.Context, kind entity.ReactionKind, issueID string) (int64, error) {
	n, err := countQuery(ctx, r.collection(kind).Where("issueId", "==", issueID))
	if err != nil {
		return 0, storeError("Failed to count "+string(kind)+"s", err)
	}
	return n, nil
}

func (r *firestoreReactionRepository) ListByIssue(ctx context.Context, kind entity.ReactionKind, issueID string) ([]*entity.Reaction, error) {
	return r.list(ctx, kind, r.collection(kind).Where("issueId", "==", issueID))
}

func (r *firestoreReactionRepository) ListByUser(ctx context.Context, kind entity.ReactionKind, userEmail string) ([]*entity.Reaction, error) {
	q := r.collection(kind).
		Where("userEmail", "==", userEmail).
		OrderBy("createdAt", firestore.Desc)
	return r.list(ctx, kind, q)
}

func (r *firestoreReactionRepository) list(ctx context.Context, kind entity.ReactionKind, q firestore.Query) ([]*entity.Reaction, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError("Failed to list "+string(kind)+"s", err)
	}

	reactions := make([]*entity.Reaction, 0, len(docs))
	for _, doc := range docs {
		var reaction entity.Reaction
		if err := doc.DataTo(&reaction); err != nil {
			return nil, errors.Internal("Failed to parse "+string(kind), err)
		}
		reactions = append(reactions, &reaction)
	}

	return reactions, nil
}

func (r *firestoreReactionRepository) DeleteOwned(ctx context.Context, kind entity.ReactionKind, id, userEmail string) (bool, error) {
	ref := r.collection(kind).Doc(id)
	deleted := false

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = false
		doc, err := tx.Get(ref)
		if err != nil {
			if IsNotFound(err) {
				return nil
			}
			return err
		}

		var reaction entity.Reaction
		if err := doc.DataTo(&reaction); err != nil {
			return err
		}
		if reaction.UserEmail != userEmail {
			return nil
		}

		deleted = true
		return tx.Delete(ref)
	})
	if err != nil {
		return false, storeError("Failed to remove "+string(kind), err)
	}

	return deleted, nil
}
