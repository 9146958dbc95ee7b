package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

type firestoreIssueRepository struct {
	client *firestore.Client
}

func NewFirestoreIssueRepository(client *firestore.Client) repository.IssueRepository {
	return &firestoreIssueRepository{
		client: client,
	}
}

func (r *firestoreIssueRepository) Create(ctx context.Context, issue *entity.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}

	_, err := r.client.Collection(issuesCollection).Doc(issue.ID).Create(ctx, issue)
	if err != nil {
		if IsAlreadyExists(err) {
			return errors.Conflict("Issue already exists")
		}
		return storeError("Failed to create issue", err)
	}

	return nil
}

func (r *firestoreIssueRepository) GetByID(ctx context.Context, id string) (*entity.Issue, error) {
	doc, err := r.client.Collection(issuesCollection).Doc(id).Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, errors.NotFound("Issue", err)
		}
		return nil, storeError("Failed to get issue", err)
	}

	var issue entity.Issue
	if err := doc.DataTo(&issue); err != nil {
		return nil, errors.Internal("Failed to parse issue data", err)
	}

	return &issue, nil
}

func (r *firestoreIssueRepository) GetMany(ctx context.Context, ids []string) (map[string]*entity.Issue, error) {
	issues := make(map[string]*entity.Issue, len(ids))

	const batchSize = 100
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		refs := make([]*firestore.DocumentRef, 0, end-i)
		for _, id := range ids[i:end] {
			refs = append(refs, r.client.Collection(issuesCollection).Doc(id))
		}

		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			return nil, storeError("Failed to fetch issues", err)
		}

		for _, doc := range docs {
			if doc == nil || !doc.Exists() {
				continue
			}
			var issue entity.Issue
			if err := doc.DataTo(&issue); err != nil {
				log.Printf("Skipping unreadable issue %s: %v", doc.Ref.ID, err)
				continue
			}
			issues[doc.Ref.ID] = &issue
		}
	}

	return issues, nil
}

func (r *firestoreIssueRepository) List(ctx context.Context) ([]*entity.Issue, error) {
	return r.query(ctx, r.client.Collection(issuesCollection).Query)
}

func (r *firestoreIssueRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Issue, error) {
	return r.query(ctx, r.client.Collection(issuesCollection).Where("verificationStatus", "==", status))
}

func (r *firestoreIssueRepository) ListByStudent(ctx context.Context, email string) ([]*entity.Issue, error) {
	return r.query(ctx, r.client.Collection(issuesCollection).Where("studentEmail", "==", email))
}

func (r *firestoreIssueRepository) query(ctx context.Context, q firestore.Query) ([]*entity.Issue, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError("Failed to list issues", err)
	}

	issues := make([]*entity.Issue, 0, len(docs))
	for _, doc := range docs {
		var issue entity.Issue
		if err := doc.DataTo(&issue); err != nil {
			return nil, errors.Internal("Failed to parse issue data", err)
		}
		issues = append(issues, &issue)
	}

	return issues, nil
}

// Upsert checks ownership and carries moderation fields over inside the same
// transaction that writes the document.
func (r *firestoreIssueRepository) Upsert(ctx context.Context, issue *entity.Issue) (bool, error) {
	ref := r.client.Collection(issuesCollection).Doc(issue.ID)
	created := false
	submitDate := issue.SubmitDate

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		switch {
		case IsNotFound(err):
			created = true
		case err != nil:
			return err
		default:
			created = false
		}

		var existing *entity.Issue
		if !created {
			existing = &entity.Issue{}
			if err := doc.DataTo(existing); err != nil {
				return errors.Internal("Failed to parse issue data", err)
			}
		}
		issue.SubmitDate = submitDate
		if err := repository.MergeUpsert(issue, existing, time.Now()); err != nil {
			return err
		}
		return tx.Set(ref, issue)
	})
	if err != nil {
		if errors.Is(err, "FORBIDDEN") || errors.Is(err, "INTERNAL_ERROR") {
			return false, err
		}
		return false, storeError("Failed to update issue", err)
	}

	return created, nil
}

func (r *firestoreIssueRepository) SetVerificationStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, firestore.Update{Path: "verificationStatus", Value: status})
}

func (r *firestoreIssueRepository) SetSolved(ctx context.Context, id string, solved bool) error {
	return r.update(ctx, id, firestore.Update{Path: "isSolved", Value: solved})
}

func (r *firestoreIssueRepository) update(ctx context.Context, id string, updates ...firestore.Update) error {
	_, err := r.client.Collection(issuesCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		if IsNotFound(err) {
			return errors.NotFound("Issue", err)
		}
		return storeError("Failed to update issue", err)
	}
	return nil
}

func (r *firestoreIssueRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(issuesCollection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if IsNotFound(err) {
			return errors.NotFound("Issue", err)
		}
		return storeError("Failed to delete issue", err)
	}
	return nil
}

func (r *firestoreIssueRepository) UpdateStudentProfile(ctx context.Context, email string, name, image *string) (int64, error) {
	var updates []firestore.Update
	if name != nil {
		updates = append(updates, firestore.Update{Path: "studentName", Value: *name})
	}
	if image != nil {
		updates = append(updates, firestore.Update{Path: "studentImage", Value: *image})
	}
	if len(updates) == 0 {
		return 0, nil
	}

	return r.bulk(ctx, email, "Failed to update issues", func(bw *firestore.BulkWriter, ref *firestore.DocumentRef) (*firestore.BulkWriterJob, error) {
		return bw.Update(ref, updates)
	})
}

func (r *firestoreIssueRepository) DeleteByStudent(ctx context.Context, email string) (int64, error) {
	return r.bulk(ctx, email, "Failed to delete issues", func(bw *firestore.BulkWriter, ref *firestore.DocumentRef) (*firestore.BulkWriterJob, error) {
		return bw.Delete(ref)
	})
}

// bulk applies op to every issue owned by email and returns how many writes landed.
func (r *firestoreIssueRepository) bulk(
	ctx context.Context,
	email, message string,
	op func(*firestore.BulkWriter, *firestore.DocumentRef) (*firestore.BulkWriterJob, error),
) (int64, error) {
	refs, err := r.client.Collection(issuesCollection).Where("studentEmail", "==", email).Documents(ctx).GetAll()
	if err != nil {
		return 0, storeError(message, err)
	}
	if len(refs) == 0 {
		return 0, nil
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, doc := range refs {
		job, err := op(bw, doc.Ref)
		if err != nil {
			bw.End()
			return 0, storeError(message, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	var done int64
	var firstErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		done++
	}
	if firstErr != nil {
		return done, storeError(message, firstErr)
	}

	return done, nil
}

func (r *firestoreIssueRepository) Stats(ctx context.Context) (*entity.IssueStats, error) {
	issues := r.client.Collection(issuesCollection)
	var stats entity.IssueStats

	counts := []struct {
		q   firestore.Query
		dst *int64
	}{
		{issues.Query, &stats.Total},
		{issues.Where("verificationStatus", "==", entity.StatusVerified), &stats.Verified},
		{issues.Where("verificationStatus", "==", entity.StatusRejected), &stats.Rejected},
		{issues.Where("verificationStatus", "==", entity.StatusPending), &stats.Pending},
		{issues.Where("isSolved", "==", true), &stats.Solved},
	}

	for _, c := range counts {
		n, err := countQuery(ctx, c.q)
		if err != nil {
			return nil, storeError("Failed to count issues", err)
		}
		*c.dst = n
	}

	return &stats, nil
}
