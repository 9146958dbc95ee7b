// Package testutil provides an in-memory store adapter for tests. It enforces
// the same uniqueness rules as the Firestore adapter: one user per email and
// one reaction per (issue, user) pair per kind.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

// Store holds all four collections behind one mutex.
type Store struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	issues    map[string]*entity.Issue
	reactions map[entity.ReactionKind]map[string]*entity.Reaction

	// Fail, when set, is consulted before every call. A non-nil return is
	// handed back to the caller unchanged.
	Fail func(op string) error
}

func NewStore() *Store {
	return &Store{
		users:  map[string]*entity.User{},
		issues: map[string]*entity.Issue{},
		reactions: map[entity.ReactionKind]map[string]*entity.Reaction{
			entity.ReactionLike: {},
			entity.ReactionSave: {},
		},
	}
}

func (s *Store) Users() repository.UserRepository         { return &userRepo{s} }
func (s *Store) Issues() repository.IssueRepository       { return &issueRepo{s} }
func (s *Store) Reactions() repository.ReactionRepository { return &reactionRepo{s} }

func (s *Store) fail(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Fail != nil {
		return s.Fail(op)
	}
	return nil
}

// SeedUser stores u as is, generating an id when missing.
func (s *Store) SeedUser(u *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	cp := *u
	s.users[u.ID] = &cp
	return u
}

// SeedIssue stores i as is, generating an id when missing.
func (s *Store) SeedIssue(i *entity.Issue) *entity.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	cp := *i
	s.issues[i.ID] = &cp
	return i
}

// ReactionRows returns the number of stored rows of kind for the pair.
func (s *Store) ReactionRows(kind entity.ReactionKind, issueID, email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reactions[kind] {
		if r.IssueID == issueID && r.UserEmail == email {
			n++
		}
	}
	return n
}

type userRepo struct{ s *Store }

func (r *userRepo) CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error) {
	if err := r.s.fail(ctx, "users.create"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return false, nil
		}
	}
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	cp := *user
	r.s.users[user.ID] = &cp
	return true, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := r.s.fail(ctx, "users.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := r.s.fail(ctx, "users.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *userRepo) List(ctx context.Context) ([]*entity.User, error) {
	if err := r.s.fail(ctx, "users.list"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, email string, update entity.ProfileUpdate) (bool, error) {
	if err := r.s.fail(ctx, "users.update"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email != email {
			continue
		}
		if update.Name != nil {
			u.Name = *update.Name
		}
		if update.PhotoURL != nil {
			u.PhotoURL = *update.PhotoURL
		}
		if update.UniversityID != nil {
			u.UniversityID = *update.UniversityID
		}
		if update.Department != nil {
			u.Department = *update.Department
		}
		return true, nil
	}
	return false, nil
}

func (r *userRepo) SetRole(ctx context.Context, id, role string) (*entity.User, error) {
	if err := r.s.fail(ctx, "users.role"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) (*entity.User, error) {
	if err := r.s.fail(ctx, "users.delete"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	delete(r.s.users, id)
	return u, nil
}

type issueRepo struct{ s *Store }

func (r *issueRepo) Create(ctx context.Context, issue *entity.Issue) error {
	if err := r.s.fail(ctx, "issues.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	issue.ID = uuid.New().String()
	cp := *issue
	r.s.issues[issue.ID] = &cp
	return nil
}

func (r *issueRepo) GetByID(ctx context.Context, id string) (*entity.Issue, error) {
	if err := r.s.fail(ctx, "issues.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.issues[id]
	if !ok {
		return nil, errors.NotFound("Issue", nil)
	}
	cp := *i
	return &cp, nil
}

func (r *issueRepo) GetMany(ctx context.Context, ids []string) (map[string]*entity.Issue, error) {
	if err := r.s.fail(ctx, "issues.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.Issue, len(ids))
	for _, id := range ids {
		if i, ok := r.s.issues[id]; ok {
			cp := *i
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *issueRepo) filter(keep func(*entity.Issue) bool) []*entity.Issue {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Issue{}
	for _, i := range r.s.issues {
		if keep(i) {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SubmitDate.After(out[b].SubmitDate) })
	return out
}

func (r *issueRepo) List(ctx context.Context) ([]*entity.Issue, error) {
	if err := r.s.fail(ctx, "issues.list"); err != nil {
		return nil, err
	}
	return r.filter(func(*entity.Issue) bool { return true }), nil
}

func (r *issueRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Issue, error) {
	if err := r.s.fail(ctx, "issues.list"); err != nil {
		return nil, err
	}
	return r.filter(func(i *entity.Issue) bool { return i.VerificationStatus == status }), nil
}

func (r *issueRepo) ListByStudent(ctx context.Context, email string) ([]*entity.Issue, error) {
	if err := r.s.fail(ctx, "issues.list"); err != nil {
		return nil, err
	}
	return r.filter(func(i *entity.Issue) bool { return i.StudentEmail == email }), nil
}

func (r *issueRepo) Upsert(ctx context.Context, issue *entity.Issue) (bool, error) {
	if err := r.s.fail(ctx, "issues.upsert"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, existed := r.s.issues[issue.ID]
	if err := repository.MergeUpsert(issue, existing, time.Now()); err != nil {
		return false, err
	}
	cp := *issue
	r.s.issues[issue.ID] = &cp
	return !existed, nil
}

func (r *issueRepo) update(ctx context.Context, id string, apply func(*entity.Issue)) error {
	if err := r.s.fail(ctx, "issues.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.issues[id]
	if !ok {
		return errors.NotFound("Issue", nil)
	}
	apply(i)
	return nil
}

func (r *issueRepo) SetVerificationStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, func(i *entity.Issue) { i.VerificationStatus = status })
}

func (r *issueRepo) SetSolved(ctx context.Context, id string, solved bool) error {
	return r.update(ctx, id, func(i *entity.Issue) { i.IsSolved = solved })
}

func (r *issueRepo) Delete(ctx context.Context, id string) error {
	if err := r.s.fail(ctx, "issues.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.issues[id]; !ok {
		return errors.NotFound("Issue", nil)
	}
	delete(r.s.issues, id)
	return nil
}

func (r *issueRepo) UpdateStudentProfile(ctx context.Context, email string, name, image *string) (int64, error) {
	if err := r.s.fail(ctx, "issues.profile"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, i := range r.s.issues {
		if i.StudentEmail != email {
			continue
		}
		if name != nil {
			i.StudentName = *name
		}
		if image != nil {
			i.StudentImage = *image
		}
		n++
	}
	return n, nil
}

func (r *issueRepo) DeleteByStudent(ctx context.Context, email string) (int64, error) {
	if err := r.s.fail(ctx, "issues.cascade"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, i := range r.s.issues {
		if i.StudentEmail == email {
			delete(r.s.issues, id)
			n++
		}
	}
	return n, nil
}

func (r *issueRepo) Stats(ctx context.Context) (*entity.IssueStats, error) {
	if err := r.s.fail(ctx, "issues.stats"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &entity.IssueStats{}
	for _, i := range r.s.issues {
		stats.Total++
		switch i.VerificationStatus {
		case entity.StatusVerified:
			stats.Verified++
		case entity.StatusRejected:
			stats.Rejected++
		case entity.StatusPending:
			stats.Pending++
		}
		if i.IsSolved {
			stats.Solved++
		}
	}
	return stats, nil
}

type reactionRepo struct{ s *Store }

func (r *reactionRepo) Insert(ctx context.Context, kind entity.ReactionKind, reaction *entity.Reaction) error {
	if err := r.s.fail(ctx, "reactions.insert"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reaction.ID = entity.ReactionID(reaction.IssueID, reaction.UserEmail)
	if _, ok := r.s.reactions[kind][reaction.ID]; ok {
		return errors.Conflict(fmt.Sprintf("Already %sd", kind))
	}
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now()
	}
	cp := *reaction
	r.s.reactions[kind][reaction.ID] = &cp
	return nil
}

func (r *reactionRepo) Delete(ctx context.Context, kind entity.ReactionKind, issueID, userEmail string) (bool, error) {
	if err := r.s.fail(ctx, "reactions.delete"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := entity.ReactionID(issueID, userEmail)
	if _, ok := r.s.reactions[kind][id]; !ok {
		return false, nil
	}
	delete(r.s.reactions[kind], id)
	return true, nil
}

func (r *reactionRepo) Exists(ctx context.Context, kind entity.ReactionKind, issueID, userEmail string) (bool, error) {
	if err := r.s.fail(ctx, "reactions.get"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.reactions[kind][entity.ReactionID(issueID, userEmail)]
	return ok, nil
}

func (r *reactionRepo) Count(ctx context.Context, kind entity.ReactionKind, issueID string) (int64, error) {
	if err := r.s.fail(ctx, "reactions.count"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, row := range r.s.reactions[kind] {
		if row.IssueID == issueID {
			n++
		}
	}
	return n, nil
}

func (r *reactionRepo) ListByIssue(ctx context.Context, kind entity.ReactionKind, issueID string) ([]*entity.Reaction, error) {
	if err := r.s.fail(ctx, "reactions.list"); err != nil {
		return nil, err
	}
	return r.list(kind, func(row *entity.Reaction) bool { return row.IssueID == issueID }), nil
}

func (r *reactionRepo) ListByUser(ctx context.Context, kind entity.ReactionKind, userEmail string) ([]*entity.Reaction, error) {
	if err := r.s.fail(ctx, "reactions.list"); err != nil {
		return nil, err
	}
	return r.list(kind, func(row *entity.Reaction) bool { return row.UserEmail == userEmail }), nil
}

func (r *reactionRepo) list(kind entity.ReactionKind, keep func(*entity.Reaction) bool) []*entity.Reaction {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Reaction{}
	for _, row := range r.s.reactions[kind] {
		if keep(row) {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *reactionRepo) DeleteOwned(ctx context.Context, kind entity.ReactionKind, id, userEmail string) (bool, error) {
	if err := r.s.fail(ctx, "reactions.delete"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.reactions[kind][id]
	if !ok || row.UserEmail != userEmail {
		return false, nil
	}
	delete(r.s.reactions[kind], id)
	return true, nil
}
