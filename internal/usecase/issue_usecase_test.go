package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"campusissues/internal/domain/entity"
	"campusissues/internal/testutil"
	"campusissues/pkg/errors"
)

func validInput() IssueInput {
	return IssueInput{
		Title:    "Broken projector",
		Category: "Facilities",
		Location: "Room 301",
		Date:     "2024-03-01",
		Time:     "10:00",
		Details:  "The projector in room 301 does not turn on.",
	}
}

func newIssueUseCase(store *testutil.Store) *IssueUseCase {
	uc := NewIssueUseCase(store.Issues(), store.Users())
	uc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return uc
}

func TestCreateIssueDefaults(t *testing.T) {
	store := testutil.NewStore()
	seedStudent(store, "a@uni.edu")
	uc := newIssueUseCase(store)

	issue, err := uc.Create(context.Background(), "a@uni.edu", validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, issue.ID)
	assert.Equal(t, "a@uni.edu", issue.StudentEmail)
	assert.Equal(t, "Student a@uni.edu", issue.StudentName)
	assert.Equal(t, "https://img/a@uni.edu", issue.StudentImage)
	assert.Equal(t, entity.StatusPending, issue.VerificationStatus)
	assert.False(t, issue.IsSolved)
	assert.Equal(t, uc.now(), issue.SubmitDate)
}

func TestCreateIssueMissingFields(t *testing.T) {
	uc := newIssueUseCase(testutil.NewStore())
	input := validInput()
	input.Title = ""
	input.Details = " "

	_, err := uc.Create(context.Background(), "a@uni.edu", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Contains(t, err.Error(), "issue_title")
	assert.Contains(t, err.Error(), "issue_details")
}

func TestVerificationScenario(t *testing.T) {
	store := testutil.NewStore()
	seedStudent(store, "s@uni.edu")
	uc := newIssueUseCase(store)
	ctx := context.Background()

	issue, err := uc.Create(ctx, "s@uni.edu", validInput())
	require.NoError(t, err)

	pending, err := uc.ListByStatus(ctx, entity.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	updated, err := uc.SetVerification(ctx, issue.ID, entity.StatusVerified)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVerified, updated.VerificationStatus)

	verified, err := uc.ListByStatus(ctx, entity.StatusVerified)
	require.NoError(t, err)
	assert.Len(t, verified, 1)

	pending, err = uc.ListByStatus(ctx, entity.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entity.IssueStats{Total: 1, Verified: 1}, stats)
}

func TestSetVerificationValidation(t *testing.T) {
	store := testutil.NewStore()
	uc := newIssueUseCase(store)

	_, err := uc.SetVerification(context.Background(), "x", "approved")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.SetVerification(context.Background(), "missing", entity.StatusRejected)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	_, err = uc.ListByStatus(context.Background(), "done")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSetSolved(t *testing.T) {
	store := testutil.NewStore()
	uc := newIssueUseCase(store)
	issue := store.SeedIssue(&entity.Issue{StudentEmail: "a@uni.edu", VerificationStatus: entity.StatusVerified})

	got, err := uc.SetSolved(context.Background(), issue.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsSolved)

	_, err = uc.SetSolved(context.Background(), "missing", true)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestUpdateIssueUpsertsAndPreservesModeration(t *testing.T) {
	store := testutil.NewStore()
	uc := newIssueUseCase(store)
	ctx := context.Background()
	existing := store.SeedIssue(&entity.Issue{
		StudentEmail:       "a@uni.edu",
		Title:              "old",
		VerificationStatus: entity.StatusVerified,
		IsSolved:           true,
	})

	input := validInput()
	input.Title = "new"
	res, err := uc.Update(ctx, "a@uni.edu", existing.ID, input)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "new", res.Issue.Title)
	assert.Equal(t, entity.StatusVerified, res.Issue.VerificationStatus)
	assert.True(t, res.Issue.IsSolved)

	res, err = uc.Update(ctx, "a@uni.edu", "fresh-id", validInput())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, entity.StatusPending, res.Issue.VerificationStatus)

	got, err := uc.Get(ctx, "fresh-id")
	require.NoError(t, err)
	assert.Equal(t, "a@uni.edu", got.StudentEmail)
}

func TestUpdateIssueOfAnotherStudent(t *testing.T) {
	store := testutil.NewStore()
	uc := newIssueUseCase(store)
	existing := store.SeedIssue(&entity.Issue{StudentEmail: "a@uni.edu"})

	_, err := uc.Update(context.Background(), "b@uni.edu", existing.ID, validInput())
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestUpdateIssueKeepsSubmitDateUnlessGiven(t *testing.T) {
	store := testutil.NewStore()
	uc := newIssueUseCase(store)
	ctx := context.Background()
	filed := time.Date(2023, 9, 1, 8, 0, 0, 0, time.UTC)
	existing := store.SeedIssue(&entity.Issue{StudentEmail: "a@uni.edu", SubmitDate: filed})

	res, err := uc.Update(ctx, "a@uni.edu", existing.ID, validInput())
	require.NoError(t, err)
	assert.True(t, filed.Equal(res.Issue.SubmitDate))

	moved := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	input := validInput()
	input.SubmitDate = &moved
	res, err = uc.Update(ctx, "a@uni.edu", existing.ID, input)
	require.NoError(t, err)
	assert.True(t, moved.Equal(res.Issue.SubmitDate))

	res, err = uc.Update(ctx, "a@uni.edu", "fresh-id", validInput())
	require.NoError(t, err)
	assert.False(t, res.Issue.SubmitDate.IsZero())
}

func TestConcurrentUpdatesOfNewIDHaveOneOwner(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := testutil.NewStore()
	uc := newIssueUseCase(store)
	ctx := context.Background()
	students := []string{"a@uni.edu", "b@uni.edu"}

	const rounds = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes = map[string]int{}
	)
	for i := 0; i < rounds; i++ {
		for _, email := range students {
			wg.Add(1)
			go func(email string) {
				defer wg.Done()
				_, err := uc.Update(ctx, email, "contested", validInput())
				if err != nil {
					assert.True(t, errors.Is(err, "FORBIDDEN"), err)
					return
				}
				mu.Lock()
				successes[email]++
				mu.Unlock()
			}(email)
		}
	}
	wg.Wait()

	got, err := uc.Get(ctx, "contested")
	require.NoError(t, err)
	assert.Equal(t, rounds, successes[got.StudentEmail])
	assert.Len(t, successes, 1)
}

func TestListMineIsSelfOnly(t *testing.T) {
	store := testutil.NewStore()
	uc := newIssueUseCase(store)
	store.SeedIssue(&entity.Issue{StudentEmail: "a@uni.edu"})
	store.SeedIssue(&entity.Issue{StudentEmail: "b@uni.edu"})

	mine, err := uc.ListMine(context.Background(), "a@uni.edu", "a@uni.edu")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = uc.ListMine(context.Background(), "a@uni.edu", "b@uni.edu")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestDeleteIssuePermissions(t *testing.T) {
	store := testutil.NewStore()
	seedStudent(store, "a@uni.edu")
	seedStudent(store, "b@uni.edu")
	seedAdmin(store, "admin@uni.edu")
	uc := newIssueUseCase(store)
	ctx := context.Background()

	own := store.SeedIssue(&entity.Issue{StudentEmail: "a@uni.edu"})
	other := store.SeedIssue(&entity.Issue{StudentEmail: "a@uni.edu"})

	assert.True(t, errors.Is(uc.Delete(ctx, "b@uni.edu", own.ID), "FORBIDDEN"))
	assert.NoError(t, uc.Delete(ctx, "a@uni.edu", own.ID))
	assert.NoError(t, uc.Delete(ctx, "admin@uni.edu", other.ID))
	assert.True(t, errors.Is(uc.Delete(ctx, "admin@uni.edu", other.ID), "NOT_FOUND"))
}

func TestDeleteIssueLeavesReactions(t *testing.T) {
	store := testutil.NewStore()
	seedStudent(store, "a@uni.edu")
	uc := newIssueUseCase(store)
	toggles := NewToggleUseCase(store.Reactions(), nil)
	ctx := context.Background()

	issue, err := uc.Create(ctx, "a@uni.edu", validInput())
	require.NoError(t, err)
	_, err = toggles.Toggle(ctx, entity.ReactionLike, issue.ID, "b@uni.edu")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "a@uni.edu", issue.ID))

	_, err = uc.Get(ctx, issue.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	count, err := store.Reactions().Count(ctx, entity.ReactionLike, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
