package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusissues/internal/domain/entity"
	"campusissues/internal/testutil"
	"campusissues/pkg/errors"
)

type stubAccounts struct {
	removed bool
	err     error
	calls   []string
}

func (s *stubAccounts) DeleteAccountByEmail(_ context.Context, email string) (bool, error) {
	s.calls = append(s.calls, email)
	return s.removed, s.err
}

func strPtr(s string) *string { return &s }

func TestCreateUserIsIdempotent(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, nil)
	ctx := context.Background()

	first, err := uc.Create(ctx, CreateUserInput{Email: "a@uni.edu", Name: "A", Role: entity.RoleStudent})
	require.NoError(t, err)
	assert.True(t, first.Created)
	require.NotNil(t, first.InsertedID)

	second, err := uc.Create(ctx, CreateUserInput{Email: "a@uni.edu", Name: "Other"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Nil(t, second.InsertedID)
	assert.Equal(t, "user already exists", second.Message)

	users, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "A", users[0].Name)
}

func TestCreateUserRejectsElevatedRole(t *testing.T) {
	uc := NewUserUseCase(testutil.NewStore().Users(), nil, nil, nil)

	_, err := uc.Create(context.Background(), CreateUserInput{Email: "a@uni.edu", Role: entity.RoleAdmin})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSetRoleFraudDeletesOnlyOwnIssues(t *testing.T) {
	store := testutil.NewStore()
	rec := newRecordingRecorder()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, rec)
	ctx := context.Background()

	bad := seedStudent(store, "bad@uni.edu")
	seedStudent(store, "good@uni.edu")
	for i := 0; i < 3; i++ {
		store.SeedIssue(&entity.Issue{StudentEmail: "bad@uni.edu", Title: fmt.Sprintf("bad %d", i)})
	}
	kept := store.SeedIssue(&entity.Issue{StudentEmail: "good@uni.edu", Title: "good"})

	result, err := uc.SetRole(ctx, bad.ID, entity.RoleFraud)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ModifiedCount)
	require.NotNil(t, result.DeletedIssues)
	assert.Equal(t, int64(3), *result.DeletedIssues)

	remaining, err := store.Issues().List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	role, err := uc.CurrentRole(ctx, "bad@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleFraud, role)
	assert.Equal(t, []int64{3}, rec.cascadeDeleted)
}

func TestSetRoleNonFraudLeavesIssues(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, nil)
	u := seedStudent(store, "a@uni.edu")
	store.SeedIssue(&entity.Issue{StudentEmail: "a@uni.edu"})

	result, err := uc.SetRole(context.Background(), u.ID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Nil(t, result.DeletedIssues)

	issues, _ := store.Issues().List(context.Background())
	assert.Len(t, issues, 1)
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, nil)
	u := seedStudent(store, "a@uni.edu")

	_, err := uc.SetRole(context.Background(), u.ID, "Superuser")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSetRoleMissingUser(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, nil)

	_, err := uc.SetRole(context.Background(), "nope", entity.RoleFraud)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSetRoleFraudCascadeFailureIsPartial(t *testing.T) {
	store := testutil.NewStore()
	rec := newRecordingRecorder()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, rec)
	u := seedStudent(store, "bad@uni.edu")
	store.SeedIssue(&entity.Issue{StudentEmail: "bad@uni.edu"})
	store.Fail = func(op string) error {
		if op == "issues.cascade" {
			return errors.Internal("Failed to delete issues", fmt.Errorf("unavailable"))
		}
		return nil
	}

	_, err := uc.SetRole(context.Background(), u.ID, entity.RoleFraud)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "PARTIAL_FAILURE"))

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	details, ok := appErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, details["roleUpdated"])

	store.Fail = nil
	role, err := uc.CurrentRole(context.Background(), "bad@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleFraud, role)
	assert.Equal(t, []string{"fraud_cascade"}, rec.partialFailures)
}

func TestSetRoleWriteFailureSkipsCascade(t *testing.T) {
	store := testutil.NewStore()
	rec := newRecordingRecorder()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, rec)
	u := seedStudent(store, "bad@uni.edu")
	store.SeedIssue(&entity.Issue{StudentEmail: "bad@uni.edu"})
	store.Fail = func(op string) error {
		if op == "users.role" {
			return errors.Internal("Failed to update user role", fmt.Errorf("unavailable"))
		}
		return nil
	}

	_, err := uc.SetRole(context.Background(), u.ID, entity.RoleFraud)
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))

	store.Fail = nil
	role, err := uc.CurrentRole(context.Background(), "bad@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, role)

	issues, err := store.Issues().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Empty(t, rec.partialFailures)
	assert.Empty(t, rec.cascadeDeleted)
}

func TestUpdateProfileCascadesToStudentIssues(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, nil)
	ctx := context.Background()
	seedStudent(store, "a@uni.edu")
	issue := store.SeedIssue(&entity.Issue{StudentEmail: "a@uni.edu", StudentName: "Old"})
	other := store.SeedIssue(&entity.Issue{StudentEmail: "b@uni.edu", StudentName: "B"})

	result, err := uc.UpdateProfile(ctx, "a@uni.edu", "a@uni.edu", entity.ProfileUpdate{
		Name:       strPtr("New"),
		Department: strPtr("CSE"),
	})
	require.NoError(t, err)
	assert.True(t, result.UserMatched)
	require.NotNil(t, result.IssuesUpdated)
	assert.Equal(t, int64(1), *result.IssuesUpdated)

	got, err := store.Issues().GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.StudentName)

	untouched, err := store.Issues().GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", untouched.StudentName)

	user, err := uc.GetByEmail(ctx, "a@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, "CSE", user.Department)
}

func TestUpdateProfileAdminSkipsCascade(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, nil)
	seedAdmin(store, "admin@uni.edu")

	result, err := uc.UpdateProfile(context.Background(), "admin@uni.edu", "admin@uni.edu", entity.ProfileUpdate{Name: strPtr("Boss")})
	require.NoError(t, err)
	assert.Nil(t, result.IssuesUpdated)
}

func TestUpdateProfileRequiresSelfOrAdmin(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, nil)
	ctx := context.Background()
	seedStudent(store, "a@uni.edu")
	seedStudent(store, "b@uni.edu")
	seedAdmin(store, "admin@uni.edu")

	_, err := uc.UpdateProfile(ctx, "b@uni.edu", "a@uni.edu", entity.ProfileUpdate{Name: strPtr("x")})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.UpdateProfile(ctx, "admin@uni.edu", "a@uni.edu", entity.ProfileUpdate{Name: strPtr("x")})
	assert.NoError(t, err)
}

func TestUpdateProfileMissingUser(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUserUseCase(store.Users(), store.Issues(), nil, nil)

	_, err := uc.UpdateProfile(context.Background(), "ghost@uni.edu", "ghost@uni.edu", entity.ProfileUpdate{Name: strPtr("x")})
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	_, err = uc.UpdateProfile(context.Background(), "ghost@uni.edu", "", entity.ProfileUpdate{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestDeleteUserRemovesAuthAccount(t *testing.T) {
	store := testutil.NewStore()
	rec := newRecordingRecorder()
	accounts := &stubAccounts{removed: true}
	uc := NewUserUseCase(store.Users(), store.Issues(), accounts, rec)
	u := seedStudent(store, "a@uni.edu")

	result, err := uc.Delete(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.True(t, result.AuthAccountDeleted)
	assert.Equal(t, []string{"a@uni.edu"}, accounts.calls)
	assert.Equal(t, []string{"deleted"}, rec.authDeletions)

	_, err = uc.GetByEmail(context.Background(), "a@uni.edu")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestDeleteUserKeepsRecordDeleteOnProviderError(t *testing.T) {
	store := testutil.NewStore()
	accounts := &stubAccounts{err: fmt.Errorf("provider down")}
	uc := NewUserUseCase(store.Users(), store.Issues(), accounts, nil)
	u := seedStudent(store, "a@uni.edu")

	result, err := uc.Delete(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.False(t, result.AuthAccountDeleted)
	assert.NotEmpty(t, result.AuthAccountError)
	assert.NotContains(t, result.AuthAccountError, "provider down")
}

func TestDeleteUserMissing(t *testing.T) {
	store := testutil.NewStore()
	accounts := &stubAccounts{}
	uc := NewUserUseCase(store.Users(), store.Issues(), accounts, nil)

	_, err := uc.Delete(context.Background(), "nope")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.Empty(t, accounts.calls)
}
