package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusissues/internal/domain/entity"
	"campusissues/internal/infrastructure/token"
	"campusissues/internal/testutil"
	"campusissues/pkg/errors"
)

func TestLoginIssuesVerifiableToken(t *testing.T) {
	store := testutil.NewStore()
	seedStudent(store, "a@uni.edu")
	tokens := token.NewService("secret", 12*time.Hour)
	uc := NewAuthUseCase(store.Users(), tokens)

	result, err := uc.Login(context.Background(), "a@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, "a@uni.edu", result.User.Email)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@uni.edu", claims.Email)
	assert.Equal(t, entity.RoleStudent, claims.Role)
}

func TestLoginUnknownUser(t *testing.T) {
	uc := NewAuthUseCase(testutil.NewStore().Users(), token.NewService("secret", time.Hour))

	_, err := uc.Login(context.Background(), "ghost@uni.edu")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestLoginRequiresEmail(t *testing.T) {
	uc := NewAuthUseCase(testutil.NewStore().Users(), token.NewService("secret", time.Hour))

	_, err := uc.Login(context.Background(), "  ")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
