package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"styledeco/internal/domain"
)

func TestUserRepository_CreateNormalizesAndRejectsDuplicates(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	u := &domain.User{Email: " Jane@X.com ", Name: "Jane", Role: domain.RoleUser, Active: true}
	require.NoError(t, repo.Create(t.Context(), u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "jane@x.com", u.Email)

	err := repo.Create(t.Context(), &domain.User{Email: "jane@x.com", Role: domain.RoleUser, Active: true})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByEmail(t.Context(), "JANE@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []string{}, got.Specialties)
}

func TestUserRepository_SetRoleAndToggleActive(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	require.NoError(t, repo.Create(t.Context(), &domain.User{Email: "d@x.com", Role: domain.RoleUser, Active: true}))

	got, err := repo.SetRole(t.Context(), "d@x.com", domain.RoleDecorator, []string{"wedding", "birthday"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDecorator, got.Role)
	assert.Equal(t, []string{"wedding", "birthday"}, got.Specialties)

	decorators, err := repo.ListByRole(t.Context(), domain.RoleDecorator)
	require.NoError(t, err)
	require.Len(t, decorators, 1)

	got, err = repo.ToggleActive(t.Context(), "d@x.com")
	require.NoError(t, err)
	assert.False(t, got.Active)

	got, err = repo.ToggleActive(t.Context(), "d@x.com")
	require.NoError(t, err)
	assert.True(t, got.Active)

	_, err = repo.ToggleActive(t.Context(), "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.SetRole(t.Context(), "ghost@x.com", domain.RoleDecorator, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
