package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/repository"
	"styledeco/internal/testutil"
)

var (
	admin = domain.AdminPrincipal("admin@styledeco.com")
	alice = domain.Principal{ID: "alice@example.com", Role: domain.RoleUser, Active: true}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, alice.ID, domain.RoleUser)
	return NewService(repository.NewUserRepository(db), zap.NewNop())
}

func TestMakeDecorator(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.MakeDecorator(t.Context(), admin, "Alice@Example.com", MakeDecoratorRequest{
		Specialties: []string{"wedding", " Wedding ", "", "birthday"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDecorator, u.Role)
	assert.Equal(t, []string{"wedding", "birthday"}, u.Specialties)

	// Promoting again keeps the role and replaces specialties.
	u, err = svc.MakeDecorator(t.Context(), admin, alice.ID, MakeDecoratorRequest{Specialties: []string{"corporate"}})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDecorator, u.Role)
	assert.Equal(t, []string{"corporate"}, u.Specialties)

	decorators, err := svc.ListDecorators(t.Context(), admin)
	require.NoError(t, err)
	require.Len(t, decorators, 1)
	assert.Equal(t, alice.ID, decorators[0].Email)

	_, err = svc.MakeDecorator(t.Context(), admin, "ghost@example.com", MakeDecoratorRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminOperationsRequireAdmin(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.MakeDecorator(t.Context(), alice, alice.ID, MakeDecoratorRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.ToggleActive(t.Context(), alice, alice.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.ListDecorators(t.Context(), domain.Guest())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestToggleActive(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.ToggleActive(t.Context(), admin, alice.ID)
	require.NoError(t, err)
	assert.False(t, u.Active)

	u, err = svc.ToggleActive(t.Context(), admin, alice.ID)
	require.NoError(t, err)
	assert.True(t, u.Active)

	_, err = svc.ToggleActive(t.Context(), admin, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIsDecorator(t *testing.T) {
	svc := newTestService(t)

	status, err := svc.IsDecorator(t.Context(), alice.ID)
	require.NoError(t, err)
	assert.False(t, status.IsDecorator)

	_, err = svc.MakeDecorator(t.Context(), admin, alice.ID, MakeDecoratorRequest{})
	require.NoError(t, err)

	status, err = svc.IsDecorator(t.Context(), "ALICE@example.com")
	require.NoError(t, err)
	assert.True(t, status.IsDecorator)
	assert.True(t, status.Active)

	status, err = svc.IsDecorator(t.Context(), "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, status.IsDecorator)
}
