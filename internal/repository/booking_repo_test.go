package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"styledeco/internal/domain"
)

func TestBookingRepository_MarkPaidIsIdempotent(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))
	b := seedBooking(t, repo, "user@x.com", domain.BookingPending)
	require.Equal(t, int64(1), b.Version)

	got, changed, err := repo.MarkPaid(t.Context(), b.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.BookingPaid, got.Status)
	assert.Equal(t, int64(2), got.Version)

	again, changed, err := repo.MarkPaid(t.Context(), b.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.BookingPaid, again.Status)
	assert.Equal(t, int64(2), again.Version)
}

func TestBookingRepository_MarkPaidUnknown(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))

	_, _, err := repo.MarkPaid(t.Context(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepository_AssignRequiresPaid(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))
	b := seedBooking(t, repo, "user@x.com", domain.BookingPending)

	_, err := repo.Assign(t.Context(), b.ID, "deco@x.com")
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	assert.False(t, stored.DecoratorAssigned)
	assert.Nil(t, stored.DecoratorEmail)
}

func TestBookingRepository_AssignTwiceConflicts(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))
	b := seedBooking(t, repo, "user@x.com", domain.BookingPaid)

	got, err := repo.Assign(t.Context(), b.ID, "a@x.com")
	require.NoError(t, err)
	assert.True(t, got.DecoratorAssigned)
	require.NotNil(t, got.DecoratorEmail)
	assert.Equal(t, "a@x.com", *got.DecoratorEmail)
	require.NotNil(t, got.ProjectStatus)
	assert.Equal(t, domain.ProjectAssigned, *got.ProjectStatus)

	_, err = repo.Assign(t.Context(), b.ID, "b@x.com")
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", *stored.DecoratorEmail)
}

func TestBookingRepository_ConcurrentAssignOneWinner(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))
	b := seedBooking(t, repo, "user@x.com", domain.BookingPaid)

	decorators := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"}
	errs := make([]error, len(decorators))

	var wg sync.WaitGroup
	for i, email := range decorators {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, errs[i] = repo.Assign(t.Context(), b.ID, email)
		}(i, email)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, wins)

	stored, err := repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	require.NoError(t, stored.CheckInvariant())
}

func TestBookingRepository_ProjectStatusAndUnassign(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))
	b := seedBooking(t, repo, "user@x.com", domain.BookingPaid)
	_, err := repo.Assign(t.Context(), b.ID, "a@x.com")
	require.NoError(t, err)

	_, err = repo.SetProjectStatus(t.Context(), b.ID, "b@x.com", domain.ProjectSetup)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.SetProjectStatus(t.Context(), b.ID, "a@x.com", domain.ProjectCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, *got.ProjectStatus)

	got, err = repo.Unassign(t.Context(), b.ID, "a@x.com")
	require.NoError(t, err)
	assert.False(t, got.DecoratorAssigned)
	assert.Nil(t, got.DecoratorEmail)
	assert.Nil(t, got.ProjectStatus)
	assert.Equal(t, domain.BookingPaid, got.Status)

	_, err = repo.Unassign(t.Context(), b.ID, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookingRepository_UpdateVersionedDetectsStaleWrite(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))
	b := seedBooking(t, repo, "user@x.com", domain.BookingPending)

	stale := *b
	_, _, err := repo.MarkPaid(t.Context(), b.ID)
	require.NoError(t, err)

	stale.ServiceName = "Renamed"
	_, err = repo.UpdateVersioned(t.Context(), &stale)
	assert.ErrorIs(t, err, domain.ErrConflict)

	fresh, err := repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	fresh.ServiceName = "Renamed"
	got, err := repo.UpdateVersioned(t.Context(), fresh)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.ServiceName)
	assert.Equal(t, domain.BookingPaid, got.Status)
}

func TestBookingRepository_ListFilters(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))
	seedBooking(t, repo, "u1@x.com", domain.BookingPending)
	paid := seedBooking(t, repo, "u1@x.com", domain.BookingPaid)
	seedBooking(t, repo, "u2@x.com", domain.BookingPaid)
	_, err := repo.Assign(t.Context(), paid.ID, "deco@x.com")
	require.NoError(t, err)

	own, err := repo.List(t.Context(), BookingFilter{UserEmail: "u1@x.com"})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	assigned, err := repo.List(t.Context(), BookingFilter{DecoratorEmail: "deco@x.com"})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, paid.ID, assigned[0].ID)

	no := false
	assignable, err := repo.List(t.Context(), BookingFilter{Status: domain.BookingPaid, Assigned: &no})
	require.NoError(t, err)
	require.Len(t, assignable, 1)
	assert.Equal(t, "u2@x.com", assignable[0].UserEmail)
}

func TestBookingRepository_Delete(t *testing.T) {
	repo := NewBookingRepository(newTestDB(t))
	b := seedBooking(t, repo, "user@x.com", domain.BookingPending)

	require.NoError(t, repo.Delete(t.Context(), b.ID))
	assert.ErrorIs(t, repo.Delete(t.Context(), b.ID), domain.ErrNotFound)

	_, err := repo.GetByID(t.Context(), b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
