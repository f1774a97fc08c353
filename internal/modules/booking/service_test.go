package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/pkg/events"
	"styledeco/internal/repository"
	"styledeco/internal/testutil"
)

var (
	admin     = domain.AdminPrincipal("admin@styledeco.com")
	alice     = domain.Principal{ID: "alice@example.com", Role: domain.RoleUser, Active: true}
	bob       = domain.Principal{ID: "bob@example.com", Role: domain.RoleUser, Active: true}
	decorator = domain.Principal{ID: "deco@example.com", Role: domain.RoleDecorator, Active: true}
)

type fixture struct {
	svc      *Service
	bookings *repository.BookingRepository
	services *repository.ServiceRepository
	recorder *testutil.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		bookings: repository.NewBookingRepository(db),
		services: repository.NewServiceRepository(db),
		recorder: &testutil.Recorder{},
	}
	f.svc = NewService(f.bookings, f.services, f.recorder, zap.NewNop())
	return f
}

func (f *fixture) seedService(t *testing.T) *domain.Service {
	t.Helper()

	svc := &domain.Service{
		Name:        "Wedding Stage",
		Cost:        decimal.NewFromInt(50000),
		Category:    "wedding",
		Description: "Full stage setup",
		Image:       "https://img.example/stage.jpg",
		CreatedBy:   admin.ID,
	}
	require.NoError(t, f.services.Create(t.Context(), svc))
	return svc
}

func TestCreateBooking_SnapshotsService(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)

	b, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingPending, b.Status)
	assert.False(t, b.DecoratorAssigned)
	assert.Nil(t, b.DecoratorEmail)
	assert.Equal(t, "Wedding Stage", b.ServiceName)
	assert.True(t, b.Cost.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, []events.Type{events.BookingCreated}, f.recorder.Types())

	// Deleting the service leaves the snapshot intact.
	require.NoError(t, f.services.Delete(t.Context(), svc.ID))
	got, err := f.svc.Get(t.Context(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wedding Stage", got.ServiceName)
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(50000)))
}

func TestCreateBooking_Errors(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)

	_, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.CreateBooking(t.Context(), domain.Guest(), CreateBookingRequest{ServiceID: svc.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.CreateBooking(t.Context(), decorator, CreateBookingRequest{ServiceID: svc.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)
	b, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)

	first, err := f.svc.MarkPaid(t.Context(), b.ID)
	require.NoError(t, err)
	second, err := f.svc.MarkPaid(t.Context(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.BookingPaid, first.Status)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, []events.Type{events.BookingCreated, events.BookingPaid}, f.recorder.Types())

	_, err = f.svc.MarkPaid(t.Context(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForPrincipal(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)

	_, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(t.Context(), bob, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)

	mine, err := f.svc.ListForPrincipal(t.Context(), alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].UserEmail)

	all, err := f.svc.ListForPrincipal(t.Context(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assigned, err := f.svc.ListForPrincipal(t.Context(), decorator)
	require.NoError(t, err)
	assert.Empty(t, assigned)

	_, err = f.svc.ListForPrincipal(t.Context(), domain.Guest())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.ListAll(t.Context(), alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGet_OtherUsersBookingForbidden(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)
	b, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)

	_, err = f.svc.Get(t.Context(), bob, b.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Get(t.Context(), admin, b.ID)
	assert.NoError(t, err)
}

func TestAdminUpdate(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)
	b, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)

	paid := string(domain.BookingPaid)
	cost := decimal.NewFromInt(42000)
	updated, err := f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{Status: &paid, Cost: &cost})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPaid, updated.Status)
	assert.True(t, updated.Cost.Equal(cost))
	assert.Equal(t, b.Version+1, updated.Version)

	pending := string(domain.BookingPending)
	_, err = f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{Status: &pending})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Project status needs an assigned decorator.
	planning := string(domain.ProjectPlanning)
	_, err = f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{ProjectStatus: &planning})
	assert.ErrorIs(t, err, domain.ErrConflict)

	unknown := "Dancing"
	_, err = f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{ProjectStatus: &unknown})
	assert.ErrorIs(t, err, domain.ErrValidation)

	zero := decimal.Zero
	_, err = f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{Cost: &zero})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.AdminUpdate(t.Context(), alice, b.ID, AdminUpdateRequest{Cost: &cost})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdminUpdate_SubCentCostRejected(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)
	b, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)

	tiny := decimal.RequireFromString("0.004")
	_, err = f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{Cost: &tiny})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.svc.Get(t.Context(), admin, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Cost.Equal(b.Cost))
	assert.Equal(t, b.Version, got.Version)

	cents := decimal.RequireFromString("1999.999")
	updated, err := f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{Cost: &cents})
	require.NoError(t, err)
	assert.True(t, updated.Cost.Equal(decimal.NewFromInt(2000)))
}

func TestAdminUpdate_ProjectStatusOnAssignedBooking(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)
	b, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(t.Context(), b.ID)
	require.NoError(t, err)
	_, err = f.bookings.Assign(t.Context(), b.ID, decorator.ID)
	require.NoError(t, err)

	setup := string(domain.ProjectSetup)
	updated, err := f.svc.AdminUpdate(t.Context(), admin, b.ID, AdminUpdateRequest{ProjectStatus: &setup})
	require.NoError(t, err)
	require.NotNil(t, updated.ProjectStatus)
	assert.Equal(t, domain.ProjectSetup, *updated.ProjectStatus)
	assert.NoError(t, updated.CheckInvariant())
}

func TestAdminDelete(t *testing.T) {
	f := newFixture(t)
	svc := f.seedService(t)
	b, err := f.svc.CreateBooking(t.Context(), alice, CreateBookingRequest{ServiceID: svc.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.AdminDelete(t.Context(), alice, b.ID), domain.ErrForbidden)
	require.NoError(t, f.svc.AdminDelete(t.Context(), admin, b.ID))

	_, err = f.svc.Get(t.Context(), admin, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.AdminDelete(t.Context(), admin, b.ID), domain.ErrNotFound)
	assert.Contains(t, f.recorder.Types(), events.BookingDeleted)
}
