package assignment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"styledeco/internal/domain"
	"styledeco/internal/pkg/events"
	"styledeco/internal/repository"
	"styledeco/internal/testutil"
)

var (
	admin = domain.AdminPrincipal("admin@styledeco.com")
	alice = domain.Principal{ID: "alice@example.com", Role: domain.RoleUser, Active: true}
	decoA = domain.Principal{ID: "a@x.com", Role: domain.RoleDecorator, Active: true}
	decoB = domain.Principal{ID: "b@x.com", Role: domain.RoleDecorator, Active: true}
)

type sentSMS struct {
	to, body string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentSMS{to: to, body: body})
	return f.err
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	bookings *repository.BookingRepository
	users    *repository.UserRepository
	sms      *fakeSMS
	recorder *testutil.Recorder
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		bookings: repository.NewBookingRepository(db),
		users:    repository.NewUserRepository(db),
		sms:      &fakeSMS{},
		recorder: &testutil.Recorder{},
		logs:     logs,
	}
	f.svc = NewService(f.bookings, f.users, f.sms, f.recorder, zap.New(core))

	testutil.CreateUser(t, db, decoA.ID, domain.RoleDecorator)
	testutil.CreateUser(t, db, decoB.ID, domain.RoleDecorator)
	testutil.CreateUser(t, db, alice.ID, domain.RoleUser)
	return f
}

func (f *fixture) booking(t *testing.T, status domain.BookingStatus, bookedAt time.Time) *domain.Booking {
	t.Helper()

	b := &domain.Booking{
		UserEmail:   alice.ID,
		ServiceID:   uuid.NewString(),
		ServiceName: "Wedding Stage",
		Cost:        decimal.NewFromInt(50000),
		BookedAt:    bookedAt,
		Status:      status,
	}
	require.NoError(t, f.bookings.Create(t.Context(), b))
	return b
}

func TestAssign_PaidBooking(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.BookingPaid, time.Now().UTC())

	assigned, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: "A@X.com"})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingPaid, assigned.Status)
	assert.True(t, assigned.DecoratorAssigned)
	require.NotNil(t, assigned.DecoratorEmail)
	assert.Equal(t, decoA.ID, *assigned.DecoratorEmail)
	require.NotNil(t, assigned.ProjectStatus)
	assert.Equal(t, domain.ProjectAssigned, *assigned.ProjectStatus)
	assert.NoError(t, assigned.CheckInvariant())
	assert.Equal(t, []events.Type{events.BookingAssigned}, f.recorder.Types())
	assert.Equal(t, 1, f.logs.FilterMessage("decorator assigned").Len())
}

func TestAssign_Rejections(t *testing.T) {
	f := newFixture(t)
	pending := f.booking(t, domain.BookingPending, time.Now().UTC())
	paid := f.booking(t, domain.BookingPaid, time.Now().UTC())

	_, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: pending.ID, DecoratorEmail: decoA.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: paid.ID, DecoratorEmail: alice.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: paid.ID, DecoratorEmail: "ghost@x.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.users.ToggleActive(t.Context(), decoB.ID)
	require.NoError(t, err)
	_, err = f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: paid.ID, DecoratorEmail: decoB.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Assign(t.Context(), alice, AssignRequest{BookingID: paid.ID, DecoratorEmail: decoA.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: "missing", DecoratorEmail: decoA.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign_AlreadyAssignedLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.BookingPaid, time.Now().UTC())

	first, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: decoA.ID})
	require.NoError(t, err)

	_, err = f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: decoB.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	current, err := f.bookings.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Version, current.Version)
	assert.Equal(t, decoA.ID, *current.DecoratorEmail)
}

func TestAssign_ConcurrentExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.BookingPaid, time.Now().UTC())

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, email := range []string{decoA.ID, decoB.ID} {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, results[i] = f.svc.Assign(context.Background(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: email})
		}(i, email)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

func TestAssign_SendsSMSWhenPhoneOnFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.users.Create(t.Context(), &domain.User{
		Email:  "phone@x.com",
		Role:   domain.RoleDecorator,
		Phone:  "+8801700000000",
		Active: true,
	}))
	b := f.booking(t, domain.BookingPaid, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	f.sms.err = errors.New("twilio down")

	_, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: "phone@x.com"})
	require.NoError(t, err)

	require.Len(t, f.sms.sent, 1)
	assert.Equal(t, "+8801700000000", f.sms.sent[0].to)
	assert.Contains(t, f.sms.sent[0].body, "Wedding Stage")
	assert.Contains(t, f.sms.sent[0].body, "2026-03-14")
	assert.Equal(t, 1, f.logs.FilterMessage("assignment sms failed").Len())

	// No phone, no message.
	other := f.booking(t, domain.BookingPaid, time.Now().UTC())
	_, err = f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: other.ID, DecoratorEmail: decoA.ID})
	require.NoError(t, err)
	assert.Len(t, f.sms.sent, 1)
}

func TestListAssignable(t *testing.T) {
	f := newFixture(t)
	f.booking(t, domain.BookingPending, time.Now().UTC())
	paid := f.booking(t, domain.BookingPaid, time.Now().UTC())
	taken := f.booking(t, domain.BookingPaid, time.Now().UTC())
	_, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: taken.ID, DecoratorEmail: decoA.ID})
	require.NoError(t, err)

	list, err := f.svc.ListAssignable(t.Context(), admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, paid.ID, list[0].ID)

	_, err = f.svc.ListAssignable(t.Context(), decoA)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateProjectStatus(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.BookingPaid, time.Now().UTC())
	_, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: decoA.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateProjectStatus(t.Context(), decoB, b.ID, string(domain.ProjectPlanning))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.UpdateProjectStatus(t.Context(), alice, b.ID, string(domain.ProjectPlanning))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.UpdateProjectStatus(t.Context(), decoA, b.ID, "Partying")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Any order is allowed, including going backwards.
	updated, err := f.svc.UpdateProjectStatus(t.Context(), decoA, b.ID, string(domain.ProjectCompleted))
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, *updated.ProjectStatus)

	updated, err = f.svc.UpdateProjectStatus(t.Context(), admin, b.ID, string(domain.ProjectPlanning))
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectPlanning, *updated.ProjectStatus)
	assert.Contains(t, f.recorder.Types(), events.ProjectStatusChanged)
}

func TestUnassign(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.BookingPaid, time.Now().UTC())
	_, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: decoA.ID})
	require.NoError(t, err)

	_, err = f.svc.Unassign(t.Context(), decoB, b.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cleared, err := f.svc.Unassign(t.Context(), decoA, b.ID)
	require.NoError(t, err)
	assert.False(t, cleared.DecoratorAssigned)
	assert.Nil(t, cleared.DecoratorEmail)
	assert.Nil(t, cleared.ProjectStatus)
	assert.Equal(t, domain.BookingPaid, cleared.Status)

	_, err = f.svc.Unassign(t.Context(), admin, b.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Reassignment works once the booking is free again.
	reassigned, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: decoB.ID})
	require.NoError(t, err)
	assert.Equal(t, decoB.ID, *reassigned.DecoratorEmail)

	_, err = f.svc.Unassign(t.Context(), admin, b.ID)
	require.NoError(t, err)
}

func TestListProjects_TodayFilter(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	today := f.booking(t, domain.BookingPaid, now.Add(-2*time.Hour))
	tomorrow := f.booking(t, domain.BookingPaid, now.Add(24*time.Hour))
	for _, b := range []*domain.Booking{today, tomorrow} {
		_, err := f.svc.Assign(t.Context(), admin, AssignRequest{BookingID: b.ID, DecoratorEmail: decoA.ID})
		require.NoError(t, err)
	}

	all, err := f.svc.ListProjects(t.Context(), decoA, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	todays, err := f.svc.ListProjects(t.Context(), decoA, true)
	require.NoError(t, err)
	require.Len(t, todays, 1)
	assert.Equal(t, today.ID, todays[0].ID)

	none, err := f.svc.ListProjects(t.Context(), decoB, false)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.svc.ListProjects(t.Context(), alice, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
