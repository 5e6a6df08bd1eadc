package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

func newTestRegistry(repo *fakeSessions, auth *fakeAuth, api *fakeBookingAPI) *Registry {
	return NewRegistry(WorkspaceDeps{
		Catalog:  &fakeCatalog{items: testCatalog()},
		Auth:     auth,
		Users:    &fakeUsers{},
		Bookings: api,
		Sessions: repo,
		Validate: newValidator(),
		Logger:   nopLogger,
	}, time.Minute)
}

func TestRegistryIsolatesVisitors(t *testing.T) {
	r := newTestRegistry(newFakeSessions(), &fakeAuth{}, &fakeBookingAPI{})
	a := r.Get(context.Background(), uuid.New())
	b := r.Get(context.Background(), uuid.New())

	require.NoError(t, a.Catalog.Load(context.Background()))
	a.Catalog.ToggleBrand("Honda")

	assert.Equal(t, 2, r.Len())
	assert.Zero(t, b.Catalog.Len())
	assert.Empty(t, b.Catalog.Filters().Brands)
	assert.Same(t, a, r.Get(context.Background(), a.ID))
}

func TestRegistryRestoresPersistedSession(t *testing.T) {
	repo := newFakeSessions()
	id := uuid.New()
	sess := signedIn()
	require.NoError(t, repo.SaveSession(context.Background(), id, &sess))

	r := newTestRegistry(repo, &fakeAuth{}, &fakeBookingAPI{})
	ws := r.Get(context.Background(), id)

	assert.True(t, ws.Session.Session().IsAuthenticated())
	assert.Equal(t, "u1", ws.Session.Session().User.ID)
}

func TestRegistrySweepEvictsIdle(t *testing.T) {
	r := newTestRegistry(newFakeSessions(), &fakeAuth{}, &fakeBookingAPI{})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	idle := r.Get(context.Background(), uuid.New())
	now = now.Add(50 * time.Second)
	active := r.Get(context.Background(), uuid.New())
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	assert.Same(t, active, r.Get(context.Background(), active.ID))
	assert.NotSame(t, idle, r.Get(context.Background(), idle.ID))
}

func TestWorkspaceLoginResumesWizard(t *testing.T) {
	sess := signedIn()
	api := &fakeBookingAPI{created: &domain.Booking{ID: "b1"}}
	r := newTestRegistry(newFakeSessions(), &fakeAuth{session: &sess}, api)
	ws := r.Get(context.Background(), uuid.New())

	ws.Wizard.Start(scooter())
	require.NoError(t, ws.Wizard.SetDates(jan10, jan12))
	require.NoError(t, ws.Wizard.SetLocations("Canggu", "", true))
	require.NoError(t, ws.Wizard.Next())
	require.NoError(t, ws.Wizard.SetPersonalInfo("Guest Rider", "guest@example.com", "0811111111"))
	require.NoError(t, ws.Wizard.Next())
	require.NoError(t, ws.Wizard.SetPaymentMethod(domain.PaymentCredit))

	_, err := ws.Wizard.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthRequired)

	require.NoError(t, ws.Login(context.Background(), &validation.LoginForm{Email: "ana@example.com", Password: "secret1"}))
	snap := ws.Wizard.Snapshot()
	assert.Equal(t, "review", snap.Step)
	assert.False(t, snap.Draft.AwaitingAuth)
	assert.Equal(t, "Guest Rider", snap.Draft.FullName)

	_, err = ws.Wizard.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, ws.Bookings.Bookings(), 1)

	ws.Logout(context.Background())
	assert.False(t, ws.Session.Session().IsAuthenticated())
	assert.Empty(t, ws.Bookings.Bookings())
}

func TestRegistryRetriesFailedRestore(t *testing.T) {
	repo := newFakeSessions()
	id := uuid.New()
	sess := signedIn()
	require.NoError(t, repo.SaveSession(context.Background(), id, &sess))
	repo.getErr = errors.New("connection refused")

	r := newTestRegistry(repo, &fakeAuth{}, &fakeBookingAPI{})
	ws := r.Get(context.Background(), id)
	assert.False(t, ws.Session.Session().IsAuthenticated())

	ws = r.Get(context.Background(), id)
	require.True(t, ws.Session.Session().IsAuthenticated())
	assert.Equal(t, "u1", ws.Session.Session().User.ID)

	r.Get(context.Background(), id)
	assert.Equal(t, 2, repo.getCalls)
}

func TestWorkspaceSwitchingUsersDropsBookings(t *testing.T) {
	first := signedIn()
	auth := &fakeAuth{session: &first}
	api := &fakeBookingAPI{list: []domain.Booking{{ID: "a-booking", UserID: "u1", PickupDate: time.Now().Add(48 * time.Hour)}}}
	r := newTestRegistry(newFakeSessions(), auth, api)
	ws := r.Get(context.Background(), uuid.New())

	form := &validation.LoginForm{Email: "ana@example.com", Password: "secret1"}
	require.NoError(t, ws.Login(context.Background(), form))
	require.NoError(t, ws.Bookings.FetchAll(context.Background()))
	require.NoError(t, ws.Bookings.SelectByID("a-booking"))

	// same user again keeps the cache
	require.NoError(t, ws.Login(context.Background(), form))
	assert.Len(t, ws.Bookings.Bookings(), 1)

	second := signedIn()
	second.User.ID = "u2"
	second.User.Email = "ben@example.com"
	second.Token = "tok-2"
	auth.session = &second
	require.NoError(t, ws.Login(context.Background(), &validation.LoginForm{Email: "ben@example.com", Password: "secret1"}))

	assert.Equal(t, "u2", ws.Session.Session().User.ID)
	assert.Empty(t, ws.Bookings.Bookings())
	assert.Nil(t, ws.Bookings.Selected())
	assert.ErrorIs(t, ws.Bookings.SelectByID("a-booking"), domain.ErrNotFound)
}
