package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/logger"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

var nopLogger = logger.NewNop()

type fakeCatalog struct {
	items       []domain.Motorbike
	err         error
	calls       int
	invalidated [][]string
}

func (f *fakeCatalog) ListMotorbikes(context.Context) ([]domain.Motorbike, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Motorbike(nil), f.items...), nil
}

func (f *fakeCatalog) GetMotorbike(_ context.Context, id string) (*domain.Motorbike, error) {
	f.calls++
	for _, m := range f.items {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) InvalidateCatalog(ids ...string) {
	f.invalidated = append(f.invalidated, ids)
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakeAuth struct {
	session   *domain.Session
	err       error
	me        *domain.User
	meErr     error
	calls     int
	lastEmail string
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*domain.Session, error) {
	f.calls++
	f.lastEmail = email
	if f.err != nil {
		return nil, f.err
	}
	s := copySession(*f.session)
	return &s, nil
}

func (f *fakeAuth) Register(_ context.Context, _, email, _ string) (*domain.Session, error) {
	return f.Login(context.Background(), email, "")
}

func (f *fakeAuth) Me(context.Context, string) (*domain.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	u := *f.me
	return &u, nil
}

type fakeUsers struct {
	user   *domain.User
	err    error
	update *domain.ProfileUpdate
}

func (f *fakeUsers) UpdateUser(_ context.Context, _, _ string, update *domain.ProfileUpdate) (*domain.User, error) {
	f.update = update
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	return &u, nil
}

type fakeSessions struct {
	mu       sync.Mutex
	data     map[uuid.UUID]domain.Session
	deleted  int
	getErr   error
	getCalls int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{data: map[uuid.UUID]domain.Session{}}
}

func (f *fakeSessions) SaveSession(_ context.Context, id uuid.UUID, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[id] = copySession(*s)
	return nil
}

func (f *fakeSessions) GetSession(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		err := f.getErr
		f.getErr = nil
		return nil, err
	}
	s, ok := f.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copySession(s)
	return &out, nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted++
	delete(f.data, id)
	return nil
}

type fakeBookingAPI struct {
	list        []domain.Booking
	listErr     error
	created     *domain.Booking
	createErr   error
	createCalls int
	lastCreate  *domain.CreateBookingRequest
	cancelErr   error
	cancelled   []string
}

func (f *fakeBookingAPI) ListUserBookings(context.Context, string, string) ([]domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Booking(nil), f.list...), nil
}

func (f *fakeBookingAPI) GetBooking(_ context.Context, _, id string) (*domain.Booking, error) {
	for _, b := range f.list {
		if b.ID == id {
			out := b
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBookingAPI) CancelBooking(_ context.Context, _, id string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, _ string, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	f.createCalls++
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *f.created
	return &out, nil
}

type publishedEvent struct {
	key string
	v   any
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.events = append(p.events, publishedEvent{key: key, v: v})
	return nil
}

// staticSession is a sessionSource with a fixed session.
type staticSession struct {
	session domain.Session
}

func (s *staticSession) Session() domain.Session {
	return s.session
}

func signedIn() domain.Session {
	phone := "0812345678"
	return domain.Session{
		User:  &domain.User{ID: "u1", Name: "Ana Lopez", Email: "ana@example.com", Phone: &phone},
		Token: "tok-1",
	}
}

func newValidator() *validation.Validator {
	return validation.New()
}
