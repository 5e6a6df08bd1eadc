package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
)

const (
	GroupAll      = "all"
	GroupUpcoming = "upcoming"
	GroupPast     = "past"

	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// sessionSource is the part of the session store the other stores read.
type sessionSource interface {
	Session() domain.Session
}

// BookingEvent is published on booking lifecycle changes.
type BookingEvent struct {
	Event      string         `json:"event"`
	Version    int            `json:"version"`
	ID         string         `json:"id"`
	OccurredAt string         `json:"occurred_at"`
	Booking    domain.Booking `json:"booking"`
}

// BookingStore caches the signed-in visitor's bookings.
type BookingStore struct {
	mu       sync.RWMutex
	bookings []domain.Booking
	current  *domain.Booking
	selected *domain.Booking
	loading  bool
	err      string

	api     ports.BookingAPI
	session sessionSource
	events  ports.EventPublisher
	logger  ports.LoggerPort
	now     func() time.Time
}

type BookingsSnapshot struct {
	Bookings []domain.Booking `json:"bookings"`
	Group    string           `json:"group"`
	Selected *domain.Booking  `json:"selected,omitempty"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

func NewBookingStore(
	api ports.BookingAPI,
	session sessionSource,
	events ports.EventPublisher,
	logger ports.LoggerPort,
) *BookingStore {
	return &BookingStore{
		api:     api,
		session: session,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *BookingStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *BookingStore) fail(err error) {
	s.mu.Lock()
	s.loading = false
	if !errors.Is(err, domain.ErrAuthRequired) {
		s.err = publicMessage(err)
	}
	s.mu.Unlock()
}

func (s *BookingStore) authSession() (domain.Session, error) {
	sess := s.session.Session()
	if !sess.IsAuthenticated() {
		return sess, domain.ErrAuthRequired
	}
	return sess, nil
}

// FetchAll replaces the cached list. On failure the previous list stays.
func (s *BookingStore) FetchAll(ctx context.Context) error {
	sess, err := s.authSession()
	if err != nil {
		return err
	}

	s.begin()
	bookings, err := s.api.ListUserBookings(ctx, sess.Token, sess.User.ID)
	if err != nil {
		s.logger.Error("Failed to fetch bookings", map[string]interface{}{
			"error":   err.Error(),
			"user_id": sess.User.ID,
		})
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.bookings = bookings
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("Retrieved bookings for user", map[string]interface{}{
		"user_id":        sess.User.ID,
		"bookings_count": len(bookings),
	})
	return nil
}

func (s *BookingStore) FetchByID(ctx context.Context, id string) (*domain.Booking, error) {
	sess, err := s.authSession()
	if err != nil {
		return nil, err
	}

	s.begin()
	booking, err := s.api.GetBooking(ctx, sess.Token, id)
	if err != nil {
		s.logger.Error("Failed to fetch booking", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": id,
		})
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.current = booking
	s.loading = false
	s.mu.Unlock()

	out := *booking
	return &out, nil
}

// Create posts req and, on success, appends the record and makes it current.
func (s *BookingStore) Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	sess, err := s.authSession()
	if err != nil {
		return nil, err
	}

	s.begin()
	booking, err := s.api.CreateBooking(ctx, sess.Token, req)
	if err != nil {
		s.logger.Error("Failed to create booking", map[string]interface{}{
			"error":        err.Error(),
			"motorbike_id": req.MotorbikeID,
			"user_id":      req.UserID,
		})
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.bookings = append(s.bookings, *booking)
	current := *booking
	s.current = &current
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("Booking created successfully", map[string]interface{}{
		"booking_id":   booking.ID,
		"motorbike_id": booking.MotorbikeID,
		"user_id":      booking.UserID,
	})
	s.publish(ctx, EventBookingCreated, *booking)

	out := *booking
	return &out, nil
}

// Cancel cancels id on the backend and patches every cached copy.
func (s *BookingStore) Cancel(ctx context.Context, id string) error {
	sess, err := s.authSession()
	if err != nil {
		return err
	}

	s.begin()
	if err := s.api.CancelBooking(ctx, sess.Token, id); err != nil {
		s.logger.Error("Failed to cancel booking", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": id,
		})
		s.fail(err)
		return err
	}

	var cancelled *domain.Booking
	s.mu.Lock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = domain.StatusCancelled
			b := s.bookings[i]
			cancelled = &b
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current.Status = domain.StatusCancelled
		if cancelled == nil {
			b := *s.current
			cancelled = &b
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected.Status = domain.StatusCancelled
	}
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("Booking cancelled", map[string]interface{}{
		"booking_id": id,
	})
	if cancelled != nil {
		s.publish(ctx, EventBookingCancelled, *cancelled)
	}
	return nil
}

// SetSelected focuses a booking for the detail view; nil clears it.
func (s *BookingStore) SetSelected(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b == nil {
		s.selected = nil
		return
	}
	cp := *b
	s.selected = &cp
}

// SelectByID focuses a cached booking.
func (s *BookingStore) SelectByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			b := s.bookings[i]
			s.selected = &b
			return nil
		}
	}
	if s.current != nil && s.current.ID == id {
		b := *s.current
		s.selected = &b
		return nil
	}
	return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
}

func (s *BookingStore) Selected() *domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyBooking(s.selected)
}

func (s *BookingStore) Current() *domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyBooking(s.current)
}

func (s *BookingStore) Bookings() []domain.Booking {
	return s.Group(GroupAll)
}

func (s *BookingStore) Upcoming() []domain.Booking {
	return s.Group(GroupUpcoming)
}

func (s *BookingStore) Past() []domain.Booking {
	return s.Group(GroupPast)
}

// Group derives the upcoming/past/all views at the current time.
func (s *BookingStore) Group(group string) []domain.Booking {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		switch group {
		case GroupUpcoming:
			if !b.IsUpcoming(now) {
				continue
			}
		case GroupPast:
			if !b.IsPast(now) {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

func (s *BookingStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *BookingStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *BookingStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Reset drops everything, used on logout.
func (s *BookingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = nil
	s.current = nil
	s.selected = nil
	s.loading = false
	s.err = ""
}

func (s *BookingStore) Snapshot(group string) BookingsSnapshot {
	bookings := s.Group(group)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BookingsSnapshot{
		Bookings: bookings,
		Group:    group,
		Selected: copyBooking(s.selected),
		Loading:  s.loading,
		Error:    s.err,
	}
}

func (s *BookingStore) publish(ctx context.Context, event string, b domain.Booking) {
	if s.events == nil {
		return
	}
	msg := BookingEvent{
		Event:      event,
		Version:    1,
		ID:         uuid.NewString(),
		OccurredAt: s.now().UTC().Format(time.RFC3339),
		Booking:    b,
	}
	if err := s.events.PublishJSON(ctx, event, msg); err != nil {
		s.logger.Warn("Failed to publish booking event", map[string]interface{}{
			"error":      err.Error(),
			"event":      event,
			"booking_id": b.ID,
		})
	}
}

func copyBooking(b *domain.Booking) *domain.Booking {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}
