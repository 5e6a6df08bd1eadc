package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

// Workspace is the set of state containers of one visitor.
type Workspace struct {
	ID       uuid.UUID
	Catalog  *CatalogStore
	Bookings *BookingStore
	Session  *SessionStore
	Wizard   *BookingWizard

	mu       sync.Mutex
	lastSeen time.Time
	restored bool
}

// Login signs in and resumes a booking draft that was waiting for it.
func (w *Workspace) Login(ctx context.Context, form *validation.LoginForm) error {
	prev := w.userID()
	if err := w.Session.Login(ctx, form); err != nil {
		return err
	}
	w.signedIn(prev)
	return nil
}

func (w *Workspace) Register(ctx context.Context, form *validation.RegisterForm) error {
	prev := w.userID()
	if err := w.Session.Register(ctx, form); err != nil {
		return err
	}
	w.signedIn(prev)
	return nil
}

// signedIn drops the bookings cached for another user before resuming the
// wizard.
func (w *Workspace) signedIn(prevUserID string) {
	if w.userID() != prevUserID {
		w.Bookings.Reset()
	}
	w.Wizard.Resume()
}

func (w *Workspace) userID() string {
	if u := w.Session.Session().User; u != nil {
		return u.ID
	}
	return ""
}

// Logout ends the session and forgets the visitor's bookings.
func (w *Workspace) Logout(ctx context.Context) {
	w.Session.Logout(ctx)
	w.Bookings.Reset()
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// WorkspaceDeps are shared by every workspace.
type WorkspaceDeps struct {
	Catalog  ports.CatalogService
	Auth     ports.AuthAPI
	Users    ports.UserAPI
	Bookings ports.BookingAPI
	Sessions ports.SessionRepository
	Events   ports.EventPublisher
	Validate *validation.Validator
	Logger   ports.LoggerPort
}

// Registry owns the workspaces of all visitors.
type Registry struct {
	mu         sync.Mutex
	workspaces map[uuid.UUID]*Workspace
	deps       WorkspaceDeps
	idleTTL    time.Duration
	now        func() time.Time
}

func NewRegistry(deps WorkspaceDeps, idleTTL time.Duration) *Registry {
	return &Registry{
		workspaces: make(map[uuid.UUID]*Workspace),
		deps:       deps,
		idleTTL:    idleTTL,
		now:        time.Now,
	}
}

// Get returns the visitor's workspace, creating it and restoring a persisted
// session on first use.
func (r *Registry) Get(ctx context.Context, visitorID uuid.UUID) *Workspace {
	r.mu.Lock()
	ws, ok := r.workspaces[visitorID]
	if !ok {
		ws = r.newWorkspace(visitorID)
		r.workspaces[visitorID] = ws
	}
	r.mu.Unlock()

	ws.touch(r.now())
	ws.restoreSession(ctx)
	return ws
}

// restoreSession loads the persisted session until one attempt succeeds. A
// failed attempt leaves the visitor signed out for this request only.
func (w *Workspace) restoreSession(ctx context.Context) {
	w.mu.Lock()
	done := w.restored
	w.mu.Unlock()
	if done {
		return
	}
	if w.Session.Session().IsAuthenticated() {
		w.markRestored()
		return
	}
	if err := w.Session.Restore(ctx); err != nil {
		return
	}
	w.markRestored()
}

func (w *Workspace) markRestored() {
	w.mu.Lock()
	w.restored = true
	w.mu.Unlock()
}

func (r *Registry) newWorkspace(id uuid.UUID) *Workspace {
	logger := r.deps.Logger.With(map[string]interface{}{"visitor_id": id.String()})
	session := NewSessionStore(id, r.deps.Auth, r.deps.Users, r.deps.Sessions, r.deps.Validate, logger)
	bookings := NewBookingStore(r.deps.Bookings, session, r.deps.Events, logger)
	return &Workspace{
		ID:       id,
		Catalog:  NewCatalogStore(r.deps.Catalog, logger),
		Bookings: bookings,
		Session:  session,
		Wizard:   NewBookingWizard(bookings, session, r.deps.Validate, logger),
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep evicts workspaces idle for longer than the TTL. Persisted sessions
// are kept and restored on the next visit.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, ws := range r.workspaces {
		if ws.idleSince(now) > r.idleTTL {
			delete(r.workspaces, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.deps.Logger.Debug("Evicted idle workspaces", map[string]interface{}{
			"evicted":   evicted,
			"remaining": len(r.workspaces),
		})
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
