package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

// SessionStore is the signed-in state of one visitor. Only user and token
// are persisted; loading and error never are.
type SessionStore struct {
	mu      sync.RWMutex
	session domain.Session
	loading bool
	err     string

	visitorID uuid.UUID
	auth      ports.AuthAPI
	users     ports.UserAPI
	repo      ports.SessionRepository
	validate  *validation.Validator
	logger    ports.LoggerPort
}

type SessionSnapshot struct {
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"is_authenticated"`
	Loading         bool         `json:"loading"`
	Error           string       `json:"error,omitempty"`
}

func NewSessionStore(
	visitorID uuid.UUID,
	auth ports.AuthAPI,
	users ports.UserAPI,
	repo ports.SessionRepository,
	validate *validation.Validator,
	logger ports.LoggerPort,
) *SessionStore {
	return &SessionStore{
		visitorID: visitorID,
		auth:      auth,
		users:     users,
		repo:      repo,
		validate:  validate,
		logger:    logger,
	}
}

func (s *SessionStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := copySession(s.session)
	return SessionSnapshot{
		User:            sess.User,
		IsAuthenticated: sess.IsAuthenticated(),
		Loading:         s.loading,
		Error:           s.err,
	}
}

func (s *SessionStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *SessionStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Restore loads a persisted session, if any.
func (s *SessionStore) Restore(ctx context.Context) error {
	sess, err := s.repo.GetSession(ctx, s.visitorID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !sess.IsAuthenticated()) {
		return nil
	}
	if err != nil {
		s.logger.Warn("Failed to restore session", map[string]interface{}{
			"error":      err.Error(),
			"visitor_id": s.visitorID,
		})
		return err
	}

	s.mu.Lock()
	s.session = *sess
	s.mu.Unlock()

	s.logger.Debug("Session restored", map[string]interface{}{
		"visitor_id": s.visitorID,
		"user_id":    sess.User.ID,
	})
	return nil
}

// Login validates the form, signs in and persists the session. A failed
// attempt leaves any previous session in place.
func (s *SessionStore) Login(ctx context.Context, form *validation.LoginForm) error {
	if err := s.validate.Struct(form); err != nil {
		return err
	}
	return s.authenticate(ctx, "login", func() (*domain.Session, error) {
		return s.auth.Login(ctx, form.Email, form.Password)
	})
}

func (s *SessionStore) Register(ctx context.Context, form *validation.RegisterForm) error {
	if err := s.validate.Struct(form); err != nil {
		return err
	}
	return s.authenticate(ctx, "register", func() (*domain.Session, error) {
		return s.auth.Register(ctx, form.Name, form.Email, form.Password)
	})
}

func (s *SessionStore) authenticate(ctx context.Context, action string, call func() (*domain.Session, error)) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	sess, err := call()
	if err != nil {
		s.logger.Warn("Authentication failed", map[string]interface{}{
			"action":     action,
			"error":      err.Error(),
			"visitor_id": s.visitorID,
		})
		s.mu.Lock()
		s.loading = false
		s.err = publicMessage(err)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.session = *sess
	s.loading = false
	s.mu.Unlock()

	s.persist(ctx, sess)

	s.logger.Info("Visitor signed in", map[string]interface{}{
		"action":     action,
		"visitor_id": s.visitorID,
		"user_id":    sess.User.ID,
	})
	return nil
}

// Logout is local only: the backend token is not revoked.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	userID := ""
	if s.session.User != nil {
		userID = s.session.User.ID
	}
	s.session = domain.Session{}
	s.loading = false
	s.err = ""
	s.mu.Unlock()

	if err := s.repo.DeleteSession(ctx, s.visitorID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("Failed to delete persisted session", map[string]interface{}{
			"error":      err.Error(),
			"visitor_id": s.visitorID,
		})
	}

	s.logger.Info("Visitor signed out", map[string]interface{}{
		"visitor_id": s.visitorID,
		"user_id":    userID,
	})
}

// Refresh reloads the user from the backend. An expired token ends the
// session.
func (s *SessionStore) Refresh(ctx context.Context) error {
	sess := s.Session()
	if !sess.IsAuthenticated() {
		return domain.ErrAuthRequired
	}

	user, err := s.auth.Me(ctx, sess.Token)
	if errors.Is(err, domain.ErrAuthRequired) {
		s.Logout(ctx)
		return err
	}
	if err != nil {
		return err
	}
	return s.replaceUser(ctx, sess.Token, user)
}

// UpdateProfile patches the signed-in user's profile.
func (s *SessionStore) UpdateProfile(ctx context.Context, update *domain.ProfileUpdate) (*domain.User, error) {
	sess := s.Session()
	if !sess.IsAuthenticated() {
		return nil, domain.ErrAuthRequired
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateUser(ctx, sess.Token, sess.User.ID, update)
	if err != nil {
		s.logger.Error("Failed to update profile", map[string]interface{}{
			"error":   err.Error(),
			"user_id": sess.User.ID,
		})
		s.mu.Lock()
		s.err = publicMessage(err)
		s.mu.Unlock()
		return nil, err
	}
	if user.ID == "" {
		user.ID = sess.User.ID
	}
	if user.Role == "" {
		user.Role = sess.User.Role
	}
	if err := s.replaceUser(ctx, sess.Token, user); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	out := *user
	return &out, nil
}

func (s *SessionStore) replaceUser(ctx context.Context, token string, user *domain.User) error {
	s.mu.Lock()
	if s.session.Token != token {
		s.mu.Unlock()
		return domain.ErrAuthRequired
	}
	u := *user
	s.session.User = &u
	sess := copySession(s.session)
	s.mu.Unlock()

	s.persist(ctx, &sess)
	return nil
}

func (s *SessionStore) persist(ctx context.Context, sess *domain.Session) {
	if err := s.repo.SaveSession(ctx, s.visitorID, sess); err != nil {
		s.logger.Warn("Failed to persist session", map[string]interface{}{
			"error":      err.Error(),
			"visitor_id": s.visitorID,
		})
	}
}

func copySession(sess domain.Session) domain.Session {
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return sess
}
