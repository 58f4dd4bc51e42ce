package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-issues/internal/domain"
	"github.com/spec-kit/campus-issues/internal/events"
	apperrors "github.com/spec-kit/campus-issues/pkg/util/errorutil"
)

// SessionManager holds at most one authenticated identity for the process.
//
// A successful login replaces any active session without an explicit logout.
// A failed login leaves the current state untouched.
type SessionManager struct {
	mu         sync.RWMutex
	current    *domain.Session
	auth       *AuthService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewSessionManager starts in the anonymous state.
func NewSessionManager(auth *AuthService, dispatcher events.Dispatcher, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		auth:       auth,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates creds and makes the result the active session.
func (m *SessionManager) Login(ctx context.Context, creds Credentials) (*domain.Session, error) {
	user, err := m.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		User:      *user,
		StartedAt: m.now().UTC(),
	}

	m.mu.Lock()
	replaced := m.current
	m.current = session
	m.mu.Unlock()

	if replaced != nil {
		m.logger.Info("session replaced", zap.String("previous_user", replaced.User.Username))
	}
	m.logger.Info("session started", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	publishEvent(ctx, m.dispatcher, m.logger, events.Event{Type: events.EventSessionStarted, Actor: events.ActorFromUser(*user)})

	out := *session
	return &out, nil
}

// Logout returns to the anonymous state. Calling it while anonymous is a no-op.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	ended := m.current
	m.current = nil
	m.mu.Unlock()

	if ended == nil {
		return
	}
	m.logger.Info("session ended", zap.String("user_id", ended.User.ID))
	publishEvent(ctx, m.dispatcher, m.logger, events.Event{Type: events.EventSessionEnded, Actor: events.ActorFromUser(ended.User)})
}

// Current returns a copy of the active session, if any.
func (m *SessionManager) Current() (*domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	out := *m.current
	return &out, true
}

// Require returns the active session when sessionID identifies it.
func (m *SessionManager) Require(sessionID string) (*domain.Session, error) {
	session, ok := m.Current()
	if !ok {
		return nil, apperrors.NewUnauthorized("not logged in")
	}
	if session.ID != sessionID {
		return nil, apperrors.NewUnauthorized("session expired")
	}
	return session, nil
}
