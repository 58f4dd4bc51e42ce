package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-issues/internal/domain"
	"github.com/spec-kit/campus-issues/internal/events"
	"github.com/spec-kit/campus-issues/internal/repository"
	apperrors "github.com/spec-kit/campus-issues/pkg/util/errorutil"
)

// registrableRoles are the roles a new account may pick.
var registrableRoles = []string{string(domain.RoleStudent), string(domain.RoleStaff), string(domain.RoleFaculty)}

// RegisterInput describes a new account. Fields are expected to be trimmed by the caller.
type RegisterInput struct {
	Name     string      `json:"name" validate:"required"`
	Username string      `json:"username" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Role     domain.Role `json:"role" validate:"oneof=student staff faculty"`
}

// Credentials identify a login attempt. Role is ignored for the built-in administrator.
type Credentials struct {
	Username string      `json:"username" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Role     domain.Role `json:"role" validate:"-"`
}

// AuthService owns the identity store: registration and credential checks.
type AuthService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register creates a new account. The built-in administrator username is always taken.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	missing, invalid, err := fieldProblems(input)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingFields(missing)
	}

	taken, err := s.usernameTaken(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewDuplicateUsername(input.Username)
	}
	if _, bad := invalid["role"]; bad {
		return nil, invalidValueError("role", registrableRoles)
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Username: input.Username,
		Password: input.Password,
		Name:     input.Name,
		Role:     input.Role,
	}
	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.NewDuplicateUsername(input.Username)
	}
	if err != nil {
		s.logger.Error("persist user", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	s.publish(ctx, events.Event{Type: events.EventUserRegistered, Actor: events.ActorFromUser(*user)})
	return user, nil
}

// Authenticate resolves credentials to a user. Username, password and role must
// all match a stored account; the built-in administrator matches on username
// and password alone. Failures never reveal which part was wrong.
func (s *AuthService) Authenticate(ctx context.Context, creds Credentials) (*domain.User, error) {
	missing, _, err := fieldProblems(creds)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingFields(missing)
	}

	if creds.Username == domain.AdminUsername && secretEqual(creds.Password, domain.AdminPassword) {
		admin := domain.BuiltinAdmin()
		return &admin, nil
	}

	user, err := s.users.GetByUsername(ctx, creds.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !secretEqual(creds.Password, user.Password) || user.Role != creds.Role {
		return nil, apperrors.NewInvalidCredentials()
	}
	return user, nil
}

func (s *AuthService) usernameTaken(ctx context.Context, username string) (bool, error) {
	if username == domain.AdminUsername {
		return true, nil
	}
	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, apperrors.NewInternalError(err)
	}
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func secretEqual(given, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(stored)) == 1
}

// publishEvent fills in id and timestamp and logs handler failures.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// trimAll trims every string pointer in place.
func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
