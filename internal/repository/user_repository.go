package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/campus-issues/internal/domain"
	"github.com/spec-kit/campus-issues/internal/persistence"
)

// UserRepository defines access to registered users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	mu          sync.RWMutex
	users       []domain.User
	collections *persistence.Collections
}

// NewUserRepository loads the persisted users and returns a write-through repository.
func NewUserRepository(ctx context.Context, collections *persistence.Collections) (UserRepository, error) {
	users, err := collections.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &userRepository{users: users, collections: collections}, nil
}

// Create appends the user and persists the collection. The username check
// and the append share one critical section. Nothing is kept if the write fails.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return ErrDuplicate
		}
	}
	next := append(cloneUsers(r.users), *user)
	if err := r.collections.SaveUsers(ctx, next); err != nil {
		return err
	}
	r.users = next
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

// GetByUsername matches the username exactly, case-sensitive.
func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *userRepository) List(context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUsers(r.users), nil
}

func (r *userRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func cloneUsers(users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	copy(out, users)
	return out
}
