package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spec-kit/campus-issues/internal/domain"
)

// Keys under which the two collections are stored.
const (
	UsersKey  = "campusUsers"
	IssuesKey = "campusIssues"
)

// ErrKeyNotFound is returned by KVStore.Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a durable key-value store. Set must be durable before it returns.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Collections loads and saves the user and issue collections as JSON arrays.
type Collections struct {
	store KVStore
}

// NewCollections wraps a KVStore.
func NewCollections(store KVStore) *Collections {
	return &Collections{store: store}
}

// Store returns the underlying key-value store.
func (c *Collections) Store() KVStore {
	return c.store
}

// LoadUsers returns the persisted users, or an empty slice on a cold start.
func (c *Collections) LoadUsers(ctx context.Context) ([]domain.User, error) {
	return load[domain.User](ctx, c.store, UsersKey)
}

// SaveUsers replaces the persisted users.
func (c *Collections) SaveUsers(ctx context.Context, users []domain.User) error {
	return save(ctx, c.store, UsersKey, users)
}

// LoadIssues returns the persisted issues, or an empty slice on a cold start.
func (c *Collections) LoadIssues(ctx context.Context) ([]domain.Issue, error) {
	return load[domain.Issue](ctx, c.store, IssuesKey)
}

// SaveIssues replaces the persisted issues.
func (c *Collections) SaveIssues(ctx context.Context, issues []domain.Issue) error {
	return save(ctx, c.store, IssuesKey, issues)
}

func load[T any](ctx context.Context, store KVStore, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, store KVStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
