package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-issues/internal/config"
	"github.com/spec-kit/campus-issues/internal/domain"
)

func storeFactories(t *testing.T) map[string]func() KVStore {
	t.Helper()
	return map[string]func() KVStore{
		"memory": func() KVStore { return NewMemoryStore() },
		"badger": func() KVStore {
			store, err := NewBadgerStore(BadgerConfig{InMemory: true}, zap.NewNop())
			require.NoError(t, err)
			return store
		},
		"sqlite": func() KVStore {
			store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
			require.NoError(t, err)
			return store
		},
	}
}

func TestKVStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			require.NoError(t, store.Ping(ctx))

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, store.Set(ctx, "k", []byte("v1")))
			require.NoError(t, store.Set(ctx, "k", []byte("v2")))

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)
		})
	}
}

func sampleIssues() []domain.Issue {
	submitted := time.Date(2026, 3, 14, 9, 30, 0, 123000000, time.UTC)
	return []domain.Issue{
		{
			ID:          "i-1",
			Title:       "Broken AC",
			Category:    "Electrical",
			Location:    "Room 5",
			Description: "No cooling",
			UserID:      "u-1",
			UserName:    "Jane Doe",
			UserRole:    domain.RoleStudent,
			Status:      domain.IssueStatusPending,
			SubmittedAt: submitted,
		},
		{
			ID:            "i-2",
			Title:         "Leaking tap",
			Category:      "Plumbing",
			Location:      "Block B",
			Description:   "Drips all night",
			UserID:        "u-2",
			UserName:      "Sam Lee",
			UserRole:      domain.RoleFaculty,
			Status:        domain.IssueStatusInProgress,
			AdminFeedback: "Plumber booked",
			SubmittedAt:   submitted.Add(time.Hour),
		},
	}
}

func TestCollectionsColdStartIsEmpty(t *testing.T) {
	ctx := context.Background()
	collections := NewCollections(NewMemoryStore())

	users, err := collections.LoadUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	issues, err := collections.LoadIssues(ctx)
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestCollectionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	users := []domain.User{
		{ID: "u-1", Username: "jane", Password: "pw1", Name: "Jane Doe", Role: domain.RoleStudent},
		{ID: "u-2", Username: "sam", Password: "pw2", Name: "Sam Lee", Role: domain.RoleFaculty},
	}
	issues := sampleIssues()

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()
			collections := NewCollections(store)

			require.NoError(t, collections.SaveUsers(ctx, users))
			require.NoError(t, collections.SaveIssues(ctx, issues))

			gotUsers, err := collections.LoadUsers(ctx)
			require.NoError(t, err)
			assert.Equal(t, users, gotUsers)

			gotIssues, err := collections.LoadIssues(ctx)
			require.NoError(t, err)
			assert.Equal(t, issues, gotIssues)
		})
	}
}

func TestCollectionsWireFormat(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	collections := NewCollections(store)

	require.NoError(t, collections.SaveIssues(ctx, nil))
	raw, err := store.Get(ctx, IssuesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	require.NoError(t, collections.SaveIssues(ctx, sampleIssues()[:1]))
	raw, err = store.Get(ctx, IssuesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"id": "i-1",
		"title": "Broken AC",
		"category": "Electrical",
		"location": "Room 5",
		"description": "No cooling",
		"userId": "u-1",
		"userName": "Jane Doe",
		"userRole": "student",
		"status": "Pending",
		"adminFeedback": "",
		"submittedAt": "2026-03-14T09:30:00.123Z"
	}]`, string(raw))
}

func TestCollectionsRejectsCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, UsersKey, []byte("{not json")))

	_, err := NewCollections(store).LoadUsers(ctx)
	assert.ErrorContains(t, err, "decode campusUsers")
}

func TestCollectionsNullPayloadIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, UsersKey, []byte("null")))

	users, err := NewCollections(store).LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.User{}, users)
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewBadgerStore(BadgerConfig{Path: dir, SyncWrites: true}, nil)
	require.NoError(t, err)
	require.NoError(t, NewCollections(store).SaveIssues(ctx, sampleIssues()))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(BadgerConfig{Path: dir}, nil)
	require.NoError(t, err)
	defer reopened.Close()

	issues, err := NewCollections(reopened).LoadIssues(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleIssues(), issues)
}

func TestBadgerStoreRequiresPath(t *testing.T) {
	_, err := NewBadgerStore(BadgerConfig{}, nil)
	assert.Error(t, err)
}

func TestOpenMemoryDriver(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

	store, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}

func TestOpenSQLiteDriver(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "nested", "campus.db"),
	}}

	store, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Driver: "floppy"}}

	store, err := Open(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, store)
}
