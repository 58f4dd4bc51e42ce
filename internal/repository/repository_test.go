package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/campus-issues/internal/domain"
	"github.com/spec-kit/campus-issues/internal/persistence"
)

// flakyStore fails every Set once failWrites is true.
type flakyStore struct {
	*persistence.MemoryStore
	failWrites bool
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failWrites {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func newIssue(id, userID string, status domain.IssueStatus) domain.Issue {
	return domain.Issue{
		ID:          id,
		Title:       "title " + id,
		Category:    "Electrical",
		Location:    "Room 5",
		Description: "desc " + id,
		UserID:      userID,
		UserName:    "user " + userID,
		UserRole:    domain.RoleStudent,
		Status:      status,
		SubmittedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	collections := persistence.NewCollections(persistence.NewMemoryStore())
	repo, err := NewUserRepository(ctx, collections)
	require.NoError(t, err)

	jane := domain.User{ID: "u-1", Username: "jane", Password: "pw1", Name: "Jane Doe", Role: domain.RoleStudent}
	require.NoError(t, repo.Create(ctx, &jane))

	byName, err := repo.GetByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, jane, *byName)

	_, err = repo.GetByUsername(ctx, "Jane")
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", byID.Name)

	persisted, err := collections.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.User{jane}, persisted)
}

func TestUserRepositoryLoadsExisting(t *testing.T) {
	ctx := context.Background()
	collections := persistence.NewCollections(persistence.NewMemoryStore())
	seed := []domain.User{{ID: "u-9", Username: "sam", Password: "x", Name: "Sam", Role: domain.RoleStaff}}
	require.NoError(t, collections.SaveUsers(ctx, seed))

	repo, err := NewUserRepository(ctx, collections)
	require.NoError(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, users)
}

func TestUserRepositoryCreateRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo, err := NewUserRepository(ctx, persistence.NewCollections(persistence.NewMemoryStore()))
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u-1", Username: "jane"}))
	err = repo.Create(ctx, &domain.User{ID: "u-2", Username: "jane"})
	assert.ErrorIs(t, err, ErrDuplicate)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepositoryConcurrentCreateKeepsUsernamesUnique(t *testing.T) {
	ctx := context.Background()
	collections := persistence.NewCollections(persistence.NewMemoryStore())
	repo, err := NewUserRepository(ctx, collections)
	require.NoError(t, err)

	const workers = 16
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make(chan error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results <- repo.Create(ctx, &domain.User{ID: string(rune('a' + i)), Username: "bob"})
		}(i)
	}
	close(start)
	wg.Wait()
	close(results)

	var created int
	for err := range results {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicate)
	}
	assert.Equal(t, 1, created)

	persisted, err := collections.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestUserRepositoryCreateRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: persistence.NewMemoryStore()}
	repo, err := NewUserRepository(ctx, persistence.NewCollections(store))
	require.NoError(t, err)

	store.failWrites = true
	err = repo.Create(ctx, &domain.User{ID: "u-1", Username: "jane"})
	require.Error(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestIssueRepositoryListFilterKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo, err := NewIssueRepository(ctx, persistence.NewCollections(persistence.NewMemoryStore()))
	require.NoError(t, err)

	for _, issue := range []domain.Issue{
		newIssue("a", "u-1", domain.IssueStatusPending),
		newIssue("b", "u-2", domain.IssueStatusResolved),
		newIssue("c", "u-1", domain.IssueStatusResolved),
	} {
		issue := issue
		require.NoError(t, repo.Create(ctx, &issue))
	}

	all, err := repo.List(ctx, IssueFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, issueIDs(all))

	owner := "u-1"
	mine, err := repo.List(ctx, IssueFilter{UserID: &owner})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, issueIDs(mine))

	resolved, err := repo.List(ctx, IssueFilter{UserID: &owner, Statuses: []domain.IssueStatus{domain.IssueStatusResolved}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, issueIDs(resolved))
}

func TestIssueRepositoryListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo, err := NewIssueRepository(ctx, persistence.NewCollections(persistence.NewMemoryStore()))
	require.NoError(t, err)
	issue := newIssue("a", "u-1", domain.IssueStatusPending)
	require.NoError(t, repo.Create(ctx, &issue))

	first, err := repo.List(ctx, IssueFilter{})
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := repo.List(ctx, IssueFilter{})
	require.NoError(t, err)
	assert.Equal(t, "title a", second[0].Title)
}

func TestIssueRepositoryUpdateReview(t *testing.T) {
	ctx := context.Background()
	collections := persistence.NewCollections(persistence.NewMemoryStore())
	repo, err := NewIssueRepository(ctx, collections)
	require.NoError(t, err)
	original := newIssue("a", "u-1", domain.IssueStatusPending)
	require.NoError(t, repo.Create(ctx, &original))

	updated, previous, err := repo.UpdateReview(ctx, "a", domain.IssueStatusResolved, "Fixed")
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusPending, previous)

	want := original
	want.Status = domain.IssueStatusResolved
	want.AdminFeedback = "Fixed"
	assert.Equal(t, want, *updated)

	persisted, err := collections.LoadIssues(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Issue{want}, persisted)

	_, _, err = repo.UpdateReview(ctx, "missing", domain.IssueStatusResolved, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueRepositoryUpdateRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: persistence.NewMemoryStore()}
	repo, err := NewIssueRepository(ctx, persistence.NewCollections(store))
	require.NoError(t, err)
	issue := newIssue("a", "u-1", domain.IssueStatusPending)
	require.NoError(t, repo.Create(ctx, &issue))

	store.failWrites = true
	_, _, err = repo.UpdateReview(ctx, "a", domain.IssueStatusResolved, "Fixed")
	require.Error(t, err)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusPending, got.Status)
	assert.Empty(t, got.AdminFeedback)
}

func TestIssueRepositoryDeleteRemovesAllDuplicates(t *testing.T) {
	ctx := context.Background()
	collections := persistence.NewCollections(persistence.NewMemoryStore())
	seed := []domain.Issue{
		newIssue("dup", "u-1", domain.IssueStatusPending),
		newIssue("keep", "u-1", domain.IssueStatusPending),
		newIssue("dup", "u-1", domain.IssueStatusResolved),
	}
	require.NoError(t, collections.SaveIssues(ctx, seed))
	repo, err := NewIssueRepository(ctx, collections)
	require.NoError(t, err)

	removed, err := repo.DeleteOwned(ctx, "dup", "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	persisted, err := collections.LoadIssues(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, issueIDs(persisted))
}

func TestIssueRepositoryDeleteKeepsOtherOwnersDuplicates(t *testing.T) {
	ctx := context.Background()
	collections := persistence.NewCollections(persistence.NewMemoryStore())
	seed := []domain.Issue{
		newIssue("dup", "jane", domain.IssueStatusPending),
		newIssue("dup", "sam", domain.IssueStatusPending),
		newIssue("sams-only", "sam", domain.IssueStatusPending),
	}
	require.NoError(t, collections.SaveIssues(ctx, seed))
	repo, err := NewIssueRepository(ctx, collections)
	require.NoError(t, err)

	removed, err := repo.DeleteOwned(ctx, "dup", "jane")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	persisted, err := collections.LoadIssues(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.Equal(t, "sam", persisted[0].UserID)
	assert.Equal(t, "dup", persisted[0].ID)

	_, err = repo.DeleteOwned(ctx, "sams-only", "jane")
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = repo.DeleteOwned(ctx, "dup", "jane")
	assert.ErrorIs(t, err, ErrNotOwner)

	all, err := repo.List(ctx, IssueFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIssueRepositoryDeleteMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: persistence.NewMemoryStore()}
	repo, err := NewIssueRepository(ctx, persistence.NewCollections(store))
	require.NoError(t, err)

	// A missing id must not reach the store at all.
	store.failWrites = true
	removed, err := repo.DeleteOwned(ctx, "ghost", "u-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, removed)
}

func issueIDs(issues []domain.Issue) []string {
	ids := make([]string, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
	}
	return ids
}
