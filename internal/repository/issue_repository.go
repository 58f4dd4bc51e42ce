package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/campus-issues/internal/domain"
	"github.com/spec-kit/campus-issues/internal/persistence"
)

// IssueFilter narrows List results. Zero value matches everything.
type IssueFilter struct {
	UserID   *string
	Statuses []domain.IssueStatus
}

func (f IssueFilter) matches(issue domain.Issue) bool {
	if f.UserID != nil && issue.UserID != *f.UserID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, status := range f.Statuses {
		if issue.Status == status {
			return true
		}
	}
	return false
}

// IssueRepository encapsulates issue persistence. It does not check roles.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	UpdateReview(ctx context.Context, id string, status domain.IssueStatus, feedback string) (*domain.Issue, domain.IssueStatus, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (int, error)
}

type issueRepository struct {
	mu          sync.RWMutex
	issues      []domain.Issue
	collections *persistence.Collections
}

// NewIssueRepository loads the persisted issues and returns a write-through repository.
func NewIssueRepository(ctx context.Context, collections *persistence.Collections) (IssueRepository, error) {
	issues, err := collections.LoadIssues(ctx)
	if err != nil {
		return nil, err
	}
	return &issueRepository{issues: issues, collections: collections}, nil
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(cloneIssues(r.issues), *issue)
	return r.commit(ctx, next)
}

func (r *issueRepository) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := r.indexOf(id); idx >= 0 {
		found := r.issues[idx]
		return &found, nil
	}
	return nil, ErrNotFound
}

// List returns matching issues in insertion order.
func (r *issueRepository) List(_ context.Context, filter IssueFilter) ([]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		if filter.matches(issue) {
			out = append(out, issue)
		}
	}
	return out, nil
}

// UpdateReview overwrites status and admin feedback of the first issue with id
// and returns the updated issue along with the status it replaced.
func (r *issueRepository) UpdateReview(ctx context.Context, id string, status domain.IssueStatus, feedback string) (*domain.Issue, domain.IssueStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, "", ErrNotFound
	}
	previous := r.issues[idx].Status
	next := cloneIssues(r.issues)
	next[idx].Status = status
	next[idx].AdminFeedback = feedback
	if err := r.commit(ctx, next); err != nil {
		return nil, "", err
	}
	updated := next[idx]
	return &updated, previous, nil
}

// DeleteOwned removes every issue carrying id that ownerID submitted and
// returns how many were removed. Records with the same id owned by someone
// else are kept. ErrNotOwner means the id exists but none of it is ownerID's.
func (r *issueRepository) DeleteOwned(ctx context.Context, id, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.Issue, 0, len(r.issues))
	matched := false
	for _, issue := range r.issues {
		if issue.ID != id {
			next = append(next, issue)
			continue
		}
		matched = true
		if !issue.OwnedBy(ownerID) {
			next = append(next, issue)
		}
	}
	if !matched {
		return 0, ErrNotFound
	}
	removed := len(r.issues) - len(next)
	if removed == 0 {
		return 0, ErrNotOwner
	}
	if err := r.commit(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

// commit persists next and only then swaps it in. Caller holds the write lock.
func (r *issueRepository) commit(ctx context.Context, next []domain.Issue) error {
	if err := r.collections.SaveIssues(ctx, next); err != nil {
		return err
	}
	r.issues = next
	return nil
}

func (r *issueRepository) indexOf(id string) int {
	for i := range r.issues {
		if r.issues[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneIssues(issues []domain.Issue) []domain.Issue {
	out := make([]domain.Issue, len(issues))
	copy(out, issues)
	return out
}
