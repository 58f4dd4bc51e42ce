package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-issues/internal/domain"
	"github.com/spec-kit/campus-issues/internal/events"
	"github.com/spec-kit/campus-issues/internal/repository"
	apperrors "github.com/spec-kit/campus-issues/pkg/util/errorutil"
)

var statusLabels = []string{
	string(domain.IssueStatusPending),
	string(domain.IssueStatusInProgress),
	string(domain.IssueStatusResolved),
}

// IssueInput describes a new issue as typed into the submission form.
type IssueInput struct {
	Title       string `json:"title" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ReviewInput is an administrator's status and feedback update.
type ReviewInput struct {
	Status   domain.IssueStatus `json:"status" validate:"required,oneof=Pending 'In Progress' Resolved"`
	Feedback string             `json:"adminFeedback" validate:"-"`
}

// StatusCounts tallies visible issues per status.
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

// OperationRecorder receives the outcome of issue operations.
type OperationRecorder interface {
	RecordOperation(operation, outcome string)
}

// IssueService coordinates the issue lifecycle and enforces role rules.
//
// The repository underneath is role-agnostic. Role checks live here: admins
// cannot submit or delete, non-admins cannot review, and only the owner may
// delete an issue.
type IssueService struct {
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
	recorder   OperationRecorder
	logger     *zap.Logger
	now        func() time.Time
}

// IssueDependencies bundles requirements for the issue service.
type IssueDependencies struct {
	IssueRepo  repository.IssueRepository
	Dispatcher events.Dispatcher
	Recorder   OperationRecorder
	Logger     *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &IssueService{
		issues:     deps.IssueRepo,
		dispatcher: deps.Dispatcher,
		recorder:   deps.Recorder,
		logger:     logger,
		now:        clock,
	}
}

// Submit records a new Pending issue owned by author.
func (s *IssueService) Submit(ctx context.Context, author domain.User, input IssueInput) (*domain.Issue, error) {
	if author.IsAdmin() {
		s.record("submit", "forbidden")
		return nil, apperrors.NewForbidden("administrators cannot submit issues")
	}

	trimAll(&input.Title, &input.Category, &input.Location, &input.Description)
	missing, _, err := fieldProblems(input)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(missing) > 0 {
		s.record("submit", "invalid")
		return nil, apperrors.NewMissingFields(missing)
	}

	issue := &domain.Issue{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Category:      input.Category,
		Location:      input.Location,
		Description:   input.Description,
		UserID:        author.ID,
		UserName:      author.Name,
		UserRole:      author.Role,
		Status:        domain.IssueStatusPending,
		AdminFeedback: "",
		SubmittedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, s.storageFailure("submit", err)
	}

	s.record("submit", "ok")
	s.publish(ctx, events.Event{
		Type:    events.EventIssueSubmitted,
		IssueID: issue.ID,
		Actor:   events.ActorFromUser(author),
		Payload: events.IssueSubmittedPayload{
			Title:    issue.Title,
			Category: issue.Category,
			Location: issue.Location,
		},
	})
	return issue, nil
}

// List returns every issue for an administrator and only the viewer's own
// issues otherwise, in submission order.
func (s *IssueService) List(ctx context.Context, viewer domain.User) ([]domain.Issue, error) {
	issues, err := s.issues.List(ctx, visibleTo(viewer))
	if err != nil {
		return nil, s.storageFailure("list", err)
	}
	return issues, nil
}

// Get returns one issue if the viewer may see it.
func (s *IssueService) Get(ctx context.Context, viewer domain.User, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !viewer.IsAdmin() && !issue.OwnedBy(viewer.ID)) {
		return nil, issueNotFound(issueID)
	}
	if err != nil {
		return nil, s.storageFailure("get", err)
	}
	return issue, nil
}

// Update sets status and feedback. Any status may follow any other.
func (s *IssueService) Update(ctx context.Context, actor domain.User, issueID string, input ReviewInput) (*domain.Issue, error) {
	if !actor.IsAdmin() {
		s.record("update", "forbidden")
		return nil, apperrors.NewForbidden("only administrators can update issues")
	}

	trimAll(&input.Feedback)
	missing, invalid, err := fieldProblems(input)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(missing) > 0 {
		s.record("update", "invalid")
		return nil, apperrors.NewMissingFields(missing)
	}
	if len(invalid) > 0 {
		s.record("update", "invalid")
		return nil, invalidValueError("status", statusLabels)
	}

	updated, previous, err := s.issues.UpdateReview(ctx, issueID, input.Status, input.Feedback)
	if errors.Is(err, repository.ErrNotFound) {
		s.record("update", "not_found")
		return nil, issueNotFound(issueID)
	}
	if err != nil {
		return nil, s.storageFailure("update", err)
	}

	s.record("update", "ok")
	s.publish(ctx, events.Event{
		Type:    events.EventIssueReviewed,
		IssueID: issueID,
		Actor:   events.ActorFromUser(actor),
		Payload: events.IssueReviewedPayload{
			OldStatus: previous,
			NewStatus: updated.Status,
			Feedback:  updated.AdminFeedback,
		},
	})
	return updated, nil
}

// Delete removes the actor's own issue. Administrators may never delete.
// Records sharing the id but submitted by someone else are left alone.
func (s *IssueService) Delete(ctx context.Context, actor domain.User, issueID string) error {
	if actor.IsAdmin() {
		s.record("delete", "forbidden")
		return apperrors.NewForbidden("administrators cannot delete issues")
	}

	removed, err := s.issues.DeleteOwned(ctx, issueID, actor.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.record("delete", "not_found")
		return issueNotFound(issueID)
	case errors.Is(err, repository.ErrNotOwner):
		s.record("delete", "forbidden")
		return apperrors.NewForbidden("only the submitter can delete an issue")
	case err != nil:
		return s.storageFailure("delete", err)
	}

	s.record("delete", "ok")
	s.publish(ctx, events.Event{
		Type:    events.EventIssueDeleted,
		IssueID: issueID,
		Actor:   events.ActorFromUser(actor),
		Payload: events.IssueDeletedPayload{Removed: removed},
	})
	return nil
}

// Stats counts the viewer's visible issues per status.
func (s *IssueService) Stats(ctx context.Context, viewer domain.User) (StatusCounts, error) {
	issues, err := s.List(ctx, viewer)
	if err != nil {
		return StatusCounts{}, err
	}
	counts := StatusCounts{Total: len(issues)}
	for _, issue := range issues {
		switch issue.Status {
		case domain.IssueStatusPending:
			counts.Pending++
		case domain.IssueStatusInProgress:
			counts.InProgress++
		case domain.IssueStatusResolved:
			counts.Resolved++
		}
	}
	return counts, nil
}

func visibleTo(viewer domain.User) repository.IssueFilter {
	if viewer.IsAdmin() {
		return repository.IssueFilter{}
	}
	owner := viewer.ID
	return repository.IssueFilter{UserID: &owner}
}

func issueNotFound(issueID string) error {
	return apperrors.NewNotFound("issue", map[string]any{"id": issueID})
}

func (s *IssueService) storageFailure(operation string, err error) error {
	s.record(operation, "error")
	s.logger.Error("issue storage failure", zap.String("operation", operation), zap.Error(err))
	return apperrors.NewInternalError(err)
}

func (s *IssueService) record(operation, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordOperation(operation, outcome)
	}
}

func (s *IssueService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}
