package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/campus-issues/internal/domain"
)

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Trim strips surrounding whitespace from every field.
func (r *CreateIssueRequest) Trim() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Location = strings.TrimSpace(r.Location)
	r.Description = strings.TrimSpace(r.Description)
}

// UpdateIssueRequest is the administrator's review payload.
type UpdateIssueRequest struct {
	Status   domain.IssueStatus `json:"status"`
	Feedback string             `json:"adminFeedback"`
}

// IssueCard is an issue as rendered for a particular viewer.
type IssueCard struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Category      string             `json:"category"`
	Location      string             `json:"location"`
	Description   string             `json:"description"`
	UserID        string             `json:"userId"`
	UserName      string             `json:"userName"`
	UserRole      domain.Role        `json:"userRole"`
	Status        domain.IssueStatus `json:"status"`
	AdminFeedback string             `json:"adminFeedback"`
	SubmittedAt   time.Time          `json:"submittedAt"`

	StatusClass string `json:"statusClass"`
	RoleLabel   string `json:"roleLabel"`
	CanDelete   bool   `json:"canDelete"`
	CanUpdate   bool   `json:"canUpdate"`
	HasFeedback bool   `json:"hasFeedback"`
}

// NewIssueCard renders issue for viewer. Only administrators see the update
// form; everyone else sees the delete button on their own cards.
func NewIssueCard(issue domain.Issue, viewer domain.User) IssueCard {
	return IssueCard{
		ID:            issue.ID,
		Title:         issue.Title,
		Category:      issue.Category,
		Location:      issue.Location,
		Description:   issue.Description,
		UserID:        issue.UserID,
		UserName:      issue.UserName,
		UserRole:      issue.UserRole,
		Status:        issue.Status,
		AdminFeedback: issue.AdminFeedback,
		SubmittedAt:   issue.SubmittedAt,
		StatusClass:   issue.Status.CSSClass(),
		RoleLabel:     issue.UserRole.Label(),
		CanDelete:     !viewer.IsAdmin() && issue.OwnedBy(viewer.ID),
		CanUpdate:     viewer.IsAdmin(),
		HasFeedback:   issue.AdminFeedback != "",
	}
}

// NewIssueCards renders a list in order.
func NewIssueCards(issues []domain.Issue, viewer domain.User) []IssueCard {
	cards := make([]IssueCard, 0, len(issues))
	for _, issue := range issues {
		cards = append(cards, NewIssueCard(issue, viewer))
	}
	return cards
}
