package domain

import (
	"strings"
	"time"
)

// IssueStatus enumerates lifecycle states for issues.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "Pending"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusResolved   IssueStatus = "Resolved"
)

// IssueStatuses lists every status in lifecycle order.
var IssueStatuses = []IssueStatus{IssueStatusPending, IssueStatusInProgress, IssueStatusResolved}

// Valid reports whether s is a known status.
func (s IssueStatus) Valid() bool {
	for _, known := range IssueStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CSSClass returns the badge class used by the front end, e.g. "in-progress".
func (s IssueStatus) CSSClass() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

// Issue is a facility report tracked from Pending to Resolved.
//
// UserID, UserName and UserRole are a snapshot of the submitter taken at
// creation time. Only Status and AdminFeedback change afterwards.
type Issue struct {
	ID            string      `json:"id" yaml:"id"`
	Title         string      `json:"title" yaml:"title"`
	Category      string      `json:"category" yaml:"category"`
	Location      string      `json:"location" yaml:"location"`
	Description   string      `json:"description" yaml:"description"`
	UserID        string      `json:"userId" yaml:"userId"`
	UserName      string      `json:"userName" yaml:"userName"`
	UserRole      Role        `json:"userRole" yaml:"userRole"`
	Status        IssueStatus `json:"status" yaml:"status"`
	AdminFeedback string      `json:"adminFeedback" yaml:"adminFeedback"`
	SubmittedAt   time.Time   `json:"submittedAt" yaml:"submittedAt"`
}

// OwnedBy reports whether the issue was submitted by userID.
func (i Issue) OwnedBy(userID string) bool {
	return i.UserID == userID
}
