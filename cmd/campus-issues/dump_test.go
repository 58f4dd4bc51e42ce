package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/campus-issues/internal/domain"
)

func dumpFixture() ([]domain.User, []domain.Issue) {
	users := []domain.User{{ID: "u-1", Username: "jane", Password: "pw1", Name: "Jane Doe", Role: domain.RoleStudent}}
	issues := []domain.Issue{{
		ID:          "i-1",
		Title:       "Broken AC",
		Category:    "Electrical",
		Location:    "Room 5",
		Description: "No cooling",
		UserID:      "u-1",
		UserName:    "Jane Doe",
		UserRole:    domain.RoleStudent,
		Status:      domain.IssueStatusInProgress,
		SubmittedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}}
	return users, issues
}

func TestWriteDumpJSONOmitsPasswords(t *testing.T) {
	users, issues := dumpFixture()
	var buf bytes.Buffer
	require.NoError(t, writeDump(&buf, "json", users, issues))

	assert.NotContains(t, buf.String(), "pw1")
	var snap snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.Equal(t, "jane", snap.Users[0].Username)
	assert.Equal(t, issues, snap.Issues)
}

func TestWriteDumpYAML(t *testing.T) {
	users, issues := dumpFixture()
	var buf bytes.Buffer
	require.NoError(t, writeDump(&buf, "YAML", users, issues))

	assert.NotContains(t, buf.String(), "pw1")
	assert.Contains(t, buf.String(), "status: In Progress")
	var snap snapshot
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &snap))
	assert.Equal(t, "Jane Doe", snap.Users[0].Name)
	assert.Equal(t, "i-1", snap.Issues[0].ID)
}

func TestWriteDumpEmptyAndUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDump(&buf, "json", nil, nil))
	assert.JSONEq(t, `{"users":[],"issues":[]}`, buf.String())

	assert.Error(t, writeDump(&buf, "xml", nil, nil))
}
