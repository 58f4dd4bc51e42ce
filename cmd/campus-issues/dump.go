package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/campus-issues/internal/config"
	"github.com/spec-kit/campus-issues/internal/domain"
	"github.com/spec-kit/campus-issues/internal/persistence"
)

type dumpUser struct {
	ID       string      `json:"id" yaml:"id"`
	Username string      `json:"username" yaml:"username"`
	Name     string      `json:"name" yaml:"name"`
	Role     domain.Role `json:"role" yaml:"role"`
}

type snapshot struct {
	Users  []dumpUser     `json:"users" yaml:"users"`
	Issues []domain.Issue `json:"issues" yaml:"issues"`
}

func runDump(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := persistence.Open(cmd.Context(), *cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer store.Close()

	collections := persistence.NewCollections(store)
	users, err := collections.LoadUsers(cmd.Context())
	if err != nil {
		return err
	}
	issues, err := collections.LoadIssues(cmd.Context())
	if err != nil {
		return err
	}
	return writeDump(cmd.OutOrStdout(), dumpFormat, users, issues)
}

func writeDump(w io.Writer, format string, users []domain.User, issues []domain.Issue) error {
	snap := snapshot{Users: make([]dumpUser, 0, len(users)), Issues: issues}
	for _, u := range users {
		snap.Users = append(snap.Users, dumpUser{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role})
	}
	if snap.Issues == nil {
		snap.Issues = []domain.Issue{}
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
