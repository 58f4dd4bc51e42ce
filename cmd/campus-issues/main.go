package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dumpFormat string

	rootCmd = &cobra.Command{
		Use:           "campus-issues",
		Short:         "Campus facility issue tracker",
		Long:          "campus-issues lets students, staff and faculty report facility problems and an administrator track them to resolution.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE:  runServe,
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the persisted users and issues (passwords omitted)",
		RunE:  runDump,
	}
)

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "json", "output format: json or yaml")
	rootCmd.AddCommand(serveCmd, dumpCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
