// Package main provides the entry point for the medspan annotation service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version          = "1.0.0"
	globalConfigPath string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "medspan",
		Short:   "A data-entry and retrieval service for clinical-text annotation",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfigPath, "config", "c", "", "Path to config file (default: medspan.yaml if present)")

	rootCmd.AddCommand(
		newServeCmd(),
		newInitCmd(),
		newImportCmd(),
		newExportCmd(),
		newVocabCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
