package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medspan/medspan/internal/domain/services"
	"github.com/medspan/medspan/internal/infrastructure/parsers"
)

type importFlags struct {
	format     string
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import documents and annotations from a file",
		Long:  "Loads documents from JSONL export bundles or bare-document CSV. Each record is validated and imported whole or rejected whole.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "Input format: jsonl, csv or auto (by extension)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Existing document id handling: skip or overwrite")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	ctx := cmd.Context()

	onConflict := services.ConflictStrategy(flags.onConflict)
	if onConflict != services.ConflictSkip && onConflict != services.ConflictOverwrite {
		return fmt.Errorf("invalid conflict strategy %q (valid: skip, overwrite)", flags.onConflict)
	}

	var parser parsers.Parser
	if flags.format == "" || flags.format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(flags.format)
	}
	if parser == nil {
		return fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	raws, err := parser.Parse(file)
	if err != nil {
		return fmt.Errorf("parsing file: %w", err)
	}
	if len(raws) == 0 {
		fmt.Println("Nothing to import")
		return nil
	}

	return withDeps(ctx, func(d *deps) error {
		result, err := d.Import.Import(ctx, raws, services.ImportOptions{
			DryRun:     flags.dryRun,
			OnConflict: onConflict,
		})
		if err != nil {
			return err
		}

		for _, importErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", importErr.Error())
		}

		if flags.dryRun {
			fmt.Printf("Dry run: %d valid, %d invalid\n", result.Imported, len(result.Errors))
			return nil
		}
		fmt.Printf("Imported %d documents (%d skipped, %d invalid)\n", result.Imported, result.Skipped, len(result.Errors))
		return nil
	})
}
