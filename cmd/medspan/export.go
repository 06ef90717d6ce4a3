package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/services"
)

type exportFlags struct {
	output string
	status string
	ids    []int64
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export annotation bundles as JSONL",
		Long:  "Streams one JSON bundle per document (document, entities, relations) in line-delimited form for ML pipelines.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.status, "status", "s", "", "Only export documents with this status")
	cmd.Flags().Int64SliceVarP(&flags.ids, "ids", "i", nil, "Only export documents with these ids")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) (err error) {
	ctx := cmd.Context()

	var w io.Writer = os.Stdout
	if flags.output != "" {
		f, ferr := os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if ferr != nil {
			return fmt.Errorf("creating file: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	}

	return withDeps(ctx, func(d *deps) error {
		enc := json.NewEncoder(w)
		count := 0

		exportErr := d.Export.Export(ctx, services.ExportFilter{
			DocumentIDs: flags.ids,
			Status:      flags.status,
		}, func(b *entities.Bundle) error {
			if err := enc.Encode(b); err != nil {
				return fmt.Errorf("encoding bundle: %w", err)
			}
			count++
			return nil
		})
		if exportErr != nil {
			return exportErr
		}

		if flags.output != "" {
			fmt.Printf("Exported %d documents to %s\n", count, flags.output)
		}
		return nil
	})
}
