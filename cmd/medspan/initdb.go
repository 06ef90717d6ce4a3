package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the annotation database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// withDeps already ensures the schema; this command exists so
			// deployments can initialize the database ahead of first serve.
			return withDeps(cmd.Context(), func(d *deps) error {
				fmt.Printf("Initialized annotation database at %s\n", d.Store.Path())
				return nil
			})
		},
	}
}
