package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medspan/medspan/internal/domain/entities"
)

func newVocabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "List the entity label and relation predicate vocabularies",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Entity labels:")
			for _, l := range entities.EntityLabels() {
				fmt.Printf("  %s\n", l)
			}
			fmt.Println("Relation predicates:")
			for _, p := range entities.RelationPredicates() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}
}
