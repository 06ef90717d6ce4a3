package main

import (
	"context"
	"fmt"

	"github.com/medspan/medspan/internal/domain/services"
	"github.com/medspan/medspan/internal/infrastructure/config"
	"github.com/medspan/medspan/internal/infrastructure/relationaldb/sqlite"
)

// deps holds the wired-up dependencies for a command invocation.
type deps struct {
	Config    *config.Config
	Store     *sqlite.Repository
	Documents *services.DocumentService
	Entities  *services.EntityService
	Relations *services.RelationService
	Export    *services.ExportService
	Import    *services.ImportService
}

// withDeps loads config, opens the store, ensures the schema and calls the
// provided function. The store is closed on all exit paths.
func withDeps(ctx context.Context, fn func(*deps) error) error {
	cfg, err := config.Load(globalConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	return fn(&deps{
		Config:    cfg,
		Store:     store,
		Documents: services.NewDocumentService(store, cfg.Pagination.DefaultPageSize, cfg.Pagination.MaxPageSize),
		Entities:  services.NewEntityService(store),
		Relations: services.NewRelationService(store),
		Export:    services.NewExportService(store),
		Import:    services.NewImportService(store),
	})
}
