package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/ports"
	"github.com/medspan/medspan/internal/infrastructure/config"
	"github.com/medspan/medspan/internal/infrastructure/relationaldb/sqlite"
)

// newTestDB creates an in-memory SQLite store for service tests.
func newTestDB(t *testing.T) ports.AnnotationDB {
	t.Helper()
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

// mustCreateDocument seeds a document with the given id and text.
func mustCreateDocument(t *testing.T, db ports.AnnotationDB, id int64, text string) *entities.Document {
	t.Helper()
	svc := NewDocumentService(db, 0, 0)
	doc, err := svc.Create(context.Background(), id, text, "", "")
	require.NoError(t, err)
	return doc
}

// mustCreateEntity seeds an entity spanning [start, end) with a Disease label.
func mustCreateEntity(t *testing.T, db ports.AnnotationDB, documentID int64, start, end int) *EntityView {
	t.Helper()
	svc := NewEntityService(db)
	view, err := svc.Create(context.Background(), documentID, EntityInput{
		Start: start,
		End:   end,
		Label: entities.LabelDisease,
	})
	require.NoError(t, err)
	return view
}
