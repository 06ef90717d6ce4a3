package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/ports"
	"github.com/medspan/medspan/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func testDocument(id int64, text string) *entities.Document {
	now := time.Now().UTC()
	return &entities.Document{
		ID:        id,
		Text:      text,
		Status:    entities.DefaultStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testEntity(documentID int64, start, end int) *entities.Entity {
	return &entities.Entity{
		DocumentID: documentID,
		Start:      start,
		End:        end,
		Label:      entities.LabelDisease,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	tables := []string{"documents", "entities", "relations"}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_Documents(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		doc := testDocument(1, "clinical text")
		doc.ExternalID = "chart-001"
		require.NoError(t, repo.InsertDocument(ctx, doc))

		got, err := repo.GetDocument(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "clinical text", got.Text)
		assert.Equal(t, "chart-001", got.ExternalID)
	})

	t.Run("get absent returns nil without error", func(t *testing.T) {
		got, err := repo.GetDocument(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate id maps to conflict", func(t *testing.T) {
		err := repo.InsertDocument(ctx, testDocument(1, "again"))
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrConflict)
	})

	t.Run("list ordered by id descending", func(t *testing.T) {
		require.NoError(t, repo.InsertDocument(ctx, testDocument(3, "c")))
		require.NoError(t, repo.InsertDocument(ctx, testDocument(2, "b")))

		docs, err := repo.ListDocuments(ctx, ports.DocumentFilter{})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, int64(3), docs[0].ID)
		assert.Equal(t, int64(2), docs[1].ID)
		assert.Equal(t, int64(1), docs[2].ID)
	})

	t.Run("list ids ordered ascending", func(t *testing.T) {
		ids, err := repo.ListDocumentIDs(ctx, ports.DocumentFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, ids)
	})

	t.Run("substring filter matches literally", func(t *testing.T) {
		require.NoError(t, repo.InsertDocument(ctx, testDocument(4, "dose 50% higher")))

		docs, err := repo.ListDocuments(ctx, ports.DocumentFilter{TextContains: "50%"})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, int64(4), docs[0].ID)

		// % must not act as a wildcard
		docs, err = repo.ListDocuments(ctx, ports.DocumentFilter{TextContains: "5%h"})
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("update absent maps to not found", func(t *testing.T) {
		err := repo.UpdateDocument(ctx, testDocument(999, "x"))
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("delete absent maps to not found", func(t *testing.T) {
		err := repo.DeleteDocument(ctx, 999)
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestRepository_Entities(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertDocument(ctx, testDocument(1, "0123456789012345678901234567890123456789")))

	t.Run("insert assigns ids", func(t *testing.T) {
		first := testEntity(1, 10, 20)
		second := testEntity(1, 0, 5)
		require.NoError(t, repo.InsertEntity(ctx, first))
		require.NoError(t, repo.InsertEntity(ctx, second))
		assert.NotZero(t, first.ID)
		assert.Equal(t, first.ID+1, second.ID)
	})

	t.Run("list ordered by start ascending", func(t *testing.T) {
		require.NoError(t, repo.InsertEntity(ctx, testEntity(1, 30, 40)))

		ents, err := repo.ListEntitiesByDocument(ctx, 1)
		require.NoError(t, err)
		require.Len(t, ents, 3)
		assert.Equal(t, 0, ents[0].Start)
		assert.Equal(t, 10, ents[1].Start)
		assert.Equal(t, 30, ents[2].Start)
	})

	t.Run("optional fields round-trip", func(t *testing.T) {
		ent := testEntity(1, 2, 4)
		ent.CodeSystem = "ICD-10"
		ent.Code = "E11"
		ent.Annotator = "alice"
		require.NoError(t, repo.InsertEntity(ctx, ent))

		got, err := repo.GetEntity(ctx, ent.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "ICD-10", got.CodeSystem)
		assert.Equal(t, "E11", got.Code)
		assert.Equal(t, "alice", got.Annotator)
	})

	t.Run("insert under missing document maps to integrity", func(t *testing.T) {
		err := repo.InsertEntity(ctx, testEntity(999, 0, 5))
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrIntegrity)
	})

	t.Run("delete absent maps to not found", func(t *testing.T) {
		err := repo.DeleteEntity(ctx, 999)
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestRepository_Relations(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertDocument(ctx, testDocument(1, "0123456789012345678901234567890123456789")))
	src := testEntity(1, 0, 5)
	tgt := testEntity(1, 10, 20)
	require.NoError(t, repo.InsertEntity(ctx, src))
	require.NoError(t, repo.InsertEntity(ctx, tgt))

	newRelation := func(predicate entities.RelationPredicate) *entities.Relation {
		return &entities.Relation{
			DocumentID:     1,
			SourceEntityID: src.ID,
			TargetEntityID: tgt.ID,
			Predicate:      predicate,
			CreatedAt:      time.Now().UTC(),
		}
	}

	t.Run("insert and list ordered by id", func(t *testing.T) {
		first := newRelation(entities.PredicateTreats)
		second := newRelation(entities.PredicateIndicates)
		require.NoError(t, repo.InsertRelation(ctx, first))
		require.NoError(t, repo.InsertRelation(ctx, second))

		rels, err := repo.ListRelationsByDocument(ctx, 1)
		require.NoError(t, err)
		require.Len(t, rels, 2)
		assert.Equal(t, first.ID, rels[0].ID)
		assert.Equal(t, second.ID, rels[1].ID)
	})

	t.Run("insert referencing missing entity maps to integrity", func(t *testing.T) {
		rel := newRelation(entities.PredicateTreats)
		rel.TargetEntityID = 9999
		err := repo.InsertRelation(ctx, rel)
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrIntegrity)
	})

	t.Run("delete absent maps to not found", func(t *testing.T) {
		err := repo.DeleteRelation(ctx, 9999)
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestRepository_ImportDocument(t *testing.T) {
	ctx := context.Background()

	importableDoc := func() (*entities.Document, []*entities.Entity, []*entities.Relation) {
		doc := testDocument(1, "0123456789012345678901234567890123456789")
		ents := []*entities.Entity{
			{ID: 100, Start: 0, End: 5, Label: entities.LabelMedication, CreatedAt: doc.CreatedAt},
			{ID: 200, Start: 10, End: 20, Label: entities.LabelDisease, CreatedAt: doc.CreatedAt},
		}
		rels := []*entities.Relation{
			{SourceEntityID: 100, TargetEntityID: 200, Predicate: entities.PredicateTreats, CreatedAt: doc.CreatedAt},
		}
		return doc, ents, rels
	}

	t.Run("rewrites relation endpoints to assigned ids", func(t *testing.T) {
		repo := setupTestRepo(t)
		doc, ents, rels := importableDoc()

		require.NoError(t, repo.ImportDocument(ctx, doc, ents, rels, false))

		assert.NotEqual(t, int64(100), ents[0].ID)
		assert.NotEqual(t, int64(200), ents[1].ID)

		stored, err := repo.ListRelationsByDocument(ctx, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, ents[0].ID, stored[0].SourceEntityID)
		assert.Equal(t, ents[1].ID, stored[0].TargetEntityID)
	})

	t.Run("failure mid-record leaves nothing behind", func(t *testing.T) {
		repo := setupTestRepo(t)
		doc, ents, rels := importableDoc()
		rels[0].TargetEntityID = 999 // resolves to no entity in the record

		err := repo.ImportDocument(ctx, doc, ents, rels, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrIntegrity)

		got, err := repo.GetDocument(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, got)

		stored, err := repo.ListEntitiesByDocument(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("replace swaps document and annotations atomically", func(t *testing.T) {
		repo := setupTestRepo(t)
		require.NoError(t, repo.InsertDocument(ctx, testDocument(1, "prior text")))
		require.NoError(t, repo.InsertEntity(ctx, testEntity(1, 0, 5)))

		doc, ents, rels := importableDoc()
		require.NoError(t, repo.ImportDocument(ctx, doc, ents, rels, true))

		got, err := repo.GetDocument(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, doc.Text, got.Text)

		stored, err := repo.ListEntitiesByDocument(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, stored, 2)
	})

	t.Run("failed replace keeps the prior record", func(t *testing.T) {
		repo := setupTestRepo(t)
		require.NoError(t, repo.InsertDocument(ctx, testDocument(1, "prior text")))
		prior := testEntity(1, 0, 5)
		require.NoError(t, repo.InsertEntity(ctx, prior))

		doc, ents, rels := importableDoc()
		rels[0].SourceEntityID = 999

		err := repo.ImportDocument(ctx, doc, ents, rels, true)
		require.Error(t, err)

		got, err := repo.GetDocument(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "prior text", got.Text)

		stored, err := repo.ListEntitiesByDocument(ctx, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, prior.ID, stored[0].ID)
	})
}

func TestRepository_CascadeDeletes(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seed := func(docID int64) (*entities.Entity, *entities.Entity, *entities.Relation) {
		t.Helper()
		require.NoError(t, repo.InsertDocument(ctx, testDocument(docID, "0123456789012345678901234567890123456789")))
		e1 := testEntity(docID, 0, 5)
		e2 := testEntity(docID, 10, 20)
		require.NoError(t, repo.InsertEntity(ctx, e1))
		require.NoError(t, repo.InsertEntity(ctx, e2))
		rel := &entities.Relation{
			DocumentID:     docID,
			SourceEntityID: e1.ID,
			TargetEntityID: e2.ID,
			Predicate:      entities.PredicateTreats,
			CreatedAt:      time.Now().UTC(),
		}
		require.NoError(t, repo.InsertRelation(ctx, rel))
		return e1, e2, rel
	}

	t.Run("document delete removes all children", func(t *testing.T) {
		e1, e2, rel := seed(1)

		require.NoError(t, repo.DeleteDocument(ctx, 1))

		doc, err := repo.GetDocument(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, doc)

		for _, id := range []int64{e1.ID, e2.ID} {
			got, err := repo.GetEntity(ctx, id)
			require.NoError(t, err)
			assert.Nil(t, got)
		}

		gotRel, err := repo.GetRelation(ctx, rel.ID)
		require.NoError(t, err)
		assert.Nil(t, gotRel)

		ents, err := repo.ListEntitiesByDocument(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, ents)

		rels, err := repo.ListRelationsByDocument(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, rels)
	})

	t.Run("entity delete removes relations where source or target", func(t *testing.T) {
		e1, e2, rel := seed(2)

		asTarget := &entities.Relation{
			DocumentID:     2,
			SourceEntityID: e2.ID,
			TargetEntityID: e1.ID,
			Predicate:      entities.PredicateCauses,
			CreatedAt:      time.Now().UTC(),
		}
		require.NoError(t, repo.InsertRelation(ctx, asTarget))

		require.NoError(t, repo.DeleteEntity(ctx, e1.ID))

		for _, id := range []int64{rel.ID, asTarget.ID} {
			got, err := repo.GetRelation(ctx, id)
			require.NoError(t, err)
			assert.Nil(t, got)
		}

		// The other entity survives
		kept, err := repo.GetEntity(ctx, e2.ID)
		require.NoError(t, err)
		assert.NotNil(t, kept)
	})
}
