package sqlite

import (
	"context"
	"fmt"

	"github.com/medspan/medspan/internal/domain/entities"
)

// ImportDocument writes one record atomically: document, entities and
// relations land in a single transaction, or the rollback leaves the
// database exactly as it was, prior document included on the replace path.
func (r *Repository) ImportDocument(ctx context.Context, doc *entities.Document, ents []*entities.Entity, rels []*entities.Relation, replace bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM relations WHERE document_id = ?`, doc.ID); err != nil {
			return fmt.Errorf("deleting document relations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE document_id = ?`, doc.ID); err != nil {
			return fmt.Errorf("deleting document entities: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, doc.ID); err != nil {
			return fmt.Errorf("deleting document: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, external_id, text, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.ID, nullable(doc.ExternalID), doc.Text, doc.Status, doc.CreatedAt, doc.UpdatedAt); err != nil {
		return fmt.Errorf("inserting document: %w", mapConstraintErr(err))
	}

	// Entity ids on the way in are source-file ids; record the mapping to
	// the assigned ids so relation endpoints can be rewritten.
	idMap := make(map[int64]int64, len(ents))
	for _, ent := range ents {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO entities (document_id, start, "end", label, code_system, code, annotator, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, doc.ID, ent.Start, ent.End, string(ent.Label),
			nullable(ent.CodeSystem), nullable(ent.Code), nullable(ent.Annotator), ent.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting entity: %w", mapConstraintErr(err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading entity id: %w", err)
		}
		if ent.ID != 0 {
			idMap[ent.ID] = id
		}
		ent.ID = id
		ent.DocumentID = doc.ID
	}

	for _, rel := range rels {
		// An endpoint missing from the map maps to id 0 and fails the
		// foreign key check, rolling the whole record back.
		source := idMap[rel.SourceEntityID]
		target := idMap[rel.TargetEntityID]
		result, err := tx.ExecContext(ctx, `
			INSERT INTO relations (document_id, source_entity_id, target_entity_id, predicate, annotator, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, doc.ID, source, target, string(rel.Predicate), nullable(rel.Annotator), rel.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting relation: %w", mapConstraintErr(err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading relation id: %w", err)
		}
		rel.ID = id
		rel.DocumentID = doc.ID
		rel.SourceEntityID = source
		rel.TargetEntityID = target
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
