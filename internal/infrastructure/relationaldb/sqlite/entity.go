package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medspan/medspan/internal/domain/entities"
)

// InsertEntity stores a new entity and assigns its server-generated id.
func (r *Repository) InsertEntity(ctx context.Context, ent *entities.Entity) error {
	query := `
		INSERT INTO entities (document_id, start, "end", label, code_system, code, annotator, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		ent.DocumentID,
		ent.Start,
		ent.End,
		string(ent.Label),
		nullable(ent.CodeSystem),
		nullable(ent.Code),
		nullable(ent.Annotator),
		ent.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting entity: %w", mapConstraintErr(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading entity id: %w", err)
	}
	ent.ID = id
	return nil
}

// GetEntity finds an entity by id. Returns (nil, nil) if absent.
func (r *Repository) GetEntity(ctx context.Context, id int64) (*entities.Entity, error) {
	query := `
		SELECT id, document_id, start, "end", label, code_system, code, annotator, created_at
		FROM entities
		WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	ent, err := scanEntity(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entity: %w", err)
	}
	return ent, nil
}

// ListEntitiesByDocument returns a document's entities ordered by span
// start ascending.
func (r *Repository) ListEntitiesByDocument(ctx context.Context, documentID int64) ([]*entities.Entity, error) {
	query := `
		SELECT id, document_id, start, "end", label, code_system, code, annotator, created_at
		FROM entities
		WHERE document_id = ?
		ORDER BY start ASC
	`
	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Entity, 0, 16)
	for rows.Next() {
		ent, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		result = append(result, ent)
	}
	return result, rows.Err()
}

// DeleteEntity removes an entity and every relation referencing it as
// source or target, in a single transaction.
func (r *Repository) DeleteEntity(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM relations WHERE source_entity_id = ? OR target_entity_id = ?`, id, id); err != nil {
		return fmt.Errorf("deleting entity relations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entity: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("entity %d: %w", id, entities.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanEntity scans one entity row via the given scan function.
func scanEntity(scan func(...any) error) (*entities.Entity, error) {
	var ent entities.Entity
	var label string
	var codeSystem, code, annotator sql.NullString

	err := scan(
		&ent.ID,
		&ent.DocumentID,
		&ent.Start,
		&ent.End,
		&label,
		&codeSystem,
		&code,
		&annotator,
		&ent.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	ent.Label = entities.EntityLabel(label)
	ent.CodeSystem = codeSystem.String
	ent.Code = code.String
	ent.Annotator = annotator.String
	return &ent, nil
}
