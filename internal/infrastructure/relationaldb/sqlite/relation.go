package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medspan/medspan/internal/domain/entities"
)

// InsertRelation stores a new relation and assigns its server-generated id.
func (r *Repository) InsertRelation(ctx context.Context, rel *entities.Relation) error {
	query := `
		INSERT INTO relations (document_id, source_entity_id, target_entity_id, predicate, annotator, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		rel.DocumentID,
		rel.SourceEntityID,
		rel.TargetEntityID,
		string(rel.Predicate),
		nullable(rel.Annotator),
		rel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting relation: %w", mapConstraintErr(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading relation id: %w", err)
	}
	rel.ID = id
	return nil
}

// GetRelation finds a relation by id. Returns (nil, nil) if absent.
func (r *Repository) GetRelation(ctx context.Context, id int64) (*entities.Relation, error) {
	query := `
		SELECT id, document_id, source_entity_id, target_entity_id, predicate, annotator, created_at
		FROM relations
		WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	rel, err := scanRelation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning relation: %w", err)
	}
	return rel, nil
}

// ListRelationsByDocument returns a document's relations ordered by id
// ascending.
func (r *Repository) ListRelationsByDocument(ctx context.Context, documentID int64) ([]*entities.Relation, error) {
	query := `
		SELECT id, document_id, source_entity_id, target_entity_id, predicate, annotator, created_at
		FROM relations
		WHERE document_id = ?
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying relations: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Relation, 0, 16)
	for rows.Next() {
		rel, err := scanRelation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		result = append(result, rel)
	}
	return result, rows.Err()
}

// DeleteRelation removes a relation by id.
func (r *Repository) DeleteRelation(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM relations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting relation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("relation %d: %w", id, entities.ErrNotFound)
	}
	return nil
}

// scanRelation scans one relation row via the given scan function.
func scanRelation(scan func(...any) error) (*entities.Relation, error) {
	var rel entities.Relation
	var predicate string
	var annotator sql.NullString

	err := scan(
		&rel.ID,
		&rel.DocumentID,
		&rel.SourceEntityID,
		&rel.TargetEntityID,
		&predicate,
		&annotator,
		&rel.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rel.Predicate = entities.RelationPredicate(predicate)
	rel.Annotator = annotator.String
	return &rel, nil
}
