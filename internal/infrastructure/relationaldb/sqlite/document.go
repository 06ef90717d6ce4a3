package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/ports"
)

// InsertDocument stores a new document under its caller-chosen id.
func (r *Repository) InsertDocument(ctx context.Context, doc *entities.Document) error {
	query := `
		INSERT INTO documents (id, external_id, text, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		nullable(doc.ExternalID),
		doc.Text,
		doc.Status,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", mapConstraintErr(err))
	}
	return nil
}

// GetDocument finds a document by id. Returns (nil, nil) if absent.
func (r *Repository) GetDocument(ctx context.Context, id int64) (*entities.Document, error) {
	query := `
		SELECT id, external_id, text, status, created_at, updated_at
		FROM documents
		WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns documents matching the filter, ordered by id
// descending.
func (r *Repository) ListDocuments(ctx context.Context, f ports.DocumentFilter) ([]*entities.Document, error) {
	query, args := buildDocumentQuery("SELECT id, external_id, text, status, created_at, updated_at FROM documents", f)
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Document, 0, 16)
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

// ListDocumentIDs returns the ids of documents matching the filter, ordered
// by id ascending.
func (r *Repository) ListDocumentIDs(ctx context.Context, f ports.DocumentFilter) ([]int64, error) {
	query, args := buildDocumentQuery("SELECT id FROM documents", f)
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying document ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateDocument overwrites text, status and updated timestamp.
func (r *Repository) UpdateDocument(ctx context.Context, doc *entities.Document) error {
	query := `
		UPDATE documents
		SET external_id = ?, text = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		nullable(doc.ExternalID),
		doc.Text,
		doc.Status,
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("document %d: %w", doc.ID, entities.ErrNotFound)
	}
	return nil
}

// DeleteDocument removes a document and all of its entities and relations
// in a single transaction.
func (r *Repository) DeleteDocument(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM relations WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("deleting document relations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("deleting document entities: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("document %d: %w", id, entities.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// buildDocumentQuery appends WHERE clauses for the filter to the given
// SELECT prefix.
func buildDocumentQuery(prefix string, f ports.DocumentFilter) (string, []any) {
	var conds []string
	var args []any

	if len(f.IDs) > 0 {
		placeholders := make([]string, len(f.IDs))
		for i, id := range f.IDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		conds = append(conds, fmt.Sprintf("id IN (%s)", strings.Join(placeholders, ",")))
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.TextContains != "" {
		conds = append(conds, "text LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(f.TextContains)+"%")
	}

	if len(conds) > 0 {
		prefix += " WHERE " + strings.Join(conds, " AND ")
	}
	return prefix, args
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// scanDocument scans one document row via the given scan function.
func scanDocument(scan func(...any) error) (*entities.Document, error) {
	var doc entities.Document
	var externalID sql.NullString

	err := scan(
		&doc.ID,
		&externalID,
		&doc.Text,
		&doc.Status,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.ExternalID = externalID.String
	return &doc, nil
}

// nullable maps the empty string to NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
