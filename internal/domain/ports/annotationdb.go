package ports

import (
	"context"

	"github.com/medspan/medspan/internal/domain/entities"
)

// DocumentFilter narrows document queries. Zero values mean "no constraint";
// Limit <= 0 means unlimited.
type DocumentFilter struct {
	// IDs restricts the result to the given document ids.
	IDs []int64
	// Status matches the workflow status exactly.
	Status string
	// TextContains matches documents whose text contains the substring.
	TextContains string
	Limit        int
	Offset       int
}

// AnnotationDB is the persistence boundary for documents, entities and
// relations. Implementations do not validate spans or cross-references;
// that is the service layer's job. Lookups report absence as (nil, nil),
// never as an error. Cascading deletes are atomic: either the record and
// all of its dependents go, or nothing does.
type AnnotationDB interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Document operations

	// InsertDocument stores a new document under its caller-chosen id.
	// Returns entities.ErrConflict if the id is already taken.
	InsertDocument(ctx context.Context, doc *entities.Document) error

	// GetDocument finds a document by id.
	GetDocument(ctx context.Context, id int64) (*entities.Document, error)

	// ListDocuments returns documents matching the filter, ordered by id
	// descending.
	ListDocuments(ctx context.Context, f DocumentFilter) ([]*entities.Document, error)

	// ListDocumentIDs returns the ids of documents matching the filter,
	// ordered by id ascending. Used by export to pin the working set
	// before streaming.
	ListDocumentIDs(ctx context.Context, f DocumentFilter) ([]int64, error)

	// UpdateDocument overwrites text, status and updated timestamp.
	// Returns entities.ErrNotFound if the document does not exist.
	UpdateDocument(ctx context.Context, doc *entities.Document) error

	// DeleteDocument removes a document together with all of its entities
	// and relations. Returns entities.ErrNotFound if the document does not
	// exist.
	DeleteDocument(ctx context.Context, id int64) error

	// ImportDocument writes a document together with its entities and
	// relations in a single transaction: either the whole record lands or
	// nothing does. Entity ids carried in ents are source-file ids; the
	// store assigns fresh ids and rewrites relation endpoints that
	// reference them. When replace is set, an existing document with the
	// same id is removed first, annotations included, inside the same
	// transaction.
	ImportDocument(ctx context.Context, doc *entities.Document, ents []*entities.Entity, rels []*entities.Relation, replace bool) error

	// Entity operations

	// InsertEntity stores a new entity, assigning its id.
	InsertEntity(ctx context.Context, ent *entities.Entity) error

	// GetEntity finds an entity by id.
	GetEntity(ctx context.Context, id int64) (*entities.Entity, error)

	// ListEntitiesByDocument returns a document's entities ordered by span
	// start ascending.
	ListEntitiesByDocument(ctx context.Context, documentID int64) ([]*entities.Entity, error)

	// DeleteEntity removes an entity together with every relation that
	// references it as source or target. Returns entities.ErrNotFound if
	// the entity does not exist.
	DeleteEntity(ctx context.Context, id int64) error

	// Relation operations

	// InsertRelation stores a new relation, assigning its id. Returns
	// entities.ErrIntegrity if a referenced row vanished since validation.
	InsertRelation(ctx context.Context, rel *entities.Relation) error

	// GetRelation finds a relation by id.
	GetRelation(ctx context.Context, id int64) (*entities.Relation, error)

	// ListRelationsByDocument returns a document's relations ordered by id
	// ascending.
	ListRelationsByDocument(ctx context.Context, documentID int64) ([]*entities.Relation, error)

	// DeleteRelation removes a relation by id. Returns entities.ErrNotFound
	// if the relation does not exist.
	DeleteRelation(ctx context.Context, id int64) error
}
