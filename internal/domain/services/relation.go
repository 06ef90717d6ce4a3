package services

import (
	"context"
	"fmt"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/ports"
)

// RelationInput carries the caller-supplied fields for a new relation.
type RelationInput struct {
	SourceEntityID int64
	TargetEntityID int64
	Predicate      entities.RelationPredicate
	Annotator      string
}

// RelationService manages typed relations between entities.
type RelationService struct {
	db ports.AnnotationDB
}

// NewRelationService creates a new RelationService.
func NewRelationService(db ports.AnnotationDB) *RelationService {
	return &RelationService{db: db}
}

// Create checks that both endpoints exist and belong to the given document,
// then stores the relation. Source and target may be the same entity.
func (s *RelationService) Create(ctx context.Context, documentID int64, in RelationInput) (*entities.Relation, error) {
	doc, err := s.db.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", documentID, entities.ErrNotFound)
	}

	if !in.Predicate.Valid() {
		return nil, fmt.Errorf("%w: invalid relation predicate %q", entities.ErrValidation, in.Predicate)
	}

	src, err := s.db.GetEntity(ctx, in.SourceEntityID)
	if err != nil {
		return nil, fmt.Errorf("getting source entity: %w", err)
	}
	tgt, err := s.db.GetEntity(ctx, in.TargetEntityID)
	if err != nil {
		return nil, fmt.Errorf("getting target entity: %w", err)
	}
	if src == nil || tgt == nil {
		return nil, fmt.Errorf("%w: source or target entity does not exist", entities.ErrValidation)
	}
	if src.DocumentID != documentID || tgt.DocumentID != documentID {
		return nil, fmt.Errorf("%w: both entities must belong to the same document", entities.ErrValidation)
	}

	rel := &entities.Relation{
		DocumentID:     documentID,
		SourceEntityID: in.SourceEntityID,
		TargetEntityID: in.TargetEntityID,
		Predicate:      in.Predicate,
		Annotator:      in.Annotator,
		CreatedAt:      utcNow(),
	}
	if err := s.db.InsertRelation(ctx, rel); err != nil {
		return nil, fmt.Errorf("inserting relation: %w", err)
	}
	return rel, nil
}

// List returns a document's relations ordered by id ascending.
func (s *RelationService) List(ctx context.Context, documentID int64) ([]*entities.Relation, error) {
	doc, err := s.db.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", documentID, entities.ErrNotFound)
	}

	rels, err := s.db.ListRelationsByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	return rels, nil
}

// Delete removes a relation by id.
func (s *RelationService) Delete(ctx context.Context, id int64) error {
	return s.db.DeleteRelation(ctx, id)
}
