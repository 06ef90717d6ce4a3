package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/ports"
)

// EntityInput carries the caller-supplied fields for a new entity.
type EntityInput struct {
	Start      int
	End        int
	Label      entities.EntityLabel
	CodeSystem string
	Code       string
	Annotator  string
}

// EntityView is an entity decorated with its derived snippet. The snippet is
// computed at the boundary from the current document text and never stored.
type EntityView struct {
	entities.Entity
	TextSnippet string `json:"text_snippet"`
}

// EntityService manages span annotations over documents.
type EntityService struct {
	db ports.AnnotationDB
}

// NewEntityService creates a new EntityService.
func NewEntityService(db ports.AnnotationDB) *EntityService {
	return &EntityService{db: db}
}

// Create validates the span against the owning document and stores the
// entity. Spans are half-open rune intervals: creation succeeds iff
// 0 <= start < end <= len(document text).
func (s *EntityService) Create(ctx context.Context, documentID int64, in EntityInput) (*EntityView, error) {
	doc, err := s.db.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", documentID, entities.ErrNotFound)
	}

	if !in.Label.Valid() {
		return nil, fmt.Errorf("%w: invalid entity label %q", entities.ErrValidation, in.Label)
	}
	if err := checkSpan(doc.Text, in.Start, in.End); err != nil {
		return nil, err
	}

	ent := &entities.Entity{
		DocumentID: documentID,
		Start:      in.Start,
		End:        in.End,
		Label:      in.Label,
		CodeSystem: in.CodeSystem,
		Code:       in.Code,
		Annotator:  in.Annotator,
		CreatedAt:  utcNow(),
	}
	if err := s.db.InsertEntity(ctx, ent); err != nil {
		return nil, fmt.Errorf("inserting entity: %w", err)
	}

	return &EntityView{
		Entity:      *ent,
		TextSnippet: Snippet(doc.Text, ent.Start, ent.End, DefaultSnippetRadius),
	}, nil
}

// List returns a document's entities ordered by span start ascending, each
// decorated with a snippet derived from the current document text.
func (s *EntityService) List(ctx context.Context, documentID int64) ([]*EntityView, error) {
	doc, err := s.db.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", documentID, entities.ErrNotFound)
	}

	ents, err := s.db.ListEntitiesByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	views := make([]*EntityView, 0, len(ents))
	for _, ent := range ents {
		views = append(views, &EntityView{
			Entity:      *ent,
			TextSnippet: Snippet(doc.Text, ent.Start, ent.End, DefaultSnippetRadius),
		})
	}
	return views, nil
}

// Delete removes an entity and every relation referencing it as source or
// target, atomically.
func (s *EntityService) Delete(ctx context.Context, id int64) error {
	return s.db.DeleteEntity(ctx, id)
}

// checkSpan rejects empty, negative or out-of-bounds spans. Bounds are
// measured in runes to match the character offsets annotators see.
func checkSpan(text string, start, end int) error {
	if end <= start {
		return fmt.Errorf("%w: entity span [%d, %d) must end after it starts", entities.ErrValidation, start, end)
	}
	if n := utf8.RuneCountInString(text); start < 0 || end > n {
		return fmt.Errorf("%w: entity span [%d, %d) outside document length %d", entities.ErrValidation, start, end, n)
	}
	return nil
}
