package services

import (
	"context"
	"fmt"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/ports"
)

// ExportFilter narrows which documents are exported. Zero values mean all
// documents.
type ExportFilter struct {
	DocumentIDs []int64
	Status      string
}

// ExportService assembles per-document annotation bundles for ML consumers.
type ExportService struct {
	db ports.AnnotationDB
}

// NewExportService creates a new ExportService.
func NewExportService(db ports.AnnotationDB) *ExportService {
	return &ExportService{db: db}
}

// Export streams one bundle per matching document through yield. The
// matching document ids are captured once up front; each bundle is then
// fetched independently so no transaction spans the whole stream. Documents
// deleted while the export is running are skipped. A non-nil error from
// yield stops the stream and is returned unchanged.
func (s *ExportService) Export(ctx context.Context, f ExportFilter, yield func(*entities.Bundle) error) error {
	ids, err := s.db.ListDocumentIDs(ctx, ports.DocumentFilter{
		IDs:    f.DocumentIDs,
		Status: f.Status,
	})
	if err != nil {
		return fmt.Errorf("selecting documents: %w", err)
	}

	for _, id := range ids {
		bundle, err := s.assemble(ctx, id)
		if err != nil {
			return err
		}
		if bundle == nil {
			continue
		}
		if err := yield(bundle); err != nil {
			return err
		}
	}
	return nil
}

// assemble builds the bundle for one document. Returns (nil, nil) if the
// document vanished since selection.
func (s *ExportService) assemble(ctx context.Context, documentID int64) (*entities.Bundle, error) {
	doc, err := s.db.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	ents, err := s.db.ListEntitiesByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	rels, err := s.db.ListRelationsByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}

	bundle := &entities.Bundle{
		DocumentID: doc.ID,
		ExternalID: doc.ExternalID,
		Text:       doc.Text,
		Status:     doc.Status,
		Entities:   make([]entities.BundleEntity, 0, len(ents)),
		Relations:  make([]entities.BundleRelation, 0, len(rels)),
	}
	for _, ent := range ents {
		bundle.Entities = append(bundle.Entities, entities.BundleEntity{
			ID:         ent.ID,
			Start:      ent.Start,
			End:        ent.End,
			Label:      ent.Label,
			CodeSystem: ent.CodeSystem,
			Code:       ent.Code,
			Annotator:  ent.Annotator,
			CreatedAt:  ent.CreatedAt,
		})
	}
	for _, rel := range rels {
		bundle.Relations = append(bundle.Relations, entities.BundleRelation{
			ID:             rel.ID,
			SourceEntityID: rel.SourceEntityID,
			TargetEntityID: rel.TargetEntityID,
			Predicate:      rel.Predicate,
			Annotator:      rel.Annotator,
			CreatedAt:      rel.CreatedAt,
		})
	}
	return bundle, nil
}
