// Package services implements the validation and consistency layer that
// keeps entities and relations coherent with their parent documents.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/ports"
)

// utcNow returns the current UTC time (can be mocked in tests).
var utcNow = func() time.Time { return time.Now().UTC() }

// DocumentListOptions configures document listing.
type DocumentListOptions struct {
	// Status filters by exact workflow status.
	Status string
	// Query filters by substring containment over the document text.
	Query string
	// Page is 1-based.
	Page     int
	PageSize int
}

// DocumentService manages document lifecycle.
type DocumentService struct {
	db ports.AnnotationDB

	// Listing page size bounds, configurable at construction.
	defaultPageSize int
	maxPageSize     int
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db ports.AnnotationDB, defaultPageSize, maxPageSize int) *DocumentService {
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	if maxPageSize <= 0 {
		maxPageSize = 200
	}
	return &DocumentService{
		db:              db,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Create stores a new document under the caller-chosen id. An empty status
// defaults to "unannotated". A taken id surfaces as entities.ErrConflict.
func (s *DocumentService) Create(ctx context.Context, id int64, text, externalID, status string) (*entities.Document, error) {
	if status == "" {
		status = entities.DefaultStatus
	}
	now := utcNow()
	doc := &entities.Document{
		ID:         id,
		ExternalID: externalID,
		Text:       text,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.InsertDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get finds a document by id.
func (s *DocumentService) Get(ctx context.Context, id int64) (*entities.Document, error) {
	doc, err := s.db.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", id, entities.ErrNotFound)
	}
	return doc, nil
}

// List returns one page of documents ordered by id descending.
func (s *DocumentService) List(ctx context.Context, opts DocumentListOptions) ([]*entities.Document, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	size := opts.PageSize
	if size < 1 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	docs, err := s.db.ListDocuments(ctx, ports.DocumentFilter{
		Status:       opts.Status,
		TextContains: opts.Query,
		Limit:        size,
		Offset:       (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// Update applies the non-nil fields of the patch and refreshes the updated
// timestamp.
func (s *DocumentService) Update(ctx context.Context, id int64, patch entities.DocumentPatch) (*entities.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Text != nil {
		doc.Text = *patch.Text
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	doc.UpdatedAt = utcNow()

	if err := s.db.UpdateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	return doc, nil
}

// Delete removes a document and cascades to all of its entities and
// relations in one atomic step.
func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	return s.db.DeleteDocument(ctx, id)
}
