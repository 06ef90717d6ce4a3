package services

import (
	"context"
	"fmt"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/domain/ports"
	"github.com/medspan/medspan/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle existing documents during import.
type ConflictStrategy string

const (
	// ConflictSkip skips documents that already exist (by id).
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces existing documents, annotations included.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing documents
}

// ImportError represents an error for a specific record during import.
type ImportError struct {
	Line    int    // Record number in the source file (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
}

// ImportService loads annotated documents from external files. A record is
// imported whole or not at all: any invalid field rejects the record and the
// import moves on to the next one.
type ImportService struct {
	db ports.AnnotationDB
}

// NewImportService creates a new import service.
func NewImportService(db ports.AnnotationDB) *ImportService {
	return &ImportService{db: db}
}

// Import validates and imports raw documents into the database.
func (s *ImportService) Import(ctx context.Context, raws []parsers.RawDocument, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	for i := range raws {
		raw := &raws[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		if importErr := validateRawDocument(raw, lineNum); importErr != nil {
			result.Errors = append(result.Errors, *importErr)
			continue
		}

		if opts.DryRun {
			result.Imported++
			continue
		}

		imported, err := s.save(ctx, raw, opts.OnConflict)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", lineNum, err)
		}
		if imported {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// save writes one record, resolving a document id conflict per the strategy.
// The write is a single transactional store call, so a record lands whole or
// not at all. Returns false when the record was skipped.
func (s *ImportService) save(ctx context.Context, raw *parsers.RawDocument, onConflict ConflictStrategy) (bool, error) {
	replace := false
	existing, err := s.db.GetDocument(ctx, raw.ID)
	if err != nil {
		return false, fmt.Errorf("getting document: %w", err)
	}
	if existing != nil {
		if onConflict != ConflictOverwrite {
			return false, nil
		}
		replace = true
	}

	now := utcNow()
	status := raw.Status
	if status == "" {
		status = entities.DefaultStatus
	}

	doc := &entities.Document{
		ID:         raw.ID,
		ExternalID: raw.ExternalID,
		Text:       raw.Text,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Source-file entity ids ride along so the store can rewrite relation
	// endpoints to its assigned ids.
	ents := make([]*entities.Entity, 0, len(raw.Entities))
	for _, re := range raw.Entities {
		ents = append(ents, &entities.Entity{
			ID:         re.ID,
			DocumentID: doc.ID,
			Start:      re.Start,
			End:        re.End,
			Label:      entities.EntityLabel(re.Label),
			CodeSystem: re.CodeSystem,
			Code:       re.Code,
			Annotator:  re.Annotator,
			CreatedAt:  now,
		})
	}

	rels := make([]*entities.Relation, 0, len(raw.Relations))
	for _, rr := range raw.Relations {
		rels = append(rels, &entities.Relation{
			DocumentID:     doc.ID,
			SourceEntityID: rr.SourceEntityID,
			TargetEntityID: rr.TargetEntityID,
			Predicate:      entities.RelationPredicate(rr.Predicate),
			Annotator:      rr.Annotator,
			CreatedAt:      now,
		})
	}

	if err := s.db.ImportDocument(ctx, doc, ents, rels, replace); err != nil {
		return false, fmt.Errorf("importing document: %w", err)
	}
	return true, nil
}

// validateRawDocument checks one record, annotations included, before any
// write happens for it.
func validateRawDocument(raw *parsers.RawDocument, lineNum int) *ImportError {
	fail := func(field, value, message string) *ImportError {
		return &ImportError{Line: lineNum, Field: field, Value: value, Message: message}
	}

	if raw.ID == 0 {
		return fail("document_id", "", "document id is required")
	}
	if raw.Text == "" {
		return fail("text", "", "document text is required")
	}

	seen := make(map[int64]bool, len(raw.Entities))
	for _, re := range raw.Entities {
		if _, err := entities.ParseEntityLabel(re.Label); err != nil {
			return fail("label", re.Label, fmt.Sprintf("invalid entity label %q", re.Label))
		}
		if err := checkSpan(raw.Text, re.Start, re.End); err != nil {
			return fail("span", fmt.Sprintf("[%d, %d)", re.Start, re.End), err.Error())
		}
		if re.ID != 0 {
			if seen[re.ID] {
				return fail("id", fmt.Sprintf("%d", re.ID), fmt.Sprintf("duplicate entity id %d", re.ID))
			}
			seen[re.ID] = true
		}
	}

	for _, rr := range raw.Relations {
		if _, err := entities.ParseRelationPredicate(rr.Predicate); err != nil {
			return fail("predicate", rr.Predicate, fmt.Sprintf("invalid relation predicate %q", rr.Predicate))
		}
		if !seen[rr.SourceEntityID] || !seen[rr.TargetEntityID] {
			return fail("relation", "", "relation references an entity id not present in the record")
		}
	}

	return nil
}
