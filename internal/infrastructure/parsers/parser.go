// Package parsers provides parsers for importing annotated documents from
// various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawDocument represents a document parsed from an external source before
// validation. Its JSON shape matches one export bundle line, so an export
// file round-trips through import unchanged.
type RawDocument struct {
	ID         int64         `json:"document_id"`
	ExternalID string        `json:"external_id,omitempty"`
	Text       string        `json:"text"`
	Status     string        `json:"status,omitempty"`
	Entities   []RawEntity   `json:"entities,omitempty"`
	Relations  []RawRelation `json:"relations,omitempty"`
	LineNum    int           `json:"-"` // Record number in source file (set by parser)
}

// RawEntity is a span annotation as it appears in an import file. The id is
// only used to resolve relation endpoints within the same record; the store
// assigns fresh ids on insert.
type RawEntity struct {
	ID         int64  `json:"id,omitempty"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Label      string `json:"label"`
	CodeSystem string `json:"code_system,omitempty"`
	Code       string `json:"code,omitempty"`
	Annotator  string `json:"annotator,omitempty"`
}

// RawRelation is a typed edge as it appears in an import file. Endpoints
// reference RawEntity ids within the same record.
type RawRelation struct {
	SourceEntityID int64  `json:"source_entity_id"`
	TargetEntityID int64  `json:"target_entity_id"`
	Predicate      string `json:"predicate"`
	Annotator      string `json:"annotator,omitempty"`
}

// Parser defines the interface for parsing documents from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawDocument, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "jsonl", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "jsonl", "ndjson":
		return &JSONLParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jsonl", ".ndjson":
		return &JSONLParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
