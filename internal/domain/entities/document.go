package entities

import "time"

// DefaultStatus is the workflow status assigned to freshly created documents.
const DefaultStatus = "unannotated"

// Document is a piece of clinical text under annotation. The id is chosen by
// the caller (typically the ingest pipeline), not generated by the store.
type Document struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id,omitempty"`
	Text       string    `json:"text"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DocumentPatch describes a partial document update. Nil fields are left
// untouched; the updated timestamp is refreshed regardless.
type DocumentPatch struct {
	Text   *string
	Status *string
}
