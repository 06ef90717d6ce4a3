package entities

import "time"

// Bundle is one fully denormalized export record: a document together with
// all of its entities (ordered by span start) and relations (ordered by id).
// A consumer needs no further lookups to use it.
type Bundle struct {
	DocumentID int64            `json:"document_id"`
	ExternalID string           `json:"external_id,omitempty"`
	Text       string           `json:"text"`
	Status     string           `json:"status"`
	Entities   []BundleEntity   `json:"entities"`
	Relations  []BundleRelation `json:"relations"`
}

// BundleEntity is an entity as it appears inside a Bundle. The owning
// document id is implied by the enclosing record.
type BundleEntity struct {
	ID         int64       `json:"id"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
	Label      EntityLabel `json:"label"`
	CodeSystem string      `json:"code_system,omitempty"`
	Code       string      `json:"code,omitempty"`
	Annotator  string      `json:"annotator,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// BundleRelation is a relation as it appears inside a Bundle.
type BundleRelation struct {
	ID             int64             `json:"id"`
	SourceEntityID int64             `json:"source_entity_id"`
	TargetEntityID int64             `json:"target_entity_id"`
	Predicate      RelationPredicate `json:"predicate"`
	Annotator      string            `json:"annotator,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}
