package entities

import "time"

// Relation is a directed, typed edge between two entities of the same
// document. DocumentID is a denormalized copy of the entities' document so
// per-document listing needs no join. Source and target may be the same
// entity; self-relations are allowed.
type Relation struct {
	ID             int64             `json:"id"`
	DocumentID     int64             `json:"document_id"`
	SourceEntityID int64             `json:"source_entity_id"`
	TargetEntityID int64             `json:"target_entity_id"`
	Predicate      RelationPredicate `json:"predicate"`
	Annotator      string            `json:"annotator,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}
