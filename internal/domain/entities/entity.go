package entities

import "time"

// Entity marks a half-open character span [Start, End) over the text of its
// owning document. Offsets count runes, matching what annotation frontends
// display as character positions. CodeSystem and Code are an optional pair
// tying the span to an external terminology (e.g. ICD-10, SNOMED CT).
type Entity struct {
	ID         int64       `json:"id"`
	DocumentID int64       `json:"document_id"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
	Label      EntityLabel `json:"label"`
	CodeSystem string      `json:"code_system,omitempty"`
	Code       string      `json:"code,omitempty"`
	Annotator  string      `json:"annotator,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
