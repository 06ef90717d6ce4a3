package entities

import "fmt"

// EntityLabel is the closed vocabulary of span labels. Values outside this
// set never reach the store; ParseEntityLabel is the only way in from
// untrusted input.
type EntityLabel string

const (
	LabelDisease    EntityLabel = "Disease"
	LabelMedication EntityLabel = "Medication"
	LabelSymptom    EntityLabel = "Symptom"
	LabelProcedure  EntityLabel = "Procedure"
	LabelAnatomy    EntityLabel = "Anatomy"
)

// EntityLabels returns all permitted labels in declaration order.
func EntityLabels() []EntityLabel {
	return []EntityLabel{
		LabelDisease,
		LabelMedication,
		LabelSymptom,
		LabelProcedure,
		LabelAnatomy,
	}
}

// Valid reports whether the label is a member of the closed vocabulary.
func (l EntityLabel) Valid() bool {
	switch l {
	case LabelDisease, LabelMedication, LabelSymptom, LabelProcedure, LabelAnatomy:
		return true
	}
	return false
}

// ParseEntityLabel validates and converts a string to an EntityLabel.
func ParseEntityLabel(s string) (EntityLabel, error) {
	l := EntityLabel(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: invalid entity label %q (valid: %v)", ErrValidation, s, EntityLabels())
	}
	return l, nil
}

// RelationPredicate is the closed vocabulary of relation types.
type RelationPredicate string

const (
	PredicateTreats     RelationPredicate = "treats"
	PredicateCauses     RelationPredicate = "causes"
	PredicateWorsens    RelationPredicate = "worsens"
	PredicateIndicates  RelationPredicate = "indicates"
	PredicateHasSymptom RelationPredicate = "has_symptom"
)

// RelationPredicates returns all permitted predicates in declaration order.
func RelationPredicates() []RelationPredicate {
	return []RelationPredicate{
		PredicateTreats,
		PredicateCauses,
		PredicateWorsens,
		PredicateIndicates,
		PredicateHasSymptom,
	}
}

// Valid reports whether the predicate is a member of the closed vocabulary.
func (p RelationPredicate) Valid() bool {
	switch p {
	case PredicateTreats, PredicateCauses, PredicateWorsens, PredicateIndicates, PredicateHasSymptom:
		return true
	}
	return false
}

// ParseRelationPredicate validates and converts a string to a RelationPredicate.
func ParseRelationPredicate(s string) (RelationPredicate, error) {
	p := RelationPredicate(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: invalid relation predicate %q (valid: %v)", ErrValidation, s, RelationPredicates())
	}
	return p, nil
}
