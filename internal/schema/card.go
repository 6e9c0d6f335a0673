// Package schema implements the canonical Schema Card artifact (§3) and the
// deterministic merger that folds per-document proposals into it (§4.3).
// The Schema Card is a set of named tables (classes, properties, events,
// aliases) joined by name keys, not by pointer — this is what makes
// serialization and equality-based deduplication trivial and merge
// determinism achievable (§9 design note).
package schema

import "ontorag/internal/dto"

// Range is the set of recognized datatype-property ranges (§3).
type Range string

const (
	RangeString  Range = "string"
	RangeInteger Range = "integer"
	RangeDecimal Range = "decimal"
	RangeBoolean Range = "boolean"
	RangeDate    Range = "date"
	RangeDateTime Range = "dateTime"
	RangeAnyURI  Range = "anyURI"
)

// ValidRanges is the closed set of datatype ranges accepted by a Card.
var ValidRanges = map[Range]bool{
	RangeString: true, RangeInteger: true, RangeDecimal: true,
	RangeBoolean: true, RangeDate: true, RangeDateTime: true, RangeAnyURI: true,
}

// OriginInduced marks a schema element as first introduced by an LLM
// proposal rather than imported from a baseline catalog.
const OriginInduced = "induced"

// ClassEntry is a single class in a Schema Card. Uniqueness key is the
// lowercased, trimmed Name.
type ClassEntry struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Origin      string         `json:"origin,omitempty"`
	Evidence    []dto.Evidence `json:"evidence,omitempty"`
}

// PropertyEntry is a single datatype or object property. Uniqueness key is
// the lowercased, trimmed Name.
type PropertyEntry struct {
	Name        string         `json:"name"`
	Domain      string         `json:"domain,omitempty"`
	Range       string         `json:"range,omitempty"`
	Description string         `json:"description,omitempty"`
	Origin      string         `json:"origin,omitempty"`
	Evidence    []dto.Evidence `json:"evidence,omitempty"`
}

// EventEntry is a single event type. Uniqueness key is the lowercased,
// trimmed Name.
type EventEntry struct {
	Name     string         `json:"name"`
	Actors   []string       `json:"actors,omitempty"`
	Effects  []string       `json:"effects,omitempty"`
	Origin   string         `json:"origin,omitempty"`
	Evidence []dto.Evidence `json:"evidence,omitempty"`
}

// Alias groups names believed to denote the same concept.
type Alias struct {
	Names     []string `json:"names"`
	Rationale string   `json:"rationale,omitempty"`
}

// Card is the canonical, versioned ontology artifact (§3). Field order
// matches the alphabetical key order required of the serialized form
// (§6.3: "pretty-printed with sorted keys").
type Card struct {
	Aliases            []Alias         `json:"aliases"`
	Classes            []ClassEntry    `json:"classes"`
	DatatypeProperties []PropertyEntry `json:"datatype_properties"`
	Events             []EventEntry    `json:"events"`
	Namespace          string          `json:"namespace"`
	ObjectProperties   []PropertyEntry `json:"object_properties"`
	Version            string          `json:"version"`
	Warnings           []string        `json:"warnings"`
}

// New returns an empty Card with the given namespace (defaults to
// config.DefaultNamespace's value when empty is not this package's
// concern — callers pass the namespace explicitly, per the "explicit
// configuration record" design note in §9).
func New(namespace string) Card {
	return Card{Namespace: namespace}
}
