// Package proposal defines the in-memory representation of per-chunk LLM
// proposals (§4.2, §6.1) and the deterministic aggregator that folds many
// of them into one document-level proposal. The LLM returns free-form JSON;
// these types are the tagged records downstream code is converted to at the
// boundary — nothing past this package ever sees an untyped map.
package proposal

import "ontorag/internal/dto"

// ClassProposal is a single proposed ontology class.
type ClassProposal struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Evidence    []dto.Evidence `json:"evidence,omitempty"`
}

// DatatypePropertyProposal is a single proposed datatype property.
type DatatypePropertyProposal struct {
	Name        string         `json:"name"`
	Domain      string         `json:"domain"`
	Range       string         `json:"range"`
	Description string         `json:"description"`
	Evidence    []dto.Evidence `json:"evidence,omitempty"`
}

// ObjectPropertyProposal is a single proposed object property.
type ObjectPropertyProposal struct {
	Name        string         `json:"name"`
	Domain      string         `json:"domain"`
	Range       string         `json:"range"`
	Description string         `json:"description"`
	Evidence    []dto.Evidence `json:"evidence,omitempty"`
}

// EventProposal is a single proposed event type.
type EventProposal struct {
	Name     string         `json:"name"`
	Actors   []string       `json:"actors,omitempty"`
	Effects  []string       `json:"effects,omitempty"`
	Evidence []dto.Evidence `json:"evidence,omitempty"`
}

// ProposedAdditions groups the four proposable collections.
type ProposedAdditions struct {
	Classes            []ClassProposal            `json:"classes"`
	DatatypeProperties []DatatypePropertyProposal `json:"datatype_properties"`
	ObjectProperties   []ObjectPropertyProposal   `json:"object_properties"`
	Events             []EventProposal            `json:"events"`
}

// ReuseHint suggests reusing an existing name instead of creating a new one.
// Per design note §9, these are never auto-applied; they only ever surface
// as alias suggestions.
type ReuseHint struct {
	Proposed  string `json:"proposed"`
	Reuse     string `json:"reuse"`
	Rationale string `json:"rationale"`
}

// AliasSuggestion proposes that a set of names denote the same concept.
type AliasSuggestion struct {
	Names     []string `json:"names"`
	Rationale string   `json:"rationale"`
}

// Proposal is the top-level shape returned by the LLM for a single chunk
// (§6.1) and, after aggregation, for a whole document (§4.2). Unknown
// top-level keys are tolerated by Go's json.Unmarshal, which simply ignores
// them; missing keys leave the corresponding slice nil, which this package
// treats identically to an empty slice.
type Proposal struct {
	ChunkID                 string            `json:"chunk_id,omitempty"`
	ProposedAdditions       ProposedAdditions `json:"proposed_additions"`
	ReuseInsteadOfCreate    []ReuseHint       `json:"reuse_instead_of_create"`
	AliasOrMergeSuggestions []AliasSuggestion `json:"alias_or_merge_suggestions"`
	Warnings                []string          `json:"warnings"`
}
