package schema

import (
	"encoding/json"
	"testing"
	"time"

	"ontorag/internal/dto"
	"ontorag/internal/proposal"
)

var fixedNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMerge_EmptyMerge_SeedScenario1(t *testing.T) {
	p := New("http://ontorag.local/ns/")
	q := proposal.Proposal{
		ProposedAdditions: proposal.ProposedAdditions{
			Classes: []proposal.ClassProposal{
				{Name: "Person", Description: "A human", Evidence: []dto.Evidence{{ChunkID: "c1", Quote: "Alice is a person"}}},
			},
		},
	}

	got := Merge(p, q, fixedNow)
	if len(got.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(got.Classes))
	}
	c := got.Classes[0]
	if c.Name != "Person" || c.Description != "A human" || c.Origin != "induced" {
		t.Fatalf("unexpected class entry: %+v", c)
	}
	if len(c.Evidence) != 1 || c.Evidence[0] != (dto.Evidence{ChunkID: "c1", Quote: "Alice is a person"}) {
		t.Fatalf("unexpected evidence: %+v", c.Evidence)
	}
}

func TestMerge_CaseInsensitiveDedup_SeedScenario2(t *testing.T) {
	p := Card{
		Namespace: "http://ontorag.local/ns/",
		Classes:   []ClassEntry{{Name: "Person", Origin: "foaf"}},
	}
	q := proposal.Proposal{
		ProposedAdditions: proposal.ProposedAdditions{
			Classes: []proposal.ClassProposal{
				{Name: "person", Description: "Longer description text here"},
			},
		},
	}

	got := Merge(p, q, fixedNow)
	if len(got.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(got.Classes))
	}
	c := got.Classes[0]
	if c.Name != "Person" {
		t.Fatalf("expected first-seen casing 'Person', got %q", c.Name)
	}
	if c.Origin != "foaf" {
		t.Fatalf("expected origin preserved as 'foaf', got %q", c.Origin)
	}
	if c.Description != "Longer description text here" {
		t.Fatalf("expected longer description to win, got %q", c.Description)
	}
}

func TestMerge_UnknownDomainWarning_SeedScenario3(t *testing.T) {
	p := Card{
		Namespace: "http://ontorag.local/ns/",
		Classes:   []ClassEntry{{Name: "Person", Origin: "induced"}},
	}
	q := proposal.Proposal{
		ProposedAdditions: proposal.ProposedAdditions{
			ObjectProperties: []proposal.ObjectPropertyProposal{
				{Name: "knows", Domain: "Ghost", Range: "Person"},
			},
		},
	}

	got := Merge(p, q, fixedNow)
	if len(got.ObjectProperties) != 1 {
		t.Fatalf("expected property retained, got %d", len(got.ObjectProperties))
	}
	want := "object property knows references unknown class Ghost"
	found := false
	for _, w := range got.Warnings {
		if w == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected warning %q, got %v", want, got.Warnings)
	}
}

func TestMerge_RangeNormalization_SeedScenario4(t *testing.T) {
	p := New("http://ontorag.local/ns/")
	q := proposal.Proposal{
		ProposedAdditions: proposal.ProposedAdditions{
			DatatypeProperties: []proposal.DatatypePropertyProposal{
				{Name: "age", Range: "int"},
				{Name: "weirdness", Range: "xyz"},
			},
		},
	}

	got := Merge(p, q, fixedNow)
	byName := map[string]PropertyEntry{}
	for _, pe := range got.DatatypeProperties {
		byName[pe.Name] = pe
	}
	if byName["age"].Range != "integer" {
		t.Fatalf("expected int -> integer, got %q", byName["age"].Range)
	}
	if byName["weirdness"].Range != "string" {
		t.Fatalf("expected xyz -> string, got %q", byName["weirdness"].Range)
	}
	foundWarning := false
	for _, w := range got.Warnings {
		if w == `datatype property weirdness: unrecognized range "xyz" normalized to string` {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatalf("expected range-normalization warning, got %v", got.Warnings)
	}
}

func TestMerge_Determinism(t *testing.T) {
	p := New("http://ontorag.local/ns/")
	q := proposal.Proposal{
		ProposedAdditions: proposal.ProposedAdditions{
			Classes: []proposal.ClassProposal{{Name: "Person", Description: "A human"}},
			ObjectProperties: []proposal.ObjectPropertyProposal{
				{Name: "knows", Domain: "Person", Range: "Person"},
			},
		},
	}

	a := Merge(p, q, fixedNow)
	b := Merge(p, q, fixedNow)
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	if string(ab) != string(bb) {
		t.Fatalf("expected byte-identical merges, got:\n%s\nvs\n%s", ab, bb)
	}
}

func TestMerge_Idempotence(t *testing.T) {
	p := New("http://ontorag.local/ns/")
	q := proposal.Proposal{
		ProposedAdditions: proposal.ProposedAdditions{
			Classes: []proposal.ClassProposal{{
				Name: "Person", Description: "A human",
				Evidence: []dto.Evidence{{ChunkID: "c1", Quote: "Alice is a person"}},
			}},
		},
	}

	once := Merge(p, q, fixedNow)
	twice := Merge(once, q, fixedNow)

	once.Version, twice.Version = "", ""
	ob, _ := json.Marshal(once)
	tb, _ := json.Marshal(twice)
	if string(ob) != string(tb) {
		t.Fatalf("expected idempotent merge (excluding version), got:\n%s\nvs\n%s", ob, tb)
	}
}

func TestMerge_OriginImmutable(t *testing.T) {
	p := Card{
		Namespace: "http://ontorag.local/ns/",
		Classes:   []ClassEntry{{Name: "Person", Origin: "foaf"}},
	}
	q := proposal.Proposal{
		ProposedAdditions: proposal.ProposedAdditions{
			Classes: []proposal.ClassProposal{{Name: "Person", Description: "whatever"}},
		},
	}
	got := Merge(p, q, fixedNow)
	if got.Classes[0].Origin != "foaf" {
		t.Fatalf("expected origin to remain 'foaf', got %q", got.Classes[0].Origin)
	}
}

func TestMerge_EvidencePreservation(t *testing.T) {
	p := New("http://ontorag.local/ns/")
	q1 := proposal.Proposal{ProposedAdditions: proposal.ProposedAdditions{
		Classes: []proposal.ClassProposal{{Name: "Person", Evidence: []dto.Evidence{{ChunkID: "c1", Quote: "q1"}}}},
	}}
	mid := Merge(p, q1, fixedNow)

	q2 := proposal.Proposal{ProposedAdditions: proposal.ProposedAdditions{
		Classes: []proposal.ClassProposal{{Name: "Person", Evidence: []dto.Evidence{{ChunkID: "c2", Quote: "q2"}}}},
	}}
	final := Merge(mid, q2, fixedNow)

	if len(final.Classes[0].Evidence) != 2 {
		t.Fatalf("expected both evidence records preserved, got %+v", final.Classes[0].Evidence)
	}
}

func TestMerge_EventsUnionActorsAndEffects(t *testing.T) {
	p := Card{Namespace: "ns", Events: []EventEntry{{Name: "Acquisition", Actors: []string{"Buyer"}, Effects: []string{"OwnershipChange"}}}}
	q := proposal.Proposal{ProposedAdditions: proposal.ProposedAdditions{
		Events: []proposal.EventProposal{{Name: "acquisition", Actors: []string{"Buyer", "Seller"}, Effects: []string{"OwnershipChange", "Payment"}}},
	}}
	got := Merge(p, q, fixedNow)
	e := got.Events[0]
	if len(e.Actors) != 2 || len(e.Effects) != 2 {
		t.Fatalf("expected unioned actors/effects, got %+v", e)
	}
}

func TestMerge_ReuseHintsBecomeAliasesNotAutoApplied(t *testing.T) {
	p := New("ns")
	q := proposal.Proposal{
		ReuseInsteadOfCreate: []proposal.ReuseHint{
			{Proposed: "Firm", Reuse: "Organization", Rationale: "same concept"},
		},
	}
	got := Merge(p, q, fixedNow)
	if len(got.Classes) != 0 {
		t.Fatalf("expected no class auto-created from reuse hint, got %+v", got.Classes)
	}
	if len(got.Aliases) != 1 {
		t.Fatalf("expected 1 alias suggestion, got %d", len(got.Aliases))
	}
}
