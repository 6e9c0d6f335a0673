package materialize

import (
	"strings"
	"testing"

	"ontorag/internal/dto"
	"ontorag/internal/schema"
)

func testCard() schema.Card {
	return schema.Card{
		Namespace: "http://ontorag.local/ns/",
		Classes:   []schema.ClassEntry{{Name: "Person", Origin: "induced"}},
		DatatypeProperties: []schema.PropertyEntry{
			{Name: "email", Range: string(schema.RangeString), Origin: "induced"},
			{Name: "age", Range: string(schema.RangeInteger), Origin: "induced"},
		},
		ObjectProperties: []schema.PropertyEntry{
			{Name: "knows", Domain: "Person", Range: "Person", Origin: "induced"},
		},
	}
}

func TestMaterialize_InstanceWithDatatypeFact_SeedScenario5(t *testing.T) {
	card := testCard()
	instances := []Proposal{
		{
			LocalID:        "p1",
			Class:          "Person",
			DatatypeValues: map[string]string{"email": "a@b.c"},
			ObjectValues:   map[string]string{},
			Evidence:       []dto.Evidence{{ChunkID: "c1", Quote: "Alice's email is a@b.c"}},
		},
	}
	res := Materialize(card, instances)
	out := string(res.Turtle)

	if !strings.Contains(out, "ns:Person/p1") {
		t.Fatalf("expected subject IRI in output:\n%s", out)
	}
	if !strings.Contains(out, "a ns:Person") {
		t.Fatalf("expected rdf:type triple in output:\n%s", out)
	}
	if !strings.Contains(out, `ns:email "a@b.c"^^xsd:string`) {
		t.Fatalf("expected typed email literal in output:\n%s", out)
	}
	if !strings.Contains(out, "prov:Entity") || !strings.Contains(out, "<chunk:c1>") || !strings.Contains(out, `prov:value "Alice's email is a@b.c"`) {
		t.Fatalf("expected mention node in output:\n%s", out)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
}

func TestMaterialize_UnknownClassSkipsInstanceWithWarning_SeedScenario6(t *testing.T) {
	card := testCard()
	instances := []Proposal{
		{LocalID: "a1", Class: "Alien", DatatypeValues: map[string]string{}, ObjectValues: map[string]string{}},
	}
	res := Materialize(card, instances)
	if len(res.Turtle) != 0 && strings.Contains(string(res.Turtle), "a1") {
		t.Fatalf("expected no triples for unknown-class instance, got:\n%s", res.Turtle)
	}
	found := false
	for _, w := range res.Warnings {
		if w == "instance a1: unknown class Alien" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown-class warning, got %v", res.Warnings)
	}
}

func TestMaterialize_UnparseableIntegerFallsBackToStringWithWarning(t *testing.T) {
	card := testCard()
	instances := []Proposal{
		{LocalID: "p1", Class: "Person", DatatypeValues: map[string]string{"age": "not-a-number"}, ObjectValues: map[string]string{}},
	}
	res := Materialize(card, instances)
	out := string(res.Turtle)
	if !strings.Contains(out, `ns:age "not-a-number"^^xsd:string`) {
		t.Fatalf("expected fallback to xsd:string, got:\n%s", out)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a cast-failure warning")
	}
}

func TestMaterialize_ObjectPropertyResolvesTargetAcrossInstances(t *testing.T) {
	card := testCard()
	instances := []Proposal{
		{LocalID: "p1", Class: "Person", DatatypeValues: map[string]string{}, ObjectValues: map[string]string{"knows": "p2"}},
		{LocalID: "p2", Class: "Person", DatatypeValues: map[string]string{}, ObjectValues: map[string]string{}},
	}
	res := Materialize(card, instances)
	out := string(res.Turtle)
	if !strings.Contains(out, "ns:knows ns:Person/p2") {
		t.Fatalf("expected resolved object-property triple, got:\n%s", out)
	}
}

func TestMaterialize_IsDeterministicAcrossRuns(t *testing.T) {
	card := testCard()
	instances := []Proposal{
		{
			LocalID:        "p1",
			Class:          "Person",
			DatatypeValues: map[string]string{"email": "a@b.c"},
			ObjectValues:   map[string]string{"knows": "p2"},
			Evidence:       []dto.Evidence{{ChunkID: "c1", Quote: "Alice's email is a@b.c"}},
		},
		{LocalID: "p2", Class: "Person", DatatypeValues: map[string]string{}, ObjectValues: map[string]string{}},
	}

	first := Materialize(card, instances)
	second := Materialize(card, instances)

	if string(first.Turtle) != string(second.Turtle) {
		t.Fatalf("expected identical output across runs, got:\n%s\n---\n%s", first.Turtle, second.Turtle)
	}
}

func TestMaterialize_UnresolvedObjectTargetWarnsAndSkipsTriple(t *testing.T) {
	card := testCard()
	instances := []Proposal{
		{LocalID: "p1", Class: "Person", DatatypeValues: map[string]string{}, ObjectValues: map[string]string{"knows": "ghost"}},
	}
	res := Materialize(card, instances)
	if strings.Contains(string(res.Turtle), "ns:knows") {
		t.Fatalf("expected no knows triple emitted, got:\n%s", res.Turtle)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected an unresolved-target warning")
	}
}
