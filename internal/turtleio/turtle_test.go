package turtleio

import (
	"strings"
	"testing"
)

func TestParseDocument_ClassAndProperties(t *testing.T) {
	ttl := `@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .

foaf:Person a owl:Class ;
    rdfs:label "Person" ;
    rdfs:comment "A human being" .

foaf:knows a owl:ObjectProperty ;
    rdfs:domain foaf:Person ;
    rdfs:range foaf:Person .
`
	doc, err := ParseDocument([]byte(ttl))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Triples) != 6 {
		t.Fatalf("expected 6 triples, got %d: %+v", len(doc.Triples), doc.Triples)
	}

	var sawClass, sawLabel, sawDomain bool
	for _, tr := range doc.Triples {
		if tr.Predicate.Value == RDFType && tr.Object.Value == "http://www.w3.org/2002/07/owl#Class" {
			sawClass = true
		}
		if tr.Predicate.Value == "http://www.w3.org/2000/01/rdf-schema#label" && tr.Object.Value == "Person" {
			sawLabel = true
		}
		if tr.Predicate.Value == "http://www.w3.org/2000/01/rdf-schema#domain" && tr.Object.Value == "http://xmlns.com/foaf/0.1/Person" {
			sawDomain = true
		}
	}
	if !sawClass || !sawLabel || !sawDomain {
		t.Fatalf("missing expected triples: class=%v label=%v domain=%v", sawClass, sawLabel, sawDomain)
	}
}

func TestLocalName(t *testing.T) {
	cases := map[string]string{
		"http://xmlns.com/foaf/0.1/Person":            "Person",
		"http://www.w3.org/2002/07/owl#ObjectProperty": "ObjectProperty",
	}
	for iri, want := range cases {
		if got := LocalName(iri); got != want {
			t.Errorf("LocalName(%q) = %q, want %q", iri, got, want)
		}
	}
}

func TestWriteThenParse_RoundTrips(t *testing.T) {
	w := Write(map[string]string{"ns": "http://ontorag.local/ns/"})
	w.Add(Triple{Subject: IRI("http://ontorag.local/ns/Person"), Predicate: IRI(RDFType), Object: IRI("http://www.w3.org/2002/07/owl#Class")})
	w.Add(Triple{Subject: IRI("http://ontorag.local/ns/Person"), Predicate: IRI("http://www.w3.org/2000/01/rdf-schema#label"), Object: Literal("Person", "")})
	w.Add(Triple{Subject: IRI("http://ontorag.local/ns/email"), Predicate: IRI(RDFType), Object: IRI("http://www.w3.org/2002/07/owl#DatatypeProperty")})
	w.Add(Triple{Subject: IRI("http://ontorag.local/ns/email"), Predicate: IRI("http://www.w3.org/2000/01/rdf-schema#range"), Object: IRI("http://www.w3.org/2001/XMLSchema#string")})

	out := w.Bytes()
	if !strings.Contains(string(out), "@prefix ns:") {
		t.Fatalf("expected ns prefix declared, got:\n%s", out)
	}

	doc, err := ParseDocument(out)
	if err != nil {
		t.Fatalf("failed to re-parse emitted turtle: %v\n%s", err, out)
	}
	if len(doc.Triples) != 4 {
		t.Fatalf("expected 4 triples after round trip, got %d: %+v\n%s", len(doc.Triples), doc.Triples, out)
	}
}

func TestWrite_IsDeterministicAcrossRuns(t *testing.T) {
	build := func() []byte {
		w := Write(map[string]string{"ns": "http://ontorag.local/ns/"})
		w.Add(Triple{Subject: IRI("http://ontorag.local/ns/Zebra"), Predicate: IRI(RDFType), Object: IRI("http://www.w3.org/2002/07/owl#Class")})
		w.Add(Triple{Subject: IRI("http://ontorag.local/ns/Apple"), Predicate: IRI(RDFType), Object: IRI("http://www.w3.org/2002/07/owl#Class")})
		return w.Bytes()
	}
	a, b := build(), build()
	if string(a) != string(b) {
		t.Fatalf("expected deterministic output, got:\n%s\nvs\n%s", a, b)
	}
	if strings.Index(string(a), "Apple") > strings.Index(string(a), "Zebra") {
		t.Fatalf("expected subjects sorted lexicographically, got:\n%s", a)
	}
}
