// Package baseline parses OWL/RDFS Turtle catalog files into Schema Card
// fragments (§4.4) and manages the catalog manifest that tracks which
// baselines are registered (FOAF, PROV-O, Schema.org, etc.).
package baseline

import (
	"fmt"
	"sort"
	"strings"

	"ontorag/internal/schema"
	"ontorag/internal/turtleio"
)

const (
	owlClass            = "http://www.w3.org/2002/07/owl#Class"
	rdfsClass           = "http://www.w3.org/2000/01/rdf-schema#Class"
	owlObjectProperty   = "http://www.w3.org/2002/07/owl#ObjectProperty"
	owlDatatypeProperty = "http://www.w3.org/2002/07/owl#DatatypeProperty"
	rdfsLabel           = "http://www.w3.org/2000/01/rdf-schema#label"
	rdfsComment         = "http://www.w3.org/2000/01/rdf-schema#comment"
	rdfsDomain          = "http://www.w3.org/2000/01/rdf-schema#domain"
	rdfsRange           = "http://www.w3.org/2000/01/rdf-schema#range"
)

// Fragment is the Schema Card subset extracted from one baseline file,
// ready to be folded into a Card via Apply.
type Fragment struct {
	Classes            []schema.ClassEntry
	ObjectProperties   []schema.PropertyEntry
	DatatypeProperties []schema.PropertyEntry
	Warnings           []string
}

// Import parses ttl (already-read file bytes) and extracts classes and
// properties per the §4.4 rules, tagging every entry's Origin with
// originKey (e.g. "foaf").
func Import(ttl []byte, originKey string) (Fragment, error) {
	doc, err := turtleio.ParseDocument(ttl)
	if err != nil {
		return Fragment{}, fmt.Errorf("parsing baseline turtle: %w", err)
	}

	type subjectInfo struct {
		kind    string // "class", "object_property", "datatype_property", ""
		label   string
		comment string
		domain  string
		rng     string
	}
	subjects := map[string]*subjectInfo{}
	var order []string
	get := func(iri string) *subjectInfo {
		si, ok := subjects[iri]
		if !ok {
			si = &subjectInfo{}
			subjects[iri] = si
			order = append(order, iri)
		}
		return si
	}

	for _, t := range doc.Triples {
		if t.Subject.Kind != turtleio.KindIRI {
			continue // blank-node subjects excluded per §4.4
		}
		si := get(t.Subject.Value)
		switch t.Predicate.Value {
		case turtleio.RDFType:
			switch t.Object.Value {
			case owlClass, rdfsClass:
				si.kind = "class"
			case owlObjectProperty:
				si.kind = "object_property"
			case owlDatatypeProperty:
				si.kind = "datatype_property"
			}
		case rdfsLabel:
			si.label = t.Object.Value
		case rdfsComment:
			si.comment = t.Object.Value
		case rdfsDomain:
			si.domain = turtleio.LocalName(t.Object.Value)
		case rdfsRange:
			si.rng = t.Object.Value
		}
	}

	sort.Strings(order)

	var frag Fragment
	warningSeen := map[string]bool{}
	addWarning := func(w string) {
		if warningSeen[w] {
			return
		}
		warningSeen[w] = true
		frag.Warnings = append(frag.Warnings, w)
	}

	for _, iri := range order {
		si := subjects[iri]
		if si.kind == "" {
			continue
		}
		name := turtleio.LocalName(iri)
		if !turtleio.IsIdentifier(name) {
			addWarning(fmt.Sprintf("baseline %s: skipped %s %q: non-identifier local name", originKey, si.kind, name))
			continue
		}
		description := si.label
		if description == "" {
			description = si.comment
		} else if si.comment != "" && si.comment != si.label {
			description = si.comment
		}

		switch si.kind {
		case "class":
			frag.Classes = append(frag.Classes, schema.ClassEntry{
				Name:        name,
				Description: description,
				Origin:      originKey,
			})
		case "object_property":
			frag.ObjectProperties = append(frag.ObjectProperties, schema.PropertyEntry{
				Name:        name,
				Domain:      si.domain,
				Range:       turtleio.LocalName(si.rng),
				Description: description,
				Origin:      originKey,
			})
		case "datatype_property":
			norm, ok := schema.NormalizeRange(xsdLocalName(si.rng))
			if !ok {
				addWarning(fmt.Sprintf("baseline %s: datatype property %s: unrecognized range %q normalized to string", originKey, name, si.rng))
			}
			frag.DatatypeProperties = append(frag.DatatypeProperties, schema.PropertyEntry{
				Name:        name,
				Domain:      si.domain,
				Range:       string(norm),
				Description: description,
				Origin:      originKey,
			})
		}
	}

	return frag, nil
}

// xsdLocalName maps a full XSD range IRI (or already-local name) to the
// bare local name NormalizeRange expects ("string", "int", ...).
func xsdLocalName(rangeIRI string) string {
	if rangeIRI == "" {
		return ""
	}
	local := turtleio.LocalName(rangeIRI)
	return strings.ToLower(local)
}

// Apply folds a Fragment into a Card, preserving Origin immutability: a
// name already present in card keeps its existing origin and metadata,
// per the merger's invariant 2 (§3) extended to baseline loading.
func Apply(card schema.Card, frag Fragment) schema.Card {
	existingClass := map[string]bool{}
	for _, c := range card.Classes {
		existingClass[strings.ToLower(strings.TrimSpace(c.Name))] = true
	}
	for _, c := range frag.Classes {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if existingClass[key] {
			continue
		}
		existingClass[key] = true
		card.Classes = append(card.Classes, c)
	}

	existingObjProp := map[string]bool{}
	for _, p := range card.ObjectProperties {
		existingObjProp[strings.ToLower(strings.TrimSpace(p.Name))] = true
	}
	for _, p := range frag.ObjectProperties {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if existingObjProp[key] {
			continue
		}
		existingObjProp[key] = true
		card.ObjectProperties = append(card.ObjectProperties, p)
	}

	existingDtProp := map[string]bool{}
	for _, p := range card.DatatypeProperties {
		existingDtProp[strings.ToLower(strings.TrimSpace(p.Name))] = true
	}
	for _, p := range frag.DatatypeProperties {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if existingDtProp[key] {
			continue
		}
		existingDtProp[key] = true
		card.DatatypeProperties = append(card.DatatypeProperties, p)
	}

	sort.Slice(card.Classes, func(i, j int) bool {
		return strings.ToLower(card.Classes[i].Name) < strings.ToLower(card.Classes[j].Name)
	})
	sort.Slice(card.ObjectProperties, func(i, j int) bool {
		return strings.ToLower(card.ObjectProperties[i].Name) < strings.ToLower(card.ObjectProperties[j].Name)
	})
	sort.Slice(card.DatatypeProperties, func(i, j int) bool {
		return strings.ToLower(card.DatatypeProperties[i].Name) < strings.ToLower(card.DatatypeProperties[j].Name)
	})

	card.Warnings = append(append([]string(nil), card.Warnings...), frag.Warnings...)
	return card
}
