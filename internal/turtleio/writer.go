package turtleio

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// WellKnownPrefixes are the namespaces this module's emitted Turtle always
// declares, regardless of which are used, matching the fixed vocabulary
// §4.5/§4.6 depend on.
var WellKnownPrefixes = map[string]string{
	"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	"owl":  "http://www.w3.org/2002/07/owl#",
	"xsd":  "http://www.w3.org/2001/XMLSchema#",
	"prov": "http://www.w3.org/ns/prov#",
}

// Write renders triples as canonical Turtle: prefixes declared once at the
// top (sorted by prefix), subjects grouped and sorted, triples within a
// subject sorted by predicate then object lexicographically (§4.6).
//
// prefixes supplements WellKnownPrefixes with any module-specific ones
// (e.g. "ns" for the Schema Card's namespace, "onto" for onto:hasMention).
func Write(prefixes map[string]string) *Writer {
	merged := map[string]string{}
	for k, v := range WellKnownPrefixes {
		merged[k] = v
	}
	for k, v := range prefixes {
		merged[k] = v
	}
	return &Writer{prefixes: merged}
}

// Writer accumulates triples and renders them canonically on Bytes().
type Writer struct {
	prefixes map[string]string
	triples  []Triple
}

// Add appends one triple to the graph being built.
func (w *Writer) Add(t Triple) { w.triples = append(w.triples, t) }

// AddAll appends a slice of triples.
func (w *Writer) AddAll(ts []Triple) { w.triples = append(w.triples, ts...) }

// Bytes renders the accumulated triples as canonical Turtle.
func (w *Writer) Bytes() []byte {
	var buf bytes.Buffer

	prefixNames := make([]string, 0, len(w.prefixes))
	for p := range w.prefixes {
		prefixNames = append(prefixNames, p)
	}
	sort.Strings(prefixNames)
	for _, p := range prefixNames {
		fmt.Fprintf(&buf, "@prefix %s: <%s> .\n", p, w.prefixes[p])
	}
	if len(prefixNames) > 0 {
		buf.WriteByte('\n')
	}

	bySubject := map[string][]Triple{}
	var subjects []string
	for _, t := range w.triples {
		key := termKey(t.Subject)
		if _, ok := bySubject[key]; !ok {
			subjects = append(subjects, key)
		}
		bySubject[key] = append(bySubject[key], t)
	}
	sort.Strings(subjects)

	for si, key := range subjects {
		ts := bySubject[key]
		sort.Slice(ts, func(i, j int) bool {
			pi, pj := w.render(ts[i].Predicate), w.render(ts[j].Predicate)
			if pi != pj {
				return pi < pj
			}
			return w.render(ts[i].Object) < w.render(ts[j].Object)
		})
		fmt.Fprintf(&buf, "%s\n", w.render(ts[0].Subject))
		for i, t := range ts {
			sep := " ;"
			if i == len(ts)-1 {
				sep = " ."
			}
			fmt.Fprintf(&buf, "    %s %s%s\n", w.renderPredicate(t.Predicate), w.render(t.Object), sep)
		}
		if si != len(subjects)-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

func termKey(t Term) string { return fmt.Sprintf("%d|%s", t.Kind, t.Value) }

func (w *Writer) renderPredicate(t Term) string {
	if t.Value == RDFType {
		return "a"
	}
	return w.render(t)
}

func (w *Writer) render(t Term) string {
	switch t.Kind {
	case KindBlankNode:
		return t.Value
	case KindLiteral:
		escaped := strings.ReplaceAll(t.Value, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		escaped = strings.ReplaceAll(escaped, "\n", `\n`)
		out := `"` + escaped + `"`
		if t.Datatype != "" {
			out += "^^" + w.compactIRI(t.Datatype)
		}
		return out
	default:
		return w.compactIRI(t.Value)
	}
}

func (w *Writer) compactIRI(iri string) string {
	for prefix, ns := range w.prefixes {
		if strings.HasPrefix(iri, ns) {
			local := iri[len(ns):]
			if turtleLocalNameSafe(local) {
				return prefix + ":" + local
			}
		}
	}
	return "<" + iri + ">"
}

// turtleLocalNameSafe allows '/' so minted instance subjects like
// "Person/p1" still compact against their namespace prefix; this package's
// writer and parser only need to agree with each other, not with the full
// Turtle PN_LOCAL grammar.
func turtleLocalNameSafe(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '#' || r == ' ' || r == '<' || r == '>' {
			return false
		}
	}
	return true
}
