// Package turtleio is the canonical Turtle reader/writer shared by the
// Schema Card emitter (§4.5) and the instance materializer (§4.6), and
// used by the baseline importer (§4.4) to parse catalog OWL/RDFS files.
//
// No Turtle/RDF library was found anywhere in the reference corpus this
// module was built from, so this is a hand-rolled subset: prefix
// declarations plus subject ; predicate object , object . blocks, which
// covers the declarative OWL/RDFS shape (class/property declarations,
// rdfs:label, rdfs:domain/range) this pipeline actually reads and writes.
// It does not support nested blank-node property lists, collections, or
// the full Turtle grammar.
package turtleio

import (
	"fmt"
	"strings"
)

// TermKind discriminates the three Turtle term shapes this subset handles.
type TermKind int

const (
	KindIRI TermKind = iota
	KindLiteral
	KindBlankNode
)

// RDFType is the full IRI rdf:type expands to; the "a" keyword shorthand
// is expanded to this during parsing and contracted back to "a" on write.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Term is a single Turtle subject, predicate, or object.
type Term struct {
	Kind     TermKind
	Value    string // full IRI, blank-node label ("_:b0"), or literal text
	Datatype string // full IRI of a literal's ^^datatype, empty if none/xsd:string implied
}

// IRI builds an IRI term.
func IRI(v string) Term { return Term{Kind: KindIRI, Value: v} }

// Literal builds a plain or typed literal term.
func Literal(v, datatype string) Term { return Term{Kind: KindLiteral, Value: v, Datatype: datatype} }

// BlankNode builds a blank-node term. label must already carry the "_:" prefix.
func BlankNode(label string) Term { return Term{Kind: KindBlankNode, Value: label} }

// Triple is a single RDF statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Document is a parsed Turtle file: its prefix table and flattened triples.
type Document struct {
	Prefixes map[string]string // prefix -> namespace IRI
	Triples  []Triple
}

// LocalName extracts the fragment of an IRI after '#' or, failing that,
// after the last '/' (§4.4: "the local name ... becomes the class name").
func LocalName(iri string) string {
	if i := strings.LastIndexByte(iri, '#'); i >= 0 {
		return iri[i+1:]
	}
	if i := strings.LastIndexByte(iri, '/'); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// IsIdentifier reports whether a local name is a valid Go-style identifier
// (letters, digits, underscore, not starting with a digit) — used to skip
// classes/properties with non-identifier local names (§4.4).
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}

// splitTopLevel splits s on sep, ignoring occurrences inside double-quoted
// strings or angle-bracketed IRIs.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	inString := false
	inIRI := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
			continue
		case inString && c == '\\':
			cur.WriteByte(c)
			escaped = true
			continue
		case c == '"' && !inIRI:
			inString = !inString
			cur.WriteByte(c)
			continue
		case c == '<' && !inString:
			inIRI = true
			cur.WriteByte(c)
			continue
		case c == '>' && inIRI:
			inIRI = false
			cur.WriteByte(c)
			continue
		case c == sep && !inString && !inIRI:
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		default:
			cur.WriteByte(c)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		parts = append(parts, cur.String())
	}
	return parts
}

// tokenizeTerms splits a space-separated term list that may itself contain
// quoted literals with embedded spaces and datatype/language suffixes.
func tokenizeTerms(s string) []string {
	var tokens []string
	var cur strings.Builder
	inString := false
	inIRI := false
	escaped := false
	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			tokens = append(tokens, t)
		}
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case inString && c == '\\':
			cur.WriteByte(c)
			escaped = true
		case c == '"' && !inIRI:
			inString = !inString
			cur.WriteByte(c)
		case c == '<' && !inString:
			inIRI = true
			cur.WriteByte(c)
		case c == '>' && inIRI:
			inIRI = false
			cur.WriteByte(c)
		case c == ' ' && !inString && !inIRI:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	// A literal's ^^<iri> or ^^prefix:local suffix that is separated from the
	// literal by whitespace comes out of the loop above as its own token;
	// glue it back onto the preceding token. An @lang suffix is only kept
	// with its literal when it follows without a space.
	merged := tokens[:0]
	for _, tok := range tokens {
		if len(merged) > 0 && strings.HasPrefix(tok, "^^") {
			merged[len(merged)-1] = merged[len(merged)-1] + tok
			continue
		}
		merged = append(merged, tok)
	}
	return merged
}

// parseTerm resolves a single token to a Term using the prefix table.
func parseTerm(tok string, prefixes map[string]string) (Term, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case tok == "a":
		return IRI(RDFType), nil
	case strings.HasPrefix(tok, "_:"):
		return BlankNode(tok), nil
	case strings.HasPrefix(tok, "<") && strings.Contains(tok, ">"):
		end := strings.IndexByte(tok, '>')
		return IRI(tok[1:end]), nil
	case strings.HasPrefix(tok, "\""):
		return parseLiteralToken(tok, prefixes)
	default:
		return expandPrefixed(tok, prefixes)
	}
}

func expandPrefixed(tok string, prefixes map[string]string) (Term, error) {
	i := strings.IndexByte(tok, ':')
	if i < 0 {
		return Term{}, fmt.Errorf("unrecognized term %q", tok)
	}
	prefix, local := tok[:i], tok[i+1:]
	ns, ok := prefixes[prefix]
	if !ok {
		return Term{}, fmt.Errorf("undeclared prefix %q in term %q", prefix, tok)
	}
	return IRI(ns + local), nil
}

func parseLiteralToken(tok string, prefixes map[string]string) (Term, error) {
	// tok looks like "..."  or "..."^^xsd:type  or "..."^^<iri> or "..."@en
	end := strings.LastIndexByte(tok, '"')
	if end <= 0 {
		return Term{}, fmt.Errorf("malformed literal %q", tok)
	}
	raw := tok[1:end]
	raw = strings.ReplaceAll(raw, `\"`, `"`)
	raw = strings.ReplaceAll(raw, `\n`, "\n")
	raw = strings.ReplaceAll(raw, `\\`, `\`)
	suffix := tok[end+1:]
	datatype := ""
	if strings.HasPrefix(suffix, "^^") {
		dtTok := suffix[2:]
		dtTerm, err := parseTerm(dtTok, prefixes)
		if err != nil {
			return Term{}, err
		}
		datatype = dtTerm.Value
	}
	return Literal(raw, datatype), nil
}

// ParseDocument parses a Turtle document per this package's supported
// subset (prefix declarations plus flat subject ; predicate object lists).
func ParseDocument(data []byte) (Document, error) {
	doc := Document{Prefixes: map[string]string{}}
	text := string(data)

	for _, stmt := range splitTopLevel(text, '.') {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if strings.HasPrefix(stmt, "@prefix") {
			rest := strings.TrimSpace(strings.TrimPrefix(stmt, "@prefix"))
			parts := tokenizeTerms(rest)
			if len(parts) != 2 {
				return Document{}, fmt.Errorf("malformed @prefix statement: %q", stmt)
			}
			prefix := strings.TrimSuffix(parts[0], ":")
			iri := strings.Trim(parts[1], "<>")
			doc.Prefixes[prefix] = iri
			continue
		}
		if strings.HasPrefix(stmt, "@base") {
			continue
		}

		groups := splitTopLevel(stmt, ';')
		if len(groups) == 0 {
			continue
		}
		subjTokens := tokenizeTerms(groups[0])
		if len(subjTokens) < 3 {
			return Document{}, fmt.Errorf("malformed statement: %q", stmt)
		}
		subject, err := parseTerm(subjTokens[0], doc.Prefixes)
		if err != nil {
			return Document{}, err
		}
		if err := parsePredicateObjectList(&doc, subject, strings.Join(subjTokens[1:], " ")); err != nil {
			return Document{}, err
		}
		for _, g := range groups[1:] {
			if err := parsePredicateObjectList(&doc, subject, g); err != nil {
				return Document{}, err
			}
		}
	}
	return doc, nil
}

func parsePredicateObjectList(doc *Document, subject Term, rest string) error {
	objGroups := splitTopLevel(rest, ',')
	if len(objGroups) == 0 {
		return nil
	}
	first := tokenizeTerms(objGroups[0])
	if len(first) < 2 {
		return fmt.Errorf("malformed predicate-object list: %q", rest)
	}
	predTok := first[0]
	pred, err := parseTerm(predTok, doc.Prefixes)
	if err != nil {
		return err
	}
	objTok := strings.Join(first[1:], " ")
	obj, err := parseTerm(objTok, doc.Prefixes)
	if err != nil {
		return err
	}
	doc.Triples = append(doc.Triples, Triple{Subject: subject, Predicate: pred, Object: obj})

	for _, g := range objGroups[1:] {
		toks := tokenizeTerms(g)
		if len(toks) == 0 {
			continue
		}
		obj, err := parseTerm(strings.Join(toks, " "), doc.Prefixes)
		if err != nil {
			return err
		}
		doc.Triples = append(doc.Triples, Triple{Subject: subject, Predicate: pred, Object: obj})
	}
	return nil
}
