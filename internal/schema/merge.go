package schema

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ontorag/internal/dto"
	"ontorag/internal/proposal"
)

// rangeAliases is the fixed mapping used to normalize a proposed datatype
// range to one of the Card's recognized ranges (§4.3).
var rangeAliases = map[string]Range{
	"str": RangeString, "text": RangeString, "string": RangeString,
	"int": RangeInteger, "integer": RangeInteger,
	"float": RangeDecimal, "number": RangeDecimal, "decimal": RangeDecimal,
	"bool": RangeBoolean, "boolean": RangeBoolean,
	"date": RangeDate,
	"datetime": RangeDateTime, "timestamp": RangeDateTime, "datetime_": RangeDateTime,
	"url": RangeAnyURI, "uri": RangeAnyURI, "anyuri": RangeAnyURI,
}

// NormalizeRange maps a free-form range hint to one of the Card's
// recognized ranges. ok is false when the input did not match any known
// alias and the caller should record a SchemaWarning.
func NormalizeRange(raw string) (norm Range, ok bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if r, found := rangeAliases[key]; found {
		return r, true
	}
	if ValidRanges[Range(key)] {
		return Range(key), true
	}
	return RangeString, false
}

// classTable is the working, mutable representation of a Card's class set
// during a merge pass, keyed by lowercased trimmed name.
type classTable struct {
	order   []string
	entries map[string]*ClassEntry
}

func newClassTable(prior []ClassEntry) *classTable {
	t := &classTable{entries: map[string]*ClassEntry{}}
	for i := range prior {
		t.upsertExisting(prior[i])
	}
	return t
}

func classKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (t *classTable) upsertExisting(c ClassEntry) {
	key := classKey(c.Name)
	cp := c
	if _, ok := t.entries[key]; !ok {
		t.order = append(t.order, key)
	}
	t.entries[key] = &cp
}

func (t *classTable) has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

func (t *classTable) applyProposal(cp proposal.ClassProposal) {
	key := classKey(cp.Name)
	existing, ok := t.entries[key]
	if !ok {
		t.order = append(t.order, key)
		t.entries[key] = &ClassEntry{
			Name:        cp.Name,
			Description: cp.Description,
			Origin:      OriginInduced,
			Evidence:    dedupEvidence(nil, cp.Evidence),
		}
		return
	}
	existing.Description = longerWins(existing.Description, cp.Description)
	existing.Evidence = dedupEvidence(existing.Evidence, cp.Evidence)
}

func (t *classTable) sorted() []ClassEntry {
	keys := append([]string(nil), t.order...)
	sort.Strings(keys)
	out := make([]ClassEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, *t.entries[k])
	}
	return out
}

// propertyTable is shared by datatype and object property merging; the two
// differ only in how Range is validated/normalized, handled by the caller.
type propertyTable struct {
	order   []string
	entries map[string]*PropertyEntry
}

func newPropertyTable(prior []PropertyEntry) *propertyTable {
	t := &propertyTable{entries: map[string]*PropertyEntry{}}
	for i := range prior {
		key := classKey(prior[i].Name)
		cp := prior[i]
		t.entries[key] = &cp
		t.order = append(t.order, key)
	}
	return t
}

func (t *propertyTable) sorted() []PropertyEntry {
	keys := append([]string(nil), t.order...)
	sort.Strings(keys)
	out := make([]PropertyEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, *t.entries[k])
	}
	return out
}

func longerWins(prior, next string) string {
	if len(next) > len(prior) {
		return next
	}
	return prior
}

func dedupEvidence(prior, next []dto.Evidence) []dto.Evidence {
	m := map[string]dto.Evidence{}
	for _, e := range prior {
		m[e.ChunkID+"\x00"+e.Quote] = e
	}
	for _, e := range next {
		m[e.ChunkID+"\x00"+e.Quote] = e
	}
	out := make([]dto.Evidence, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChunkID != out[j].ChunkID {
			return out[i].ChunkID < out[j].ChunkID
		}
		return out[i].Quote < out[j].Quote
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// Merge deterministically folds proposal q into prior card p, returning the
// next Schema Card p' (§4.3). now supplies the new version timestamp; it is
// the only source of non-determinism in an otherwise pure function (§5, §8).
func Merge(p Card, q proposal.Proposal, now time.Time) Card {
	var warnings []string
	warningSeen := map[string]bool{}
	addWarning := func(w string) {
		if w == "" || warningSeen[w] {
			return
		}
		warningSeen[w] = true
		warnings = append(warnings, w)
	}
	for _, w := range p.Warnings {
		addWarning(w)
	}
	for _, w := range q.Warnings {
		addWarning(w)
	}

	classes := newClassTable(p.Classes)
	for _, cp := range q.ProposedAdditions.Classes {
		classes.applyProposal(cp)
	}

	dtProps := newPropertyTable(p.DatatypeProperties)
	for _, pp := range q.ProposedAdditions.DatatypeProperties {
		key := classKey(pp.Name)
		norm, ok := NormalizeRange(pp.Range)
		if !ok {
			addWarning(fmt.Sprintf("datatype property %s: unrecognized range %q normalized to string", pp.Name, pp.Range))
		}
		existing, found := dtProps.entries[key]
		if !found {
			dtProps.order = append(dtProps.order, key)
			dtProps.entries[key] = &PropertyEntry{
				Name:        pp.Name,
				Domain:      pp.Domain,
				Range:       string(norm),
				Description: pp.Description,
				Origin:      OriginInduced,
				Evidence:    dedupEvidence(nil, pp.Evidence),
			}
			continue
		}
		if existing.Domain != pp.Domain || existing.Range != string(norm) {
			addWarning(fmt.Sprintf("datatype property %s: conflicting domain/range across occurrences", pp.Name))
		}
		existing.Description = longerWins(existing.Description, pp.Description)
		existing.Evidence = dedupEvidence(existing.Evidence, pp.Evidence)
	}

	objProps := newPropertyTable(p.ObjectProperties)
	for _, pp := range q.ProposedAdditions.ObjectProperties {
		key := classKey(pp.Name)
		existing, found := objProps.entries[key]
		if !found {
			objProps.order = append(objProps.order, key)
			objProps.entries[key] = &PropertyEntry{
				Name:        pp.Name,
				Domain:      pp.Domain,
				Range:       pp.Range,
				Description: pp.Description,
				Origin:      OriginInduced,
				Evidence:    dedupEvidence(nil, pp.Evidence),
			}
			continue
		}
		if existing.Domain != pp.Domain || existing.Range != pp.Range {
			addWarning(fmt.Sprintf("object property %s: conflicting domain/range across occurrences", pp.Name))
		}
		existing.Description = longerWins(existing.Description, pp.Description)
		existing.Evidence = dedupEvidence(existing.Evidence, pp.Evidence)
	}

	events := newEventTable(p.Events)
	for _, ep := range q.ProposedAdditions.Events {
		events.applyProposal(ep)
	}

	finalClasses := classes.sorted()
	classSet := map[string]bool{}
	for _, c := range finalClasses {
		classSet[classKey(c.Name)] = true
	}
	checkClassRef := func(kind, propName, ref string) {
		if ref == "" {
			return
		}
		if !classSet[classKey(ref)] {
			addWarning(fmt.Sprintf("%s property %s references unknown class %s", kind, propName, ref))
		}
	}
	finalObjProps := objProps.sorted()
	for _, pe := range finalObjProps {
		checkClassRef("object", pe.Name, pe.Domain)
		checkClassRef("object", pe.Name, pe.Range)
	}
	finalDtProps := dtProps.sorted()
	for _, pe := range finalDtProps {
		checkClassRef("datatype", pe.Name, pe.Domain)
	}

	aliases := newAliasSet(p.Aliases)
	for _, a := range q.AliasOrMergeSuggestions {
		aliases.add(a)
	}
	for _, r := range q.ReuseInsteadOfCreate {
		aliases.add(proposal.AliasSuggestion{
			Names:     []string{r.Proposed, r.Reuse},
			Rationale: r.Rationale,
		})
	}

	return Card{
		Aliases:            aliases.list(),
		Classes:            finalClasses,
		DatatypeProperties: finalDtProps,
		Events:             events.sorted(),
		Namespace:          chooseNamespace(p.Namespace, q),
		ObjectProperties:   finalObjProps,
		Version:            now.UTC().Format(time.RFC3339),
		Warnings:           warnings,
	}
}

func chooseNamespace(prior string, _ proposal.Proposal) string {
	// The proposal schema (§6.1) carries no namespace field; the namespace
	// is carried forward from the prior card (or defaulted by the caller
	// for the first merge of an empty card).
	return prior
}

type eventTable struct {
	order   []string
	entries map[string]*EventEntry
}

func newEventTable(prior []EventEntry) *eventTable {
	t := &eventTable{entries: map[string]*EventEntry{}}
	for i := range prior {
		key := classKey(prior[i].Name)
		cp := prior[i]
		t.entries[key] = &cp
		t.order = append(t.order, key)
	}
	return t
}

func (t *eventTable) applyProposal(ep proposal.EventProposal) {
	key := classKey(ep.Name)
	existing, ok := t.entries[key]
	if !ok {
		t.order = append(t.order, key)
		t.entries[key] = &EventEntry{
			Name:     ep.Name,
			Actors:   append([]string(nil), ep.Actors...),
			Effects:  append([]string(nil), ep.Effects...),
			Origin:   OriginInduced,
			Evidence: dedupEvidence(nil, ep.Evidence),
		}
		return
	}
	existing.Actors = unionOrdered(existing.Actors, ep.Actors)
	existing.Effects = unionOrdered(existing.Effects, ep.Effects)
	existing.Evidence = dedupEvidence(existing.Evidence, ep.Evidence)
}

func (t *eventTable) sorted() []EventEntry {
	keys := append([]string(nil), t.order...)
	sort.Strings(keys)
	out := make([]EventEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, *t.entries[k])
	}
	return out
}

func unionOrdered(existing, next []string) []string {
	seen := map[string]bool{}
	for _, v := range existing {
		seen[v] = true
	}
	out := existing
	for _, v := range next {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

type aliasSet struct {
	order   []string
	entries map[string]proposal.AliasSuggestion
}

func newAliasSet(prior []Alias) *aliasSet {
	s := &aliasSet{entries: map[string]proposal.AliasSuggestion{}}
	for _, a := range prior {
		s.add(proposal.AliasSuggestion{Names: a.Names, Rationale: a.Rationale})
	}
	return s
}

func (s *aliasSet) add(a proposal.AliasSuggestion) {
	if len(a.Names) == 0 {
		return
	}
	cp := append([]string(nil), a.Names...)
	sort.Strings(cp)
	key := strings.Join(cp, "\x00")
	if _, ok := s.entries[key]; ok {
		return
	}
	s.entries[key] = a
	s.order = append(s.order, key)
}

// list returns the aliases in append order: §3 describes the alias list as
// order-preserving and §4.3 appends new aliases rather than re-sorting
// existing ones, so (unlike classes/properties/events, which are keyed and
// sorted by name) this table keeps insertion order instead of sorting.
func (s *aliasSet) list() []Alias {
	out := make([]Alias, 0, len(s.order))
	for _, k := range s.order {
		a := s.entries[k]
		out = append(out, Alias{Names: a.Names, Rationale: a.Rationale})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
