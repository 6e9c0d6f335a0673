package proposal

import (
	"sort"
	"strings"

	"ontorag/internal/dto"
)

// classEntry/dtPropEntry/objPropEntry/eventEntry carry, alongside the
// surviving proposed value, whether a conflict was ever observed so the
// aggregator can emit a single warning per key.

type classEntry struct {
	val       ClassProposal
	evidence  map[string]dto.Evidence
	conflicts bool
}

type dtPropEntry struct {
	val       DatatypePropertyProposal
	evidence  map[string]dto.Evidence
	conflicts bool
}

type objPropEntry struct {
	val       ObjectPropertyProposal
	evidence  map[string]dto.Evidence
	conflicts bool
}

type eventEntry struct {
	val       EventProposal
	evidence  map[string]dto.Evidence
	conflicts bool
}

func evidenceKey(e dto.Evidence) string { return e.ChunkID + "\x00" + e.Quote }

func unionEvidence(m map[string]dto.Evidence, items []dto.Evidence) {
	for _, e := range items {
		m[evidenceKey(e)] = e
	}
}

func sortedEvidence(m map[string]dto.Evidence) []dto.Evidence {
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

// longerWins returns the description to keep: the new one only if it is
// strictly longer than the prior one (ties: prior wins), per §3 invariant 5.
func longerWins(prior, next string) string {
	if len(next) > len(prior) {
		return next
	}
	return prior
}

// Aggregate folds a finite sequence of per-chunk proposals into one
// document-level proposal (§4.2). Each collection is folded through a union
// keyed by lowercased name, with evidence lists sorted. On a repeated name
// the first-seen name casing, domain/range and actors are kept, so the
// result is independent of input order only when repeated names agree on
// those fields; descriptions of equal length also keep the first seen.
func Aggregate(chunks []Proposal) Proposal {
	classes := map[string]*classEntry{}
	var classOrder []string

	dtProps := map[string]*dtPropEntry{}
	var dtOrder []string

	objProps := map[string]*objPropEntry{}
	var objOrder []string

	events := map[string]*eventEntry{}
	var eventOrder []string

	aliasSet := map[string]AliasSuggestion{}
	reuseSet := map[string]ReuseHint{}
	warningSet := map[string]bool{}
	var warningOrder []string

	addWarning := func(w string) {
		if w == "" || warningSet[w] {
			return
		}
		warningSet[w] = true
		warningOrder = append(warningOrder, w)
	}

	for _, c := range chunks {
		for _, cp := range c.ProposedAdditions.Classes {
			key := strings.ToLower(strings.TrimSpace(cp.Name))
			e, ok := classes[key]
			if !ok {
				e = &classEntry{val: cp, evidence: map[string]dto.Evidence{}}
				classes[key] = e
				classOrder = append(classOrder, key)
			} else {
				e.val.Description = longerWins(e.val.Description, cp.Description)
			}
			unionEvidence(e.evidence, cp.Evidence)
		}

		for _, pp := range c.ProposedAdditions.DatatypeProperties {
			key := strings.ToLower(strings.TrimSpace(pp.Name))
			e, ok := dtProps[key]
			if !ok {
				e = &dtPropEntry{val: pp, evidence: map[string]dto.Evidence{}}
				dtProps[key] = e
				dtOrder = append(dtOrder, key)
			} else {
				if e.val.Domain != pp.Domain || e.val.Range != pp.Range {
					e.conflicts = true
				}
				e.val.Description = longerWins(e.val.Description, pp.Description)
			}
			unionEvidence(e.evidence, pp.Evidence)
		}

		for _, pp := range c.ProposedAdditions.ObjectProperties {
			key := strings.ToLower(strings.TrimSpace(pp.Name))
			e, ok := objProps[key]
			if !ok {
				e = &objPropEntry{val: pp, evidence: map[string]dto.Evidence{}}
				objProps[key] = e
				objOrder = append(objOrder, key)
			} else {
				if e.val.Domain != pp.Domain || e.val.Range != pp.Range {
					e.conflicts = true
				}
				e.val.Description = longerWins(e.val.Description, pp.Description)
			}
			unionEvidence(e.evidence, pp.Evidence)
		}

		for _, ep := range c.ProposedAdditions.Events {
			key := strings.ToLower(strings.TrimSpace(ep.Name))
			e, ok := events[key]
			if !ok {
				e = &eventEntry{val: ep, evidence: map[string]dto.Evidence{}}
				events[key] = e
				eventOrder = append(eventOrder, key)
			} else if !sameSet(e.val.Actors, ep.Actors) {
				// First-seen actors are retained at the aggregation stage; the
				// Schema Card merger is the one that unions actors/effects
				// across occurrences (§4.3). Here we only flag the conflict.
				e.conflicts = true
			}
			unionEvidence(e.evidence, ep.Evidence)
		}

		for _, a := range c.AliasOrMergeSuggestions {
			key := aliasKey(a.Names)
			if key == "" {
				continue
			}
			if _, ok := aliasSet[key]; !ok {
				aliasSet[key] = a
			}
		}

		for _, r := range c.ReuseInsteadOfCreate {
			key := r.Proposed + "\x00" + r.Reuse
			if _, ok := reuseSet[key]; !ok {
				reuseSet[key] = r
			}
		}

		for _, w := range c.Warnings {
			addWarning(w)
		}
	}

	sort.Strings(classOrder)
	sort.Strings(dtOrder)
	sort.Strings(objOrder)
	sort.Strings(eventOrder)

	out := Proposal{}
	for _, key := range classOrder {
		e := classes[key]
		if e.conflicts {
			addWarning("class " + e.val.Name + ": conflicting metadata across occurrences")
		}
		v := e.val
		v.Evidence = sortedEvidence(e.evidence)
		out.ProposedAdditions.Classes = append(out.ProposedAdditions.Classes, v)
	}
	for _, key := range dtOrder {
		e := dtProps[key]
		if e.conflicts {
			addWarning("datatype property " + e.val.Name + ": conflicting domain/range across occurrences")
		}
		v := e.val
		v.Evidence = sortedEvidence(e.evidence)
		out.ProposedAdditions.DatatypeProperties = append(out.ProposedAdditions.DatatypeProperties, v)
	}
	for _, key := range objOrder {
		e := objProps[key]
		if e.conflicts {
			addWarning("object property " + e.val.Name + ": conflicting domain/range across occurrences")
		}
		v := e.val
		v.Evidence = sortedEvidence(e.evidence)
		out.ProposedAdditions.ObjectProperties = append(out.ProposedAdditions.ObjectProperties, v)
	}
	for _, key := range eventOrder {
		e := events[key]
		if e.conflicts {
			addWarning("event " + e.val.Name + ": conflicting actors across occurrences")
		}
		v := e.val
		v.Evidence = sortedEvidence(e.evidence)
		out.ProposedAdditions.Events = append(out.ProposedAdditions.Events, v)
	}

	aliases := make([]AliasSuggestion, 0, len(aliasSet))
	for _, a := range aliasSet {
		aliases = append(aliases, a)
	}
	sort.Slice(aliases, func(i, j int) bool {
		return strings.Join(aliases[i].Names, ",") < strings.Join(aliases[j].Names, ",")
	})
	out.AliasOrMergeSuggestions = aliases

	reuses := make([]ReuseHint, 0, len(reuseSet))
	for _, r := range reuseSet {
		reuses = append(reuses, r)
	}
	sort.Slice(reuses, func(i, j int) bool {
		if reuses[i].Proposed != reuses[j].Proposed {
			return reuses[i].Proposed < reuses[j].Proposed
		}
		return reuses[i].Reuse < reuses[j].Reuse
	})
	out.ReuseInsteadOfCreate = reuses

	out.Warnings = warningOrder
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]bool{}
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}

// aliasKey produces the sorted-tuple-of-names dedup key for an alias
// suggestion.
func aliasKey(names []string) string {
	if len(names) == 0 {
		return ""
	}
	cp := append([]string(nil), names...)
	sort.Strings(cp)
	return strings.Join(cp, "\x00")
}
