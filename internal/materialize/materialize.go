package materialize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ontorag/internal/dto"
	"ontorag/internal/schema"
	"ontorag/internal/turtleio"
)

const (
	provEntity         = "http://www.w3.org/ns/prov#Entity"
	provWasDerivedFrom  = "http://www.w3.org/ns/prov#wasDerivedFrom"
	provValue           = "http://www.w3.org/ns/prov#value"
	ontoHasMention       = "http://ontorag.local/vocab#hasMention"
)

// mentionNamespace seeds the deterministic (v5) UUIDs minted for mention
// blank-node labels, so canonical Turtle output (§4.6, §8) is reproducible
// across runs of Materialize on identical input rather than depending on
// process-local randomness.
var mentionNamespace = uuid.MustParse("5f1a7e3e-6e9b-4b7a-9b0e-6f6b6d3a9c1f")

// Result is the output of Materialize: the rendered Turtle graph plus any
// non-fatal MaterializationWarnings accumulated along the way (§7).
type Result struct {
	Turtle   []byte
	Warnings []string
}

// Materialize converts instance proposals into RDF triples with PROV
// mention nodes (§4.6), against the classes and properties declared in
// card. Subjects are minted at {namespace}{Class}/{local_id}.
func Materialize(card schema.Card, instances []Proposal) Result {
	ns := card.Namespace

	classByKey := map[string]schema.ClassEntry{}
	for _, c := range card.Classes {
		classByKey[strings.ToLower(strings.TrimSpace(c.Name))] = c
	}
	dtPropByKey := map[string]schema.PropertyEntry{}
	for _, p := range card.DatatypeProperties {
		dtPropByKey[strings.ToLower(strings.TrimSpace(p.Name))] = p
	}
	objPropByKey := map[string]schema.PropertyEntry{}
	for _, p := range card.ObjectProperties {
		objPropByKey[strings.ToLower(strings.TrimSpace(p.Name))] = p
	}

	var warnings []string
	warningSeen := map[string]bool{}
	addWarning := func(w string) {
		if warningSeen[w] {
			return
		}
		warningSeen[w] = true
		warnings = append(warnings, w)
	}

	// First pass: resolve every instance's subject IRI (or mark it
	// unresolved) so object-value references can be satisfied regardless
	// of declaration order within the batch.
	subjectOf := map[string]turtleio.Term{}
	classOf := map[string]string{}
	for _, inst := range instances {
		key := strings.ToLower(strings.TrimSpace(inst.Class))
		cls, ok := classByKey[key]
		if !ok {
			addWarning(fmt.Sprintf("instance %s: unknown class %s", inst.LocalID, inst.Class))
			continue
		}
		subjectOf[inst.LocalID] = turtleio.IRI(ns + cls.Name + "/" + inst.LocalID)
		classOf[inst.LocalID] = cls.Name
	}

	w := turtleio.Write(map[string]string{
		"ns":   ns,
		"onto": "http://ontorag.local/vocab#",
	})

	for _, inst := range instances {
		subject, ok := subjectOf[inst.LocalID]
		if !ok {
			continue // already warned above
		}
		w.Add(turtleio.Triple{Subject: subject, Predicate: turtleio.IRI(turtleio.RDFType), Object: turtleio.IRI(ns + classOf[inst.LocalID])})

		for _, p := range sortedKeys(inst.DatatypeValues) {
			raw := inst.DatatypeValues[p]
			pe, known := dtPropByKey[strings.ToLower(strings.TrimSpace(p))]
			var value, dtIRI string
			if !known {
				addWarning(fmt.Sprintf("instance %s: unknown datatype property %s, emitting as xsd:string", inst.LocalID, p))
				value, dtIRI = raw, "http://www.w3.org/2001/XMLSchema#string"
			} else {
				var castWarn bool
				value, dtIRI, castWarn = castLiteral(raw, schema.Range(pe.Range))
				if castWarn {
					addWarning(fmt.Sprintf("instance %s: property %s value %q could not be cast to %s, emitted as xsd:string", inst.LocalID, p, raw, pe.Range))
				}
			}
			obj := turtleio.Literal(value, dtIRI)
			w.Add(turtleio.Triple{Subject: subject, Predicate: turtleio.IRI(ns + p), Object: obj})
			addMentions(w, subject, p, inst.Evidence)
		}

		for _, p := range sortedKeys(inst.ObjectValues) {
			targetLocalID := inst.ObjectValues[p]
			if _, known := objPropByKey[strings.ToLower(strings.TrimSpace(p))]; !known {
				addWarning(fmt.Sprintf("instance %s: unknown object property %s", inst.LocalID, p))
			}
			targetSubject, ok := subjectOf[targetLocalID]
			if !ok {
				addWarning(fmt.Sprintf("instance %s: object property %s references unresolved target %s", inst.LocalID, p, targetLocalID))
				continue
			}
			w.Add(turtleio.Triple{Subject: subject, Predicate: turtleio.IRI(ns + p), Object: targetSubject})
			addMentions(w, subject, p, inst.Evidence)
		}
	}

	return Result{Turtle: w.Bytes(), Warnings: warnings}
}

// addMentions emits one PROV mention blank node per evidence record on a
// fact, linked from subject via onto:hasMention (§3, §4.6 step 5). Labels
// are derived deterministically from the fact's identity (subject,
// property, position, and evidence content) rather than from process
// randomness, so Materialize is reproducible on identical input (§8).
func addMentions(w *turtleio.Writer, subject turtleio.Term, property string, evidence []dto.Evidence) {
	for i, e := range evidence {
		key := fmt.Sprintf("%s|%s|%d|%s|%s", subject.Value, property, i, e.ChunkID, e.Quote)
		label := uuid.NewSHA1(mentionNamespace, []byte(key)).String()
		mention := turtleio.BlankNode("_:mention-" + label)
		w.Add(turtleio.Triple{Subject: mention, Predicate: turtleio.IRI(turtleio.RDFType), Object: turtleio.IRI(provEntity)})
		w.Add(turtleio.Triple{Subject: mention, Predicate: turtleio.IRI(provWasDerivedFrom), Object: turtleio.IRI("chunk:" + e.ChunkID)})
		w.Add(turtleio.Triple{Subject: mention, Predicate: turtleio.IRI(provValue), Object: turtleio.Literal(e.Quote, "")})
		w.Add(turtleio.Triple{Subject: subject, Predicate: turtleio.IRI(ontoHasMention), Object: mention})
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
