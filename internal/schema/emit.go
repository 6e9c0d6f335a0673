package schema

import (
	"ontorag/internal/turtleio"
)

// xsdIRI maps a Card's recognized Range to its XSD datatype IRI (§4.5).
var xsdIRI = map[Range]string{
	RangeString:   "http://www.w3.org/2001/XMLSchema#string",
	RangeInteger:  "http://www.w3.org/2001/XMLSchema#integer",
	RangeDecimal:  "http://www.w3.org/2001/XMLSchema#decimal",
	RangeBoolean:  "http://www.w3.org/2001/XMLSchema#boolean",
	RangeDate:     "http://www.w3.org/2001/XMLSchema#date",
	RangeDateTime: "http://www.w3.org/2001/XMLSchema#dateTime",
	RangeAnyURI:   "http://www.w3.org/2001/XMLSchema#anyURI",
}

const (
	owlClass             = "http://www.w3.org/2002/07/owl#Class"
	owlObjectProperty    = "http://www.w3.org/2002/07/owl#ObjectProperty"
	owlDatatypeProperty  = "http://www.w3.org/2002/07/owl#DatatypeProperty"
	rdfsLabel            = "http://www.w3.org/2000/01/rdf-schema#label"
	rdfsComment          = "http://www.w3.org/2000/01/rdf-schema#comment"
	rdfsDomain           = "http://www.w3.org/2000/01/rdf-schema#domain"
	rdfsRange            = "http://www.w3.org/2000/01/rdf-schema#range"
)

// EmitTurtle renders a Schema Card as OWL/RDFS Turtle (§4.5). The output
// must round-trip through the baseline importer: reparsing it reproduces
// the same class/property names and ranges.
func EmitTurtle(c Card) []byte {
	ns := c.Namespace
	w := turtleio.Write(map[string]string{"ns": ns})

	for _, cls := range c.Classes {
		subj := turtleio.IRI(ns + cls.Name)
		w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(turtleio.RDFType), Object: turtleio.IRI(owlClass)})
		w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsLabel), Object: turtleio.Literal(cls.Name, "")})
		if cls.Description != "" {
			w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsComment), Object: turtleio.Literal(cls.Description, "")})
		}
	}

	for _, p := range c.ObjectProperties {
		subj := turtleio.IRI(ns + p.Name)
		w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(turtleio.RDFType), Object: turtleio.IRI(owlObjectProperty)})
		if p.Domain != "" {
			w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsDomain), Object: turtleio.IRI(ns + p.Domain)})
		}
		if p.Range != "" {
			w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsRange), Object: turtleio.IRI(ns + p.Range)})
		}
		if p.Description != "" {
			w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsComment), Object: turtleio.Literal(p.Description, "")})
		}
	}

	for _, p := range c.DatatypeProperties {
		subj := turtleio.IRI(ns + p.Name)
		w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(turtleio.RDFType), Object: turtleio.IRI(owlDatatypeProperty)})
		if p.Domain != "" {
			w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsDomain), Object: turtleio.IRI(ns + p.Domain)})
		}
		if iri, ok := xsdIRI[Range(p.Range)]; ok {
			w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsRange), Object: turtleio.IRI(iri)})
		} else {
			w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsRange), Object: turtleio.IRI(xsdIRI[RangeString])})
		}
		if p.Description != "" {
			w.Add(turtleio.Triple{Subject: subj, Predicate: turtleio.IRI(rdfsComment), Object: turtleio.Literal(p.Description, "")})
		}
	}

	return w.Bytes()
}
