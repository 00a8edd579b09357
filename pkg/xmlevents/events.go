// Package xmlevents defines the document event model consumed by the
// validation engine and provides a streaming adapter over encoding/xml.
//
// The engine itself is source-agnostic: any producer of properly nested
// events with resolved qualified names can implement Source.
package xmlevents

import "github.com/relaxml/rng/pkg/nameclass"

// Kind identifies the shape of a document event.
type Kind uint8

const (
	// KindStartElement opens an element; Name and Attrs are set.
	KindStartElement Kind = iota + 1
	// KindEndElement closes the innermost open element.
	KindEndElement
	// KindText carries a run of character data in Text.
	KindText
	// KindAttribute is a standalone attribute event. Readers fold attributes
	// into start events; this kind exists for the composable residual
	// primitives.
	KindAttribute
)

// Attr is a resolved attribute with its value.
type Attr struct {
	Name  nameclass.QName
	Value string
}

// Event is one document event. Events are transient; the engine never
// retains them past the call that delivers them.
type Event struct {
	Kind   Kind
	Name   nameclass.QName
	Text   string
	Attrs  []Attr
	Line   int
	Column int
}

// Source produces a document event sequence. Next returns io.EOF at end of
// input.
type Source interface {
	Next() (Event, error)
}
