// Package pattern implements the RELAX NG pattern algebra: an arena of
// hash-consed immutable grammar nodes, a normalizing builder, the derivative
// (residual) engine, and the static ambiguity analysis.
package pattern

import (
	"github.com/relaxml/rng/pkg/datatype"
	"github.com/relaxml/rng/pkg/nameclass"
)

// ID addresses a pattern node inside a Builder arena. IDs are stable for the
// builder lifetime; two structurally identical patterns built through the
// same builder share one ID, so equality is integer comparison.
type ID int32

// Predeclared nodes, present in every arena.
const (
	IDEmpty      ID = 0
	IDText       ID = 1
	IDNotAllowed ID = 2
)

// Kind is the closed set of pattern combinators.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNotAllowed
	KindText
	KindAttribute
	KindElement
	KindChoice
	KindGroup
	KindInterleave
	KindOneOrMore
	KindList
	KindValue
	KindData
	KindAfter
	KindRef
)

// String returns the combinator name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNotAllowed:
		return "notAllowed"
	case KindText:
		return "text"
	case KindAttribute:
		return "attribute"
	case KindElement:
		return "element"
	case KindChoice:
		return "choice"
	case KindGroup:
		return "group"
	case KindInterleave:
		return "interleave"
	case KindOneOrMore:
		return "oneOrMore"
	case KindList:
		return "list"
	case KindValue:
		return "value"
	case KindData:
		return "data"
	case KindAfter:
		return "after"
	case KindRef:
		return "ref"
	}
	return "unknown"
}

// Derived attribute bits, synthesized once at construction.
const (
	flagNullable uint8 = 1 << iota
	ctText
	ctElement
	ctAttribute
	sfAllowsText
	sfDistinguishes
)

const ctMask = ctText | ctElement | ctAttribute
const sfMask = sfAllowsText | sfDistinguishes

// node is one arena entry. Operand meaning varies by kind: binary
// combinators use p1/p2; OneOrMore and List use p1; Data uses p2 for the
// except pattern; str holds the Value lexical, the NotAllowed reason, or the
// Ref name.
type node struct {
	kind   Kind
	flags  uint8
	p1, p2 ID
	nc     nameclass.Class
	dt     datatype.Type
	ctx    datatype.Context
	params []datatype.Param
	str    string
}

// Kind returns the combinator of p.
func (b *Builder) Kind(p ID) Kind {
	return b.node(p).kind
}

// Nullable reports whether p accepts the empty continuation.
func (b *Builder) Nullable(p ID) bool {
	return b.node(p).flags&flagNullable != 0
}

// AllowsText reports whether p directly contains free text content.
func (b *Builder) AllowsText(p ID) bool {
	return b.node(p).flags&ctText != 0
}

// Operands returns the sub-pattern IDs of p, or -1 where unused.
func (b *Builder) Operands(p ID) (ID, ID) {
	n := b.node(p)
	switch n.kind {
	case KindChoice, KindGroup, KindInterleave, KindAfter, KindData:
		return n.p1, n.p2
	case KindOneOrMore, KindList, KindElement, KindAttribute:
		return n.p1, -1
	default:
		return -1, -1
	}
}

// NameClassOf returns the name class of an element or attribute pattern.
func (b *Builder) NameClassOf(p ID) nameclass.Class {
	return b.node(p).nc
}
