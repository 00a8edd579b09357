package rng

import (
	"github.com/relaxml/rng/internal/pattern"
	"github.com/relaxml/rng/pkg/datatype"
	"github.com/relaxml/rng/pkg/nameclass"
)

// Pattern is an opaque handle to one immutable, hash-consed grammar node.
// Two structurally identical patterns built through the same Builder are
// equal handles.
type Pattern struct {
	id pattern.ID
}

// Builder constructs canonical pattern trees for one schema. It is the sole
// authority creating patterns; a schema front-end parses its syntax and
// calls these constructors.
type Builder struct {
	pb *pattern.Builder
}

// NewBuilder creates a pattern builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	cfg := applyBuilderOptions(opts)
	var popts []pattern.Option
	if cfg.logger != nil {
		popts = append(popts, pattern.WithLogger(cfg.logger))
	}
	if cfg.maxPatternNodes > 0 {
		popts = append(popts, pattern.WithMaxNodes(cfg.maxPatternNodes))
	}
	return &Builder{pb: pattern.New(popts...)}
}

// Empty returns the pattern matching only empty content.
func (b *Builder) Empty() Pattern { return Pattern{id: b.pb.Empty()} }

// Text returns the pattern matching any amount of character data.
func (b *Builder) Text() Pattern { return Pattern{id: b.pb.Text()} }

// NotAllowed returns the pattern matching nothing, carrying an optional
// reason for diagnostics.
func (b *Builder) NotAllowed(reason string) Pattern {
	return Pattern{id: b.pb.NotAllowed(reason)}
}

// Value returns a pattern matching one specific datatype value. The context
// carries the namespace bindings in scope where the lexical value was
// written.
func (b *Builder) Value(dt datatype.Type, lexical string, ctx datatype.Context) (Pattern, error) {
	id, err := b.pb.MakeValue(dt, lexical, ctx)
	return Pattern{id: id}, err
}

// Data returns a pattern matching any value of a datatype.
func (b *Builder) Data(dt datatype.Type, params ...datatype.Param) (Pattern, error) {
	id, err := b.pb.MakeData(dt, params, b.pb.NotAllowed(""))
	return Pattern{id: id}, err
}

// DataExcept returns a data pattern with an excepted value pattern.
func (b *Builder) DataExcept(dt datatype.Type, params []datatype.Param, except Pattern) (Pattern, error) {
	id, err := b.pb.MakeData(dt, params, except.id)
	return Pattern{id: id}, err
}

// List returns a pattern matching whitespace-separated value tokens.
func (b *Builder) List(p Pattern) (Pattern, error) {
	id, err := b.pb.MakeList(p.id)
	return Pattern{id: id}, err
}

// Attribute returns an attribute pattern.
func (b *Builder) Attribute(nc nameclass.Class, content Pattern) (Pattern, error) {
	id, err := b.pb.MakeAttribute(nc, content.id)
	return Pattern{id: id}, err
}

// Element returns an element pattern. Content may be a Ref, resolved
// lazily and at most once during derivation.
func (b *Builder) Element(nc nameclass.Class, content Pattern) Pattern {
	return Pattern{id: b.pb.MakeElement(nc, content.id)}
}

// Choice returns the union of two patterns.
func (b *Builder) Choice(p1, p2 Pattern) Pattern {
	return Pattern{id: b.pb.MakeChoice(p1.id, p2.id)}
}

// Group returns the ordered concatenation of two patterns.
func (b *Builder) Group(p1, p2 Pattern) Pattern {
	return Pattern{id: b.pb.MakeGroup(p1.id, p2.id)}
}

// Interleave returns the unordered composition of two patterns. Combining
// two string-distinguishing patterns, or two patterns that both contain
// text, is a hard schema error raised here.
func (b *Builder) Interleave(p1, p2 Pattern) (Pattern, error) {
	id, err := b.pb.MakeInterleave(p1.id, p2.id)
	return Pattern{id: id}, err
}

// OneOrMore returns the repetition of a pattern.
func (b *Builder) OneOrMore(p Pattern) Pattern {
	return Pattern{id: b.pb.MakeOneOrMore(p.id)}
}

// ZeroOrMore returns Choice(OneOrMore(p), Empty).
func (b *Builder) ZeroOrMore(p Pattern) Pattern {
	return b.Choice(b.OneOrMore(p), b.Empty())
}

// Optional returns Choice(p, Empty).
func (b *Builder) Optional(p Pattern) Pattern {
	return b.Choice(p, b.Empty())
}

// Mixed interleaves a pattern with text.
func (b *Builder) Mixed(p Pattern) (Pattern, error) {
	return b.Interleave(b.Text(), p)
}

// Ref returns a reference to a named element definition. References make
// recursive grammars expressible; they resolve through Define.
func (b *Builder) Ref(name string) Pattern {
	return Pattern{id: b.pb.Ref(name)}
}

// Define binds a reference name to an element pattern.
func (b *Builder) Define(name string, el Pattern) error {
	return b.pb.Define(name, el.id)
}

// Compile verifies the pattern graph reachable from start and returns an
// engine validating against it. A builder may compile several starts; the
// resulting engines share one pattern arena.
func (b *Builder) Compile(start Pattern) (*Engine, error) {
	if err := b.pb.Compile(start.id); err != nil {
		return nil, err
	}
	return newEngine(b.pb, start.id), nil
}
