package pattern

import (
	"sync"

	"go.uber.org/zap"

	"github.com/relaxml/rng/errors"
	"github.com/relaxml/rng/pkg/datatype"
	"github.com/relaxml/rng/pkg/nameclass"
)

// Builder is the sole authority constructing pattern nodes. It owns the
// arena, the interning table, and the memo tables for residual and
// ambiguity queries.
//
// The arena and tables are append-only: compiled patterns are shared
// read-only across concurrent validation sessions, and memo population is a
// pure function of its key, so the single write lock only serializes
// inserts.
type Builder struct {
	mu     sync.RWMutex
	nodes  []node
	intern map[uint64][]ID
	defs   map[string]ID
	ctxIDs map[datatype.Context]uint32

	startTab   map[nameKey]ID
	endTagTab  map[endKey]ID
	endAttrTab map[endKey]ID
	unambigTab map[nameKey]unambigResult

	logger   *zap.Logger
	maxNodes int
}

type nameKey struct {
	p         ID
	ns, local string
}

type endKey struct {
	p       ID
	recover bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for compile-time diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMaxNodes bounds the number of pattern nodes the builder may create.
func WithMaxNodes(n int) Option {
	return func(b *Builder) { b.maxNodes = n }
}

// New creates a Builder with the predeclared Empty, Text, and NotAllowed
// nodes already interned.
func New(opts ...Option) *Builder {
	b := &Builder{
		intern:     make(map[uint64][]ID),
		defs:       make(map[string]ID),
		ctxIDs:     make(map[datatype.Context]uint32),
		startTab:   make(map[nameKey]ID),
		endTagTab:  make(map[endKey]ID),
		endAttrTab: make(map[endKey]ID),
		unambigTab: make(map[nameKey]unambigResult),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	// Seed order must match the predeclared IDs.
	b.internNode(node{kind: KindEmpty, flags: flagNullable, p1: -1, p2: -1})
	b.internNode(node{kind: KindText, flags: flagNullable | ctText | sfAllowsText, p1: -1, p2: -1})
	b.internNode(node{kind: KindNotAllowed, p1: -1, p2: -1})
	return b
}

func (b *Builder) node(p ID) node {
	b.mu.RLock()
	n := b.nodes[p]
	b.mu.RUnlock()
	return n
}

// NodeCount returns the number of interned pattern nodes.
func (b *Builder) NodeCount() int {
	b.mu.RLock()
	n := len(b.nodes)
	b.mu.RUnlock()
	return n
}

// Empty returns the empty pattern.
func (b *Builder) Empty() ID { return IDEmpty }

// Text returns the text pattern.
func (b *Builder) Text() ID { return IDText }

// NotAllowed returns a notAllowed pattern carrying a reason. The empty
// reason yields the canonical node.
func (b *Builder) NotAllowed(reason string) ID {
	if reason == "" {
		return IDNotAllowed
	}
	return b.internNode(node{kind: KindNotAllowed, p1: -1, p2: -1, str: reason})
}

// MakeChoice builds the union of two patterns, normalizing trivial
// identities before interning.
func (b *Builder) MakeChoice(p1, p2 ID) ID {
	n1, n2 := b.node(p1), b.node(p2)
	switch {
	case n1.kind == KindNotAllowed:
		return p2
	case n2.kind == KindNotAllowed:
		return p1
	case p1 == p2:
		return p1
	case n1.kind == KindEmpty && n2.flags&flagNullable != 0:
		return p2
	case n2.kind == KindEmpty && n1.flags&flagNullable != 0:
		return p1
	}
	flags := (n1.flags | n2.flags) & (flagNullable | ctMask | sfMask)
	return b.internNode(node{kind: KindChoice, flags: flags, p1: p1, p2: p2})
}

// MakeGroup builds the ordered concatenation of two patterns.
func (b *Builder) MakeGroup(p1, p2 ID) ID {
	n1, n2 := b.node(p1), b.node(p2)
	switch {
	case n1.kind == KindNotAllowed:
		return p1
	case n2.kind == KindNotAllowed:
		return p2
	case n1.kind == KindEmpty:
		return p2
	case n2.kind == KindEmpty:
		return p1
	}
	flags := (n1.flags | n2.flags) & (ctMask | sfMask)
	if n1.flags&n2.flags&flagNullable != 0 {
		flags |= flagNullable
	}
	return b.internNode(node{kind: KindGroup, flags: flags, p1: p1, p2: p2})
}

// MakeInterleave builds the unordered composition of two patterns. Illegal
// combinations are hard schema errors raised here, not deferred to
// validation time.
func (b *Builder) MakeInterleave(p1, p2 ID) (ID, error) {
	n1, n2 := b.node(p1), b.node(p2)
	if n1.flags&ctText != 0 && n2.flags&ctText != 0 {
		return IDNotAllowed, errors.NewSchemaError(errors.ErrInterleaveText,
			"both operands of interleave contain text")
	}
	if (n1.flags&sfDistinguishes != 0 && n2.flags&sfMask != 0) ||
		(n2.flags&sfDistinguishes != 0 && n1.flags&sfMask != 0) {
		return IDNotAllowed, errors.NewSchemaError(errors.ErrInterleaveString,
			"interleave combines string-distinguishing patterns")
	}
	return b.makeInterleave(p1, p2), nil
}

// makeInterleave skips the string checks. It is used by the derivative
// engine, which only recombines operands of an interleave that already
// passed them; a violation here would be a programming defect, not a schema
// error.
func (b *Builder) makeInterleave(p1, p2 ID) ID {
	n1, n2 := b.node(p1), b.node(p2)
	switch {
	case n1.kind == KindNotAllowed:
		return p1
	case n2.kind == KindNotAllowed:
		return p2
	case n1.kind == KindEmpty:
		return p2
	case n2.kind == KindEmpty:
		return p1
	}
	flags := (n1.flags | n2.flags) & (ctMask | sfMask)
	if n1.flags&n2.flags&flagNullable != 0 {
		flags |= flagNullable
	}
	return b.internNode(node{kind: KindInterleave, flags: flags, p1: p1, p2: p2})
}

// MakeOneOrMore builds the repetition of a pattern.
func (b *Builder) MakeOneOrMore(p ID) ID {
	n := b.node(p)
	switch n.kind {
	case KindEmpty, KindNotAllowed, KindOneOrMore, KindText:
		return p
	}
	flags := n.flags & (flagNullable | ctMask | sfMask)
	return b.internNode(node{kind: KindOneOrMore, flags: flags, p1: p, p2: -1})
}

// MakeList builds a pattern matching whitespace-separated value tokens.
func (b *Builder) MakeList(p ID) (ID, error) {
	n := b.node(p)
	if n.flags&(ctElement|ctAttribute) != 0 {
		return IDNotAllowed, errors.NewSchemaError(errors.ErrBadContent,
			"list content must not contain elements or attributes")
	}
	return b.internNode(node{
		kind:  KindList,
		flags: ctText | sfAllowsText | sfDistinguishes,
		p1:    p,
		p2:    -1,
	}), nil
}

// MakeValue builds a pattern matching one specific datatype value.
func (b *Builder) MakeValue(dt datatype.Type, lexical string, ctx datatype.Context) (ID, error) {
	if dt == nil {
		return IDNotAllowed, errors.NewSchemaError(errors.ErrBadContent, "value pattern requires a datatype")
	}
	return b.internNode(node{
		kind:  KindValue,
		flags: ctText | sfAllowsText | sfDistinguishes,
		p1:    -1,
		p2:    -1,
		dt:    dt,
		ctx:   ctx,
		str:   lexical,
	}), nil
}

// MakeData builds a pattern matching any value of a datatype, minus an
// optional except pattern. Pass NotAllowed (or the zero builder value from
// NotAllowed("")) to except nothing.
func (b *Builder) MakeData(dt datatype.Type, params []datatype.Param, except ID) (ID, error) {
	if dt == nil {
		return IDNotAllowed, errors.NewSchemaError(errors.ErrBadContent, "data pattern requires a datatype")
	}
	en := b.node(except)
	if en.flags&(ctElement|ctAttribute) != 0 {
		return IDNotAllowed, errors.NewSchemaError(errors.ErrBadContent,
			"data except pattern must not contain elements or attributes")
	}
	return b.internNode(node{
		kind:   KindData,
		flags:  ctText | sfAllowsText | sfDistinguishes,
		p1:     -1,
		p2:     except,
		dt:     dt,
		params: append([]datatype.Param(nil), params...),
	}), nil
}

// MakeAttribute builds an attribute pattern.
func (b *Builder) MakeAttribute(nc nameclass.Class, content ID) (ID, error) {
	if nc == nil {
		return IDNotAllowed, errors.NewSchemaError(errors.ErrBadContent, "attribute pattern requires a name class")
	}
	n := b.node(content)
	if n.flags&(ctElement|ctAttribute) != 0 {
		return IDNotAllowed, errors.NewSchemaError(errors.ErrBadContent,
			"attribute content must not contain elements or attributes")
	}
	return b.internNode(node{kind: KindAttribute, flags: ctAttribute, p1: content, p2: -1, nc: nc}), nil
}

// MakeElement builds an element pattern. Content may be a Ref, which is
// resolved lazily during derivation.
func (b *Builder) MakeElement(nc nameclass.Class, content ID) ID {
	return b.internNode(node{kind: KindElement, flags: ctElement, p1: content, p2: -1, nc: nc})
}

// makeAfter threads "p1 consumed, continue with p2" through open elements.
func (b *Builder) makeAfter(p1, p2 ID) ID {
	n1, n2 := b.node(p1), b.node(p2)
	if n1.kind == KindNotAllowed {
		return p1
	}
	if n2.kind == KindNotAllowed {
		return p2
	}
	flags := n1.flags & (ctMask | sfMask)
	return b.internNode(node{kind: KindAfter, flags: flags, p1: p1, p2: p2})
}

// Ref returns a reference pattern. A reference always resolves to an
// element definition, so its derived attributes are known before binding
// and expansion is a memoized lookup performed at most once per use site.
func (b *Builder) Ref(name string) ID {
	return b.internNode(node{kind: KindRef, flags: ctElement, p1: -1, p2: -1, str: name})
}

// Define binds a reference name to an element pattern.
func (b *Builder) Define(name string, el ID) error {
	if b.node(el).kind != KindElement {
		return errors.NewSchemaError(errors.ErrBadDefine,
			"definition %q must resolve to an element pattern, got %s", name, b.node(el).kind)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.defs[name]; dup {
		return errors.NewSchemaError(errors.ErrBadDefine, "duplicate definition %q", name)
	}
	b.defs[name] = el
	return nil
}

func (b *Builder) refTarget(name string) (ID, bool) {
	b.mu.RLock()
	el, ok := b.defs[name]
	b.mu.RUnlock()
	return el, ok
}

// deref resolves reference patterns to their element definition. Unbound
// references are rejected by Compile before any session runs, so a miss
// here maps to notAllowed rather than a panic.
func (b *Builder) deref(p ID) (ID, node) {
	n := b.node(p)
	if n.kind != KindRef {
		return p, n
	}
	el, ok := b.refTarget(n.str)
	if !ok {
		return IDNotAllowed, b.node(IDNotAllowed)
	}
	return el, b.node(el)
}
