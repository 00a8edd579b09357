package pattern

import (
	"strings"

	"github.com/relaxml/rng/pkg/nameclass"
)

type evKind uint8

const (
	evText evKind = iota
	evAttr
	evStart
)

// event is the transient input shape of one derivation. probe suppresses the
// attribute value check so the session can tell an unknown attribute name
// from a rejected value.
type event struct {
	kind  evKind
	name  nameclass.QName
	value string
	probe bool
}

// TextResidual returns the pattern describing valid continuations after
// consuming one run of character data.
func (b *Builder) TextResidual(p ID, text string) ID {
	return b.derive(p, &event{kind: evText, value: text})
}

// AttributeResidual consumes one attribute. Attribute order is irrelevant:
// group patterns treat attribute events with the interleave rule.
func (b *Builder) AttributeResidual(p ID, name nameclass.QName, value string) ID {
	return b.derive(p, &event{kind: evAttr, name: name, value: value})
}

// AttributeNameResidual consumes an attribute checking only its name.
func (b *Builder) AttributeNameResidual(p ID, name nameclass.QName) ID {
	return b.derive(p, &event{kind: evAttr, name: name, probe: true})
}

// StartTagResidual consumes an element start tag. Each branch of the result
// is After(content, continuation): the content pattern for the open element
// threaded with the pattern that resumes once the element closes. Results
// are memoized per (pattern, name); the key space is bounded by the schema,
// so repeated siblings converge instead of growing builder state.
func (b *Builder) StartTagResidual(p ID, name nameclass.QName) ID {
	key := nameKey{p: p, ns: name.Namespace, local: name.Local}
	b.mu.RLock()
	r, ok := b.startTab[key]
	b.mu.RUnlock()
	if ok {
		return r
	}
	r = b.derive(p, &event{kind: evStart, name: name})
	b.mu.Lock()
	b.startTab[key] = r
	b.mu.Unlock()
	return r
}

type deriveFrame struct {
	id       ID
	expanded bool
}

// derive dispatches one event over the pattern DAG with an explicit
// work-list; native recursion is avoided so deeply nested expressions
// cannot exhaust the goroutine stack. The memo is per call: the event is
// fixed, so it both de-duplicates shared subtrees and carries child results
// to the post-order combine step.
func (b *Builder) derive(root ID, ev *event) ID {
	memo := make(map[ID]ID)
	stack := make([]deriveFrame, 0, 16)
	stack = append(stack, deriveFrame{id: root})
	for len(stack) > 0 {
		i := len(stack) - 1
		id := stack[i].id
		if _, done := memo[id]; done {
			stack = stack[:i]
			continue
		}
		_, n := b.deref(id)
		switch n.kind {
		case KindChoice, KindGroup, KindInterleave, KindOneOrMore, KindAfter:
			if !stack[i].expanded {
				stack[i].expanded = true
				stack = append(stack, deriveFrame{id: n.p1})
				if n.kind == KindChoice || n.kind == KindGroup || n.kind == KindInterleave {
					stack = append(stack, deriveFrame{id: n.p2})
				}
				continue
			}
			memo[id] = b.deriveCombine(id, &n, ev, memo)
			stack = stack[:i]
		default:
			memo[id] = b.deriveLeaf(&n, ev)
			stack = stack[:i]
		}
	}
	return memo[root]
}

func (b *Builder) deriveLeaf(n *node, ev *event) ID {
	switch n.kind {
	case KindText:
		// Text absorbs any amount of character data.
		if ev.kind == evText {
			return IDText
		}
	case KindValue:
		if ev.kind == evText && n.dt.Equal(ev.value, n.str, n.ctx) {
			return IDEmpty
		}
	case KindData:
		if ev.kind != evText {
			return IDNotAllowed
		}
		if !n.dt.Validate(ev.value, n.params, n.ctx) {
			return IDNotAllowed
		}
		if b.valueMatches(n.p2, ev.value) {
			return IDNotAllowed
		}
		return IDEmpty
	case KindList:
		// Lists derive over whitespace-separated value tokens, not
		// structural events.
		if ev.kind != evText {
			return IDNotAllowed
		}
		cur := n.p1
		for _, tok := range strings.Fields(ev.value) {
			cur = b.TextResidual(cur, tok)
		}
		if b.Nullable(cur) {
			return IDEmpty
		}
	case KindAttribute:
		if ev.kind != evAttr || !n.nc.Matches(ev.name) {
			return IDNotAllowed
		}
		if ev.probe || b.valueMatches(n.p1, ev.value) {
			return IDEmpty
		}
	case KindElement:
		if ev.kind == evStart && n.nc.Matches(ev.name) {
			return b.makeAfter(n.p1, IDEmpty)
		}
	}
	// Empty and NotAllowed accept no further input.
	return IDNotAllowed
}

func (b *Builder) deriveCombine(id ID, n *node, ev *event, memo map[ID]ID) ID {
	switch n.kind {
	case KindChoice:
		return b.MakeChoice(memo[n.p1], memo[n.p2])

	case KindGroup:
		d1, d2 := memo[n.p1], memo[n.p2]
		switch ev.kind {
		case evAttr:
			return b.MakeChoice(b.MakeGroup(d1, n.p2), b.MakeGroup(n.p1, d2))
		case evStart:
			r := b.applyAfter(d1, func(c ID) ID { return b.MakeGroup(c, n.p2) })
			if b.Nullable(n.p1) {
				return b.MakeChoice(r, d2)
			}
			return r
		default:
			r := b.MakeGroup(d1, n.p2)
			if b.Nullable(n.p1) {
				return b.MakeChoice(r, d2)
			}
			return r
		}

	case KindInterleave:
		d1, d2 := memo[n.p1], memo[n.p2]
		if ev.kind == evStart {
			return b.MakeChoice(
				b.applyAfter(d1, func(c ID) ID { return b.makeInterleave(c, n.p2) }),
				b.applyAfter(d2, func(c ID) ID { return b.makeInterleave(n.p1, c) }),
			)
		}
		return b.MakeChoice(b.makeInterleave(d1, n.p2), b.makeInterleave(n.p1, d2))

	case KindOneOrMore:
		d := memo[n.p1]
		follow := b.MakeChoice(id, IDEmpty)
		if ev.kind == evStart {
			return b.applyAfter(d, func(c ID) ID { return b.MakeGroup(c, follow) })
		}
		return b.MakeGroup(d, follow)

	case KindAfter:
		d1 := memo[n.p1]
		if ev.kind == evStart {
			return b.applyAfter(d1, func(c ID) ID { return b.makeAfter(c, n.p2) })
		}
		return b.makeAfter(d1, n.p2)
	}
	return IDNotAllowed
}

// valueMatches reports whether a complete lexical value matches a value-level
// pattern: either the value is insignificant whitespace and the pattern is
// nullable, or its text residual is nullable.
func (b *Builder) valueMatches(p ID, value string) bool {
	if b.Nullable(p) && strings.TrimSpace(value) == "" {
		return true
	}
	return b.Nullable(b.TextResidual(p, value))
}

// applyAfter maps f over the continuation side of every After branch of x.
// Start-tag derivation only produces Choice, After, and NotAllowed nodes, so
// anything else reduces to NotAllowed.
func (b *Builder) applyAfter(x ID, f func(ID) ID) ID {
	memo := make(map[ID]ID)
	stack := []deriveFrame{{id: x}}
	for len(stack) > 0 {
		i := len(stack) - 1
		id := stack[i].id
		if _, done := memo[id]; done {
			stack = stack[:i]
			continue
		}
		n := b.node(id)
		switch n.kind {
		case KindAfter:
			memo[id] = b.makeAfter(n.p1, f(n.p2))
			stack = stack[:i]
		case KindChoice:
			if !stack[i].expanded {
				stack[i].expanded = true
				stack = append(stack, deriveFrame{id: n.p1}, deriveFrame{id: n.p2})
				continue
			}
			memo[id] = b.MakeChoice(memo[n.p1], memo[n.p2])
			stack = stack[:i]
		default:
			memo[id] = IDNotAllowed
			stack = stack[:i]
		}
	}
	return memo[x]
}
