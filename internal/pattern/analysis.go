package pattern

import "github.com/relaxml/rng/pkg/nameclass"

// ContentPair is the result of decomposing a pattern with respect to one
// element name: the content pattern for that element and the residual
// pattern for everything around it. The zero-ish pair with both sides
// notAllowed means the pattern does not admit the name at all.
type ContentPair struct {
	Content  ID
	Residual ID
}

// Empty reports whether the pair admits nothing for the queried name.
func (p ContentPair) Empty() bool {
	return p.Content == IDNotAllowed && p.Residual == IDNotAllowed
}

var emptyPair = ContentPair{Content: IDNotAllowed, Residual: IDNotAllowed}

type unambigResult struct {
	pair      ContentPair
	ambiguous bool
}

// UnambigContentPattern determines whether p admits a unique decomposition
// into (content for name, residual for the rest). ok is false when branches
// disagree on the content pattern, which signals a content model that cannot
// be translated into formalisms forbidding ambiguous choice. Results are
// memoized per (pattern, name) across shared subtrees of recursive
// grammars.
func (b *Builder) UnambigContentPattern(p ID, name nameclass.QName) (ContentPair, bool) {
	memo := make(map[ID]unambigResult)
	stack := []deriveFrame{{id: p}}
	for len(stack) > 0 {
		i := len(stack) - 1
		id := stack[i].id
		if _, done := memo[id]; done {
			stack = stack[:i]
			continue
		}
		if cached, ok := b.cachedUnambig(id, name); ok {
			memo[id] = cached
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
			memo[id] = b.unambigCombine(id, &n, memo)
			stack = stack[:i]
		case KindElement:
			if n.nc.Matches(name) {
				memo[id] = unambigResult{pair: ContentPair{Content: n.p1, Residual: IDEmpty}}
			} else {
				memo[id] = unambigResult{pair: emptyPair}
			}
			stack = stack[:i]
		default:
			memo[id] = unambigResult{pair: emptyPair}
			stack = stack[:i]
		}
	}

	b.storeUnambig(name, memo)
	r := memo[p]
	return r.pair, !r.ambiguous
}

func (b *Builder) unambigCombine(id ID, n *node, memo map[ID]unambigResult) unambigResult {
	ambiguous := unambigResult{ambiguous: true}
	switch n.kind {
	case KindChoice:
		r1, r2 := memo[n.p1], memo[n.p2]
		switch {
		case r1.ambiguous || r2.ambiguous:
			return ambiguous
		case r1.pair.Empty():
			return r2
		case r2.pair.Empty():
			return r1
		case r1.pair.Content == r2.pair.Content:
			return unambigResult{pair: ContentPair{
				Content:  r1.pair.Content,
				Residual: b.MakeChoice(r1.pair.Residual, r2.pair.Residual),
			}}
		default:
			return ambiguous
		}

	case KindGroup:
		r1 := memo[n.p1]
		if r1.ambiguous {
			return ambiguous
		}
		withTail := func(r unambigResult) unambigResult {
			return unambigResult{pair: ContentPair{
				Content:  r.pair.Content,
				Residual: b.MakeGroup(r.pair.Residual, n.p2),
			}}
		}
		if !b.Nullable(n.p1) {
			if r1.pair.Empty() {
				return unambigResult{pair: emptyPair}
			}
			return withTail(r1)
		}
		r2 := memo[n.p2]
		switch {
		case r2.ambiguous:
			return ambiguous
		case r1.pair.Empty():
			return r2
		case r2.pair.Empty():
			return withTail(r1)
		case r1.pair.Content == r2.pair.Content:
			return unambigResult{pair: ContentPair{
				Content:  r1.pair.Content,
				Residual: b.MakeChoice(withTail(r1).pair.Residual, r2.pair.Residual),
			}}
		default:
			return ambiguous
		}

	case KindInterleave:
		r1, r2 := memo[n.p1], memo[n.p2]
		if r1.ambiguous || r2.ambiguous {
			return ambiguous
		}
		switch {
		case r1.pair.Empty() && r2.pair.Empty():
			return unambigResult{pair: emptyPair}
		case r1.pair.Empty():
			return unambigResult{pair: ContentPair{
				Content:  r2.pair.Content,
				Residual: b.makeInterleave(n.p1, r2.pair.Residual),
			}}
		case r2.pair.Empty():
			return unambigResult{pair: ContentPair{
				Content:  r1.pair.Content,
				Residual: b.makeInterleave(r1.pair.Residual, n.p2),
			}}
		case r1.pair.Content == r2.pair.Content:
			return unambigResult{pair: ContentPair{
				Content: r1.pair.Content,
				Residual: b.MakeChoice(
					b.makeInterleave(r1.pair.Residual, n.p2),
					b.makeInterleave(n.p1, r2.pair.Residual),
				),
			}}
		default:
			return ambiguous
		}

	case KindOneOrMore:
		r := memo[n.p1]
		if r.ambiguous {
			return ambiguous
		}
		if r.pair.Empty() {
			return unambigResult{pair: emptyPair}
		}
		return unambigResult{pair: ContentPair{
			Content:  r.pair.Content,
			Residual: b.MakeGroup(r.pair.Residual, b.MakeChoice(id, IDEmpty)),
		}}

	case KindAfter:
		r := memo[n.p1]
		if r.ambiguous {
			return ambiguous
		}
		if r.pair.Empty() {
			return unambigResult{pair: emptyPair}
		}
		return unambigResult{pair: ContentPair{
			Content:  r.pair.Content,
			Residual: b.makeAfter(r.pair.Residual, n.p2),
		}}
	}
	return ambiguous
}

func (b *Builder) cachedUnambig(p ID, name nameclass.QName) (unambigResult, bool) {
	b.mu.RLock()
	r, ok := b.unambigTab[nameKey{p: p, ns: name.Namespace, local: name.Local}]
	b.mu.RUnlock()
	return r, ok
}

func (b *Builder) storeUnambig(name nameclass.QName, memo map[ID]unambigResult) {
	b.mu.Lock()
	for id, r := range memo {
		b.unambigTab[nameKey{p: id, ns: name.Namespace, local: name.Local}] = r
	}
	b.mu.Unlock()
}
