package pattern

// EndTagResidual closes the innermost open element: every After(p1, p2)
// branch whose content p1 is nullable releases its continuation p2. With
// recover set, continuations are released unconditionally so validation can
// proceed past an incomplete element. NotAllowed means no branch's content
// was satisfied.
func (b *Builder) EndTagResidual(p ID, recoverIncomplete bool) ID {
	key := endKey{p: p, recover: recoverIncomplete}
	b.mu.RLock()
	r, ok := b.endTagTab[key]
	b.mu.RUnlock()
	if ok {
		return r
	}

	memo := make(map[ID]ID)
	stack := []deriveFrame{{id: p}}
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
			if recoverIncomplete || b.Nullable(n.p1) {
				memo[id] = n.p2
			} else {
				memo[id] = IDNotAllowed
			}
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
	r = memo[p]

	b.mu.Lock()
	b.endTagTab[key] = r
	b.mu.Unlock()
	return r
}

// EndAttributes marks the end of an element's attribute list: attribute
// patterns that were not consumed become notAllowed. NotAllowed on a
// previously viable pattern therefore signals a missing required attribute.
// With recover set, unsatisfied attributes are dropped instead, which is the
// continuation used after reporting the error.
func (b *Builder) EndAttributes(p ID, recoverMissing bool) ID {
	key := endKey{p: p, recover: recoverMissing}
	b.mu.RLock()
	r, ok := b.endAttrTab[key]
	b.mu.RUnlock()
	if ok {
		return r
	}

	memo := make(map[ID]ID)
	stack := []deriveFrame{{id: p}}
	for len(stack) > 0 {
		i := len(stack) - 1
		id := stack[i].id
		if _, done := memo[id]; done {
			stack = stack[:i]
			continue
		}
		n := b.node(id)
		switch n.kind {
		case KindAttribute:
			if recoverMissing {
				memo[id] = IDEmpty
			} else {
				memo[id] = IDNotAllowed
			}
			stack = stack[:i]
		case KindChoice, KindGroup, KindInterleave, KindOneOrMore, KindAfter:
			if n.flags&ctAttribute == 0 {
				// No attribute patterns below; nothing to strip.
				memo[id] = id
				stack = stack[:i]
				continue
			}
			if !stack[i].expanded {
				stack[i].expanded = true
				stack = append(stack, deriveFrame{id: n.p1})
				if n.kind == KindChoice || n.kind == KindGroup || n.kind == KindInterleave {
					stack = append(stack, deriveFrame{id: n.p2})
				}
				continue
			}
			switch n.kind {
			case KindChoice:
				memo[id] = b.MakeChoice(memo[n.p1], memo[n.p2])
			case KindGroup:
				memo[id] = b.MakeGroup(memo[n.p1], memo[n.p2])
			case KindInterleave:
				memo[id] = b.makeInterleave(memo[n.p1], memo[n.p2])
			case KindOneOrMore:
				if memo[n.p1] == n.p1 {
					memo[id] = id
				} else {
					memo[id] = b.MakeOneOrMore(memo[n.p1])
				}
			case KindAfter:
				memo[id] = b.makeAfter(memo[n.p1], n.p2)
			}
			stack = stack[:i]
		default:
			memo[id] = id
			stack = stack[:i]
		}
	}
	r = memo[p]

	b.mu.Lock()
	b.endAttrTab[key] = r
	b.mu.Unlock()
	return r
}
