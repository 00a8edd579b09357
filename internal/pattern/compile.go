package pattern

import (
	"go.uber.org/zap"

	"github.com/relaxml/rng/errors"
)

// Compile verifies the pattern graph reachable from start and freezes it for
// validation: every reference must be bound and the arena must fit the
// configured limit. Construction already rejected illegal combinators, so a
// compiled schema is never partially consistent. Traversal uses an explicit
// work-list; recursive grammars revisit definitions at most once.
func (b *Builder) Compile(start ID) error {
	visited := make([]bool, b.NodeCount())
	stack := []ID{start}
	reachable := 0
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < 0 || visited[id] {
			continue
		}
		visited[id] = true
		reachable++

		n := b.node(id)
		switch n.kind {
		case KindRef:
			target, ok := b.refTarget(n.str)
			if !ok {
				return errors.NewSchemaError(errors.ErrUnboundRef, "reference %q has no definition", n.str)
			}
			stack = append(stack, target)
		case KindChoice, KindGroup, KindInterleave, KindAfter:
			stack = append(stack, n.p1, n.p2)
		case KindOneOrMore, KindList, KindElement, KindAttribute:
			stack = append(stack, n.p1)
		case KindData:
			stack = append(stack, n.p2)
		}
	}

	total := b.NodeCount()
	if b.maxNodes > 0 && total > b.maxNodes {
		return errors.NewSchemaError(errors.ErrLimitExceeded,
			"schema requires %d pattern nodes, limit is %d", total, b.maxNodes)
	}

	b.mu.RLock()
	defs := len(b.defs)
	buckets := len(b.intern)
	b.mu.RUnlock()
	b.logger.Debug("schema compiled",
		zap.Int("pattern_nodes", total),
		zap.Int("reachable_nodes", reachable),
		zap.Int("definitions", defs),
		zap.Int("intern_buckets", buckets),
	)
	return nil
}
