package pattern

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// internNode canonicalizes n: if a structurally identical node exists its ID
// is returned, otherwise n is appended to the arena. The structural key is
// an xxhash64 digest of a canonical byte encoding; buckets keep the IDs
// sharing a digest and are verified field by field, so a hash collision can
// never merge distinct patterns.
func (b *Builder) internNode(n node) ID {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := b.structuralKey(&n)
	for _, id := range b.intern[key] {
		if nodesEqual(&b.nodes[id], &n) {
			return id
		}
	}
	id := ID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	b.intern[key] = append(b.intern[key], id)
	return id
}

// structuralKey encodes the identity-relevant fields of n. Variable-length
// fields are length-prefixed so concatenations cannot collide. Caller holds
// the write lock (context registration mutates ctxIDs).
func (b *Builder) structuralKey(n *node) uint64 {
	var buf [16]byte
	d := xxhash.New()

	buf[0] = byte(n.kind)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(n.p1))
	binary.LittleEndian.PutUint32(buf[5:9], uint32(n.p2))
	_, _ = d.Write(buf[:9])

	writeString := func(s string) {
		binary.LittleEndian.PutUint32(buf[:4], uint32(len(s)))
		_, _ = d.Write(buf[:4])
		_, _ = d.WriteString(s)
	}
	if n.nc != nil {
		writeString(n.nc.Key())
	}
	if n.dt != nil {
		writeString(n.dt.Name())
	}
	for _, p := range n.params {
		writeString(p.Name)
		writeString(p.Value)
	}
	if n.ctx != nil {
		ctxID, ok := b.ctxIDs[n.ctx]
		if !ok {
			ctxID = uint32(len(b.ctxIDs) + 1)
			b.ctxIDs[n.ctx] = ctxID
		}
		binary.LittleEndian.PutUint32(buf[:4], ctxID)
		_, _ = d.Write(buf[:4])
	}
	writeString(n.str)

	return d.Sum64()
}

func nodesEqual(a, c *node) bool {
	if a.kind != c.kind || a.p1 != c.p1 || a.p2 != c.p2 || a.str != c.str {
		return false
	}
	if (a.nc == nil) != (c.nc == nil) {
		return false
	}
	if a.nc != nil && a.nc.Key() != c.nc.Key() {
		return false
	}
	if (a.dt == nil) != (c.dt == nil) {
		return false
	}
	if a.dt != nil && a.dt.Name() != c.dt.Name() {
		return false
	}
	if a.ctx != c.ctx {
		return false
	}
	if len(a.params) != len(c.params) {
		return false
	}
	for i := range a.params {
		if a.params[i] != c.params[i] {
			return false
		}
	}
	return true
}
