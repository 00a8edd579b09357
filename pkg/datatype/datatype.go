// Package datatype defines the capability boundary between the pattern
// engine and a RELAX NG datatype library. Value and data patterns hold a
// Type and use it opaquely; the engine never interprets lexical values
// itself.
package datatype

// Param is a single datatype parameter, such as a length or pattern facet.
type Param struct {
	Name  string
	Value string
}

// Context carries the namespace bindings in scope where a lexical value was
// written. Datatypes whose value space depends on prefixes (such as QName)
// resolve them through it. Implementations must be comparable; the pattern
// interner identifies contexts by interface equality.
type Context interface {
	ResolveNamespacePrefix(prefix string) (ns string, ok bool)
}

// Type is a single datatype supplied by an external library.
//
// Name must be unique within one schema; the pattern interner uses it to
// identify structurally equal value and data patterns.
type Type interface {
	Name() string
	Validate(lexical string, params []Param, ctx Context) bool
	Equal(a, b string, ctx Context) bool
}
