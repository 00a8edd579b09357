package nameclass

import "strings"

// Class is a predicate over qualified names. Implementations are immutable
// values; Key returns an injective encoding used by the pattern interner to
// identify structurally equal classes.
type Class interface {
	Matches(name QName) bool
	Key() string
}

// AnyName matches every qualified name.
type AnyName struct{}

// Matches always reports true.
func (AnyName) Matches(QName) bool { return true }

// Key returns the canonical encoding of the class.
func (AnyName) Key() string { return "any" }

// NSName matches every name in one namespace.
type NSName struct {
	NS string
}

// Matches reports whether name is in the class namespace.
func (c NSName) Matches(name QName) bool { return name.Namespace == c.NS }

// Key returns the canonical encoding of the class.
func (c NSName) Key() string { return "ns:{" + c.NS + "}" }

// SimpleName matches exactly one qualified name.
type SimpleName struct {
	Name QName
}

// Matches reports whether name equals the class name.
func (c SimpleName) Matches(name QName) bool { return name == c.Name }

// Key returns the canonical encoding of the class.
func (c SimpleName) Key() string {
	return "name:{" + c.Name.Namespace + "}" + c.Name.Local
}

// NameChoice matches names matched by either sub-class.
type NameChoice struct {
	A, B Class
}

// Matches reports whether either sub-class matches name.
func (c NameChoice) Matches(name QName) bool {
	return c.A.Matches(name) || c.B.Matches(name)
}

// Key returns the canonical encoding of the class.
func (c NameChoice) Key() string {
	var b strings.Builder
	b.WriteString("choice(")
	b.WriteString(c.A.Key())
	b.WriteByte('|')
	b.WriteString(c.B.Key())
	b.WriteByte(')')
	return b.String()
}

// AnyNameExcept matches every name not matched by the excepted class.
type AnyNameExcept struct {
	Except Class
}

// Matches reports whether name is outside the excepted class.
func (c AnyNameExcept) Matches(name QName) bool {
	return !c.Except.Matches(name)
}

// Key returns the canonical encoding of the class.
func (c AnyNameExcept) Key() string { return "anyx(" + c.Except.Key() + ")" }

// NSNameExcept matches names in one namespace that are not matched by the
// excepted class.
type NSNameExcept struct {
	NS     string
	Except Class
}

// Matches reports whether name is in the namespace and outside the excepted class.
func (c NSNameExcept) Matches(name QName) bool {
	return name.Namespace == c.NS && !c.Except.Matches(name)
}

// Key returns the canonical encoding of the class.
func (c NSNameExcept) Key() string {
	return "nsx:{" + c.NS + "}(" + c.Except.Key() + ")"
}
