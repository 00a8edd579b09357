package datatype

import "strings"

// String returns the builtin string datatype: every lexical value is valid
// and equality is literal.
func String() Type { return stringType{} }

// Token returns the builtin token datatype: every lexical value is valid and
// equality compares whitespace-collapsed forms.
func Token() Type { return tokenType{} }

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Validate(string, []Param, Context) bool { return true }

func (stringType) Equal(a, b string, _ Context) bool { return a == b }

type tokenType struct{}

func (tokenType) Name() string { return "token" }

func (tokenType) Validate(string, []Param, Context) bool { return true }

func (tokenType) Equal(a, b string, _ Context) bool {
	return collapse(a) == collapse(b)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
