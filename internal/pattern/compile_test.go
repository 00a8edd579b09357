package pattern

import (
	"testing"

	"github.com/relaxml/rng/errors"
)

func TestCompileUnboundRef(t *testing.T) {
	b := New()
	el := b.MakeElement(name("doc"), b.Ref("missing"))

	err := b.Compile(el)
	se, ok := errors.AsSchemaError(err)
	if !ok {
		t.Fatalf("Compile error = %v, want SchemaError", err)
	}
	if se.Code != errors.ErrUnboundRef {
		t.Fatalf("Code = %q, want %q", se.Code, errors.ErrUnboundRef)
	}
}

func TestCompileRecursiveGrammar(t *testing.T) {
	b := New()
	content := b.MakeChoice(b.MakeOneOrMore(b.Ref("section")), IDText)
	el := b.MakeElement(name("section"), content)
	if err := b.Define("section", el); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := b.Compile(el); err != nil {
		t.Fatalf("Compile: %v", err)
	}
}

func TestCompileNodeLimit(t *testing.T) {
	b := New(WithMaxNodes(2))
	el := b.MakeElement(name("doc"), IDText)

	err := b.Compile(el)
	se, ok := errors.AsSchemaError(err)
	if !ok {
		t.Fatalf("Compile error = %v, want SchemaError", err)
	}
	if se.Code != errors.ErrLimitExceeded {
		t.Fatalf("Code = %q, want %q", se.Code, errors.ErrLimitExceeded)
	}
}
