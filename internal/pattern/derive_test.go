package pattern

import (
	"testing"

	"github.com/relaxml/rng/pkg/datatype"
	"github.com/relaxml/rng/pkg/nameclass"
)

func TestTextResidualText(t *testing.T) {
	b := New()
	if got := b.TextResidual(IDText, "anything at all"); got != IDText {
		t.Fatalf("TextResidual(text) = %d, want %d", got, IDText)
	}
	if got := b.TextResidual(IDEmpty, "x"); got != IDNotAllowed {
		t.Fatalf("TextResidual(empty, non-ws) = %d, want notAllowed", got)
	}
}

func TestTextResidualValue(t *testing.T) {
	b := New()

	tests := []struct {
		name    string
		dt      datatype.Type
		lexical string
		text    string
		match   bool
	}{
		{name: "token exact", dt: datatype.Token(), lexical: "yes", text: "yes", match: true},
		{name: "token collapsed", dt: datatype.Token(), lexical: "yes", text: "  yes\n", match: true},
		{name: "token mismatch", dt: datatype.Token(), lexical: "yes", text: "no", match: false},
		{name: "string exact", dt: datatype.String(), lexical: "yes", text: "yes", match: true},
		{name: "string literal", dt: datatype.String(), lexical: "yes", text: " yes ", match: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustValue(t, b, tt.dt, tt.lexical)
			got := b.TextResidual(v, tt.text)
			if tt.match && got != IDEmpty {
				t.Fatalf("TextResidual = %d, want empty", got)
			}
			if !tt.match && got != IDNotAllowed {
				t.Fatalf("TextResidual = %d, want notAllowed", got)
			}
		})
	}
}

func TestTextResidualDataExcept(t *testing.T) {
	b := New()
	tok := datatype.Token()
	empty := mustValue(t, b, tok, "")

	// Token data excluding the empty token.
	d, err := b.MakeData(tok, nil, empty)
	if err != nil {
		t.Fatalf("MakeData: %v", err)
	}
	if got := b.TextResidual(d, "hello"); got != IDEmpty {
		t.Fatalf("TextResidual(data, %q) = %d, want empty", "hello", got)
	}
	if got := b.TextResidual(d, "   "); got != IDNotAllowed {
		t.Fatalf("TextResidual(data except empty, whitespace) = %d, want notAllowed", got)
	}
}

func TestTextResidualList(t *testing.T) {
	b := New()
	tok := datatype.Token()
	x := mustValue(t, b, tok, "x")

	list, err := b.MakeList(b.MakeOneOrMore(x))
	if err != nil {
		t.Fatalf("MakeList: %v", err)
	}

	tests := []struct {
		name  string
		text  string
		match bool
	}{
		{name: "one token", text: "x", match: true},
		{name: "many tokens", text: " x  x\tx ", match: true},
		{name: "wrong token", text: "x y", match: false},
		{name: "no tokens", text: "  ", match: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.TextResidual(list, tt.text)
			if tt.match && got != IDEmpty {
				t.Fatalf("TextResidual = %d, want empty", got)
			}
			if !tt.match && got != IDNotAllowed {
				t.Fatalf("TextResidual = %d, want notAllowed", got)
			}
		})
	}
}

func TestStartTagResidual(t *testing.T) {
	b := New()
	title := b.MakeElement(name("title"), IDText)
	item := b.MakeElement(name("item"), IDText)
	content := b.MakeGroup(title, b.MakeOneOrMore(item))

	d := b.StartTagResidual(content, nameclass.Local("title"))
	if d == IDNotAllowed {
		t.Fatal("title must be allowed first")
	}
	if b.StartTagResidual(content, nameclass.Local("item")) != IDNotAllowed {
		t.Fatal("item must not be allowed before title")
	}
	if b.StartTagResidual(content, nameclass.Local("bogus")) != IDNotAllowed {
		t.Fatal("undeclared element must not be allowed")
	}

	// Memoized: the same query returns the identical node.
	if again := b.StartTagResidual(content, nameclass.Local("title")); again != d {
		t.Fatalf("memoized residual = %d, want %d", again, d)
	}
}

func TestElementSequenceDerivation(t *testing.T) {
	b := New()
	title := b.MakeElement(name("title"), IDText)
	item := b.MakeElement(name("item"), IDText)
	doc := b.MakeElement(name("doc"), b.MakeGroup(title, b.MakeOneOrMore(item)))

	// <doc><title>t</title><item>i</item></doc>
	p := b.StartTagResidual(doc, nameclass.Local("doc"))
	if p == IDNotAllowed {
		t.Fatal("doc start rejected")
	}

	p = b.StartTagResidual(p, nameclass.Local("title"))
	p = b.TextResidual(p, "t")
	p = b.EndTagResidual(p, false)
	if p == IDNotAllowed {
		t.Fatal("title rejected")
	}

	// Closing doc here is incomplete: at least one item is required.
	if got := b.EndTagResidual(p, false); got != IDNotAllowed {
		t.Fatalf("EndTagResidual before item = %d, want notAllowed", got)
	}

	p = b.StartTagResidual(p, nameclass.Local("item"))
	p = b.TextResidual(p, "i")
	p = b.EndTagResidual(p, false)
	if p == IDNotAllowed {
		t.Fatal("item rejected")
	}

	p = b.EndTagResidual(p, false)
	if p == IDNotAllowed {
		t.Fatal("doc end rejected after one item")
	}
	if !b.Nullable(p) {
		t.Fatal("document residual must be nullable at end of input")
	}
}

func TestInterleaveDerivationOrderIndependent(t *testing.T) {
	b := New()
	a := b.MakeElement(name("a"), IDEmpty)
	bb := b.MakeElement(name("b"), IDEmpty)
	both, err := b.MakeInterleave(a, bb)
	if err != nil {
		t.Fatalf("MakeInterleave: %v", err)
	}
	doc := b.MakeElement(name("doc"), both)

	for _, order := range [][]string{{"a", "b"}, {"b", "a"}} {
		p := b.StartTagResidual(doc, nameclass.Local("doc"))
		for _, child := range order {
			p = b.StartTagResidual(p, nameclass.Local(child))
			if p == IDNotAllowed {
				t.Fatalf("order %v: child %s rejected", order, child)
			}
			p = b.EndTagResidual(p, false)
		}
		if p = b.EndTagResidual(p, false); p == IDNotAllowed {
			t.Fatalf("order %v: doc end rejected", order)
		}
	}

	// The same child twice is rejected.
	p := b.StartTagResidual(doc, nameclass.Local("doc"))
	p = b.EndTagResidual(b.StartTagResidual(p, nameclass.Local("a")), false)
	if b.StartTagResidual(p, nameclass.Local("a")) != IDNotAllowed {
		t.Fatal("second a must be rejected")
	}
}

func TestAttributeResidual(t *testing.T) {
	b := New()
	tok := datatype.Token()
	yes := mustValue(t, b, tok, "yes")
	attr := mustAttribute(t, b, name("ok"), yes)
	el := b.MakeElement(name("e"), attr)

	p := b.StartTagResidual(el, nameclass.Local("e"))

	if got := b.AttributeResidual(p, nameclass.Local("ok"), "yes"); got == IDNotAllowed {
		t.Fatal("valid attribute rejected")
	}
	if got := b.AttributeResidual(p, nameclass.Local("ok"), "no"); got != IDNotAllowed {
		t.Fatalf("invalid value accepted: %d", got)
	}
	if got := b.AttributeResidual(p, nameclass.Local("other"), "yes"); got != IDNotAllowed {
		t.Fatalf("undeclared attribute accepted: %d", got)
	}

	// The name probe separates unknown names from rejected values.
	if got := b.AttributeNameResidual(p, nameclass.Local("ok")); got == IDNotAllowed {
		t.Fatal("name probe rejected a declared attribute")
	}
	if got := b.AttributeNameResidual(p, nameclass.Local("other")); got != IDNotAllowed {
		t.Fatal("name probe accepted an undeclared attribute")
	}
}

func TestAttributeOrderIrrelevant(t *testing.T) {
	b := New()
	a1 := mustAttribute(t, b, name("x"), IDText)
	a2 := mustAttribute(t, b, name("y"), IDText)
	el := b.MakeElement(name("e"), b.MakeGroup(a1, a2))

	for _, order := range [][]string{{"x", "y"}, {"y", "x"}} {
		p := b.StartTagResidual(el, nameclass.Local("e"))
		for _, at := range order {
			p = b.AttributeResidual(p, nameclass.Local(at), "v")
			if p == IDNotAllowed {
				t.Fatalf("order %v: attribute %s rejected", order, at)
			}
		}
		if got := b.EndAttributes(p, false); got == IDNotAllowed {
			t.Fatalf("order %v: EndAttributes rejected", order)
		}
	}
}

func TestEndAttributes(t *testing.T) {
	b := New()
	required := mustAttribute(t, b, name("id"), IDText)
	el := b.MakeElement(name("e"), b.MakeGroup(required, IDText))

	p := b.StartTagResidual(el, nameclass.Local("e"))

	if got := b.EndAttributes(p, false); got != IDNotAllowed {
		t.Fatalf("missing required attribute: EndAttributes = %d, want notAllowed", got)
	}
	rec := b.EndAttributes(p, true)
	if rec == IDNotAllowed {
		t.Fatal("recovering EndAttributes must drop the unsatisfied attribute")
	}

	with := b.AttributeResidual(p, nameclass.Local("id"), "v1")
	if got := b.EndAttributes(with, false); got == IDNotAllowed {
		t.Fatal("satisfied attribute list rejected")
	}
}

func TestOptionalAttributeEndAttributes(t *testing.T) {
	b := New()
	attr := mustAttribute(t, b, name("id"), IDText)
	el := b.MakeElement(name("e"), b.MakeChoice(attr, IDEmpty))

	p := b.StartTagResidual(el, nameclass.Local("e"))
	got := b.EndAttributes(p, false)
	if got == IDNotAllowed {
		t.Fatal("optional attribute must not be required")
	}
	if e := b.EndTagResidual(got, false); e == IDNotAllowed {
		t.Fatal("element with optional attribute must close empty")
	}
}

func TestRecursiveGrammarBoundedMemoization(t *testing.T) {
	b := New()
	content := b.MakeChoice(b.MakeOneOrMore(b.Ref("node")), IDEmpty)
	el := b.MakeElement(name("node"), content)
	if err := b.Define("node", el); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := b.Compile(el); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	child := func(p ID) ID {
		d := b.StartTagResidual(p, nameclass.Local("node"))
		if d == IDNotAllowed {
			t.Fatal("node start rejected")
		}
		return b.EndTagResidual(d, false)
	}

	p := b.StartTagResidual(el, nameclass.Local("node"))
	p = child(p)
	p = child(p)
	stable := b.NodeCount()

	for i := 0; i < 100; i++ {
		p = child(p)
	}
	if got := b.NodeCount(); got != stable {
		t.Fatalf("NodeCount grew from %d to %d over repeated siblings", stable, got)
	}

	if e := b.EndTagResidual(p, false); e == IDNotAllowed || !b.Nullable(e) {
		t.Fatal("recursive document must close cleanly")
	}
}

func TestResidualsArePure(t *testing.T) {
	b := New()
	el := b.MakeElement(name("e"), IDText)
	p := b.StartTagResidual(el, nameclass.Local("e"))

	d1 := b.TextResidual(p, "abc")
	d2 := b.TextResidual(p, "abc")
	if d1 != d2 {
		t.Fatalf("TextResidual not deterministic: %d vs %d", d1, d2)
	}

	e1 := b.EndTagResidual(d1, false)
	e2 := b.EndTagResidual(d2, false)
	if e1 != e2 {
		t.Fatalf("EndTagResidual not deterministic: %d vs %d", e1, e2)
	}
}
