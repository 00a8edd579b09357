package rng_test

import (
	"fmt"
	"strings"

	"github.com/relaxml/rng"
	"github.com/relaxml/rng/errors"
	"github.com/relaxml/rng/pkg/nameclass"
)

func Example() {
	// element doc { element title { text }, element item { text }+ }
	b := rng.NewBuilder()
	simple := func(name string) nameclass.Class {
		return nameclass.SimpleName{Name: nameclass.Local(name)}
	}
	title := b.Element(simple("title"), b.Text())
	item := b.Element(simple("item"), b.Text())
	doc := b.Element(simple("doc"), b.Group(title, b.OneOrMore(item)))

	engine, err := b.Compile(doc)
	if err != nil {
		fmt.Println("compile:", err)
		return
	}

	valid := `<doc><title>Shopping</title><item>milk</item></doc>`
	if err := engine.Validate(strings.NewReader(valid)); err == nil {
		fmt.Println("valid document accepted")
	}

	invalid := `<doc><title>Shopping</title></doc>`
	if violations, ok := errors.AsValidations(engine.Validate(strings.NewReader(invalid))); ok {
		for _, v := range violations {
			fmt.Println(v.Code)
		}
	}
	// Output:
	// valid document accepted
	// rng-incomplete-content
}
