package datatype

import "testing"

func TestStringType(t *testing.T) {
	dt := String()
	if dt.Name() != "string" {
		t.Fatalf("Name() = %q, want %q", dt.Name(), "string")
	}
	if !dt.Validate("anything", nil, nil) {
		t.Fatal("string must accept every lexical value")
	}
	if !dt.Equal("a b", "a b", nil) {
		t.Fatal("identical strings must be equal")
	}
	if dt.Equal("a b", "a  b", nil) {
		t.Fatal("string equality must be literal")
	}
}

func TestTokenType(t *testing.T) {
	dt := Token()
	if dt.Name() != "token" {
		t.Fatalf("Name() = %q, want %q", dt.Name(), "token")
	}

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical", a: "a b", b: "a b", want: true},
		{name: "collapsed spaces", a: "a  b", b: "a b", want: true},
		{name: "surrounding whitespace", a: "\n a b \t", b: "a b", want: true},
		{name: "different tokens", a: "a b", b: "a c", want: false},
		{name: "both empty", a: "", b: "   ", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dt.Equal(tt.a, tt.b, nil); got != tt.want {
				t.Fatalf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
