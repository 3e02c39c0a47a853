package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-catsearch/pkg/catalog"
)

func TestBuiltinFormatters(t *testing.T) {
	f := NewFormatters()

	cases := []struct {
		spec string
		v    catalog.Value
		want string
	}{
		{"join", catalog.ListValue([]string{"a", "b"}), "a, b"},
		{"join: / ", catalog.ListValue([]string{"a", "b"}), "a/ b"},
		{"join", catalog.StringValue("solo"), "solo"},
		{"suffix: kg", catalog.NumberValue(12), "12kg"},
		{"prefix: $", catalog.NumberValue(9.5), "$9.5"},
		{"number: 2", catalog.NumberValue(9.5), "9.50"},
		{"number", catalog.NumberValue(9.5), "9.5"},
		{"number: 2", catalog.StringValue("n/a"), "n/a"},
		{"upper", catalog.StringValue("abc"), "ABC"},
		{"lower", catalog.StringValue("ABC"), "abc"},
	}
	for _, tc := range cases {
		fn := f.Resolve(tc.spec)
		if fn == nil {
			t.Fatalf("spec %q did not resolve", tc.spec)
		}
		if got := fn(tc.v); got != tc.want {
			t.Fatalf("spec %q: got %q, want %q", tc.spec, got, tc.want)
		}
	}
}

func TestResolveUnknownFormatter(t *testing.T) {
	if NewFormatters().Resolve("sparkle") != nil {
		t.Fatal("unknown specs must resolve to nil")
	}
}

func TestFormatterRegistration(t *testing.T) {
	f := NewFormatters()
	if err := f.Register("shout", func(string) Formatter {
		return func(v catalog.Value) string { return v.Display() + "!" }
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := f.Resolve("shout")(catalog.StringValue("hi")); got != "hi!" {
		t.Fatalf("unexpected output %q", got)
	}

	if err := f.Register("shout", func(string) Formatter { return nil }); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if err := f.Register("", func(string) Formatter { return nil }); err == nil {
		t.Fatal("empty names must fail")
	}
}

func TestFormatterList(t *testing.T) {
	want := []string{"join", "lower", "number", "prefix", "suffix", "upper"}
	if diff := cmp.Diff(want, NewFormatters().List()); diff != "" {
		t.Fatalf("builtin formatter names mismatch (-want +got):\n%s", diff)
	}
}
