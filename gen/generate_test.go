package gen

import (
	"strconv"
	"strings"
	"testing"

	"github.com/nihei9/infergen/grammar"
	"github.com/nihei9/infergen/typedinput"
)

func mustParse(t *testing.T, src string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Parse(src, grammar.DefaultGenerators())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return g
}

func TestGenerateIsDeterministicForAFixedSeed(t *testing.T) {
	g := mustParse(t, `<pair> ::= "(" <int> "," <int> ")"
<int> ::= := uniformInt(-100, 100)
`)
	cfg := DefaultConfig()

	s1, errs1 := Generate(g, grammar.DefaultGenerators(), 20, 42, cfg)
	s2, errs2 := Generate(g, grammar.DefaultGenerators(), 20, 42, cfg)
	if len(errs1) != 0 || len(errs2) != 0 {
		t.Fatalf("unexpected generation errors: %v / %v", errs1, errs2)
	}
	if len(s1) != len(s2) {
		t.Fatalf("want equal sample counts across runs with the same seed, got %d vs %d", len(s1), len(s2))
	}
	for i := range s1 {
		if s1[i].Text != s2[i].Text {
			t.Fatalf("sample %d differs across runs with the same seed: %q vs %q", i, s1[i].Text, s2[i].Text)
		}
	}
}

func TestGenerateProducesParsableTuples(t *testing.T) {
	g := mustParse(t, `<pair> ::= "(" <int> "," <int> ")"
<int> ::= := uniformInt(-10, 10)
`)
	samples, errs := Generate(g, grammar.DefaultGenerators(), 30, 7, DefaultConfig())
	if len(errs) != 0 {
		t.Fatalf("unexpected generation errors: %v", errs)
	}
	if len(samples) != 30 {
		t.Fatalf("want 30 samples, got %d", len(samples))
	}
	for _, s := range samples {
		if !strings.HasPrefix(s.Text, "(") || !strings.HasSuffix(s.Text, ")") {
			t.Fatalf("want a parenthesized pair, got %q", s.Text)
		}
		v, err := typedinput.Parse(s.Text)
		if err != nil {
			t.Fatalf("generated text %q did not parse: %v", s.Text, err)
		}
		if v.Shape != typedinput.ShapeTuple || len(v.Items) != 2 {
			t.Fatalf("want a 2-tuple, got shape=%v items=%d for %q", v.Shape, len(v.Items), s.Text)
		}
	}
}

func TestGenerateEnforcesLengthPrefixInvariant(t *testing.T) {
	g := mustParse(t, `<msg> ::= <length> ":" <content>
where <length> == uint16(len(<content>))
<length> ::= := uniformInt(0, 5)
<content> ::= := randString(0, 5)
`)
	samples, errs := Generate(g, grammar.DefaultGenerators(), 40, 9, DefaultConfig())
	for _, e := range errs {
		t.Logf("generation error (expected occasionally once the where-retry budget is exhausted): %v", e)
	}
	if len(samples) == 0 {
		t.Fatalf("want at least one sample honoring the length-prefix invariant")
	}
	for _, s := range samples {
		i := strings.IndexByte(s.Text, ':')
		if i < 0 {
			t.Fatalf("generated text %q is missing the length-prefix separator", s.Text)
		}
		prefix, content := s.Text[:i], s.Text[i+1:]
		n, err := strconv.Atoi(prefix)
		if err != nil {
			t.Fatalf("length prefix %q in %q is not an integer", prefix, s.Text)
		}
		if n != len(content) {
			t.Fatalf("length prefix %d does not match content length %d in %q", n, len(content), s.Text)
		}
	}
}

func TestGenerateHonorsWherePredicate(t *testing.T) {
	g := mustParse(t, `<pair> ::= <a> <b>
where <a> != 0
<a> ::= := uniformInt(0, 1)
<b> ::= := uniformInt(5, 5)
`)
	samples, errs := Generate(g, grammar.DefaultGenerators(), 20, 3, DefaultConfig())
	for _, e := range errs {
		t.Logf("generation error (expected occasionally under a strict where-clause): %v", e)
	}
	for _, s := range samples {
		if !strings.HasPrefix(s.Text, "1") {
			t.Fatalf("where-clause should have forced <a> to 1, got %q", s.Text)
		}
	}
}
