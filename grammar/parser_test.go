package grammar

import (
	"strings"
	"testing"
)

func TestParseRuleShapes(t *testing.T) {
	gens := DefaultGenerators()

	tests := []struct {
		caption string
		src     string
		wantErr bool
	}{
		{
			caption: "literal concatenation",
			src:     `<pair> ::= "(" <int> "," <int> ")"` + "\n<int> ::= := uniformInt(-10, 10)\n",
		},
		{
			caption: "alternation",
			src:     `<bit> ::= "0" | "1"` + "\n",
		},
		{
			caption: "group with quantifier",
			src:     `<ints> ::= <int> ("," <int>)*` + "\n<int> ::= := uniformInt(0, 5)\n",
		},
		{
			caption: "where-clause after rule",
			src:     `<pair> ::= <int> <int>` + "\nwhere <int> != 0\n<int> ::= := uniformInt(-5, 5)\n",
		},
		{
			caption: "unterminated reference is a syntax error",
			src:     `<bad> ::= <int` + "\n",
			wantErr: true,
		},
		{
			caption: "bare identifier rule head is rejected",
			src:     "bad ::= \"x\"\n",
			wantErr: true,
		},
		{
			caption: "duplicate non-terminal is a semantic error",
			src:     `<a> ::= "x"` + "\n" + `<a> ::= "y"` + "\n",
			wantErr: true,
		},
		{
			caption: "undefined non-terminal reference is a semantic error",
			src:     `<a> ::= <b>` + "\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g, err := Parse(tt.src, gens)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g == nil {
				t.Fatalf("grammar must be non-nil")
			}
		})
	}
}

func TestParseStartRuleIsFirstDeclared(t *testing.T) {
	src := `<second> ::= "y"
<first> ::= <second>
`
	g, err := Parse(src, DefaultGenerators())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Start != "second" {
		t.Fatalf("want start rule %q, got %q", "second", g.Start)
	}
}

func TestParseNonTerminatingGrammarIsRejected(t *testing.T) {
	src := `<a> ::= <a>
`
	_, err := Parse(src, DefaultGenerators())
	if err == nil {
		t.Fatalf("expected a non-terminating grammar to be rejected")
	}
}

func TestParseCommentsAreStripped(t *testing.T) {
	src := `<a> ::= "x" # trailing comment, contains a quote-like hash
`
	g, err := Parse(src, DefaultGenerators())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := g.Rule("a")
	if !ok {
		t.Fatalf("rule <a> not found")
	}
	if len(r.Alts) != 1 || len(r.Alts[0].Elements) != 1 || r.Alts[0].Elements[0].Literal != "x" {
		t.Fatalf("unexpected parsed rule: %+v", r)
	}
}

func TestParseQuotedHashIsNotAComment(t *testing.T) {
	src := `<a> ::= "#" "x"
`
	g, err := Parse(src, DefaultGenerators())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, _ := g.Rule("a")
	if len(r.Alts[0].Elements) != 2 {
		t.Fatalf("expected the quoted '#' literal to survive comment stripping, got %+v", r.Alts[0].Elements)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	src := `<pair> ::= "(" <int> "," <int> ")"
<int> ::= := uniformInt(-10, 10)
`
	gens := DefaultGenerators()
	g, err := Parse(src, gens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rendered := g.Render()
	g2, err := Parse(rendered, gens)
	if err != nil {
		t.Fatalf("rendered grammar failed to re-parse: %v\n---\n%s", err, rendered)
	}
	if g2.Start != g.Start {
		t.Fatalf("start rule changed across round-trip: %q vs %q", g.Start, g2.Start)
	}
	if !strings.Contains(rendered, "<pair>") || !strings.Contains(rendered, "<int>") {
		t.Fatalf("rendered text must reference non-terminals with angle brackets: %s", rendered)
	}
}
