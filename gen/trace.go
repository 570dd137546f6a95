package gen

import (
	"strings"

	"github.com/nihei9/infergen/grammar"
)

// Trace is a rooted tree mirroring one grammar expansion: each node
// records the non-terminal it expanded (empty for literal/group nodes),
// its children in expansion order, and — for semantically generated
// leaves — the raw generated value alongside its string rendering
// (spec.md §3, "Production trace").
type Trace struct {
	NonTerminal   string
	Label         string
	Literal       string
	SemanticValue *grammar.GenValue
	Children      []*Trace
}

// Yield renders the in-order terminal concatenation of a trace: the
// generated input string.
func Yield(t *Trace) string {
	if t == nil {
		return ""
	}
	if t.SemanticValue != nil {
		return t.SemanticValue.String()
	}
	if t.Literal != "" {
		return t.Literal
	}
	var b strings.Builder
	for _, c := range t.Children {
		b.WriteString(Yield(c))
	}
	return b.String()
}
