package grammar

import (
	"strconv"
	"strings"
)

// Render serializes g back into spec.md §6's line-based grammar text, used
// to populate the oracle request's grammar_text field after a splice has
// produced a new in-memory Grammar with no backing source file (spec.md
// §4.7). Quantifier-free literal quoting reverses tokenizeBody's escaping.
func (g *Grammar) Render() string {
	var b strings.Builder
	for _, name := range g.order {
		r := g.rules[name]
		b.WriteString("<")
		b.WriteString(name)
		b.WriteString("> ::= ")
		if r.IsSemanticLeaf() {
			b.WriteString(":= ")
			b.WriteString(r.Generator.Name)
			b.WriteString("(")
			b.WriteString(strings.Join(r.Generator.Args, ", "))
			b.WriteString(")")
		} else {
			alts := make([]string, len(r.Alts))
			for i, a := range r.Alts {
				alts[i] = renderAlt(a)
			}
			b.WriteString(strings.Join(alts, " | "))
		}
		b.WriteString("\n")
		for _, w := range r.Wheres {
			b.WriteString(w.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderAlt(a Alternation) string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = renderElement(e)
	}
	return strings.Join(parts, " ")
}

func renderElement(e Element) string {
	var s string
	switch e.Kind {
	case ElemLiteral:
		s = strconv.Quote(e.Literal)
	case ElemNonTerminal:
		s = "<" + e.Ref + ">"
	case ElemGroup:
		alts := make([]string, len(e.Group))
		for i, a := range e.Group {
			alts[i] = renderAlt(a)
		}
		s = "(" + strings.Join(alts, " | ") + ")"
	}
	switch e.Quantifier {
	case QuantOpt:
		s += "?"
	case QuantStar:
		s += "*"
	case QuantPlus:
		s += "+"
	}
	return s
}
