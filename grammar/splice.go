package grammar

import (
	"fmt"
	"strings"
)

// Constraint is one raw string returned by the constraint-inference oracle
// (spec.md §4.7): either a bare `where`-predicate body to append to an
// existing rule, or a `<name> ::= ...` replacement alternation narrowing a
// semantic leaf or an ordinary rule.
type Constraint string

// SpliceResult reports, for one candidate constraint, whether it was
// accepted and applied to the returned grammar, or rejected and why. The
// engine's feedback loop (C7) logs every entry to constraints_history
// regardless of outcome (spec.md §4.7).
type SpliceResult struct {
	Constraint Constraint
	Applied    bool
	Reason     string // set when Applied is false
}

// Splice applies each candidate constraint against a copy of g, rejecting
// (without applying) any constraint that fails to parse, references an
// undefined non-terminal, or would make the target rule produce the empty
// language. It returns a *new* Grammar value — g itself is never mutated,
// matching spec.md §4.7 ("grammars are never mutated in place") and the
// teacher's copy-on-write idiom in Grammar.clone.
func (g *Grammar) Splice(constraints []Constraint) (*Grammar, []SpliceResult) {
	next := g.clone()
	results := make([]SpliceResult, 0, len(constraints))

	for _, c := range constraints {
		name, rule, reason := spliceOne(next, c)
		if reason != "" {
			results = append(results, SpliceResult{Constraint: c, Applied: false, Reason: reason})
			continue
		}

		prev := next.rules[name]
		next.rules[name] = rule
		if err := next.Validate(); err != nil {
			next.rules[name] = prev // roll back: constraint would make the grammar produce the empty language
			results = append(results, SpliceResult{
				Constraint: c, Applied: false,
				Reason: fmt.Sprintf("rejected: %s", err.Error()),
			})
			continue
		}
		results = append(results, SpliceResult{Constraint: c, Applied: true})
	}

	return next, results
}

// spliceOne resolves one constraint string against the in-progress grammar
// `next` without modifying it: on success it returns the target rule's
// name and its narrowed replacement, which Splice then assigns into
// `next`; on rejection it returns a non-empty reason instead.
func spliceOne(next *Grammar, c Constraint) (name string, rule *Rule, reason string) {
	text := strings.TrimSpace(string(c))
	if text == "" {
		return "", nil, "empty constraint"
	}

	if strings.HasPrefix(text, "<") {
		return spliceReplacement(next, text)
	}
	return spliceWhere(next, text)
}

// spliceWhere handles form (a): a bare `where`-predicate appended to an
// existing rule. The constraint is expected as "name: predicate text",
// with the rule name bare (e.g. "pair: <int> >= 0"; a constraint that
// starts with '<' is handled as a replacement instead), so the splicer
// knows which rule to attach it to without guessing from free variables;
// this mirrors how the oracle's response schema is framed
// in the request (spec.md §4.7, SPEC_FULL.md §4.7).
func spliceWhere(next *Grammar, text string) (string, *Rule, string) {
	idx := strings.IndexByte(text, ':')
	if idx < 0 {
		return "", nil, fmt.Sprintf("where-constraint missing '<name>:' prefix: %q", text)
	}
	name := strings.TrimSpace(text[:idx])
	predText := strings.TrimSpace(text[idx+1:])

	target, ok := next.rules[name]
	if !ok {
		return "", nil, fmt.Sprintf("unknown non-terminal %q", name)
	}

	wp, err := ParseWhere(predText)
	if err != nil {
		return "", nil, err.Error()
	}

	narrowed := *target
	narrowed.Wheres = append(append([]*WherePredicate(nil), target.Wheres...), wp)
	return name, &narrowed, ""
}

// spliceReplacement handles form (b): a `<name> ::= ...` replacement
// alternation narrowing the named rule. The new body must parse and must
// not make the rule produce the empty language (no alternations at all).
func spliceReplacement(next *Grammar, text string) (string, *Rule, string) {
	close := strings.IndexByte(text, '>')
	if close < 0 {
		return "", nil, fmt.Sprintf("malformed replacement head: %q", text)
	}
	name := text[1:close]
	rest := strings.TrimSpace(text[close+1:])
	if !strings.HasPrefix(rest, "::=") {
		return "", nil, fmt.Sprintf("replacement constraint missing '::=': %q", text)
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "::="))

	target, ok := next.rules[name]
	if !ok {
		return "", nil, fmt.Sprintf("unknown non-terminal %q", name)
	}

	toks, err := tokenizeBody(rest)
	if err != nil {
		return "", nil, err.Error()
	}
	alts, err := parseAlternations(toks)
	if err != nil {
		return "", nil, err.Error()
	}
	if len(alts) == 0 {
		return "", nil, fmt.Sprintf("replacement for %q produces the empty language", name)
	}

	narrowed := *target
	narrowed.Alts = alts
	narrowed.Generator = nil
	return name, &narrowed, ""
}
