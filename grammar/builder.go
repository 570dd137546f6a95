package grammar

import (
	"fmt"

	"github.com/nihei9/infergen/internal/specerr"
)

// build validates a parsed rootAST against a generator table and produces
// an immutable *Grammar, following the teacher's GrammarBuilder.Build()
// shape (nihei9-vartan/grammar/grammar.go): accumulate every semantic
// error found, then bail with all of them at once rather than one at a
// time.
func build(root *rootAST, gens GeneratorTable) (*Grammar, error) {
	var errs []error

	g := &Grammar{
		rules: make(map[string]*Rule, len(root.Rules)),
	}

	for i, ra := range root.Rules {
		if i == 0 {
			g.Start = ra.Name
		}
		if _, dup := g.rules[ra.Name]; dup {
			errs = append(errs, &specerr.GrammarSemanticError{
				Pos: specerr.Pos{Row: ra.Row}, Reason: "duplicate non-terminal", Detail: ra.Name,
			})
			continue
		}

		rule := &Rule{Name: ra.Name}

		if ra.HasGen {
			fn, ok := gens[ra.GenName]
			if !ok {
				errs = append(errs, &specerr.GrammarSemanticError{
					Pos: specerr.Pos{Row: ra.Row}, Reason: "undefined semantic generator", Detail: ra.GenName,
				})
				continue
			}
			rule.Generator = &GeneratorCall{Name: ra.GenName, Args: ra.GenArgs}
			_ = fn // existence already checked; Generate re-resolves it against the table it is given
		} else {
			alts, err := parseAlternations(ra.BodyToks)
			if err != nil {
				errs = append(errs, wrapSemantic(ra.Row, err))
				continue
			}
			rule.Alts = alts
		}

		for _, wr := range ra.WhereRaws {
			wp, err := ParseWhere(wr.Text)
			if err != nil {
				errs = append(errs, &specerr.GrammarSemanticError{
					Pos: specerr.Pos{Row: wr.Row}, Reason: "invalid where-clause", Detail: err.Error(),
				})
				continue
			}
			rule.Wheres = append(rule.Wheres, wp)
		}

		g.rules[ra.Name] = rule
		g.order = append(g.order, ra.Name)
	}

	if len(errs) > 0 {
		return nil, specerr.GrammarErrors(errs)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

func wrapSemantic(row int, err error) error {
	return &specerr.GrammarSemanticError{Pos: specerr.Pos{Row: row}, Reason: err.Error()}
}

// Validate checks the invariants spec.md §3 requires of a grammar: every
// referenced non-terminal is defined, no alternation is empty (already
// enforced at parse time), and every non-terminal has some path to
// termination (at least one alternation whose elements are all terminals,
// semantic leaves, or themselves terminating non-terminals). This is the
// generalization of the teacher's findUsedAndUnusedSymbols reachability
// walk (nihei9-vartan/grammar/grammar.go) to a termination check instead of
// a used/unused check.
func (g *Grammar) Validate() error {
	var errs []error

	if g.Start == "" {
		errs = append(errs, &specerr.GrammarSemanticError{Reason: "grammar has no start rule"})
	}

	for _, name := range g.order {
		rule := g.rules[name]
		if rule.IsSemanticLeaf() {
			continue
		}
		for _, alt := range rule.Alts {
			if err := g.checkRefs(alt); err != nil {
				errs = append(errs, &specerr.GrammarSemanticError{
					Reason: fmt.Sprintf("undefined non-terminal referenced from <%s>", name), Detail: err.Error(),
				})
			}
		}
	}

	if len(errs) > 0 {
		return specerr.GrammarErrors(errs)
	}

	terminating := g.terminatingNonTerminals()
	for _, name := range g.order {
		rule := g.rules[name]
		if rule.IsSemanticLeaf() {
			continue
		}
		if !terminating[name] {
			errs = append(errs, &specerr.GrammarSemanticError{
				Reason: "non-terminal has no terminating alternation (every path recurses)", Detail: name,
			})
		}
	}

	if len(errs) > 0 {
		return specerr.GrammarErrors(errs)
	}
	return nil
}

func (g *Grammar) checkRefs(alt Alternation) error {
	for _, e := range alt.Elements {
		switch e.Kind {
		case ElemNonTerminal:
			if _, ok := g.rules[e.Ref]; !ok {
				return fmt.Errorf("%q", e.Ref)
			}
		case ElemGroup:
			for _, ga := range e.Group {
				if err := g.checkRefs(ga); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// terminatingNonTerminals computes, via fixed-point iteration, the set of
// non-terminals that have at least one alternation reachable to termination
// without infinite recursion.
func (g *Grammar) terminatingNonTerminals() map[string]bool {
	terminating := map[string]bool{}
	for _, name := range g.order {
		if g.rules[name].IsSemanticLeaf() {
			terminating[name] = true
		}
	}

	changed := true
	for changed {
		changed = false
		for _, name := range g.order {
			if terminating[name] {
				continue
			}
			rule := g.rules[name]
			for _, alt := range rule.Alts {
				if altTerminates(alt, terminating) {
					terminating[name] = true
					changed = true
					break
				}
			}
		}
	}
	return terminating
}

func altTerminates(alt Alternation, terminating map[string]bool) bool {
	for _, e := range alt.Elements {
		if e.Quantifier == QuantOpt || e.Quantifier == QuantStar {
			continue // can always choose zero occurrences
		}
		switch e.Kind {
		case ElemLiteral:
			// always terminates
		case ElemNonTerminal:
			if !terminating[e.Ref] {
				return false
			}
		case ElemGroup:
			ok := false
			for _, ga := range e.Group {
				if altTerminates(ga, terminating) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
	}
	return true
}
