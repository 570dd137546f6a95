package engine

import (
	"context"
	"fmt"

	"github.com/nihei9/infergen/grammar"
	"github.com/nihei9/infergen/oracle"
	"github.com/nihei9/infergen/property"
)

// feedbackIteration runs one pass of C7: mine the outcome's counterexample
// witnesses, call the oracle for candidate constraints, and splice whatever
// is valid onto g. It returns the spliced grammar (g itself if nothing
// applied), the raw constraint texts returned this iteration (for
// constraints_history, applied or not per spec.md §4.7), and whether at
// least one constraint was applied — the engine stops retrying once an
// iteration applies nothing.
func (e *Engine) feedbackIteration(ctx context.Context, fc *FUTConfig, g *grammar.Grammar, tmpl *property.Template, outcome property.Outcome) (*grammar.Grammar, []string, bool) {
	witnesses := make([]string, len(outcome.Counterexamples))
	for i, w := range outcome.Counterexamples {
		witnesses[i] = w.Note
	}

	req := oracleRequest(fc, g, tmpl, witnesses)
	constraints, err := e.cfg.Oracle.InferConstraints(ctx, req)
	if err != nil {
		e.cfg.Logger.Warn("oracle error", "fut", fc.FUT.ID, "property", tmpl.Name, "error", err.Error())
		return g, nil, false
	}
	if len(constraints) == 0 {
		return g, nil, false
	}

	gc := make([]grammar.Constraint, len(constraints))
	for i, c := range constraints {
		gc[i] = grammar.Constraint(c)
	}

	next, results := g.Splice(gc)

	texts := make([]string, len(results))
	applied := false
	for i, r := range results {
		texts[i] = string(r.Constraint)
		if r.Applied {
			applied = true
		} else {
			e.cfg.Logger.Warn("constraint rejected", "fut", fc.FUT.ID, "property", tmpl.Name, "constraint", string(r.Constraint), "reason", r.Reason)
		}
	}
	if !applied {
		return g, texts, false
	}
	return next, texts, true
}

func oracleRequest(fc *FUTConfig, g *grammar.Grammar, tmpl *property.Template, witnesses []string) oracle.Request {
	return oracle.Request{
		GrammarText:         g.Render(),
		PropertyName:        tmpl.Name,
		PropertyDescription: oracleRequestDescription(tmpl),
		Counterexamples:     witnesses,
	}
}

func oracleRequestDescription(tmpl *property.Template) string {
	return fmt.Sprintf("%s (category: %s, arity: %d)", tmpl.Name, tmpl.Category, tmpl.Arity)
}
