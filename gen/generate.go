// Package gen derives concrete string inputs (and their production traces)
// from a validated grammar, implementing the top-down random-alternation
// expansion algorithm of spec.md §4.2, generalized from the teacher's
// sibling repo japmimaviessu-grammar's compose/inflate traversal
// (random-alternation-choice building a string + tree) to also honor
// depth-bounded recursion control, bounded-geometric repetition, and
// where-predicate reject/retry.
package gen

import (
	"fmt"
	"math/rand/v2"

	"github.com/nihei9/infergen/grammar"
	"github.com/nihei9/infergen/internal/specerr"
)

const (
	repetitionMean = 3
	repetitionMax  = 12
)

// Sample is one generated input: its string form and the trace that
// produced it.
type Sample struct {
	Text  string
	Trace *Trace
}

// Config controls the generation algorithm's depth bounding, retry
// budgets, and input cache.
type Config struct {
	// SoftDepth is the non-terminal nesting depth beyond which recursive
	// alternations are deprioritized (not forbidden) in favor of
	// terminating ones.
	SoftDepth int
	// HardDepth is the nesting depth beyond which only non-recursive
	// alternations are chosen, when any exist.
	HardDepth int
	// MaxWhereAttempts bounds how many times a rule's alternation is
	// re-expanded after a where-predicate rejects it before the rule
	// gives up with a GenerationError.
	MaxWhereAttempts int
	// CacheEnabled turns on exact-string-equality duplicate suppression.
	CacheEnabled bool
	// CacheSize bounds the input cache (oldest-evicted).
	CacheSize int
	// ResampleAttempts bounds how many times a fresh string is drawn
	// after a cache collision before the sample is dropped from the
	// batch (the emitted sequence may then be shorter than count).
	ResampleAttempts int
}

// DefaultConfig returns the defaults named in spec.md §4.2/§5.
func DefaultConfig() Config {
	return Config{
		SoftDepth:        8,
		HardDepth:        16,
		MaxWhereAttempts: 32,
		CacheEnabled:     true,
		CacheSize:        10000,
		ResampleAttempts: 8,
	}
}

// Generate derives up to count concrete inputs from g's start rule,
// deterministically from seed: the same (grammar, seed, count) always
// produces the same sequence (spec.md §4.2's determinism requirement).
// gens resolves the semantic-leaf generator names embedded in g; it is
// supplied here, not at parse time, because generator snippets are only
// ever executed at generation time (spec.md §4.1). Non-fatal per-sample
// errors are returned alongside whatever samples were produced; a
// generation failure skips that sample rather than aborting the batch.
func Generate(g *grammar.Grammar, gens grammar.GeneratorTable, count int, seed uint64, cfg Config) ([]Sample, []error) {
	gr := &generator{
		grammar: g,
		gens:    gens,
		rng:     rand.New(rand.NewPCG(seed, seed)),
		cfg:     cfg,
	}

	var cache *Cache
	if cfg.CacheEnabled {
		cache = NewCache(cfg.CacheSize)
	}

	var samples []Sample
	var errs []error

	resampleAttempts := cfg.ResampleAttempts
	if resampleAttempts < 1 {
		resampleAttempts = 1
	}

	for i := 0; i < count; i++ {
		var (
			text     string
			trace    *Trace
			genErr   error
			accepted bool
		)
		for a := 0; a < resampleAttempts; a++ {
			trace, genErr = gr.expandRule(g.Start, 0)
			if genErr != nil {
				break
			}
			text = Yield(trace)
			if cache == nil || !cache.Has(text) {
				accepted = true
				break
			}
		}
		if genErr != nil {
			errs = append(errs, genErr)
			continue
		}
		if !accepted {
			// Resample attempts exhausted on cache collisions; the
			// emitted sequence falls short of count rather than padding
			// it with a duplicate (spec.md §4.2).
			continue
		}
		if cache != nil {
			cache.Add(text)
		}
		samples = append(samples, Sample{Text: text, Trace: trace})
	}

	return samples, errs
}

type generator struct {
	grammar *grammar.Grammar
	gens    grammar.GeneratorTable
	rng     *rand.Rand
	cfg     Config
}

func (gr *generator) expandRule(name string, depth int) (*Trace, error) {
	rule, ok := gr.grammar.Rule(name)
	if !ok {
		return nil, &specerr.GenerationError{NonTerminal: name, Reason: "undefined non-terminal"}
	}

	if rule.IsSemanticLeaf() {
		return gr.expandSemanticLeaf(rule)
	}

	maxAttempts := 1
	if len(rule.Wheres) > 0 {
		maxAttempts = gr.cfg.MaxWhereAttempts
		if maxAttempts < 1 {
			maxAttempts = 1
		}
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		alt := gr.pickAlt(rule.Alts, rule.Name, depth)
		children, bindings, err := gr.expandAlt(alt, depth+1)
		if err != nil {
			return nil, err
		}
		ok, err := evalWheres(rule.Wheres, bindings)
		if err != nil {
			return nil, &specerr.GenerationError{NonTerminal: name, Reason: err.Error()}
		}
		if !ok {
			continue
		}
		return &Trace{NonTerminal: name, Children: children}, nil
	}
	return nil, &specerr.GenerationError{NonTerminal: name, Reason: "where-predicate attempts exhausted"}
}

func (gr *generator) expandSemanticLeaf(rule *grammar.Rule) (*Trace, error) {
	fn, ok := gr.gens[rule.Generator.Name]
	if !ok {
		return nil, &specerr.GenerationError{NonTerminal: rule.Name, Reason: "unregistered semantic generator: " + rule.Generator.Name}
	}
	v, err := fn(gr.rng, rule.Generator.Args)
	if err != nil {
		return nil, &specerr.GenerationError{NonTerminal: rule.Name, Reason: err.Error()}
	}
	return &Trace{NonTerminal: rule.Name, SemanticValue: &v}, nil
}

func (gr *generator) expandAlt(alt grammar.Alternation, depth int) ([]*Trace, map[string]grammar.GenValue, error) {
	bindings := map[string]grammar.GenValue{}
	var children []*Trace
	for _, e := range alt.Elements {
		n, err := gr.repeatCount(e.Quantifier)
		if err != nil {
			return nil, nil, err
		}
		for k := 0; k < n; k++ {
			child, val, err := gr.expandElement(e, depth)
			if err != nil {
				return nil, nil, err
			}
			children = append(children, child)
			if e.Label != "" && val != nil {
				bindings[e.Label] = *val
			}
		}
	}
	return children, bindings, nil
}

func (gr *generator) expandElement(e grammar.Element, depth int) (*Trace, *grammar.GenValue, error) {
	switch e.Kind {
	case grammar.ElemLiteral:
		return &Trace{Literal: e.Literal}, nil, nil
	case grammar.ElemNonTerminal:
		child, err := gr.expandRule(e.Ref, depth)
		if err != nil {
			return nil, nil, err
		}
		child.Label = e.Label
		v := grammar.StringValue(Yield(child))
		if child.SemanticValue != nil {
			v = *child.SemanticValue
		}
		return child, &v, nil
	case grammar.ElemGroup:
		alt := gr.pickAlt(e.Group, "", depth)
		children, _, err := gr.expandAlt(alt, depth)
		if err != nil {
			return nil, nil, err
		}
		return &Trace{Children: children}, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown element kind")
}

// pickAlt chooses one alternation, deprioritizing (soft depth) or
// forbidding (hard depth) direct recursion back into selfName once past
// the corresponding threshold. selfName is empty for group elements,
// which have no name to recurse on.
func (gr *generator) pickAlt(alts []grammar.Alternation, selfName string, depth int) grammar.Alternation {
	if len(alts) == 1 {
		return alts[0]
	}

	if selfName != "" && depth >= gr.cfg.HardDepth {
		if nonRecursive := filterNonRecursive(alts, selfName); len(nonRecursive) > 0 {
			return nonRecursive[gr.rng.IntN(len(nonRecursive))]
		}
	}

	if selfName != "" && depth >= gr.cfg.SoftDepth {
		weights := make([]int, len(alts))
		total := 0
		for i, a := range alts {
			w := 3
			if isRecursive(a, selfName) {
				w = 1
			}
			weights[i] = w
			total += w
		}
		pick := gr.rng.IntN(total)
		for i, w := range weights {
			if pick < w {
				return alts[i]
			}
			pick -= w
		}
	}

	return alts[gr.rng.IntN(len(alts))]
}

func isRecursive(alt grammar.Alternation, name string) bool {
	for _, e := range alt.Elements {
		if e.Kind == grammar.ElemNonTerminal && e.Ref == name {
			return true
		}
	}
	return false
}

func filterNonRecursive(alts []grammar.Alternation, name string) []grammar.Alternation {
	var out []grammar.Alternation
	for _, a := range alts {
		if !isRecursive(a, name) {
			out = append(out, a)
		}
	}
	return out
}

func (gr *generator) repeatCount(q grammar.Quantifier) (int, error) {
	switch q {
	case grammar.QuantNone:
		return 1, nil
	case grammar.QuantOpt:
		if gr.rng.Float64() < 0.5 {
			return 1, nil
		}
		return 0, nil
	case grammar.QuantStar:
		return boundedGeometric(gr.rng, repetitionMean, repetitionMax), nil
	case grammar.QuantPlus:
		return 1 + boundedGeometric(gr.rng, repetitionMean-1, repetitionMax-1), nil
	}
	return 1, nil
}

// boundedGeometric draws a geometrically distributed count with the given
// mean, capped at max: spec.md §4.2's "bounded geometric distribution
// (mean 3, max 12)".
func boundedGeometric(rng *rand.Rand, mean, max int) int {
	if mean <= 0 {
		return 0
	}
	p := 1.0 / float64(mean+1)
	n := 0
	for n < max {
		if rng.Float64() < p {
			break
		}
		n++
	}
	return n
}

func evalWheres(preds []*grammar.WherePredicate, bindings map[string]grammar.GenValue) (bool, error) {
	for _, p := range preds {
		ok, err := p.Eval(bindings)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
