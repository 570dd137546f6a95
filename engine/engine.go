// Package engine orchestrates the full sample-evaluate-refine loop over one
// or more functions under test (spec.md §4.6): for each FUT, compute the
// compatible property templates, sample typed inputs from its grammar,
// evaluate each template, and — when feedback is enabled and a property
// does not hold — invoke the constraint-refinement loop (C7) before
// re-evaluating. Grounded on nihei9-vartan/grammar/grammar.go's Compile: a
// single function driving several sequential sub-phases, each producing a
// value the next consumes, with errors surfaced rather than panicking.
package engine

import (
	"context"
	"fmt"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/gen"
	"github.com/nihei9/infergen/grammar"
	"github.com/nihei9/infergen/internal/obslog"
	"github.com/nihei9/infergen/oracle"
	"github.com/nihei9/infergen/property"
	"github.com/nihei9/infergen/typedinput"
)

// Parser turns one generated sample string into the typed input shape a
// FUT expects (spec.md §4.3). typedinput.Parse and typedinput.ParseNumbers
// are the two built-in modes; callers may also supply a custom one. When
// FUTConfig.Parser is nil, sampleAndEvaluate uses typedinput.Parse.
type Parser func(text string) (typedinput.Value, error)

// FUTConfig binds one function under test to the grammar and parser that
// supply its sample inputs (spec.md §6's configure(...) surface).
type FUTConfig struct {
	FUT         *fut.FUT
	Grammar     *grammar.Grammar
	Generators  grammar.GeneratorTable
	Parser      Parser
	GrammarPath string // used only for diagnostics and the oracle request
}

// Config is the PropertyInferenceConfig spec.md §6 names, constructible
// directly in code or populated from internal/config's koanf loader.
type Config struct {
	Registry *property.Registry
	FUTs     []FUTConfig

	ExampleCount       int
	MaxCounterexamples int
	// RetainAllCounterexamples resolves spec.md §9 Open Question (a): when
	// set, MaxCounterexamples is treated as a floor rather than a cap —
	// every generated counterexample is kept (and every success witness,
	// symmetrically), so the full set is available to feed the oracle
	// during feedback, instead of being truncated at MaxCounterexamples.
	RetainAllCounterexamples bool
	ComparisonStrategy       fut.Strategy
	UseInputCache            bool
	FeedbackEnabled          bool
	MaxFeedbackAttempts      int
	Seed                     uint64

	// PropertyNames restricts evaluation to these template names when
	// non-empty (spec.md §4.6 step 1, "restricted to any user-specified
	// name filter").
	PropertyNames []string

	// Parallel gates (fut, template)-granularity concurrency, disabled by
	// default per spec.md §5.
	Parallel        bool
	ParallelWorkers int

	Oracle oracle.Client
	Logger obslog.Logger
}

// PropertyResult is one (fut, template) pair's outcome plus its feedback
// history, matching spec.md §6's results schema entry.
type PropertyResult struct {
	Holds           bool
	Successes       []string
	Counterexamples []string
	TotalCount      int
	SuccessCount    int
	Confidence      float64
	Inapplicable    bool // arity mismatch: the pair was never evaluated
	Inconclusive    bool // generation-failure budget exceeded
}

// FUTResult aggregates every property outcome and constraint-history entry
// for one FUT (spec.md §6).
type FUTResult struct {
	Outcomes           map[string]PropertyResult
	ConstraintsHistory map[string][][]string
}

// Results is the top-level per-FUT aggregation spec.md §6 names.
type Results map[string]FUTResult

// Engine runs the configured FUTs against their compatible templates.
type Engine struct {
	cfg Config
}

// Configure validates nothing beyond defaulting: Run surfaces any
// structural problem (e.g. a nil registry) as an error rather than
// panicking, per spec.md §7's propagation policy.
func Configure(cfg Config) *Engine {
	if cfg.Logger.IsZero() {
		cfg.Logger = obslog.Nop()
	}
	return &Engine{cfg: cfg}
}

// Run executes every configured FUT sequentially (or, if cfg.Parallel is
// set, with bounded (fut, template) concurrency via runFUTParallel), returning
// whatever results were produced up to a ctx cancellation (spec.md §5's
// "cancellation aborts between (fut, template) pairs").
func (e *Engine) Run(ctx context.Context) (Results, error) {
	if e.cfg.Registry == nil {
		return nil, fmt.Errorf("engine: Config.Registry must not be nil")
	}

	results := make(Results, len(e.cfg.FUTs))
	for _, fc := range e.cfg.FUTs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := e.runFUT(ctx, fc)
		if err != nil {
			return results, err
		}
		results[fc.FUT.ID] = res
	}
	return results, nil
}

func (e *Engine) runFUT(ctx context.Context, fc FUTConfig) (FUTResult, error) {
	templates := e.applicableTemplates(fc.FUT)

	result := FUTResult{
		Outcomes:           make(map[string]PropertyResult, len(templates)),
		ConstraintsHistory: make(map[string][][]string),
	}

	if e.cfg.Parallel {
		return e.runFUTParallel(ctx, fc, templates)
	}

	for _, tmpl := range templates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		pr, history := e.evaluatePair(ctx, &fc, tmpl)
		result.Outcomes[tmpl.Name] = pr
		if len(history) > 0 {
			result.ConstraintsHistory[tmpl.Name] = history
		}
	}
	return result, nil
}

// applicableTemplates computes spec.md §4.6 step 1: templates whose
// compatibility predicate accepts the FUT, restricted to any configured
// name filter.
func (e *Engine) applicableTemplates(f *fut.FUT) []*property.Template {
	candidates := e.cfg.Registry.Compatible(f)
	if len(e.cfg.PropertyNames) == 0 {
		return candidates
	}
	allow := make(map[string]bool, len(e.cfg.PropertyNames))
	for _, n := range e.cfg.PropertyNames {
		allow[n] = true
	}
	var out []*property.Template
	for _, t := range candidates {
		if allow[t.Name] {
			out = append(out, t)
		}
	}
	return out
}

// evaluatePair runs one (fut, template) pair through sampling + evaluation,
// and — if feedback is enabled and the property does not hold — the
// constraint-refinement loop, returning the final outcome and the
// constraint-history batches accumulated along the way (spec.md §4.6 steps
// 2-3).
func (e *Engine) evaluatePair(ctx context.Context, fc *FUTConfig, tmpl *property.Template) (PropertyResult, [][]string) {
	if tmpl.Arity > 0 && fc.FUT.Arity != tmpl.Arity {
		// spec.md §7: an ArityError is fatal for this (fut, template) pair;
		// mark it inapplicable instead of folding it into counterexamples.
		// Ordinary templates already guarantee this via arityCompatible, so
		// this only fires for a custom template whose Compatibility
		// predicate is looser than its declared Arity.
		return PropertyResult{Inapplicable: true}, nil
	}

	activeGrammar := fc.Grammar
	outcome, genFailures := e.sampleAndEvaluate(fc, activeGrammar, tmpl)
	pr := toResult(outcome, genFailures, e.cfg.ExampleCount)

	var history [][]string
	if !e.cfg.FeedbackEnabled || outcome.Holds || e.cfg.Oracle == nil {
		return pr, history
	}

	for attempt := 0; attempt < e.cfg.MaxFeedbackAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			break
		}
		nextGrammar, constraintTexts, applied := e.feedbackIteration(ctx, fc, activeGrammar, tmpl, outcome)
		history = append(history, constraintTexts)
		if !applied {
			break
		}
		activeGrammar = nextGrammar
		outcome, genFailures = e.sampleAndEvaluate(fc, activeGrammar, tmpl)
		pr = toResult(outcome, genFailures, e.cfg.ExampleCount)
		if outcome.Holds {
			break
		}
	}
	return pr, history
}

func (e *Engine) sampleAndEvaluate(fc *FUTConfig, g *grammar.Grammar, tmpl *property.Template) (property.Outcome, int) {
	cfg := gen.DefaultConfig()
	cfg.CacheEnabled = e.cfg.UseInputCache

	samples, genErrs := gen.Generate(g, fc.Generators, e.cfg.ExampleCount, e.cfg.Seed, cfg)
	for _, err := range genErrs {
		e.cfg.Logger.Warn("generation error", "fut", fc.FUT.ID, "error", err.Error())
	}

	parser := fc.Parser
	if parser == nil {
		parser = typedinput.Parse
	}

	inputs := make([]typedinput.Value, 0, len(samples))
	for _, s := range samples {
		v, err := parser(s.Text)
		if err != nil {
			e.cfg.Logger.Warn("parse error", "fut", fc.FUT.ID, "text", s.Text, "error", err.Error())
			continue
		}
		inputs = append(inputs, v)
	}

	maxCE := e.cfg.MaxCounterexamples
	if maxCE <= 0 {
		maxCE = e.cfg.ExampleCount
	}
	if e.cfg.RetainAllCounterexamples && e.cfg.ExampleCount > maxCE {
		// Open Question (a): max_counterexamples is a floor, not a cap, so
		// every witness produced from this batch is retained.
		maxCE = e.cfg.ExampleCount
	}
	return tmpl.Evaluate(fc.FUT, inputs, maxCE), len(genErrs)
}

func toResult(o property.Outcome, genFailures int, exampleCount int) PropertyResult {
	pr := PropertyResult{
		Holds:        o.Holds,
		TotalCount:   o.TotalCount,
		SuccessCount: o.SuccessCount,
		Confidence:   o.Confidence(),
	}
	for _, w := range o.Successes {
		pr.Successes = append(pr.Successes, w.Note)
	}
	for _, w := range o.Counterexamples {
		pr.Counterexamples = append(pr.Counterexamples, w.Note)
	}
	if exampleCount > 0 && genFailures*4 > exampleCount {
		// more than 25% of requested samples failed to generate
		pr.Inconclusive = true
	}
	return pr
}
