package engine

import (
	"context"
	"testing"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/grammar"
	"github.com/nihei9/infergen/property"
	"github.com/nihei9/infergen/typedinput"
)

func addIntsFUT() *fut.FUT {
	return &fut.FUT{
		ID:    "add",
		Arity: 2,
		Call: func(args []any) (any, error) {
			a := args[0].(typedinput.Value).Scalar.Int
			b := args[1].(typedinput.Value).Scalar.Int
			return a + b, nil
		},
	}
}

func subIntsFUT() *fut.FUT {
	return &fut.FUT{
		ID:    "sub",
		Arity: 2,
		Call: func(args []any) (any, error) {
			a := args[0].(typedinput.Value).Scalar.Int
			b := args[1].(typedinput.Value).Scalar.Int
			return a - b, nil
		},
	}
}

func pairGrammar(t *testing.T) (*grammar.Grammar, grammar.GeneratorTable) {
	t.Helper()
	gens := grammar.DefaultGenerators()
	g, err := grammar.Parse(`<pair> ::= "(" <int> "," <int> ")"
<int> ::= := uniformInt(-50, 50)
`, gens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g, gens
}

func TestEngineRunFindsAdditionCommutative(t *testing.T) {
	g, gens := pairGrammar(t)
	eng := Configure(Config{
		Registry: property.Arithmetic(),
		FUTs: []FUTConfig{
			{FUT: addIntsFUT(), Grammar: g, Generators: gens, Parser: typedinput.Parse},
		},
		ExampleCount:       50,
		MaxCounterexamples: 5,
		Seed:               11,
	})

	results, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pr, ok := results["add"].Outcomes["commutativity"]
	if !ok {
		t.Fatalf("want a commutativity outcome for the add FUT")
	}
	if !pr.Holds {
		t.Fatalf("addition must be commutative, got counterexamples: %v", pr.Counterexamples)
	}
}

func TestEngineRunRejectsSubtractionCommutativity(t *testing.T) {
	g, gens := pairGrammar(t)
	eng := Configure(Config{
		Registry: property.Arithmetic(),
		FUTs: []FUTConfig{
			{FUT: subIntsFUT(), Grammar: g, Generators: gens, Parser: typedinput.Parse},
		},
		ExampleCount:       50,
		MaxCounterexamples: 5,
		Seed:               11,
	})

	results, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pr := results["sub"].Outcomes["commutativity"]
	if pr.Holds {
		t.Fatalf("subtraction is not commutative in general")
	}
	if len(pr.Counterexamples) == 0 {
		t.Fatalf("want at least one counterexample recorded")
	}
}

func TestEnginePropertyNamesFilterRestrictsEvaluation(t *testing.T) {
	g, gens := pairGrammar(t)
	eng := Configure(Config{
		Registry: property.Arithmetic(),
		FUTs: []FUTConfig{
			{FUT: addIntsFUT(), Grammar: g, Generators: gens, Parser: typedinput.Parse},
		},
		ExampleCount:       20,
		MaxCounterexamples: 5,
		Seed:               1,
		PropertyNames:      []string{"commutativity"},
	})

	results, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results["add"].Outcomes) != 1 {
		t.Fatalf("want exactly one evaluated template when PropertyNames restricts to it, got %d", len(results["add"].Outcomes))
	}
}

func TestEngineRunRequiresRegistry(t *testing.T) {
	eng := Configure(Config{})
	if _, err := eng.Run(context.Background()); err == nil {
		t.Fatalf("want an error when Config.Registry is nil")
	}
}

// TestEngineMarksArityMismatchInapplicable covers spec.md §7's "ArityError
// is fatal for the (fut, template) pair; mark inapplicable" contract for a
// template whose Compatibility predicate is looser than its declared
// Arity — ordinary registry templates never reach evaluatePair in this
// state, since arityCompatible already filters them out of Compatible(f).
func TestEngineMarksArityMismatchInapplicable(t *testing.T) {
	g, gens := pairGrammar(t)
	registry := property.NewRegistry()
	registry.Register(&property.Template{
		Name:          "mismatched",
		Arity:         2,
		Compatibility: func(f *fut.FUT) bool { return true },
		Evaluate: func(f *fut.FUT, sample []typedinput.Value, max int) property.Outcome {
			t.Fatalf("Evaluate must not run for an arity-mismatched pair")
			return property.Outcome{}
		},
	})

	oneArgFUT := &fut.FUT{
		ID:    "identity",
		Arity: 1,
		Call:  func(args []any) (any, error) { return args[0], nil },
	}

	eng := Configure(Config{
		Registry: registry,
		FUTs: []FUTConfig{
			{FUT: oneArgFUT, Grammar: g, Generators: gens, Parser: typedinput.Parse},
		},
		ExampleCount:       10,
		MaxCounterexamples: 5,
		Seed:               3,
	})

	results, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pr := results["identity"].Outcomes["mismatched"]
	if !pr.Inapplicable {
		t.Fatalf("want the arity-mismatched pair marked Inapplicable")
	}
	if pr.TotalCount != 0 || len(pr.Counterexamples) != 0 {
		t.Fatalf("want no points scored for an inapplicable pair, got %+v", pr)
	}
}

// TestEngineRetainAllCounterexamplesOverridesCap covers Open Question (a):
// with RetainAllCounterexamples set, MaxCounterexamples stops truncating
// the witness list at its configured value.
func TestEngineRetainAllCounterexamplesOverridesCap(t *testing.T) {
	g, gens := pairGrammar(t)
	capped := Configure(Config{
		Registry:           property.Arithmetic(),
		FUTs:               []FUTConfig{{FUT: subIntsFUT(), Grammar: g, Generators: gens, Parser: typedinput.Parse}},
		ExampleCount:       30,
		MaxCounterexamples: 2,
		Seed:               5,
	})
	cappedResults, err := capped.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cappedPR := cappedResults["sub"].Outcomes["commutativity"]
	if len(cappedPR.Counterexamples) > 2 {
		t.Fatalf("want the default cap to limit counterexamples to 2, got %d", len(cappedPR.Counterexamples))
	}

	retained := Configure(Config{
		Registry:                 property.Arithmetic(),
		FUTs:                     []FUTConfig{{FUT: subIntsFUT(), Grammar: g, Generators: gens, Parser: typedinput.Parse}},
		ExampleCount:             30,
		MaxCounterexamples:       2,
		RetainAllCounterexamples: true,
		Seed:                     5,
	})
	retainedResults, err := retained.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	retainedPR := retainedResults["sub"].Outcomes["commutativity"]
	if len(retainedPR.Counterexamples) <= 2 {
		t.Fatalf("want RetainAllCounterexamples to surface more than the configured cap, got %d", len(retainedPR.Counterexamples))
	}
}
