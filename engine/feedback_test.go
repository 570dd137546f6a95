package engine

import (
	"context"
	"testing"

	"github.com/nihei9/infergen/oracle"
	"github.com/nihei9/infergen/property"
	"github.com/nihei9/infergen/typedinput"
)

func TestEngineInvokesOracleOnFailingPropertyWhenFeedbackEnabled(t *testing.T) {
	g, gens := pairGrammar(t)
	fake := &oracle.FakeClient{Constraints: []string{"pair: <int> >= 0"}}

	eng := Configure(Config{
		Registry: property.Arithmetic(),
		FUTs: []FUTConfig{
			{FUT: subIntsFUT(), Grammar: g, Generators: gens, Parser: typedinput.Parse},
		},
		ExampleCount:        20,
		MaxCounterexamples:  5,
		Seed:                9,
		FeedbackEnabled:     true,
		MaxFeedbackAttempts: 1,
		Oracle:              fake,
		PropertyNames:       []string{"commutativity"},
	})

	results, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.Requests) == 0 {
		t.Fatalf("want the oracle to be consulted for a failing property")
	}
	req := fake.Requests[0]
	if req.PropertyName != "commutativity" {
		t.Fatalf("want a commutativity request, got %q", req.PropertyName)
	}
	if req.GrammarText == "" {
		t.Fatalf("want the request to carry rendered grammar text")
	}
	if len(req.Counterexamples) == 0 {
		t.Fatalf("want the request to carry mined counterexample witnesses")
	}

	history := results["sub"].ConstraintsHistory["commutativity"]
	if len(history) == 0 {
		t.Fatalf("want a non-empty constraints history once feedback ran")
	}
}

func TestEngineSkipsFeedbackWhenPropertyAlreadyHolds(t *testing.T) {
	g, gens := pairGrammar(t)
	fake := &oracle.FakeClient{Constraints: []string{"pair: <int> >= 0"}}

	eng := Configure(Config{
		Registry: property.Arithmetic(),
		FUTs: []FUTConfig{
			{FUT: addIntsFUT(), Grammar: g, Generators: gens, Parser: typedinput.Parse},
		},
		ExampleCount:        20,
		MaxCounterexamples:  5,
		Seed:                9,
		FeedbackEnabled:     true,
		MaxFeedbackAttempts: 2,
		Oracle:              fake,
		PropertyNames:       []string{"commutativity"},
	})

	if _, err := eng.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.Requests) != 0 {
		t.Fatalf("want no oracle calls when the property already holds, got %d", len(fake.Requests))
	}
}
