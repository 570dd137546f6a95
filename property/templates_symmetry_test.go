package property

import (
	"testing"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

func intFUT(id string, call fut.Callable) *fut.FUT {
	return &fut.FUT{ID: id, Arity: 2, Call: call}
}

func addCall(args []any) (any, error) {
	a := args[0].(typedinput.Value).Scalar.Int
	b := args[1].(typedinput.Value).Scalar.Int
	return a + b, nil
}

func subCall(args []any) (any, error) {
	a := args[0].(typedinput.Value).Scalar.Int
	b := args[1].(typedinput.Value).Scalar.Int
	return a - b, nil
}

func intPairSample(pairs [][2]int64) []typedinput.Value {
	sample := make([]typedinput.Value, len(pairs))
	for i, p := range pairs {
		sample[i] = tuple(scalarInt(p[0]), scalarInt(p[1]))
	}
	return sample
}

func TestCommutativityHoldsForAddition(t *testing.T) {
	f := intFUT("add", addCall)
	sample := intPairSample([][2]int64{{1, 2}, {3, 4}, {-5, 5}})
	out := evalCommutativity(f, sample, 10)
	if !out.Holds {
		t.Fatalf("addition must be commutative, got counterexamples: %+v", out.Counterexamples)
	}
	if out.TotalCount != len(sample) || out.SuccessCount != len(sample) {
		t.Fatalf("unexpected counts: %+v", out)
	}
}

func TestCommutativityFailsForSubtraction(t *testing.T) {
	f := intFUT("sub", subCall)
	sample := intPairSample([][2]int64{{1, 2}, {3, 4}})
	out := evalCommutativity(f, sample, 10)
	if out.Holds {
		t.Fatalf("subtraction must not be commutative in general")
	}
	if len(out.Counterexamples) == 0 {
		t.Fatalf("want at least one counterexample recorded")
	}
}

func TestArgumentPositionDependenceDetectsSubtraction(t *testing.T) {
	f := intFUT("sub", subCall)
	sample := intPairSample([][2]int64{{1, 2}, {3, 4}})
	out := evalArgumentPositionDependence(f, sample, 10)
	if !out.Holds {
		t.Fatalf("subtraction is order-dependent on every non-trivial sample point")
	}
}

func TestEvaluateSampleEmptySampleNeverHolds(t *testing.T) {
	out := evaluateSample(nil, 10, func(in typedinput.Value) (bool, string) { return true, "" })
	if out.Holds {
		t.Fatalf("an empty sample must never report Holds=true")
	}
}

func TestOutcomeConfidence(t *testing.T) {
	o := Outcome{TotalCount: 4, SuccessCount: 3}
	if got := o.Confidence(); got != 0.75 {
		t.Fatalf("want confidence 0.75, got %v", got)
	}
	if got := (Outcome{}).Confidence(); got != 0 {
		t.Fatalf("want confidence 0 for an empty outcome, got %v", got)
	}
}
