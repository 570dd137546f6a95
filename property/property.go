// Package property catalogs property templates — named, categorized
// predicates over one or more function-under-test traces — and the
// registry that matches them against compatible FUTs (spec.md §4.5).
package property

import (
	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

// Category groups templates the way spec.md §4.5 and SPEC_FULL.md's
// domain-stack section name them.
type Category string

const (
	CategorySymmetry         Category = "symmetry"
	CategoryAlgebraic        Category = "algebraic"
	CategoryIdentity         Category = "identity"
	CategoryFunctionAnalysis Category = "function_analysis"
	CategoryComposition      Category = "composition"
	CategoryArithmetic       Category = "arithmetic"
	CategoryLogical          Category = "logical"
	CategoryCryptographic    Category = "cryptographic"
	CategoryDataStructure    Category = "data_structure"
)

// Witness is a minimal human-readable description of one sample point and
// the observed call(s) that justify a verdict (spec.md §3).
type Witness struct {
	Input any
	Note  string
}

// Outcome is the per-(fut,template) evaluation result (spec.md §3).
type Outcome struct {
	Holds           bool
	Successes       []Witness
	Counterexamples []Witness
	TotalCount      int
	SuccessCount    int
}

// Confidence reports success_count/total_count, per spec.md §4.6, with
// total_count == 0 reported as 0.
func (o Outcome) Confidence() float64 {
	if o.TotalCount == 0 {
		return 0
	}
	return float64(o.SuccessCount) / float64(o.TotalCount)
}

// Template is one property: a name, a category, an arity requirement, a
// compatibility predicate, and an evaluation procedure over a sample of
// typed inputs (spec.md §4.5).
type Template struct {
	Name          string
	Category      Category
	Arity         int
	Compatibility func(f *fut.FUT) bool
	Evaluate      func(f *fut.FUT, sample []typedinput.Value, maxCounterexamples int) Outcome
}

// arityCompatible is the default Compatibility check most templates use:
// exact arity match. Shape mismatches (e.g. a numeric-only template
// offered a string FUT) are left to individual templates that need a
// stricter predicate.
func arityCompatible(arity int) func(f *fut.FUT) bool {
	return func(f *fut.FUT) bool { return f.Arity == arity }
}

func tuple(items ...typedinput.Value) typedinput.Value {
	return typedinput.Value{Shape: typedinput.ShapeTuple, Items: items}
}

func scalarInt(i int64) typedinput.Value {
	return typedinput.Value{Shape: typedinput.ShapeScalar, Scalar: typedinput.Scalar{Kind: typedinput.KindInt, Int: i}}
}

// asFloat tries to read a FUT result as a float64 for ordered/arithmetic
// comparisons, supporting the common Go numeric result types.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// evaluateSample runs check over every sample point, counting points (not
// derived calls) and retaining up to maxCounterexamples witnesses on each
// side. A property holds iff every point succeeds; an empty sample never
// holds (spec.md §4.5, §4.6's "no applicable inputs" diagnostic).
func evaluateSample(sample []typedinput.Value, maxCounterexamples int, check func(input typedinput.Value) (bool, string)) Outcome {
	var out Outcome
	for _, in := range sample {
		ok, note := check(in)
		out.TotalCount++
		if ok {
			out.SuccessCount++
			if len(out.Successes) < maxCounterexamples {
				out.Successes = append(out.Successes, Witness{Input: in, Note: note})
			}
		} else if len(out.Counterexamples) < maxCounterexamples {
			out.Counterexamples = append(out.Counterexamples, Witness{Input: in, Note: note})
		}
	}
	out.Holds = out.TotalCount > 0 && out.SuccessCount == out.TotalCount
	return out
}
