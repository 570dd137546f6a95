package property

import (
	"fmt"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

// candidateIdentities is the small fixed set spec.md §4.5 names for
// identity/absorbing-element detection: 0, 1, and the empty string (the
// closest FUT-agnostic stand-in for "empty collection" when the codomain
// is a scalar shape). Callers that know their FUT's domain better can
// widen this with witnessed min/max values; this template sticks to the
// spec's named baseline candidates.
func candidateIdentities() []typedinput.Value {
	return []typedinput.Value{
		scalarInt(0),
		scalarInt(1),
		{Shape: typedinput.ShapeScalar, Scalar: typedinput.Scalar{Kind: typedinput.KindString, Str: ""}},
	}
}

// RegisterIdentity adds identity-element and absorbing-element detection
// for binary FUTs: does some candidate e satisfy f(a,e)=a for every
// sampled a (identity), or f(a,z)=z for every sampled a (absorbing)?
func RegisterIdentity(r *Registry) {
	r.Register(&Template{
		Name:          "identity_element",
		Category:      CategoryIdentity,
		Arity:         2,
		Compatibility: arityCompatible(2),
		Evaluate:      evalIdentityElement,
	})
	r.Register(&Template{
		Name:          "absorbing_element",
		Category:      CategoryIdentity,
		Arity:         2,
		Compatibility: arityCompatible(2),
		Evaluate:      evalAbsorbingElement,
	})
}

func evalIdentityElement(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	for _, e := range candidateIdentities() {
		out := evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
			a := firstOf(in)
			rec := f.Invoke(tuple(a, e))
			if !rec.IsOK {
				return false, "f(a,e) failed"
			}
			eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, rec.Value, asNative(a))
			return eq, fmt.Sprintf("f(a,e)=%v a=%v e=%v", rec.Value, asNative(a), e.Scalar.String())
		})
		if out.Holds {
			return out
		}
	}
	return evaluateSample(sample, max, func(typedinput.Value) (bool, string) {
		return false, "no candidate identity element satisfies f(a,e)=a"
	})
}

func evalAbsorbingElement(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	for _, z := range candidateIdentities() {
		out := evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
			a := firstOf(in)
			rec := f.Invoke(tuple(a, z))
			if !rec.IsOK {
				return false, "f(a,z) failed"
			}
			eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, rec.Value, asNative(z))
			return eq, fmt.Sprintf("f(a,z)=%v z=%v", rec.Value, z.Scalar.String())
		})
		if out.Holds {
			return out
		}
	}
	return evaluateSample(sample, max, func(typedinput.Value) (bool, string) {
		return false, "no candidate absorbing element satisfies f(a,z)=z"
	})
}

func firstOf(in typedinput.Value) typedinput.Value {
	if in.Shape == typedinput.ShapeTuple && len(in.Items) >= 1 {
		return in.Items[0]
	}
	return in
}
