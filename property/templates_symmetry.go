package property

import (
	"fmt"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

// RegisterSymmetry adds the symmetry-category templates to r: f(a,b) =
// f(b,a) (commutativity), f(a,b) = -f(b,a) (anti-commutativity, numeric
// codomain only), and argument-position dependence (the negation of
// commutativity, useful for characterizing a FUT rather than asserting a
// law holds).
func RegisterSymmetry(r *Registry) {
	r.Register(&Template{
		Name:          "commutativity",
		Category:      CategorySymmetry,
		Arity:         2,
		Compatibility: arityCompatible(2),
		Evaluate:      evalCommutativity,
	})
	r.Register(&Template{
		Name:          "anti_commutativity",
		Category:      CategorySymmetry,
		Arity:         2,
		Compatibility: arityCompatible(2),
		Evaluate:      evalAntiCommutativity,
	})
	r.Register(&Template{
		Name:          "argument_position_dependence",
		Category:      CategorySymmetry,
		Arity:         2,
		Compatibility: arityCompatible(2),
		Evaluate:      evalArgumentPositionDependence,
	})
}

// swapped reads a two-element tuple input and returns the results of
// f(a,b) and f(b,a); ok is false when the input is not a 2-tuple or either
// call failed.
func swapped(f *fut.FUT, in typedinput.Value) (fwd, rev any, ok bool) {
	if in.Shape != typedinput.ShapeTuple || len(in.Items) != 2 {
		return nil, nil, false
	}
	a, b := in.Items[0], in.Items[1]
	recFwd := f.Invoke(tuple(a, b))
	recRev := f.Invoke(tuple(b, a))
	if !recFwd.IsOK || !recRev.IsOK {
		return nil, nil, false
	}
	return recFwd.Value, recRev.Value, true
}

func evalCommutativity(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		fwd, rev, ok := swapped(f, in)
		if !ok {
			return false, "one or both calls failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, fwd, rev)
		return eq, fmt.Sprintf("f(a,b)=%v f(b,a)=%v", fwd, rev)
	})
}

func evalAntiCommutativity(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		fwd, rev, ok := swapped(f, in)
		if !ok {
			return false, "one or both calls failed"
		}
		fv, fok := asFloat(fwd)
		rv, rok := asFloat(rev)
		if !fok || !rok {
			return false, "non-numeric codomain"
		}
		return fv == -rv, fmt.Sprintf("f(a,b)=%v f(b,a)=%v", fwd, rev)
	})
}

// evalArgumentPositionDependence characterizes whether swapping argument
// order changes the result at all; it "holds" (in the descriptive sense
// this template reports) when the FUT is sensitive to argument order on
// every sample point, i.e. it is NOT commutative anywhere in the sample.
func evalArgumentPositionDependence(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		fwd, rev, ok := swapped(f, in)
		if !ok {
			return false, "one or both calls failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, fwd, rev)
		return !eq, fmt.Sprintf("f(a,b)=%v f(b,a)=%v", fwd, rev)
	})
}
