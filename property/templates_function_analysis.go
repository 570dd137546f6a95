package property

import (
	"fmt"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

// RegisterFunctionAnalysis adds injectivity, fixed points, and
// monotonicity, all arity-1 templates.
func RegisterFunctionAnalysis(r *Registry) {
	r.Register(&Template{
		Name:          "injectivity",
		Category:      CategoryFunctionAnalysis,
		Arity:         1,
		Compatibility: arityCompatible(1),
		Evaluate:      evalInjectivity,
	})
	r.Register(&Template{
		Name:          "fixed_points",
		Category:      CategoryFunctionAnalysis,
		Arity:         1,
		Compatibility: arityCompatible(1),
		Evaluate:      evalFixedPoints,
	})
	r.Register(&Template{
		Name:          "monotonicity",
		Category:      CategoryFunctionAnalysis,
		Arity:         1,
		Compatibility: arityCompatible(1),
		Evaluate:      evalMonotonicity,
	})
}

// evalInjectivity checks, over the whole sample, that distinct inputs
// produce distinct outputs (spec.md §4.5: "over the sample", not a
// domain-wide proof).
func evalInjectivity(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	seen := map[string]string{} // result representation -> input representation
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		rec := f.Invoke(in)
		if !rec.IsOK {
			return false, "call failed"
		}
		key := fmt.Sprintf("%v", rec.Value)
		inKey := in.String()
		if prior, dup := seen[key]; dup && prior != inKey {
			return false, fmt.Sprintf("f(%s)=f(%s)=%v", prior, inKey, rec.Value)
		}
		seen[key] = inKey
		return true, fmt.Sprintf("f(%s)=%v", inKey, rec.Value)
	})
}

func evalFixedPoints(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		rec := f.Invoke(in)
		if !rec.IsOK {
			return false, "call failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, rec.Value, asNative(in))
		return eq, fmt.Sprintf("f(a)=%v a=%v", rec.Value, asNative(in))
	})
}

// evalMonotonicity checks, for each pair of consecutive sample points in
// sample order (the points are not sorted), that the output order matches
// the input order (requires an ordered
// domain and codomain; non-numeric pairs are skipped as inapplicable
// rather than counted as failures, matching the "requires an ordered
// type" caveat in spec.md §4.5).
func evalMonotonicity(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	type point struct {
		in  float64
		out float64
	}
	var points []point
	for _, in := range sample {
		if in.Shape != typedinput.ShapeScalar {
			continue
		}
		iv, ok := in.Scalar.AsFloat()
		if !ok {
			continue
		}
		rec := f.Invoke(in)
		if !rec.IsOK {
			continue
		}
		ov, ok := asFloat(rec.Value)
		if !ok {
			continue
		}
		points = append(points, point{in: iv, out: ov})
	}

	if len(points) < 2 {
		return Outcome{}
	}

	var out Outcome
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		out.TotalCount++
		ok := (b.in >= a.in) == (b.out >= a.out)
		note := fmt.Sprintf("(%v->%v), (%v->%v)", a.in, a.out, b.in, b.out)
		if ok {
			out.SuccessCount++
			if len(out.Successes) < max {
				out.Successes = append(out.Successes, Witness{Note: note})
			}
		} else if len(out.Counterexamples) < max {
			out.Counterexamples = append(out.Counterexamples, Witness{Note: note})
		}
	}
	out.Holds = out.TotalCount > 0 && out.SuccessCount == out.TotalCount
	return out
}
