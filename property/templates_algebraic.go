package property

import (
	"fmt"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

// RegisterAlgebraic adds associativity and idempotence (binary and
// unary). No distributivity template is registered.
func RegisterAlgebraic(r *Registry) {
	r.Register(&Template{
		Name:          "associativity",
		Category:      CategoryAlgebraic,
		Arity:         2,
		Compatibility: arityCompatible(2),
		Evaluate:      evalAssociativity,
	})
	r.Register(&Template{
		Name:          "idempotence_binary",
		Category:      CategoryAlgebraic,
		Arity:         2,
		Compatibility: arityCompatible(2),
		Evaluate:      evalIdempotenceBinary,
	})
	r.Register(&Template{
		Name:          "idempotence_unary",
		Category:      CategoryAlgebraic,
		Arity:         1,
		Compatibility: arityCompatible(1),
		Evaluate:      evalIdempotenceUnary,
	})
}

// evalAssociativity checks f(f(a,b),c) = f(a,f(b,c)) using a 3-element
// tuple sample point, deriving both call chains with four calls per point:
// f(a,b), f(f(a,b),c), f(b,c) and f(a,f(b,c)). Only the given (a,b,c)
// order is tried; other permutations of the three items are not. A sample
// point that is not a 3-tuple counts as a failure.
func evalAssociativity(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		if in.Shape != typedinput.ShapeTuple || len(in.Items) != 3 {
			return false, "not a 3-tuple"
		}
		a, b, c := in.Items[0], in.Items[1], in.Items[2]

		ab := f.Invoke(tuple(a, b))
		if !ab.IsOK {
			return false, "f(a,b) failed"
		}
		left := f.Invoke(tuple(asValue(ab.Value), c))
		bc := f.Invoke(tuple(b, c))
		if !bc.IsOK {
			return false, "f(b,c) failed"
		}
		right := f.Invoke(tuple(a, asValue(bc.Value)))
		if !left.IsOK || !right.IsOK {
			return false, "composed call failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, left.Value, right.Value)
		return eq, fmt.Sprintf("f(f(a,b),c)=%v f(a,f(b,c))=%v", left.Value, right.Value)
	})
}

func evalIdempotenceBinary(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		var a typedinput.Value
		if in.Shape == typedinput.ShapeTuple && len(in.Items) >= 1 {
			a = in.Items[0]
		} else {
			a = in
		}
		rec := f.Invoke(tuple(a, a))
		if !rec.IsOK {
			return false, "f(a,a) failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, rec.Value, asNative(a))
		return eq, fmt.Sprintf("f(a,a)=%v a=%v", rec.Value, asNative(a))
	})
}

func evalIdempotenceUnary(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		once := f.Invoke(in)
		if !once.IsOK {
			return false, "f(a) failed"
		}
		twice := f.Invoke(asValue(once.Value))
		if !twice.IsOK {
			return false, "f(f(a)) failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, once.Value, twice.Value)
		return eq, fmt.Sprintf("f(a)=%v f(f(a))=%v", once.Value, twice.Value)
	})
}

// asValue re-boxes a raw invocation result as a typedinput.Value so it
// can feed a derived call, using the string-scalar slot the same way
// fut's own converter output does when no richer shape is known.
func asValue(result any) typedinput.Value {
	if v, ok := result.(typedinput.Value); ok {
		return v
	}
	return typedinput.Value{Shape: typedinput.ShapeScalar, Scalar: typedinput.ParseScalar(fmt.Sprintf("%v", result))}
}

func asNative(v typedinput.Value) any {
	if v.Shape == typedinput.ShapeScalar {
		switch v.Scalar.Kind {
		case typedinput.KindInt:
			return v.Scalar.Int
		case typedinput.KindFloat:
			return v.Scalar.Float
		case typedinput.KindBool:
			return v.Scalar.Bool
		}
		return v.Scalar.Str
	}
	return v
}
