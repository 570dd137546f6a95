package property

import (
	"fmt"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

// Arithmetic returns a registry bundling the general templates relevant
// to numeric binary operators: commutativity, associativity, identity
// and absorbing elements (spec.md §4.5, "Domain-specific ... arithmetic").
func Arithmetic() *Registry {
	r := NewRegistry()
	RegisterSymmetry(r)
	RegisterAlgebraic(r)
	RegisterIdentity(r)
	return r
}

// Logical bundles the boolean-operator subset: commutativity,
// associativity, and idempotence apply directly; identity/absorbing
// detection over {0,1,""} also covers boolean FUTs represented as
// 0/1-valued functions.
func Logical() *Registry {
	r := NewRegistry()
	RegisterSymmetry(r)
	RegisterAlgebraic(r)
	RegisterIdentity(r)
	return r
}

// Cryptographic bundles avalanche, determinism, and non-identity —
// properties specific to hash/digest-shaped FUTs (spec.md §4.5).
func Cryptographic() *Registry {
	r := NewRegistry()
	r.Register(&Template{
		Name:          "determinism",
		Category:      CategoryCryptographic,
		Arity:         1,
		Compatibility: arityCompatible(1),
		Evaluate:      evalDeterminism,
	})
	r.Register(&Template{
		Name:          "non_identity",
		Category:      CategoryCryptographic,
		Arity:         1,
		Compatibility: arityCompatible(1),
		Evaluate:      evalNonIdentity,
	})
	r.Register(&Template{
		Name:          "avalanche",
		Category:      CategoryCryptographic,
		Arity:         1,
		Compatibility: arityCompatible(1),
		Evaluate:      evalAvalanche,
	})
	return r
}

// evalDeterminism checks f(a) == f(a) across two independent calls per
// sample point.
func evalDeterminism(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		r1 := f.Invoke(in)
		r2 := f.Invoke(in)
		if !r1.IsOK || !r2.IsOK {
			return false, "call failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, r1.Value, r2.Value)
		return eq, fmt.Sprintf("f(a)=%v f(a)=%v", r1.Value, r2.Value)
	})
}

// evalNonIdentity checks f(a) != a, the minimal sanity property expected
// of a digest/hash function.
func evalNonIdentity(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		rec := f.Invoke(in)
		if !rec.IsOK {
			return false, "call failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, rec.Value, asNative(in))
		return !eq, fmt.Sprintf("f(a)=%v a=%v", rec.Value, asNative(in))
	})
}

// evalAvalanche checks that a single-character perturbation of a string
// input changes the output's string representation at the byte level —
// a coarse, comparator-free stand-in for the strict-avalanche-criterion
// bit-difference count, appropriate when the only thing known about the
// codomain is its rendered string form.
func evalAvalanche(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		if in.Shape != typedinput.ShapeScalar || in.Scalar.Kind != typedinput.KindString || len(in.Scalar.Str) == 0 {
			return false, "not a non-empty string scalar"
		}
		perturbed := flipFirstByte(in.Scalar.Str)
		orig := f.Invoke(in)
		alt := f.Invoke(typedinput.Value{Shape: typedinput.ShapeScalar, Scalar: typedinput.Scalar{Kind: typedinput.KindString, Str: perturbed}})
		if !orig.IsOK || !alt.IsOK {
			return false, "call failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, orig.Value, alt.Value)
		return !eq, fmt.Sprintf("f(a)=%v f(a')=%v", orig.Value, alt.Value)
	})
}

func flipFirstByte(s string) string {
	b := []byte(s)
	b[0] ^= 0xFF
	return string(b)
}

// DataStructure bundles union commutativity and merge associativity over
// typedinput.Set[int64]-shaped FUTs (spec.md §4.5; scenario S4).
func DataStructure() *Registry {
	r := NewRegistry()
	r.Register(&Template{
		Name:     "union_commutativity",
		Category: CategoryDataStructure,
		Arity:    2,
		Compatibility: func(f *fut.FUT) bool {
			return f.Arity == 2
		},
		Evaluate: evalUnionCommutativity,
	})
	r.Register(&Template{
		Name:     "merge_associativity",
		Category: CategoryDataStructure,
		Arity:    2,
		Compatibility: func(f *fut.FUT) bool {
			return f.Arity == 2
		},
		Evaluate: evalMergeAssociativity,
	})
	return r
}

// setValuesOf reads a two-set tuple sample point's items as int64 sets,
// the shape scenario S4's union/merge FUTs operate over.
func setValuesOf(in typedinput.Value) (a, b *typedinput.Set[int64], ok bool) {
	if in.Shape != typedinput.ShapeTuple || len(in.Items) != 2 {
		return nil, nil, false
	}
	sa, ok1 := toInt64Set(in.Items[0])
	sb, ok2 := toInt64Set(in.Items[1])
	if !ok1 || !ok2 {
		return nil, nil, false
	}
	return sa, sb, true
}

func toInt64Set(v typedinput.Value) (*typedinput.Set[int64], bool) {
	if v.Shape != typedinput.ShapeSet {
		return nil, false
	}
	s := typedinput.NewSet[int64](len(v.Items))
	for _, it := range v.Items {
		if it.Shape != typedinput.ShapeScalar || it.Scalar.Kind != typedinput.KindInt {
			return nil, false
		}
		s.Add(it.Scalar.Int)
	}
	return s, true
}

func evalUnionCommutativity(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		a, b, ok := setValuesOf(in)
		if !ok {
			return false, "not a pair of int sets"
		}
		fwd := f.Invoke(in)
		rev := f.Invoke(tuple(in.Items[1], in.Items[0]))
		if !fwd.IsOK || !rev.IsOK {
			return false, "call failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, fwd.Value, rev.Value)
		return eq, fmt.Sprintf("union(a,b) vs union(b,a), |a|=%d |b|=%d", a.Size(), b.Size())
	})
}

func evalMergeAssociativity(f *fut.FUT, sample []typedinput.Value, max int) Outcome {
	return evaluateSample(sample, max, func(in typedinput.Value) (bool, string) {
		if in.Shape != typedinput.ShapeTuple || len(in.Items) != 3 {
			return false, "not a 3-tuple of sets"
		}
		a, b, c := in.Items[0], in.Items[1], in.Items[2]
		ab := f.Invoke(tuple(a, b))
		if !ab.IsOK {
			return false, "merge(a,b) failed"
		}
		left := f.Invoke(tuple(asValue(ab.Value), c))
		bc := f.Invoke(tuple(b, c))
		if !bc.IsOK {
			return false, "merge(b,c) failed"
		}
		right := f.Invoke(tuple(a, asValue(bc.Value)))
		if !left.IsOK || !right.IsOK {
			return false, "composed merge failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{f.Comparator}, left.Value, right.Value)
		return eq, fmt.Sprintf("merge(merge(a,b),c)=%v merge(a,merge(b,c))=%v", left.Value, right.Value)
	})
}
