package property

import (
	"fmt"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

// InverseOf pairs two FUTs where g(f(a)) = a is expected to hold: g
// undoes f. Composition templates take the pair explicitly rather than
// through the single-FUT Template.Evaluate signature, since they
// inherently span two FUTs (spec.md §4.5's "Composition" category,
// "inverse relationships across FUT pairs").
func InverseOf(f, g *fut.FUT, sample []typedinput.Value, maxCounterexamples int) Outcome {
	return evaluateSample(sample, maxCounterexamples, func(in typedinput.Value) (bool, string) {
		fRec := f.Invoke(in)
		if !fRec.IsOK {
			return false, "f(a) failed"
		}
		gRec := g.Invoke(asValue(fRec.Value))
		if !gRec.IsOK {
			return false, "g(f(a)) failed"
		}
		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{g.Comparator}, gRec.Value, asNative(in))
		return eq, fmt.Sprintf("g(f(a))=%v a=%v", gRec.Value, asNative(in))
	})
}

// HomomorphicOver checks h(op(a,b)) = op'(h(a), h(b)): h is a
// homomorphism from op's domain to op2's, given a binary operator FUT op
// and op2 playing the corresponding role in the codomain (spec.md §4.5,
// "homomorphism across an operator"). sample supplies 2-tuples (a,b).
func HomomorphicOver(h, op, op2 *fut.FUT, sample []typedinput.Value, maxCounterexamples int) Outcome {
	return evaluateSample(sample, maxCounterexamples, func(in typedinput.Value) (bool, string) {
		if in.Shape != typedinput.ShapeTuple || len(in.Items) != 2 {
			return false, "not a 2-tuple"
		}
		a, b := in.Items[0], in.Items[1]

		opRec := op.Invoke(tuple(a, b))
		if !opRec.IsOK {
			return false, "op(a,b) failed"
		}
		left := h.Invoke(asValue(opRec.Value))
		if !left.IsOK {
			return false, "h(op(a,b)) failed"
		}

		ha := h.Invoke(a)
		hb := h.Invoke(b)
		if !ha.IsOK || !hb.IsOK {
			return false, "h(a) or h(b) failed"
		}
		right := op2.Invoke(tuple(asValue(ha.Value), asValue(hb.Value)))
		if !right.IsOK {
			return false, "op2(h(a),h(b)) failed"
		}

		eq := fut.CompareResults(fut.FirstCompatible, []*fut.Comparator{op2.Comparator}, left.Value, right.Value)
		return eq, fmt.Sprintf("h(op(a,b))=%v op2(h(a),h(b))=%v", left.Value, right.Value)
	})
}
