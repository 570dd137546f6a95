// Package fut wraps a callable under test: its declared arity, optional
// argument converters and result comparator, and an Invoke entry point
// that captures panics and errors into an InvocationRecord rather than
// letting them propagate (spec.md §4.4).
package fut

import (
	"fmt"

	"github.com/nihei9/infergen/internal/specerr"
	"github.com/nihei9/infergen/typedinput"
)

// Callable is the shape every function under test is adapted to: a
// slice of positional arguments in (each either a Converter's output, or
// the raw typedinput.Value when no converter is configured for that
// position), a single result or error out.
type Callable func(args []any) (result any, err error)

// Converter adapts one positional typed-input argument to the native Go
// type the callable expects (e.g. Value → int) before the call.
type Converter func(v typedinput.Value) (any, error)

// Comparator decides result equality for one codomain. Accept reports
// whether this comparator applies to a pair of results at all (so
// heterogeneous FUT pairs can be compared under a chosen strategy); Equal
// is only meaningful when Accept is true. Comparators must behave as an
// equivalence relation over results they accept (spec.md §4.4).
type Comparator struct {
	Accept func(a, b any) bool
	Equal  func(a, b any) bool
}

// FUT is a handle on one function under test.
type FUT struct {
	ID         string
	Class      string // owning class/namespace label
	Arity      int
	Call       Callable
	Converters []Converter // optional, one per parameter position
	Comparator *Comparator // optional
}

// InvocationRecord is the immutable outcome of one call (spec.md §3).
type InvocationRecord struct {
	FUTID string
	Input typedinput.Value
	Value any
	Err   error // non-nil iff the call errored or panicked
	IsOK  bool
}

// Invoke adapts input to the FUT's declared positional shape and calls
// it, capturing any panic or returned error into the record's Err field
// rather than letting it propagate — the teacher's "recover in the
// narrowest possible scope, turn it into a concrete error value" idiom
// (nihei9-vartan/spec/grammar/parser/parser.go's parseRoot recover),
// generalized here from "re-panic on an unrecognized type" to "capture
// every panic value, since a function under test may panic with
// anything."
//
// If input is a tuple, its items are spread positionally; any other
// shape is treated as a single-argument call. A FUT with per-position
// converters applies them; otherwise each spread typedinput.Value is
// passed through uninterpreted and the callable type-asserts it itself.
func (f *FUT) Invoke(input typedinput.Value) (rec InvocationRecord) {
	rec = InvocationRecord{FUTID: f.ID, Input: input}

	positional := spread(input)

	want := f.Arity
	if len(f.Converters) > 0 {
		want = len(f.Converters)
	}
	if want >= 0 && len(positional) != want {
		rec.Err = &specerr.ArityError{FUTName: f.ID, Want: want, Got: len(positional)}
		return rec
	}

	args := make([]any, len(positional))
	for i, v := range positional {
		if len(f.Converters) > 0 {
			out, err := f.Converters[i](v)
			if err != nil {
				rec.Err = &specerr.InvocationError{Kind: "conversion", Message: err.Error()}
				return rec
			}
			args[i] = out
		} else {
			args[i] = v
		}
	}

	defer func() {
		if r := recover(); r != nil {
			rec.Err = &specerr.InvocationError{Kind: "panic", Message: fmt.Sprintf("%v", r)}
			rec.Value = nil
			rec.IsOK = false
		}
	}()

	result, err := f.Call(args)
	if err != nil {
		rec.Err = &specerr.InvocationError{Kind: "error", Message: err.Error()}
		return rec
	}
	rec.Value = result
	rec.IsOK = true
	return rec
}

func spread(v typedinput.Value) []typedinput.Value {
	if v.Shape == typedinput.ShapeTuple {
		return v.Items
	}
	return []typedinput.Value{v}
}
