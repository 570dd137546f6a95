// Package typedinput converts a generated grammar string into the typed
// argument tuple a function-under-test expects, per spec.md §4.3: shape
// sniffing from lightweight punctuation, then a scalar coercion ladder.
package typedinput

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nihei9/infergen/internal/specerr"
)

// Shape is the closed set of typed-input shapes spec.md §3 names.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeList
	ShapeSet
	ShapeTuple
)

// ScalarKind distinguishes the three scalar kinds; a scalar that matches
// none of int/float/bool falls back to string.
type ScalarKind int

const (
	KindInt ScalarKind = iota
	KindFloat
	KindBool
	KindString
)

// Value is the tagged union produced by Parse: a scalar, or a list/set/
// tuple whose Items are themselves Values. The shapes spec.md §3 names are
// scalars, lists and sets of scalars, and tuples of those (e.g. a tuple of
// sets); Parse does not reject deeper nesting.
type Value struct {
	Shape  Shape
	Scalar Scalar
	Items  []Value // ShapeList, ShapeSet (normalized), ShapeTuple
}

// String renders a Value back into the punctuation form Parse accepts,
// used for witness descriptions and injectivity's dedup keying.
func (v Value) String() string {
	switch v.Shape {
	case ShapeList:
		return "[" + joinItems(v.Items) + "]"
	case ShapeSet:
		return "{" + joinItems(v.Items) + "}"
	case ShapeTuple:
		return "(" + joinItems(v.Items) + ")"
	default:
		return v.Scalar.String()
	}
}

func joinItems(items []Value) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ", ")
}

// Scalar is one leaf value: exactly one of Int/Float/Bool/Str is
// meaningful, selected by Kind.
type Scalar struct {
	Kind  ScalarKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

func (s Scalar) String() string {
	switch s.Kind {
	case KindInt:
		return strconv.FormatInt(s.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(s.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(s.Bool)
	default:
		return s.Str
	}
}

// Equal reports value equality between two scalars, comparing across
// Int/Float so ParseInt("2") and ParseFloat("2.0") compare equal — used
// by set de-duplication and by property evaluators that need
// value-equality rather than representation-equality.
func (s Scalar) Equal(o Scalar) bool {
	sf, sok := s.asFloat()
	of, ook := o.asFloat()
	if sok && ook {
		return sf == of
	}
	if s.Kind == KindBool && o.Kind == KindBool {
		return s.Bool == o.Bool
	}
	return s.Kind == KindString && o.Kind == KindString && s.Str == o.Str
}

func (s Scalar) asFloat() (float64, bool) {
	switch s.Kind {
	case KindInt:
		return float64(s.Int), true
	case KindFloat:
		return s.Float, true
	}
	return 0, false
}

// AsFloat exposes the int/float numeric reading used by ordered property
// templates (monotonicity) that need a scalar's value, not just its
// string form.
func (s Scalar) AsFloat() (float64, bool) { return s.asFloat() }

// Less provides a total, deterministic ordering used for set
// normalization (stable min-first ordering, spec.md §4.3).
func (s Scalar) Less(o Scalar) bool {
	sf, sok := s.asFloat()
	of, ook := o.asFloat()
	if sok && ook {
		return sf < of
	}
	return s.String() < o.String()
}

// ParseScalar applies the coercion ladder: integer, then float, then
// boolean, then string-fallback (spec.md §4.3).
func ParseScalar(text string) Scalar {
	text = strings.TrimSpace(text)
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Scalar{Kind: KindInt, Int: i}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Scalar{Kind: KindFloat, Float: f}
	}
	if b, err := strconv.ParseBool(text); err == nil && (text == "true" || text == "false") {
		return Scalar{Kind: KindBool, Bool: b}
	}
	return Scalar{Kind: KindString, Str: text}
}

// Parse sniffs the shape of text from its outer punctuation —
// `[…]` → list, `{…}` → set, `(a, b, …)` → tuple, otherwise scalar —
// and parses its contents accordingly (spec.md §4.3).
func Parse(text string) (Value, error) {
	t := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"):
		items, err := parseItems(t[1 : len(t)-1])
		if err != nil {
			return Value{}, err
		}
		return Value{Shape: ShapeList, Items: items}, nil
	case strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}"):
		items, err := parseItems(t[1 : len(t)-1])
		if err != nil {
			return Value{}, err
		}
		return Value{Shape: ShapeSet, Items: normalizeSet(items)}, nil
	case strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")"):
		items, err := parseItems(t[1 : len(t)-1])
		if err != nil {
			return Value{}, err
		}
		return Value{Shape: ShapeTuple, Items: items}, nil
	default:
		return Value{Shape: ShapeScalar, Scalar: ParseScalar(t)}, nil
	}
}

// ParseNumbers is the "numbers" mode parser of spec.md §4.3: a flat
// comma-split of scalars, each tried as integer then float. It never
// sniffs list/set/tuple punctuation: bracket characters around each
// number are dropped, and the result is always a ShapeList. The engine
// does not pick it by default; a nil FUTConfig.Parser means Parse.
func ParseNumbers(text string) (Value, error) {
	parts := strings.Split(text, ",")
	items := make([]Value, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "()[]{} \t\r\n")
		if p == "" {
			continue
		}
		if i, err := strconv.ParseInt(p, 10, 64); err == nil {
			items = append(items, Value{Shape: ShapeScalar, Scalar: Scalar{Kind: KindInt, Int: i}})
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Value{}, &specerr.ParseError{Input: text, Reason: fmt.Sprintf("not a number: %q", p)}
		}
		items = append(items, Value{Shape: ShapeScalar, Scalar: Scalar{Kind: KindFloat, Float: f}})
	}
	return Value{Shape: ShapeList, Items: items}, nil
}

func parseItems(inner string) ([]Value, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil, nil
	}
	parts := splitTopLevel(inner)
	items := make([]Value, len(parts))
	for i, p := range parts {
		v, err := Parse(p)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// splitTopLevel splits on commas that are not nested inside [], {}, ().
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// normalizeSet removes value-equal duplicates (first occurrence wins) and
// sorts the result with a stable min-first ordering, so two textually
// different but value-equal set literals normalize identically
// (spec.md §4.3's "stable min-first ordering for determinism").
func normalizeSet(items []Value) []Value {
	var out []Value
	for _, it := range items {
		dup := false
		for _, seen := range out {
			if valueEqual(it, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return valueLess(out[i], out[j])
	})
	return out
}

func valueEqual(a, b Value) bool {
	if a.Shape != b.Shape {
		return false
	}
	if a.Shape == ShapeScalar {
		return a.Scalar.Equal(b.Scalar)
	}
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !valueEqual(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}

func valueLess(a, b Value) bool {
	if a.Shape == ShapeScalar && b.Shape == ShapeScalar {
		return a.Scalar.Less(b.Scalar)
	}
	return len(a.Items) < len(b.Items)
}
