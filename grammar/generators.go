package grammar

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// GeneratorCall is the parsed (but not executed) form of an inline `:= expr`
// semantic-generator snippet: a name bound to a generator-table entry, plus
// its literal argument text. Per DESIGN NOTES §9, the parser never executes
// this snippet; only Generate (via the bound GeneratorFunc) does.
type GeneratorCall struct {
	Name string
	Args []string
}

// GenValue is the value produced by a semantic generator or carried through
// a where-predicate evaluation. It is a small tagged union distinct from
// typedinput.Value: this one exists purely for grammar-internal arithmetic
// (predicate evaluation, generator leaves), not for FUT argument shaping.
type GenValue struct {
	kind string // "int", "float", "bool", "string"
	i    int64
	f    float64
	b    bool
	s    string
}

func IntValue(i int64) GenValue     { return GenValue{kind: "int", i: i} }
func FloatValue(f float64) GenValue { return GenValue{kind: "float", f: f} }
func BoolValue(b bool) GenValue     { return GenValue{kind: "bool", b: b} }
func StringValue(s string) GenValue { return GenValue{kind: "string", s: s} }

func (v GenValue) String() string {
	switch v.kind {
	case "int":
		return strconv.FormatInt(v.i, 10)
	case "float":
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case "bool":
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

func (v GenValue) AsFloat() (float64, bool) {
	switch v.kind {
	case "int":
		return float64(v.i), true
	case "float":
		return v.f, true
	}
	return 0, false
}

// GeneratorFunc is a registered semantic generator: a total function from
// its literal argument text and a PRNG to a value and its string rendering.
type GeneratorFunc func(rng *rand.Rand, args []string) (GenValue, error)

// GeneratorTable maps a generator name to its implementation. Grammars are
// parsed against a table supplied at load time (spec.md §4.1); the table
// itself carries no grammar-specific state.
type GeneratorTable map[string]GeneratorFunc

// DefaultGenerators returns the built-in generator table: a bounded uniform
// integer draw, a Gaussian draw, a coin flip, and a bounded-length random
// string draw. Scenario S6's length-prefix invariant
// (`where <length> == uint16(len(<content>))`) is not a generator at all —
// a GeneratorFunc only ever sees its own literal args, never a sibling
// rule's bound value, so it cannot read another rule's generated length.
// That invariant is enforced by the where-predicate's built-in `len` and
// `uint16` call expressions (grammar/predicate.go's callExpr), evaluated
// against the rule's bound siblings after both sides have been generated.
// math/rand/v2 is used directly (no corpus example reaches for a
// third-party PRNG); see DESIGN.md C2 note.
func DefaultGenerators() GeneratorTable {
	return GeneratorTable{
		"uniformInt": func(rng *rand.Rand, args []string) (GenValue, error) {
			lo, hi, err := twoInts(args)
			if err != nil {
				return GenValue{}, err
			}
			if hi < lo {
				return GenValue{}, fmt.Errorf("uniformInt: hi < lo")
			}
			return IntValue(int64(rng.IntN(hi-lo+1) + lo)), nil
		},
		"gauss": func(rng *rand.Rand, args []string) (GenValue, error) {
			mean, stddev, err := twoFloats(args)
			if err != nil {
				return GenValue{}, err
			}
			return FloatValue(rng.NormFloat64()*stddev + mean), nil
		},
		"bool": func(rng *rand.Rand, _ []string) (GenValue, error) {
			return BoolValue(rng.IntN(2) == 1), nil
		},
		"randString": func(rng *rand.Rand, args []string) (GenValue, error) {
			lo, hi, err := twoInts(args)
			if err != nil {
				return GenValue{}, err
			}
			if hi < lo || lo < 0 {
				return GenValue{}, fmt.Errorf("randString: invalid bounds [%d, %d]", lo, hi)
			}
			n := rng.IntN(hi-lo+1) + lo
			b := make([]byte, n)
			for i := range b {
				b[i] = randStringAlphabet[rng.IntN(len(randStringAlphabet))]
			}
			return StringValue(string(b)), nil
		},
	}
}

const randStringAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func twoInts(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	a, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func twoFloats(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
