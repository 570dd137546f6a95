package fut

import "encoding/json"

// Strategy selects how a result comparator is chosen across one or more
// FUTs that may each carry their own Comparator (spec.md §4.4).
type Strategy int

const (
	FirstCompatible Strategy = iota
	Consensus
	MostRestrictive
)

// CompareResults decides equality of a and b according to strategy, using
// whichever of the supplied comparators accept the pair. A comparator
// that declines (Accept returns false) is excluded from the vote. If none
// accept, the comparison falls back to structural equality via
// encoding/json marshaling (Open Question (b) in SPEC_FULL.md): no corpus
// example ships a polymorphic-equality library, and this fallback is the
// one spec.md §9 documents directly, so it stays on encoding/json
// rather than introducing an unseen dependency for it.
func CompareResults(strategy Strategy, comparators []*Comparator, a, b any) bool {
	var accepting []*Comparator
	for _, c := range comparators {
		if c != nil && c.Accept != nil && c.Accept(a, b) {
			accepting = append(accepting, c)
		}
	}
	if len(accepting) == 0 {
		return structuralEqual(a, b)
	}

	switch strategy {
	case FirstCompatible:
		return accepting[0].Equal(a, b)
	case Consensus:
		first := accepting[0].Equal(a, b)
		for _, c := range accepting[1:] {
			if c.Equal(a, b) != first {
				return false
			}
		}
		return first
	case MostRestrictive:
		for _, c := range accepting {
			if !c.Equal(a, b) {
				return false
			}
		}
		return true
	default:
		return accepting[0].Equal(a, b)
	}
}

// structuralEqual compares two values by marshaling both to JSON and
// comparing the encoded bytes — a dependency-free equality fallback for
// values with no applicable comparator.
func structuralEqual(a, b any) bool {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return string(ab) == string(bb)
}
