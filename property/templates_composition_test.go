package property

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/typedinput"
)

// encodeDecodeFUTs builds the scenario S6 length-prefix encode/decode pair
// (spec.md §8's "the user's decode(encode(x))=x round-trip holds for 100%
// of samples"): encode prepends a uint16 length prefix, decode strips and
// validates it.
func encodeDecodeFUTs() (encode, decode *fut.FUT) {
	encode = &fut.FUT{
		ID:    "encode",
		Arity: 1,
		Call: func(args []any) (any, error) {
			s := args[0].(typedinput.Value).Scalar.Str
			return fmt.Sprintf("%d:%s", uint16(len(s)), s), nil
		},
	}
	decode = &fut.FUT{
		ID:    "decode",
		Arity: 1,
		Call: func(args []any) (any, error) {
			s := args[0].(typedinput.Value).Scalar.Str
			i := strings.IndexByte(s, ':')
			if i < 0 {
				return nil, fmt.Errorf("missing length prefix")
			}
			n, err := strconv.Atoi(s[:i])
			if err != nil {
				return nil, err
			}
			content := s[i+1:]
			if uint16(n) != uint16(len(content)) {
				return nil, fmt.Errorf("length mismatch")
			}
			return content, nil
		},
	}
	return encode, decode
}

func stringValue(s string) typedinput.Value {
	return typedinput.Value{Shape: typedinput.ShapeScalar, Scalar: typedinput.Scalar{Kind: typedinput.KindString, Str: s}}
}

func TestInverseOfDecodeEncodeRoundTripHolds(t *testing.T) {
	encode, decode := encodeDecodeFUTs()
	sample := []typedinput.Value{stringValue(""), stringValue("a"), stringValue("hello world"), stringValue(strings.Repeat("x", 40))}

	outcome := InverseOf(encode, decode, sample, 10)
	if !outcome.Holds {
		t.Fatalf("want decode(encode(x))=x to hold, got counterexamples: %+v", outcome.Counterexamples)
	}
	if outcome.TotalCount != len(sample) {
		t.Fatalf("want every sample point scored, got %d of %d", outcome.TotalCount, len(sample))
	}
}

func TestInverseOfDetectsABrokenDecoder(t *testing.T) {
	encode, _ := encodeDecodeFUTs()
	brokenDecode := &fut.FUT{
		ID:    "broken_decode",
		Arity: 1,
		Call: func(args []any) (any, error) {
			return "wrong", nil
		},
	}

	outcome := InverseOf(encode, brokenDecode, []typedinput.Value{stringValue("hello")}, 10)
	if outcome.Holds {
		t.Fatalf("want a broken decoder to falsify the round trip")
	}
	if len(outcome.Counterexamples) != 1 {
		t.Fatalf("want one recorded counterexample, got %d", len(outcome.Counterexamples))
	}
}
