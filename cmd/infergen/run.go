package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nihei9/infergen/engine"
	"github.com/nihei9/infergen/fut"
	"github.com/nihei9/infergen/gen"
	"github.com/nihei9/infergen/grammar"
	"github.com/nihei9/infergen/internal/config"
	"github.com/nihei9/infergen/internal/obslog"
	"github.com/nihei9/infergen/oracle"
	"github.com/nihei9/infergen/property"
	"github.com/nihei9/infergen/typedinput"
)

var runFlags = struct {
	configPath   *string
	demo         *string
	exampleCount *int
	seed         *int64
	feedback     *bool
	oracleURL    *string
	verbose      *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run property inference against a bundled demo function under test",
		Example: `  infergen run --demo add`,
		Args:    cobra.NoArgs,
		RunE:    runRun,
	}
	runFlags.configPath = cmd.Flags().String("config", "", "optional YAML config overlay (see internal/config.Raw)")
	runFlags.demo = cmd.Flags().String("demo", "add", "bundled demo: add, sub, mul, safe_div, union, binary2")
	runFlags.exampleCount = cmd.Flags().Int("count", 200, "examples sampled per (fut, template) pair")
	runFlags.seed = cmd.Flags().Int64("seed", 1, "PRNG seed")
	runFlags.feedback = cmd.Flags().Bool("feedback", false, "enable the constraint-refinement loop")
	runFlags.oracleURL = cmd.Flags().String("oracle-url", "", "constraint-inference oracle URL (required if --feedback is set)")
	runFlags.verbose = cmd.Flags().Bool("verbose", false, "log at debug level instead of info")
	rootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	strategy := fut.FirstCompatible
	retainAll := false
	if *runFlags.configPath != "" {
		raw, err := config.Load(*runFlags.configPath)
		if err != nil {
			return err
		}
		if raw.ExampleCount > 0 {
			*runFlags.exampleCount = raw.ExampleCount
		}
		if raw.Seed > 0 {
			*runFlags.seed = int64(raw.Seed)
		}
		if raw.FeedbackEnabled {
			*runFlags.feedback = true
		}
		if raw.OracleURL != "" {
			*runFlags.oracleURL = raw.OracleURL
		}
		if raw.ComparisonStrategy != "" {
			s, err := parseStrategy(raw.ComparisonStrategy)
			if err != nil {
				return err
			}
			strategy = s
		}
		if raw.RetainAllCounterexamples {
			retainAll = true
		}
	}

	level := zerolog.InfoLevel
	if *runFlags.verbose {
		level = zerolog.DebugLevel
	}
	logger := obslog.New(os.Stderr, level)

	if *runFlags.demo == "binary2" {
		return runBinary2Demo(*runFlags.exampleCount, uint64(*runFlags.seed), logger)
	}

	fc, registry, err := buildDemo(*runFlags.demo)
	if err != nil {
		return err
	}

	var oracleClient oracle.Client
	if *runFlags.feedback {
		if *runFlags.oracleURL == "" {
			return fmt.Errorf("--feedback requires --oracle-url")
		}
		oracleClient = oracle.NewHTTPClient(*runFlags.oracleURL)
	}

	eng := engine.Configure(engine.Config{
		Registry:                 registry,
		FUTs:                     []engine.FUTConfig{fc},
		ExampleCount:             *runFlags.exampleCount,
		MaxCounterexamples:       10,
		RetainAllCounterexamples: retainAll,
		ComparisonStrategy:       strategy,
		UseInputCache:            true,
		FeedbackEnabled:          *runFlags.feedback,
		MaxFeedbackAttempts:      3,
		Seed:                     uint64(*runFlags.seed),
		Oracle:                   oracleClient,
		Logger:                   logger,
	})

	results, err := eng.Run(context.Background())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// parseStrategy maps the config file's comparison_strategy string onto the
// fut.Strategy enum. Engine.Config.ComparisonStrategy is accepted for every
// FUT, but (per DESIGN.md's simplification note) individual property
// templates still hardcode fut.FirstCompatible internally, so Consensus and
// MostRestrictive are parsed here for forward compatibility rather than
// having any effect on a demo run today.
func parseStrategy(s string) (fut.Strategy, error) {
	switch s {
	case "first_compatible", "":
		return fut.FirstCompatible, nil
	case "consensus":
		return fut.Consensus, nil
	case "most_restrictive":
		return fut.MostRestrictive, nil
	}
	return 0, fmt.Errorf("unknown comparison_strategy %q", s)
}

// runBinary2Demo wires scenario S6 (spec.md §8): a binary2.fan-style
// grammar whose where-predicate enforces the length-prefix invariant
// `<length> == uint16(len(<content>))` on every generated message, and a
// decode(encode(x))=x round trip checked over the <content> field of each
// one. Composition properties span two FUTs, so — unlike buildDemo's
// single-FUT scenarios — this bypasses engine.Configure/Run and calls
// property.InverseOf directly, per templates_composition.go's doc comment.
func runBinary2Demo(count int, seed uint64, logger obslog.Logger) error {
	gens := grammar.DefaultGenerators()
	src := `<msg> ::= <length> ":" <content>
where <length> == uint16(len(<content>))
<length> ::= := uniformInt(0, 12)
<content> ::= := randString(0, 12)
`
	g, err := grammar.Parse(src, gens)
	if err != nil {
		return err
	}

	samples, genErrs := gen.Generate(g, gens, count, seed, gen.DefaultConfig())
	for _, e := range genErrs {
		logger.Warn("generation error", "fut", "binary2", "error", e.Error())
	}

	inputs := make([]typedinput.Value, 0, len(samples))
	for _, s := range samples {
		v, err := parseBinary2Content(s.Text)
		if err != nil {
			logger.Warn("parse error", "fut", "binary2", "text", s.Text, "error", err.Error())
			continue
		}
		inputs = append(inputs, v)
	}

	encode := &fut.FUT{ID: "encode", Arity: 1, Call: callEncode}
	decode := &fut.FUT{ID: "decode", Arity: 1, Call: callDecode}

	outcome := property.InverseOf(encode, decode, inputs, count)

	result := engine.PropertyResult{
		Holds:        outcome.Holds,
		TotalCount:   outcome.TotalCount,
		SuccessCount: outcome.SuccessCount,
		Confidence:   outcome.Confidence(),
	}
	for _, w := range outcome.Successes {
		result.Successes = append(result.Successes, w.Note)
	}
	for _, w := range outcome.Counterexamples {
		result.Counterexamples = append(result.Counterexamples, w.Note)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]engine.PropertyResult{"decode_encode_round_trip": result})
}

// parseBinary2Content strips a generated binary2 message's length prefix,
// keeping only the <content> field as the round-trip sample value: the
// prefix is always derivable from the content, so it carries no
// independent information for the property under test.
func parseBinary2Content(text string) (typedinput.Value, error) {
	i := strings.IndexByte(text, ':')
	if i < 0 {
		return typedinput.Value{}, fmt.Errorf("binary2: missing length-prefix separator in %q", text)
	}
	content := text[i+1:]
	return typedinput.Value{Shape: typedinput.ShapeScalar, Scalar: typedinput.Scalar{Kind: typedinput.KindString, Str: content}}, nil
}

func callEncode(args []any) (any, error) {
	s, err := oneString(args)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%d:%s", uint16(len(s)), s), nil
}

func callDecode(args []any) (any, error) {
	s, err := oneString(args)
	if err != nil {
		return nil, err
	}
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return nil, fmt.Errorf("decode: missing length-prefix separator in %q", s)
	}
	prefix, content := s[:i], s[i+1:]
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return nil, fmt.Errorf("decode: invalid length prefix %q", prefix)
	}
	if uint16(n) != uint16(len(content)) {
		return nil, fmt.Errorf("decode: length mismatch: prefix=%d actual=%d", n, len(content))
	}
	return content, nil
}

func oneString(args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	v, ok := args[0].(typedinput.Value)
	if !ok || v.Shape != typedinput.ShapeScalar || v.Scalar.Kind != typedinput.KindString {
		return "", fmt.Errorf("argument 0 is not a string scalar")
	}
	return v.Scalar.Str, nil
}

// buildDemo returns the grammar/FUT/registry triple for one of the named
// end-to-end scenarios spec.md §8 describes (S1-S5), as a worked example of
// the configure(...)/Run(...) surface — argument parsing and wiring here is
// explicitly outside the engine/grammar/gen/property packages' contracts
// (SPEC_FULL.md §6).
func buildDemo(name string) (engine.FUTConfig, *property.Registry, error) {
	gens := grammar.DefaultGenerators()

	switch name {
	case "add", "sub":
		src := `<pair> ::= "(" <int> "," <int> ")"
<int> ::= := uniformInt(-100, 100)
`
		g, err := grammar.Parse(src, gens)
		if err != nil {
			return engine.FUTConfig{}, nil, err
		}
		var f *fut.FUT
		if name == "add" {
			f = &fut.FUT{ID: "add", Arity: 2, Call: callAdd}
		} else {
			f = &fut.FUT{ID: "sub", Arity: 2, Call: callSub}
		}
		return engine.FUTConfig{FUT: f, Grammar: g, Generators: gens, Parser: typedinput.Parse}, property.Arithmetic(), nil

	case "mul":
		src := `<pair> ::= "(" <int> "," <int> ")"
<int> ::= := uniformInt(0, 10)
`
		g, err := grammar.Parse(src, gens)
		if err != nil {
			return engine.FUTConfig{}, nil, err
		}
		f := &fut.FUT{ID: "mul", Arity: 2, Call: callMul}
		return engine.FUTConfig{FUT: f, Grammar: g, Generators: gens, Parser: typedinput.Parse}, property.Arithmetic(), nil

	case "safe_div":
		src := `<pair> ::= "(" <int> "," <int> ")"
<int> ::= := uniformInt(-10, 10)
`
		g, err := grammar.Parse(src, gens)
		if err != nil {
			return engine.FUTConfig{}, nil, err
		}
		f := &fut.FUT{ID: "safe_div", Arity: 2, Call: callSafeDiv}
		return engine.FUTConfig{FUT: f, Grammar: g, Generators: gens, Parser: typedinput.Parse}, property.Arithmetic(), nil

	case "union":
		src := `<pair> ::= "(" <set> "," <set> ")"
<set> ::= "{" <ints> "}"
<ints> ::= <int> ("," <int>)*
<int> ::= := uniformInt(0, 20)
`
		g, err := grammar.Parse(src, gens)
		if err != nil {
			return engine.FUTConfig{}, nil, err
		}
		f := &fut.FUT{ID: "union", Arity: 2, Call: callUnion}
		return engine.FUTConfig{FUT: f, Grammar: g, Generators: gens, Parser: typedinput.Parse}, property.DataStructure(), nil
	}

	return engine.FUTConfig{}, nil, fmt.Errorf("unknown demo %q", name)
}

func callAdd(args []any) (any, error) {
	a, b, err := twoInts(args)
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

func callSub(args []any) (any, error) {
	a, b, err := twoInts(args)
	if err != nil {
		return nil, err
	}
	return a - b, nil
}

func callMul(args []any) (any, error) {
	a, b, err := twoInts(args)
	if err != nil {
		return nil, err
	}
	return a * b, nil
}

func callSafeDiv(args []any) (any, error) {
	a, b, err := twoInts(args)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	return a / b, nil
}

func twoInts(args []any) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	a, ok := args[0].(typedinput.Value)
	if !ok || a.Shape != typedinput.ShapeScalar || a.Scalar.Kind != typedinput.KindInt {
		return 0, 0, fmt.Errorf("argument 0 is not an int scalar")
	}
	b, ok := args[1].(typedinput.Value)
	if !ok || b.Shape != typedinput.ShapeScalar || b.Scalar.Kind != typedinput.KindInt {
		return 0, 0, fmt.Errorf("argument 1 is not an int scalar")
	}
	return a.Scalar.Int, b.Scalar.Int, nil
}

func callUnion(args []any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	a, aok := args[0].(typedinput.Value)
	b, bok := args[1].(typedinput.Value)
	if !aok || !bok || a.Shape != typedinput.ShapeSet || b.Shape != typedinput.ShapeSet {
		return nil, fmt.Errorf("arguments must be sets")
	}
	sa := typedinput.NewSet[int64](len(a.Items))
	for _, it := range a.Items {
		if it.Shape == typedinput.ShapeScalar && it.Scalar.Kind == typedinput.KindInt {
			sa.Add(it.Scalar.Int)
		}
	}
	sb := typedinput.NewSet[int64](len(b.Items))
	for _, it := range b.Items {
		if it.Shape == typedinput.ShapeScalar && it.Scalar.Kind == typedinput.KindInt {
			sb.Add(it.Scalar.Int)
		}
	}
	u := typedinput.Union(sa, sb)
	items := make([]typedinput.Value, 0, u.Size())
	for _, v := range u.SortedSlice(func(x, y int64) bool { return x < y }) {
		items = append(items, typedinput.Value{Shape: typedinput.ShapeScalar, Scalar: typedinput.Scalar{Kind: typedinput.KindInt, Int: v}})
	}
	return typedinput.Value{Shape: typedinput.ShapeSet, Items: items}, nil
}
