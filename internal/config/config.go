// Package config loads engine.Config from an optional YAML file layered
// with environment variable overrides, via knadh/koanf (SPEC_FULL.md A1).
// The engine package itself never imports koanf: this package is a CLI-only
// convenience, consumed by cmd/infergen, mirroring how cmd/vartan/root.go
// wires cobra flags into a compileConfig without the grammar/grammar.go
// package knowing cobra exists.
package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Raw is the file/env-addressable shape of engine.Config. Field names are
// lower_snake_case in the file layer, matching the env var suffixes
// (INFERGEN_EXAMPLE_COUNT etc.) after koanf's env-prefix strip.
type Raw struct {
	GrammarPath              string   `koanf:"grammar_path"`
	Parser                   string   `koanf:"parser"`
	ExampleCount             int      `koanf:"example_count"`
	MaxCounterexamples       int      `koanf:"max_counterexamples"`
	RetainAllCounterexamples bool     `koanf:"retain_all_counterexamples"`
	ComparisonStrategy       string   `koanf:"comparison_strategy"`
	UseInputCache            bool     `koanf:"use_input_cache"`
	FeedbackEnabled          bool     `koanf:"feedback_enabled"`
	MaxFeedbackAttempts      int      `koanf:"max_feedback_attempts"`
	OracleURL                string   `koanf:"oracle_url"`
	Properties               []string `koanf:"properties"`
	Seed                     uint64   `koanf:"seed"`
}

const envPrefix = "INFERGEN_"

// Load reads path (if non-empty) as YAML, then overlays any INFERGEN_*
// environment variables, returning the merged configuration.
func Load(path string) (Raw, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Raw{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyTransform), nil); err != nil {
		return Raw{}, fmt.Errorf("loading environment overrides: %w", err)
	}

	var raw Raw
	if err := k.Unmarshal("", &raw); err != nil {
		return Raw{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return raw, nil
}

func envKeyTransform(s string) string {
	out := make([]byte, 0, len(s))
	for _, c := range s[len(envPrefix):] {
		if c >= 'A' && c <= 'Z' {
			out = append(out, byte(c-'A'+'a'))
		} else {
			out = append(out, byte(c))
		}
	}
	return string(out)
}
