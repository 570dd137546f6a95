package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "infergen.yaml")
	yaml := "example_count: 500\nfeedback_enabled: true\noracle_url: http://localhost:9000\nretain_all_counterexamples: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.ExampleCount != 500 {
		t.Fatalf("want example_count 500, got %d", raw.ExampleCount)
	}
	if !raw.FeedbackEnabled {
		t.Fatalf("want feedback_enabled true")
	}
	if raw.OracleURL != "http://localhost:9000" {
		t.Fatalf("want the configured oracle_url, got %q", raw.OracleURL)
	}
	if !raw.RetainAllCounterexamples {
		t.Fatalf("want retain_all_counterexamples true")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "infergen.yaml")
	if err := os.WriteFile(path, []byte("example_count: 10\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv("INFERGEN_EXAMPLE_COUNT", "77")

	raw, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.ExampleCount != 77 {
		t.Fatalf("want the environment override to win, got %d", raw.ExampleCount)
	}
}

func TestLoadWithNoPathReadsOnlyEnv(t *testing.T) {
	t.Setenv("INFERGEN_SEED", "42")
	raw, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Seed != 42 {
		t.Fatalf("want seed 42 from the environment, got %d", raw.Seed)
	}
}

func TestEnvKeyTransformLowercasesSuffix(t *testing.T) {
	got := envKeyTransform("INFERGEN_EXAMPLE_COUNT")
	if got != "example_count" {
		t.Fatalf("want %q, got %q", "example_count", got)
	}
}
