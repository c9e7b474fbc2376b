package config

import (
	"flag"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	fs := flag.NewFlagSet("duell", flag.ContinueOnError)
	cfg, err := Parse(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.DBPath != "duell.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected zero seed, got %d", cfg.Seed)
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("DUELL_ADDR", "127.0.0.1:9000")
	t.Setenv("DUELL_SEED", "42")
	fs := flag.NewFlagSet("duell", flag.ContinueOnError)
	cfg, err := Parse(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.Seed != 42 {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("DUELL_ADDR", "127.0.0.1:9000")
	fs := flag.NewFlagSet("duell", flag.ContinueOnError)
	cfg, err := Parse(fs, []string{"-addr", ":7000", "-db", "", "-seed", "7"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != ":7000" || cfg.DBPath != "" || cfg.Seed != 7 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("DUELL_SEED", "not-a-number")
	fs := flag.NewFlagSet("duell", flag.ContinueOnError)
	_, err := Parse(fs, nil)
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}
