// Package config loads server settings from the environment and flags.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration. Flags override environment values.
type Config struct {
	Addr   string `env:"DUELL_ADDR" envDefault:":8080"`
	DBPath string `env:"DUELL_DB_PATH" envDefault:"duell.db"`
	// Seed fixes the random source of every new game. Zero picks a fresh
	// seed per game.
	Seed int64 `env:"DUELL_SEED" envDefault:"0"`
}

// Parse loads the environment into a Config, then applies flags from args.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite file for saved games (empty disables saving)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for new games (0 means random)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	return cfg, nil
}
