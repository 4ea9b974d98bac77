// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultRateLimit    = 5
	DefaultRateWindow   = time.Minute
	DefaultRosterLimit  = 2000
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	RateLimit    int
	RateWindow   time.Duration
	RosterLimit  int
}

// ParseFlags reads flags, then a .env file, then the environment.
// Flags win over the environment; the .env file never overrides
// variables already set.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	flags := flag.NewFlagSet("voter-roster", flag.ContinueOnError)

	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	flags.IntVar(&cfg.RateLimit, "rate-limit", 0, "Import requests allowed per client per window")
	flags.DurationVar(&cfg.RateWindow, "rate-window", 0, "Rate limit window")
	flags.IntVar(&cfg.RosterLimit, "roster-limit", 0, "Voters loaded into the roster, newest first")
	flags.StringVar(&envFile, "env", ".env", "Optional env file")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	var err error
	if cfg.Port == 0 {
		if cfg.Port, err = envInt("PORT", DefaultPort); err != nil {
			return Config{}, err
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.RateLimit == 0 {
		if cfg.RateLimit, err = envInt("RATE_LIMIT", DefaultRateLimit); err != nil {
			return Config{}, err
		}
	}
	if cfg.RateWindow == 0 {
		if cfg.RateWindow, err = envDuration("RATE_WINDOW", DefaultRateWindow); err != nil {
			return Config{}, err
		}
	}
	if cfg.RosterLimit == 0 {
		if cfg.RosterLimit, err = envInt("ROSTER_LIMIT", DefaultRosterLimit); err != nil {
			return Config{}, err
		}
	}

	if cfg.RateLimit < 0 || cfg.RateWindow < 0 || cfg.RosterLimit < 0 {
		return Config{}, errors.New("rate limit, rate window and roster limit must be positive")
	}

	return cfg, nil
}

// loadEnvFile loads path if it exists
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

// envDuration accepts Go durations ("90s") or plain seconds ("90")
func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
