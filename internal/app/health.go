package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/fukidashi/internal/cli"
	"horse.fit/fukidashi/internal/config"
	"horse.fit/fukidashi/internal/db"
	"horse.fit/fukidashi/internal/overrides"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config check failed: %v\n", err)
		return 1
	}
	fmt.Println("Config: OK")

	if _, err := overrides.Load(cfg.OverridesFile); err != nil {
		fmt.Fprintf(os.Stderr, "Overrides check failed: %v\n", err)
		return 1
	}
	if cfg.OverridesFile != "" {
		fmt.Println("Overrides: OK")
	}

	if !cfg.CacheEnabled() {
		fmt.Println("Cache database: not configured (cache disabled)")
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Database check failed: %v\n", err)
		return 1
	}
	defer pool.Close()

	fmt.Println("Cache database: OK")
	return 0
}
