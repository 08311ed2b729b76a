package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port     string
	PGURL    string // optional; enables the Postgres dataset store
	LogLevel log.Level

	VarianceTolerance float64
	SharpeTolerance   float64
	MaxIterations     int
	Trace             bool
	BatchConcurrency  int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first; variables already set in the shell take
// precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		PGURL: os.Getenv("PG_URL"),
	}

	var err error
	if cfg.LogLevel, err = log.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.VarianceTolerance, err = positiveFloat("FRONTIER_VARIANCE_TOL", 1e-15); err != nil {
		return nil, err
	}
	if cfg.SharpeTolerance, err = positiveFloat("FRONTIER_SHARPE_TOL", 1e-8); err != nil {
		return nil, err
	}
	if cfg.MaxIterations, err = positiveInt("FRONTIER_MAX_ITERATIONS", 1000); err != nil {
		return nil, err
	}
	if cfg.BatchConcurrency, err = positiveInt("FRONTIER_BATCH_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.Trace, err = strconv.ParseBool(getEnv("FRONTIER_TRACE", "false")); err != nil {
		return nil, fmt.Errorf("invalid FRONTIER_TRACE: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !(f > 0) {
		return 0, fmt.Errorf("%s must be a positive number, got %q", key, v)
	}
	return f, nil
}

func positiveInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
