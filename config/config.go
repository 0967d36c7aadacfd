/*
Package config loads server configuration from flags, environment and .env.

PRECEDENCE (highest first):
  1. Command-line flags
  2. Environment variables (ROI_*)
  3. .env in the working directory (never overrides the environment)
  4. Built-in defaults

FLAGS / ENVIRONMENT:
  -port           ROI_PORT             HTTP port (default 8080)
  -db             ROI_DB_PATH          SQLite path, ":memory:" allowed (default roi.db)
  -log-level      ROI_LOG_LEVEL        debug|info|warn|error (default info)
  -log-format     ROI_LOG_FORMAT       json|console (default json)
  -mc-iterations  ROI_MC_ITERATIONS    Default Monte Carlo trials (default 1000)
  -mc-workers     ROI_MC_WORKERS       Monte Carlo workers, 0 = GOMAXPROCS
  -origins        ROI_ALLOWED_ORIGINS  Comma-separated CORS origins
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/warp/roi-engine/logging"
)

// Config is the resolved server configuration.
type Config struct {
	Port           int
	DBPath         string
	LogLevel       string
	LogFormat      string
	MCIterations   int
	MCWorkers      int
	AllowedOrigins []string
}

// MaxIterations caps Monte Carlo trials per request.
const MaxIterations = 1_000_000

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:           8080,
		DBPath:         "roi.db",
		LogLevel:       "info",
		LogFormat:      "json",
		MCIterations:   1000,
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Load resolves configuration for the given command-line arguments
// (without the program name).
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := fromEnv(Defaults())
	if err != nil {
		return Config{}, err
	}

	fsFlags := flag.NewFlagSet("server", flag.ContinueOnError)
	fsFlags.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fsFlags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fsFlags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fsFlags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, console)")
	fsFlags.IntVar(&cfg.MCIterations, "mc-iterations", cfg.MCIterations, "Default Monte Carlo iterations")
	fsFlags.IntVar(&cfg.MCWorkers, "mc-workers", cfg.MCWorkers, "Monte Carlo workers (0 = GOMAXPROCS)")
	origins := fsFlags.String("origins", strings.Join(cfg.AllowedOrigins, ","), "Comma-separated CORS origins")
	if err := fsFlags.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.AllowedOrigins = splitList(*origins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("db path is required")
	}
	if c.MCIterations < 1 || c.MCIterations > MaxIterations {
		return fmt.Errorf("mc-iterations must be in [1,%d], got %d", MaxIterations, c.MCIterations)
	}
	if c.MCWorkers < 0 {
		return fmt.Errorf("mc-workers must be >= 0, got %d", c.MCWorkers)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

func fromEnv(cfg Config) (Config, error) {
	if v := os.Getenv("ROI_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ROI_PORT: %w", err)
		}
		cfg.Port = n
	}
	if v := os.Getenv("ROI_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ROI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ROI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ROI_MC_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ROI_MC_ITERATIONS: %w", err)
		}
		cfg.MCIterations = n
	}
	if v := os.Getenv("ROI_MC_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ROI_MC_WORKERS: %w", err)
		}
		cfg.MCWorkers = n
	}
	if v := os.Getenv("ROI_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
