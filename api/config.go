package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

type Config struct {
	Addr        string
	DSN         string
	Store       string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
	LogLevel    string
	LogFormat   string
	Migrate     bool
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return fallback
}

// parseConfig reads flags from args. Every flag defaults to its environment
// variable, so a .env file loaded beforehand fills in anything not passed.
func parseConfig(args []string) (Config, error) {
	var cfg Config

	flagSet := pflag.NewFlagSet("event-planner", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Addr, "addr", getEnv("ADDR", ":8080"), "address to listen on")
	flagSet.StringVar(&cfg.DSN, "dsn", getEnv("DATABASE_URL", ""), "postgres connection string")
	flagSet.StringVar(&cfg.Store, "store", getEnv("STORE", "postgres"), "storage backend: postgres or memory")
	flagSet.StringVar(&cfg.JWTSecret, "jwt-secret", getEnv("JWT_SECRET", ""), "secret used to sign access tokens")
	flagSet.DurationVar(&cfg.TokenTTL, "token-ttl", getEnvDuration("TOKEN_TTL", 24*time.Hour), "lifetime of access tokens")
	flagSet.StringSliceVar(&cfg.CORSOrigins, "cors-origin", splitList(getEnv("CORS_ORIGIN", "http://localhost:3000")), "allowed CORS origin (repeatable)")
	flagSet.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "log level")
	flagSet.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "log format: text or json")
	flagSet.BoolVar(&cfg.Migrate, "migrate", getEnvBool("MIGRATE", true), "apply database migrations on startup")

	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return cfg, cfg.Validate()
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("a JWT secret is required (--jwt-secret or JWT_SECRET)")
	}
	switch c.Store {
	case "memory":
	case "postgres":
		if c.DSN == "" {
			return errors.New("a database DSN is required for the postgres store (--dsn or DATABASE_URL)")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
