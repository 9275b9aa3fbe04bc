// Package config provides functionality for managing configuration options
// for the application using command-line flags, a .env file, a JSON config
// file and environment variables.
package config

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`

	// SecretKey signs session cookies.
	SecretKey string `json:"secret_key"`

	// CatalogAPIKey authenticates requests to the plant catalog.
	CatalogAPIKey string `json:"catalog_api_key"`

	// CatalogBaseURL is the root of the plant catalog API.
	CatalogBaseURL string `json:"catalog_base_url"`

	// CatalogTimeout bounds a single catalog request.
	CatalogTimeout time.Duration `json:"-"`

	// CatalogCacheTTL is how long a search response stays in Redis.
	CatalogCacheTTL time.Duration `json:"-"`

	// RedisAddr enables the search cache when non-empty.
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// LogLevel is passed to the zap logger.
	LogLevel string `json:"log_level"`

	// TrustProxy makes client addresses come from proxy headers.
	TrustProxy bool `json:"trust_proxy"`

	// PlantRetention is how long an unliked cached plant is kept.
	PlantRetention time.Duration `json:"-"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// EnvFile is the path to an optional dotenv file.
	EnvFile string `json:"-"`
}

// New returns Options holding the defaults.
func New() *Options {
	return &Options{
		Port:            "localhost:8080",
		CatalogBaseURL:  "https://perenual.com/api",
		CatalogTimeout:  10 * time.Second,
		CatalogCacheTTL: time.Hour,
		LogLevel:        "info",
		PlantRetention:  30 * 24 * time.Hour,
		Config:          "config.json",
		EnvFile:         ".env",
	}
}

// RegisterFlags binds the options to fs.
func (o *Options) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Port, "address", "a", o.Port, "run on ip:port server")
	fs.StringVarP(&o.DatabaseDSN, "database", "d", o.DatabaseDSN, "db address")
	fs.StringVar(&o.CatalogBaseURL, "catalog-url", o.CatalogBaseURL, "plant catalog base URL")
	fs.DurationVar(&o.CatalogTimeout, "catalog-timeout", o.CatalogTimeout, "plant catalog request timeout")
	fs.DurationVar(&o.CatalogCacheTTL, "catalog-cache-ttl", o.CatalogCacheTTL, "search cache TTL")
	fs.StringVar(&o.RedisAddr, "redis", o.RedisAddr, "redis address for the search cache")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level")
	fs.BoolVar(&o.TrustProxy, "trust-proxy", o.TrustProxy, "take client IPs from X-Forwarded-For/X-Real-IP")
	fs.DurationVar(&o.PlantRetention, "plant-retention", o.PlantRetention, "retention for unliked cached plants")
	fs.StringVarP(&o.Config, "config", "c", o.Config, "path to config file")
	fs.StringVar(&o.EnvFile, "env-file", o.EnvFile, "path to .env file")
}

// Load fills the options from the .env file, the JSON config file and the
// environment, in that order, each overriding the one before. Flags set
// explicitly on fs win over all of them.
func (o *Options) Load(fs *pflag.FlagSet) error {
	explicit := map[string]string{}
	if fs != nil {
		fs.Visit(func(f *pflag.Flag) { explicit[f.Name] = f.Value.String() })
	}

	dotenv := map[string]string{}
	if o.EnvFile != "" {
		vars, err := godotenv.Read(o.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error while reading env file: %w", err)
		}
		if vars != nil {
			dotenv = vars
		}
		if err := o.loadEnv(func(key string) string { return dotenv[key] }); err != nil {
			return fmt.Errorf("env file: %w", err)
		}
	}

	// Override flags with environment variables if set
	if configPath := cmp.Or(os.Getenv("CONFIG"), dotenv["CONFIG"]); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		if _, err := os.Stat(o.Config); err == nil {
			data, err := os.ReadFile(o.Config)
			if err != nil {
				return fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, o); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if err := o.loadEnv(os.Getenv); err != nil {
		return err
	}

	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("flag %s: %w", name, err)
		}
	}
	return nil
}

// loadEnv overrides options with the non-empty values getenv returns.
func (o *Options) loadEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&o.Port, "SERVER_ADDRESS")
	setString(&o.DatabaseDSN, "DATABASE_URL")
	setString(&o.SecretKey, "SECRET_KEY")
	setString(&o.CatalogAPIKey, "PERENUAL_API_KEY")
	setString(&o.CatalogBaseURL, "CATALOG_BASE_URL")
	setString(&o.RedisAddr, "REDIS_ADDR")
	setString(&o.RedisPassword, "REDIS_PASSWORD")
	setString(&o.LogLevel, "LOG_LEVEL")

	if v := getenv("TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		o.TrustProxy = b
	}
	if v := getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		o.RedisDB = n
	}
	for key, dst := range map[string]*time.Duration{
		"CATALOG_TIMEOUT":   &o.CatalogTimeout,
		"CATALOG_CACHE_TTL": &o.CatalogCacheTTL,
		"PLANT_RETENTION":   &o.PlantRetention,
	} {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Validate reports every required option that is missing.
func (o *Options) Validate() error {
	var errs []error
	if o.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if o.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if o.CatalogAPIKey == "" {
		errs = append(errs, errors.New("PERENUAL_API_KEY is required"))
	}
	return errors.Join(errs...)
}
