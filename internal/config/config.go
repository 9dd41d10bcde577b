// Package config handles application configuration loading from environment
// variables and an optional YAML file. It provides a centralized Config
// struct that is read once at startup and never revalidated per request.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage modes accepted by STORAGE_MODE.
const (
	StorageFile     = "file"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
)

// Collections lists the logical collection names. Each one can be renamed in
// the document store with a COLLECTION_<NAME> override.
var Collections = []string{
	"posts",
	"categories",
	"authors",
	"articles",
	"kb_categories",
	"partners",
}

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Content storage
	StorageMode    string
	DataDir        string
	StorageTimeout time.Duration
	// CollectionNames maps a logical collection to its physical name in the
	// document store.
	CollectionNames map[string]string

	// MongoDB document store
	MongoURI string
	MongoDB  string

	// PostgreSQL document store
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). Caching is off when ValkeyHost is empty.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	CacheTTL       time.Duration

	// Content defaults
	DefaultAuthorSlug string
	DefaultAuthorName string

	// Admin write surface. Empty disables the admin API.
	AdminTokenHash string

	// Instatus public status page base URL, e.g. https://example.instatus.com
	InstatusURL string
}

// Load reads configuration from the environment and, when configFile is set
// or a config.yaml is present in the working directory, from that file.
// Environment variables win over file values. Returns an error if critical
// values are missing or invalid.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Host: v.GetString("app_host"),
		Port: v.GetString("app_port"),
		Env:  v.GetString("app_env"),

		StorageMode:     strings.ToLower(v.GetString("storage_mode")),
		DataDir:         v.GetString("data_dir"),
		StorageTimeout:  v.GetDuration("storage_timeout"),
		CollectionNames: make(map[string]string, len(Collections)),

		MongoURI: v.GetString("mongo_uri"),
		MongoDB:  v.GetString("mongo_db"),

		DBHost:     v.GetString("postgres_host"),
		DBPort:     v.GetString("postgres_port"),
		DBUser:     v.GetString("postgres_user"),
		DBPassword: v.GetString("postgres_password"),
		DBName:     v.GetString("postgres_db"),

		ValkeyHost:     v.GetString("valkey_host"),
		ValkeyPort:     v.GetString("valkey_port"),
		ValkeyPassword: v.GetString("valkey_password"),
		CacheTTL:       v.GetDuration("cache_ttl"),

		DefaultAuthorSlug: v.GetString("default_author_slug"),
		DefaultAuthorName: v.GetString("default_author_name"),
		AdminTokenHash:    v.GetString("admin_token_hash"),
		InstatusURL:       strings.TrimRight(v.GetString("instatus_url"), "/"),
	}
	for _, name := range Collections {
		cfg.CollectionNames[name] = v.GetString("collection_" + name)
	}

	switch cfg.StorageMode {
	case StorageFile, StorageMongo, StoragePostgres:
	default:
		return nil, fmt.Errorf("STORAGE_MODE must be one of file, mongo, postgres (got %q)", cfg.StorageMode)
	}

	if cfg.Env == "production" {
		if cfg.StorageMode == StoragePostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8080")
	v.SetDefault("app_env", "development")

	v.SetDefault("storage_mode", StorageFile)
	v.SetDefault("data_dir", "data")
	v.SetDefault("storage_timeout", 5*time.Second)

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "hostpress")

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_user", "hostpress")
	v.SetDefault("postgres_password", "changeme")
	v.SetDefault("postgres_db", "hostpress")

	v.SetDefault("valkey_host", "")
	v.SetDefault("valkey_port", "6379")
	v.SetDefault("valkey_password", "")
	v.SetDefault("cache_ttl", 5*time.Minute)

	v.SetDefault("default_author_slug", "hostpress-team")
	v.SetDefault("default_author_name", "Hostpress Team")
	v.SetDefault("admin_token_hash", "")
	v.SetDefault("instatus_url", "")

	for _, name := range Collections {
		v.SetDefault("collection_"+name, name)
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey host was configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}
