// Package config loads server settings from flags, the environment, an
// optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. MEALPOINTS_DB_PATH.
const EnvPrefix = "MEALPOINTS"

// Store kinds.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config captures the settings of the mealpoints server.
type Config struct {
	Port           int
	Store          string
	DBPath         string
	LogLevel       string
	SeedMembers    []string
	LeaderboardTop int
	GeoIP          GeoIP
}

// GeoIP configures the IP location resolver.
type GeoIP struct {
	Endpoint          string
	CacheTTL          time.Duration
	CacheSize         int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Flags returns the command line flags understood by Load.
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("mealpoints", pflag.ContinueOnError)
	flags.String("config", "", "path to a config file (yaml, json or toml)")
	flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flags.Int("port", 8080, "HTTP listen port")
	flags.String("store", StoreSQLite, "storage backend: sqlite or memory")
	flags.String("db-path", "./data/mealpoints.db", "SQLite database file")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("seed-members", "", "comma separated names added when the roster is empty")
	flags.Int("leaderboard-top", 5, "number of members in the leaderboard top list")
	flags.String("geoip-endpoint", "https://ipapi.co", "IP location service base URL")
	flags.Duration("geoip-cache-ttl", 24*time.Hour, "how long resolved locations are cached")
	flags.Int("geoip-cache-size", 1024, "maximum number of cached locations")
	flags.Float64("geoip-rate", 1, "outbound location lookups per second")
	flags.Duration("geoip-timeout", 5*time.Second, "timeout of one location lookup")
	return flags
}

// Load resolves the configuration from parsed flags. Precedence, highest
// first: explicitly set flags, MEALPOINTS_* environment variables (including
// those from the env file), the config file, flag defaults.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	if envFile := v.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:           v.GetInt("port"),
		Store:          strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		DBPath:         strings.TrimSpace(v.GetString("db-path")),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString("log-level"))),
		SeedMembers:    splitList(v.GetString("seed-members")),
		LeaderboardTop: v.GetInt("leaderboard-top"),
		GeoIP: GeoIP{
			Endpoint:          strings.TrimRight(strings.TrimSpace(v.GetString("geoip-endpoint")), "/"),
			CacheTTL:          v.GetDuration("geoip-cache-ttl"),
			CacheSize:         v.GetInt("geoip-cache-size"),
			RequestsPerSecond: v.GetFloat64("geoip-rate"),
			Timeout:           v.GetDuration("geoip-timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	invalid := make([]string, 0, 4)

	if c.Port <= 0 || c.Port > 65535 {
		invalid = append(invalid, "port")
	}
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			invalid = append(invalid, "db-path")
		}
	case StoreMemory:
	default:
		invalid = append(invalid, "store")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "log-level")
	}
	if c.LeaderboardTop <= 0 {
		invalid = append(invalid, "leaderboard-top")
	}
	if c.GeoIP.Endpoint == "" {
		invalid = append(invalid, "geoip-endpoint")
	}
	if c.GeoIP.CacheTTL <= 0 {
		invalid = append(invalid, "geoip-cache-ttl")
	}
	if c.GeoIP.CacheSize <= 0 {
		invalid = append(invalid, "geoip-cache-size")
	}
	if c.GeoIP.RequestsPerSecond <= 0 {
		invalid = append(invalid, "geoip-rate")
	}
	if c.GeoIP.Timeout <= 0 {
		invalid = append(invalid, "geoip-timeout")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
