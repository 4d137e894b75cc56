// Package config loads the site configuration from an optional YAML file
// overlaid with INKWELL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	pkgconfig "inkwell/internal/pkg/config"
)

// EnvPrefix marks the environment variables read by Load. A double
// underscore separates nesting levels: INKWELL_SERVER__READ_TIMEOUT sets
// server.read_timeout.
const EnvPrefix = "INKWELL_"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	Templates TemplatesConfig `koanf:"templates"`
	Site      SiteConfig      `koanf:"site"`
	Tracing   TracingConfig   `koanf:"tracing"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	// RequestTimeout bounds one page render; zero disables it.
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	MetricsPath       string        `koanf:"metrics_path"`
}

type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	PingTimeout     time.Duration `koanf:"ping_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

type TemplatesConfig struct {
	Dir       string `koanf:"dir"`
	Extension string `koanf:"extension"`
	// Cache keeps compiled templates; turn off while editing templates.
	Cache     bool   `koanf:"cache"`
	// StaticDir is served under /static/ when it exists.
	StaticDir string `koanf:"static_dir"`
	// NotFound names the template rendered for missing pages.
	NotFound  string `koanf:"not_found"`
}

type SiteConfig struct {
	// Timezone decides month boundaries for archives and the start of the
	// day for top articles.
	Timezone      string `koanf:"timezone"`
	LabelMaxDepth int    `koanf:"label_max_depth"`
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// Default returns the configuration used for every key that is not set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RequestTimeout:    15 * time.Second,
			MetricsPath:       "/metrics",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 30 * time.Minute,
			PingTimeout:     5 * time.Second,
		},
		Log:       LogConfig{Level: "info", Format: "json"},
		Templates: TemplatesConfig{Dir: "templates", Extension: ".html", Cache: true, StaticDir: "static", NotFound: "404"},
		Site:      SiteConfig{Timezone: "Local", LabelMaxDepth: 3},
		Tracing:   TracingConfig{Enabled: false, SampleRatio: 1},
	}
}

// LoadDotEnv copies the variables of a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads path (skipped when empty), then the environment, on top of Default.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate reports settings the site cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required (%sDATABASE__DSN)", EnvPrefix)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.Templates.Dir == "" {
		return fmt.Errorf("templates.dir cannot be empty")
	}
	return nil
}

// Fallback records a setting that failed validation and was reset to its default.
type Fallback struct {
	Field string
	Err   error
}

func (f Fallback) String() string {
	return fmt.Sprintf("%s: %v; using default", f.Field, f.Err)
}

// ApplyFallbacks resets every out-of-range setting to its default and
// reports which ones it touched.
func (c *Config) ApplyFallbacks() []Fallback {
	def := Default()
	var out []Fallback
	check := func(field string, err error, reset func()) {
		if err != nil {
			reset()
			out = append(out, Fallback{Field: field, Err: err})
		}
	}

	check("server.read_timeout", pkgconfig.ValidatePositiveDuration(c.Server.ReadTimeout),
		func() { c.Server.ReadTimeout = def.Server.ReadTimeout })
	check("server.read_header_timeout", pkgconfig.ValidatePositiveDuration(c.Server.ReadHeaderTimeout),
		func() { c.Server.ReadHeaderTimeout = def.Server.ReadHeaderTimeout })
	check("server.write_timeout", pkgconfig.ValidatePositiveDuration(c.Server.WriteTimeout),
		func() { c.Server.WriteTimeout = def.Server.WriteTimeout })
	check("server.idle_timeout", pkgconfig.ValidatePositiveDuration(c.Server.IdleTimeout),
		func() { c.Server.IdleTimeout = def.Server.IdleTimeout })
	check("server.shutdown_timeout", pkgconfig.ValidateDuration(c.Server.ShutdownTimeout, time.Second, 5*time.Minute),
		func() { c.Server.ShutdownTimeout = def.Server.ShutdownTimeout })
	check("server.request_timeout", pkgconfig.ValidateDuration(c.Server.RequestTimeout, 0, 5*time.Minute),
		func() { c.Server.RequestTimeout = def.Server.RequestTimeout })
	check("database.max_open_conns", pkgconfig.ValidateIntRange(c.Database.MaxOpenConns, 1, 1000),
		func() { c.Database.MaxOpenConns = def.Database.MaxOpenConns })
	check("database.max_idle_conns", pkgconfig.ValidateIntRange(c.Database.MaxIdleConns, 0, c.Database.MaxOpenConns),
		func() { c.Database.MaxIdleConns = min(def.Database.MaxIdleConns, c.Database.MaxOpenConns) })
	check("database.ping_timeout", pkgconfig.ValidatePositiveDuration(c.Database.PingTimeout),
		func() { c.Database.PingTimeout = def.Database.PingTimeout })
	check("log.level", pkgconfig.ValidateOneOf(strings.ToLower(c.Log.Level), "debug", "info", "warn", "error"),
		func() { c.Log.Level = def.Log.Level })
	check("log.format", pkgconfig.ValidateOneOf(strings.ToLower(c.Log.Format), "json", "text"),
		func() { c.Log.Format = def.Log.Format })
	check("site.timezone", pkgconfig.ValidateTimezone(c.Site.Timezone),
		func() { c.Site.Timezone = def.Site.Timezone })
	check("site.label_max_depth", pkgconfig.ValidateIntRange(c.Site.LabelMaxDepth, 1, 16),
		func() { c.Site.LabelMaxDepth = def.Site.LabelMaxDepth })
	check("tracing.sample_ratio", pkgconfig.ValidateRatio(c.Tracing.SampleRatio),
		func() { c.Tracing.SampleRatio = def.Tracing.SampleRatio })

	return out
}

// Location returns the site time zone, falling back to time.Local.
func (s SiteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
