package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the API service. Values come from an
// optional YAML file with environment variables taking precedence, so
// container deployments can run without any file at all.
type Config struct {
	Port int `yaml:"port" validate:"gt=0"`

	// Upstream Metro Bilbao real-time API.
	APIBaseURL             string `yaml:"apiBaseURL" validate:"required,url"`
	UpstreamTimeoutSeconds int    `yaml:"upstreamTimeoutSeconds" validate:"gt=0"`

	// Night window for exit availability, "HH:MM" local time. The window
	// may wrap past midnight.
	NightTimeStart string `yaml:"nightTimeStart" validate:"required"`
	NightTimeEnd   string `yaml:"nightTimeEnd" validate:"required"`

	// AutoRefreshSeconds is the polling interval for the service monitor
	// and is surfaced to clients via the health endpoint.
	AutoRefreshSeconds int `yaml:"autoRefreshSeconds" validate:"gt=0"`

	// Visitor store. DatabaseURL selects Postgres; otherwise SQLite at
	// SQLitePath is used.
	SQLitePath  string `yaml:"sqlitePath"`
	DatabaseURL string `yaml:"databaseURL"`

	// StaticDir, when set, is served at the router root.
	StaticDir string `yaml:"staticDir"`

	AllowedOrigins []string `yaml:"allowedOrigins"`

	// Service monitor reference route and Pushover credentials. The
	// monitor stays disabled unless the credentials are present
	// (environment only, never the YAML file).
	MonitorOrigin      string `yaml:"monitorOrigin"`
	MonitorDestination string `yaml:"monitorDestination"`
	PushoverToken      string `yaml:"-"`
	PushoverUser       string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:                   8001,
		APIBaseURL:             "https://api.metrobilbao.eus/metro/real-time",
		UpstreamTimeoutSeconds: 30,
		NightTimeStart:         "22:00",
		NightTimeEnd:           "06:00",
		AutoRefreshSeconds:     10,
		SQLitePath:             "data/visitors.db",
		AllowedOrigins:         []string{"*"},
		MonitorOrigin:          "SMM",
		MonitorDestination:     "CAD",
	}
}

// Load builds the configuration: defaults, then the YAML file at path if
// it exists, then environment overrides, then validation. A missing file
// is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env + defaults
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("UPSTREAM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.UpstreamTimeoutSeconds = n
		}
	}
	if v := os.Getenv("NIGHT_TIME_START"); v != "" {
		c.NightTimeStart = v
	}
	if v := os.Getenv("NIGHT_TIME_END"); v != "" {
		c.NightTimeEnd = v
	}
	if v := os.Getenv("AUTO_REFRESH_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.AutoRefreshSeconds = n
		}
	}
	if v := os.Getenv("SQLITE_DATABASE"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv("MONITOR_ORIGIN"); v != "" {
		c.MonitorOrigin = v
	}
	if v := os.Getenv("MONITOR_DESTINATION"); v != "" {
		c.MonitorDestination = v
	}
	c.PushoverToken = os.Getenv("PUSHOVER_TOKEN")
	c.PushoverUser = os.Getenv("PUSHOVER_USER")
}

// Validate checks the configuration, including that the night window
// bounds parse as HH:MM times.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if _, err := time.Parse("15:04", c.NightTimeStart); err != nil {
		return fmt.Errorf("nightTimeStart %q: %w", c.NightTimeStart, err)
	}
	if _, err := time.Parse("15:04", c.NightTimeEnd); err != nil {
		return fmt.Errorf("nightTimeEnd %q: %w", c.NightTimeEnd, err)
	}
	return nil
}

// UpstreamTimeout returns the upstream request timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// AutoRefreshInterval returns the monitor polling interval as a duration.
func (c *Config) AutoRefreshInterval() time.Duration {
	return time.Duration(c.AutoRefreshSeconds) * time.Second
}

// MonitorEnabled reports whether the background service monitor should
// run.
func (c *Config) MonitorEnabled() bool {
	return c.PushoverToken != "" && c.PushoverUser != ""
}

// IsNight reports whether t falls inside the configured night window.
// Validate guarantees both bounds parse.
func (c *Config) IsNight(t time.Time) bool {
	start, _ := time.Parse("15:04", c.NightTimeStart)
	end, _ := time.Parse("15:04", c.NightTimeEnd)

	minutes := t.Hour()*60 + t.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	if startMin > endMin {
		// Window wraps midnight, e.g. 22:00-06:00.
		return minutes >= startMin || minutes < endMin
	}
	return minutes >= startMin && minutes < endMin
}
