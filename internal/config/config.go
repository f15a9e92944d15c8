package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/ingest"
	"github.com/newthinker/traderstats/internal/stats"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Import   ImportConfig   `mapstructure:"import"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host              string   `mapstructure:"host"`
	Port              int      `mapstructure:"port"`
	MaxSessions       int      `mapstructure:"max_sessions"`
	SessionTTLMinutes int      `mapstructure:"session_ttl_minutes"`
	MaxUploadMB       int      `mapstructure:"max_upload_mb"`
	ImportsPerMinute  int      `mapstructure:"imports_per_minute"` // 0 disables the limit
	CORSOrigins       []string `mapstructure:"cors_origins"`       // empty disables CORS
}

// ImportConfig controls how exports are read.
type ImportConfig struct {
	Sheet    string         `mapstructure:"sheet"`
	Timezone string         `mapstructure:"timezone"` // IANA name for naive timestamps
	Columns  ingest.Columns `mapstructure:"columns"`
}

type CalendarConfig struct {
	WeekStart string `mapstructure:"week_start"` // "sunday" or "monday"
}

// StorageConfig selects where raw exports are archived.
type StorageConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// LogConfig holds logging settings. File output is rotated.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("TRADERSTATS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			MaxSessions:       100,
			SessionTTLMinutes: 60,
			MaxUploadMB:       32,
			ImportsPerMinute:  30,
		},
		Import: ImportConfig{
			Sheet:    ingest.DefaultSheet,
			Timezone: "UTC",
			Columns:  ingest.DefaultColumns(),
		},
		Calendar: CalendarConfig{
			WeekStart: "sunday",
		},
		Storage: StorageConfig{
			Type: "localfs",
			Path: ".",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxSessions < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_sessions must be positive, got %d", c.Server.MaxSessions))
	}
	if c.Server.SessionTTLMinutes < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("session_ttl_minutes cannot be negative, got %d", c.Server.SessionTTLMinutes))
	}
	if c.Server.MaxUploadMB < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_upload_mb must be positive, got %d", c.Server.MaxUploadMB))
	}
	if c.Server.ImportsPerMinute < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("imports_per_minute cannot be negative, got %d", c.Server.ImportsPerMinute))
	}

	// Import validation
	if _, err := c.Location(); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}
	if c.Import.Columns.TradeNo == "" || c.Import.Columns.Type == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("import.columns.trade_no and import.columns.type are required"))
	}

	if _, err := stats.ParseWeekStart(c.Calendar.WeekStart); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	// Storage validation
	switch c.Storage.Type {
	case "", "localfs":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("storage.s3.bucket required when storage type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown storage type %q (expected localfs or s3)", c.Storage.Type))
	}

	return nil
}

// Location resolves the import timezone. Empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Import.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Import.Timezone)
	if err != nil {
		return nil, fmt.Errorf("import.timezone: %w", err)
	}
	return loc, nil
}

// WeekStart resolves the calendar's first weekday.
func (c *Config) WeekStart() time.Weekday {
	wd, err := stats.ParseWeekStart(c.Calendar.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// SessionTTL returns the idle lifetime of an API session. Zero disables expiry.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTLMinutes) * time.Minute
}
