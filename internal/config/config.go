// Package config loads process settings from configs/config.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. APIPROBE_STORE_DRIVER.
const EnvPrefix = "APIPROBE"

const (
	defaultConfigDir  = "configs"
	defaultConfigName = "config"
)

const (
	defaultPort          = "5000"
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
	defaultStoreDriver   = "file"
	defaultStorePath     = "logs/access.log"
	defaultSQLitePath    = "logs/access.db"
	defaultProbeTimeout  = 30 * time.Second
	defaultMaxBodyBytes  = 1 << 20
	defaultMaxInFlight   = 32
	defaultProbeAgent    = "apiprobe/1.0"
	defaultFanoutEnabled = true
)

// ErrInvalidConfig is returned when a loaded value cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the typed view of every supported key.
type Config struct {
	Port   string
	Log    LogConfig
	Store  StoreConfig
	Probe  ProbeConfig
	CORS   CORSConfig
	Fanout FanoutConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type StoreConfig struct {
	Driver     string
	Path       string
	SQLitePath string
}

type ProbeConfig struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	MaxInFlight  int64
	UserAgent    string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type FanoutConfig struct {
	Enabled bool
}

// Load reads configuration. An empty path searches configs/config.yml and
// falls back to defaults when it is missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Hosting platforms hand the listen port over as plain PORT.
	if err := v.BindEnv("port", EnvPrefix+"_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("binding port env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("store.driver", defaultStoreDriver)
	v.SetDefault("store.path", defaultStorePath)
	v.SetDefault("store.sqlite_path", defaultSQLitePath)
	v.SetDefault("probe.timeout", defaultProbeTimeout)
	v.SetDefault("probe.max_body_bytes", defaultMaxBodyBytes)
	v.SetDefault("probe.max_in_flight", defaultMaxInFlight)
	v.SetDefault("probe.user_agent", defaultProbeAgent)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("fanout.enabled", defaultFanoutEnabled)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port: v.GetString("port"),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(v.GetString("store.driver")),
			Path:       v.GetString("store.path"),
			SQLitePath: v.GetString("store.sqlite_path"),
		},
		Probe: ProbeConfig{
			Timeout:      v.GetDuration("probe.timeout"),
			MaxBodyBytes: v.GetInt64("probe.max_body_bytes"),
			MaxInFlight:  v.GetInt64("probe.max_in_flight"),
			UserAgent:    v.GetString("probe.user_agent"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
		Fanout: FanoutConfig{
			Enabled: v.GetBool("fanout.enabled"),
		},
	}
}

// Validate rejects values the process cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, fmt.Errorf("%w: port is empty", ErrInvalidConfig))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format))
	}
	switch c.Store.Driver {
	case "file":
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("%w: store.path is empty", ErrInvalidConfig))
		}
	case "sqlite":
		if c.Store.SQLitePath == "" {
			errs = append(errs, fmt.Errorf("%w: store.sqlite_path is empty", ErrInvalidConfig))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: probe.timeout must be positive", ErrInvalidConfig))
	}
	if c.Probe.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: probe.max_body_bytes must be positive", ErrInvalidConfig))
	}
	if c.Probe.MaxInFlight <= 0 {
		errs = append(errs, fmt.Errorf("%w: probe.max_in_flight must be positive", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
