package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	Content ContentConfig `yaml:"content"`
	Session SessionConfig `yaml:"session"`
	Theme   ThemeConfig   `yaml:"theme"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type SiteConfig struct {
	Name    string `yaml:"name" default:"Postdeck"`
	Tagline string `yaml:"tagline" default:"JSONPlaceholder CRUD App"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12600"`
	Gzip bool   `yaml:"gzip" default:"true"`
}

// APIConfig describes the remote posts resource.
type APIConfig struct {
	BaseURL string `yaml:"base_url" default:"https://jsonplaceholder.typicode.com"`
	// Zero keeps the transport default (no client-side timeout).
	TimeoutSeconds int    `yaml:"timeout_seconds" default:"0"`
	UserAgent      string `yaml:"user_agent" default:"postdeck"`
}

type ContentConfig struct {
	PageSize int `yaml:"page_size" default:"10"`
}

// SessionConfig bounds the in-memory browser sessions.
type SessionConfig struct {
	IdleTimeoutMinutes   int `yaml:"idle_timeout_minutes" default:"30"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds" default:"60"`
	// New sessions beyond this count are refused until idle ones are evicted.
	MaxSessions int `yaml:"max_sessions" default:"10000"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark-theme"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

const (
	EnvConfigPath = "POSTDECK_CONFIG"
	EnvAPIBaseURL = "POSTDECK_API_BASE_URL"
	EnvPort       = "POSTDECK_PORT"
	EnvLogLevel   = "POSTDECK_LOG_LEVEL"

	DefaultConfigPath = "config.yaml"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var AppConfig *Config

// Default returns a Config with every default tag applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Current returns AppConfig, or the defaults when nothing was loaded yet.
func Current() *Config {
	if AppConfig == nil {
		return Default()
	}
	return AppConfig
}

func LoadConfig(path string) error {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyEnv(config)

	if err := config.Validate(); err != nil {
		return err
	}

	AppConfig = config
	return nil
}

// ApplyEnv overrides file values with the POSTDECK_* environment variables.
func ApplyEnv(config *Config) {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c.Content.PageSize <= 0 {
		return fmt.Errorf("%w: content.page_size must be positive, got %d", ErrInvalidConfig, c.Content.PageSize)
	}
	if c.Session.IdleTimeoutMinutes <= 0 || c.Session.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("%w: session.idle_timeout_minutes and session.sweep_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("%w: session.max_sessions must be positive, got %d", ErrInvalidConfig, c.Session.MaxSessions)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: api.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", ErrInvalidConfig, c.API.BaseURL)
	}
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue, ok := fieldType.Tag.Lookup("default")
		if !ok {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int, reflect.Int64:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Slice:
			if defaultValue != "" && field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
