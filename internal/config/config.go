package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Presenter modes
const (
	ModeTUI = "tui"
	ModeWeb = "web"
)

// DefaultSourceURL is the users-listing endpoint used when none is configured
const DefaultSourceURL = "https://jsonplaceholder.typicode.com/users"

// Config holds all configuration for the application
type Config struct {
	App    AppConfig
	Source SourceConfig
	Logger LoggerConfig
}

// AppConfig holds configuration for the application process
type AppConfig struct {
	Mode                   string `mapstructure:"APP_MODE"`
	Environment            string `mapstructure:"APP_ENV"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// SourceConfig holds configuration for the remote user source
type SourceConfig struct {
	URL string `mapstructure:"SOURCE_URL"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level          string `mapstructure:"LOG_LEVEL"`
	Format         string `mapstructure:"LOG_FORMAT"`
	OutputPath     string `mapstructure:"LOG_OUTPUT_PATH"`
	MaxSizeMB      int    `mapstructure:"LOG_MAX_SIZE_MB"`
	MaxBackups     int    `mapstructure:"LOG_MAX_BACKUPS"`
	EnableSampling bool   `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"mode":       "APP_MODE",
	"http-port":  "HTTP_PORT",
	"source-url": "SOURCE_URL",
	"log-level":  "LOG_LEVEL",
	"log-output": "LOG_OUTPUT_PATH",
}

// RegisterFlags adds the flags that override configuration keys to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("mode", "", "presenter to run: tui or web")
	fs.String("http-port", "", "port for the web presenter")
	fs.String("source-url", "", "users-listing endpoint")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-output", "", "log destination: stdout, stderr or a file path")
}

// LoadConfig reads configuration from an app.env file in path, environment
// variables and, when fs is not nil, flags that were set explicitly.
func LoadConfig(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	v.AutomaticEnv() // Read from environment variables

	if fs != nil {
		for name, key := range flagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	setDefaults(v)

	var config Config

	config.App.Mode = strings.ToLower(v.GetString("APP_MODE"))
	config.App.Environment = v.GetString("APP_ENV")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Source.URL = v.GetString("SOURCE_URL")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.MaxSizeMB = v.GetInt("LOG_MAX_SIZE_MB")
	config.Logger.MaxBackups = v.GetInt("LOG_MAX_BACKUPS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_MODE", ModeTUI)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("SOURCE_URL", DefaultSourceURL)

	// Logger defaults
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}

	// The terminal presenter owns stdout, so its logs go to a file
	if strings.ToLower(v.GetString("APP_MODE")) == ModeTUI {
		v.SetDefault("LOG_OUTPUT_PATH", "dashboard.log")
	} else {
		v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	}
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("SERVICE_NAME", "user-dashboard")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	var errs []error

	switch c.App.Mode {
	case ModeTUI, ModeWeb:
	default:
		errs = append(errs, fmt.Errorf("APP_MODE must be %q or %q, got %q", ModeTUI, ModeWeb, c.App.Mode))
	}

	if c.App.Mode == ModeWeb && c.App.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required in web mode"))
	}

	if c.App.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive"))
	}

	if c.Source.URL == "" {
		errs = append(errs, errors.New("SOURCE_URL is required"))
	} else if u, err := url.Parse(c.Source.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("SOURCE_URL must be an absolute http(s) URL, got %q", c.Source.URL))
	}

	return errors.Join(errs...)
}

// HTTPAddress returns the listen address of the web presenter
func (c *Config) HTTPAddress() string {
	return ":" + c.App.HTTPPort
}
