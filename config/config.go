package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/openmhealth/shimmock/internal"
)

const EnvPrefix = "SHIMMOCK"

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

// envKeys are bound explicitly so they are honoured even when absent from the config file.
var envKeys = []string{
	"server.host",
	"server.port",
	"log.level",
	"auth.secret",
	"auth.required",
	"passthrough.upstream",
	"passthrough.retry_max",
	"passthrough.timeout",
	"fixtures.path",
	"metrics.enabled",
	"tracing.enabled",
	"tracing.endpoint",
	"cors.allowed_origins",
}

// DefaultConfig returns the values used for anything left unset by the config file and ENV.
// A key that is set, even to its zero value, keeps that value.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "",
			Port: 8084,
		},
		Log: LogConfig{
			Level: "info",
		},
		PassThrough: PassThroughConfig{
			Upstream: "http://localhost:8083",
			RetryMax: 1,
			Timeout:  30,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// LoadConfig loads the config file and ENV variables into a Config struct. A missing
// config.yaml is not an error unless configFile names it explicitly.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")
	setDefaults(v, DefaultConfig())

	// Environment variables take precedence over config file
	loadDotEnv()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug("config.yaml not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("passthrough.upstream", defaults.PassThrough.Upstream)
	v.SetDefault("passthrough.retry_max", defaults.PassThrough.RetryMax)
	v.SetDefault("passthrough.timeout", defaults.PassThrough.Timeout)
	v.SetDefault("cors.allowed_origins", defaults.CORS.AllowedOrigins)
}

// Validate checks the config against its struct constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	internal.GetLogger().Info("Log level set to: ", level)
}
