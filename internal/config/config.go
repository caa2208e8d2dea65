// Package config loads application configuration from yaml files and the
// environment using viper. Local development values come from a .env file
// loaded via godotenv.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Configuration is the root application configuration
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" default:"local"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" default:":8080"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" default:"info"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"5432"`
	User     string `mapstructure:"user" default:"fleetrate"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname" default:"fleetrate"`
	SSLMode  string `mapstructure:"sslmode" default:"disable"`
}

// NewConfig loads the configuration from ./config/config.yaml (if present)
// with FLEETRATE_* environment variables taking precedence.
func NewConfig() (*Configuration, error) {
	// Best effort .env load for local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("FLEETRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrSystem)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.RunModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "fleetrate")
	v.SetDefault("postgres.dbname", "fleetrate")
	v.SetDefault("postgres.sslmode", "disable")
}

// GetDefaultConfig returns a configuration suitable for tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.RunModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "fleetrate",
			DBName:  "fleetrate_test",
			SSLMode: "disable",
		},
	}
}
