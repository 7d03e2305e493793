package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"esg-matching/core/database"
	"esg-matching/core/logger"
	"esg-matching/core/server"
	"esg-matching/core/storage"
	"esg-matching/feature/matching"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// FileName is the optional configuration file looked up next to the .env file,
// with any extension viper reads (esg-matching.yaml, esg-matching.json, ...).
const FileName = "esg-matching"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Matching holds the settings source and run defaults.
	Matching matching.Config `mapstructure:"matching"`
}

// LoadConfig loads configuration from, by increasing precedence, struct
// defaults, the optional esg-matching.* file, the .env file and the
// environment.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()
	setDefaults(v, reflect.TypeOf(Config{}), "")

	v.SetConfigName(FileName)
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Map environment variables to nested keys (e.g. DATABASE_DRIVER -> database.driver)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports every inconsistent setting.
func (c *Config) Validate() error {
	var err error
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverPostgres, database.DriverSQLite:
	default:
		err = multierr.Append(err, fmt.Errorf("database.driver %q is not one of mysql, postgres, sqlite", c.Database.Driver))
	}
	if c.Database.ColumnCacheSeconds < 0 {
		err = multierr.Append(err, fmt.Errorf("database.column_cache_seconds must not be negative"))
	}
	if c.Matching.Settings == "" {
		err = multierr.Append(err, fmt.Errorf("matching.settings is required"))
	}
	if c.Server.Port == "" {
		err = multierr.Append(err, fmt.Errorf("server.port is required"))
	}
	return err
}

// setDefaults registers the `default` tag of every `mapstructure` field,
// recursing into nested sections. Every key is registered, even with an empty
// default, so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			setDefaults(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
