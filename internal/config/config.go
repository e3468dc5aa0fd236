// Package config reads the automap configuration from automap.yaml and
// AUTOMAP_* environment variables.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mickamy/automap/internal/logger"
)

// Config overall data structure.
type Config struct {
	Log       logger.Log `mapstructure:"log"`
	Model     Model      `mapstructure:"model"`
	Schema    Schema     `mapstructure:"schema"`
	Overrides string     `mapstructure:"overrides"` // path of a YAML override file
}

// Model configures the persistence model.
type Model struct {
	Private        bool   `mapstructure:"private"` // map unexported fields
	TablePrefix    string `mapstructure:"tablePrefix"`
	SingularTables bool   `mapstructure:"singularTables"`
	StringLength   int    `mapstructure:"stringLength" validate:"gte=0"`
}

// Schema configures DDL rendering and migrations.
type Schema struct {
	Dialect string `mapstructure:"dialect" validate:"required,oneof=mysql mariadb postgres postgresql pgx sqlite sqlite3"`
	DSN     string `mapstructure:"dsn"`
}

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// New returns a viper instance with defaults, the AUTOMAP_ env prefix
// and, if path is not empty, the given config file.
func New(path string) *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("model.private", false)
	v.SetDefault("model.stringLength", 0)
	v.SetDefault("schema.dialect", "sqlite")

	v.SetEnvPrefix("automap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("automap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	return v
}

// Read loads the configuration. A missing automap.yaml in the working
// directory is not an error; a missing explicit path is.
func Read(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.ConfigFileUsed() != "" {
			return Config{}, errors.Wrap(err, "failed to read config file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	if err := validate.Struct(&c); err != nil {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	return c, nil
}
