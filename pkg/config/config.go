// Package config loads Tabula runtime defaults from an optional config
// file and TABULA_-prefixed environment variables.
package config

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Config holds the tunable defaults of the library's command-line
// surface.
type Config struct {
	// LogLevel is the zap level name for the global logger.
	LogLevel string `mapstructure:"log_level"`

	// DefaultFormat is the configured default text sink format (csvtab
	// or csvrel). The sink URL factory does not read it: a URL without a
	// format key uses text.DefaultFormat.
	DefaultFormat string `mapstructure:"default_format"`

	// DefaultOpenMode is the configured default open mode (append or
	// truncate). The sink URL factory does not read it: a URL without an
	// open_mode key uses tabular.DefaultOpenMode.
	DefaultOpenMode string `mapstructure:"default_open_mode"`

	// HDF5Chunk is the chunk length, in elements, of newly created
	// HDF5 datasets.
	HDF5Chunk int `mapstructure:"hdf5_chunk"`
}

// Load reads tabula.yaml from the working directory, if present, and
// applies environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("default_format", "csvrel")
	v.SetDefault("default_open_mode", "truncate")
	v.SetDefault("hdf5_chunk", 16)

	v.SetEnvPrefix("TABULA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tabula")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "decoding config")
	}
	return &cfg, nil
}
