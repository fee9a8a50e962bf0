// Package config loads the database registry and the ambient settings from
// the process environment. It is read once at startup; the resulting *Config
// is immutable and is handed to the service explicitly.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/FractureX/fracturex-module-database/internal/errs"
	"github.com/FractureX/fracturex-module-database/internal/logger"
)

// Environment variables read by Load.
const (
	EnvDatabases = "FRACTUREX_MODULE_DATABASE_CONFIG"
	EnvLogLevel  = "FRACTUREX_MODULE_DATABASE_LOG_LEVEL"
	EnvLogFormat = "FRACTUREX_MODULE_DATABASE_LOG_FORMAT"
	EnvDebug     = "FRACTUREX_MODULE_DATABASE_DEBUG"
)

// Config is the process-wide configuration.
type Config struct {
	Databases *Registry
	Log       logger.Config

	// Debug logs every statement, filter and parameter set at info level.
	Debug bool
}

// LookupFunc reads one variable; os.LookupEnv is the production source.
type LookupFunc func(key string) (string, bool)

// Load reads a .env file from the working directory when present, then
// builds the Config from the environment. Variables already set in the
// process take precedence over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read .env file", err)
	}
	return FromEnv(os.LookupEnv)
}

// MustLoad is like Load but panics on error.
func MustLoad(files ...string) *Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// FromEnv builds the Config from lookup.
func FromEnv(lookup LookupFunc) (*Config, error) {
	text, ok := lookup(EnvDatabases)
	if !ok || strings.TrimSpace(text) == "" {
		return nil, errs.Newf(errs.ErrKindNoConfiguration, "environment variable %s is not set", EnvDatabases)
	}

	registry, err := Parse(text)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Databases: registry,
		Log:       *logger.DefaultConfig(),
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		switch f := strings.ToLower(v); f {
		case "json", "console":
			cfg.Log.Format = f
		default:
			return nil, errs.Newf(errs.ErrKindInvalidInput, "%s must be json or console, got %q", EnvLogFormat, v)
		}
	}
	if v, ok := lookup(EnvDebug); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, EnvDebug+" must be a boolean", err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}
