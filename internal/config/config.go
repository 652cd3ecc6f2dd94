// Package config loads ticketboard settings from defaults, a YAML file and
// TICKETBOARD_* environment variables, and validates them against an
// embedded CUE schema.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/ticketboard/internal/store"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "TICKETBOARD"

// Config holds application configuration.
type Config struct {
	Store  StoreConfig  `mapstructure:"store" json:"store"`
	Board  BoardConfig  `mapstructure:"board" json:"board"`
	Log    LogConfig    `mapstructure:"log" json:"log"`
	Server ServerConfig `mapstructure:"server" json:"server"`
}

// StoreConfig selects and addresses the persistence backend.
type StoreConfig struct {
	Driver      string `mapstructure:"driver" json:"driver"`
	Path        string `mapstructure:"path" json:"path"`
	RedisURL    string `mapstructure:"redis_url" json:"redis_url"`
	RedisPrefix string `mapstructure:"redis_prefix" json:"redis_prefix"`
}

// BoardConfig holds controller behaviour switches.
type BoardConfig struct {
	StrictReferences bool `mapstructure:"strict_references" json:"strict_references"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// StoreOptions converts the store section for store.Open.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Driver:      c.Store.Driver,
		Path:        c.Store.Path,
		RedisURL:    c.Store.RedisURL,
		RedisPrefix: c.Store.RedisPrefix,
	}
}

// DefaultPath returns the config file looked up when none is given.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "ticketboard", "config.yaml")
}

// DefaultDBPath returns the default SQLite database location.
func DefaultDBPath() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "ticketboard", "board.db")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), fallback)
}

// Load reads configuration. path names the YAML file; when empty,
// TICKETBOARD_CONFIG and then DefaultPath are tried, and a missing file is
// not an error. overrides are applied last, keyed like "store.driver".
func Load(path string, overrides map[string]any) (Config, error) {
	v := viper.New()

	v.SetDefault("store.driver", store.DriverSQLite)
	v.SetDefault("store.path", DefaultDBPath())
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")
	v.SetDefault("store.redis_prefix", "ticketboard")
	v.SetDefault("board.strict_references", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.addr", "127.0.0.1:8080")

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPrefix + "_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for key, val := range overrides {
		v.Set(key, val)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)

	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}
