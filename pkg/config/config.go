// Package config loads client settings from .yourdiary.yaml, YOURDIARY_*
// environment variables and flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/suggest"
	"tableflip.dev/yourdiary/pkg/tasks"
)

// Keys understood in the config file and as YOURDIARY_<KEY> variables.
const (
	KeyServer       = "server"
	KeyCookie       = "cookie"
	KeyTimeout      = "timeout"
	KeyLength       = "suggestion_length"
	KeyDebounce     = "debounce"
	KeyEmptyDismiss = "empty_dismiss"
	KeyReloadDelay  = "reload_delay"
	KeyRollback     = "rollback"
	KeyCachePath    = "cache_path"
	KeyLogFile      = "log_file"
	KeyLogLevel     = "log_level"
)

// Config is the resolved client configuration.
type Config struct {
	Server       string
	Cookie       string
	Timeout      time.Duration
	Length       suggest.Option
	Custom       int
	Debounce     time.Duration
	EmptyDismiss time.Duration
	ReloadDelay  time.Duration
	Rollback     tasks.Policy
	CachePath    string
	LogFile      string
	LogLevel     string
}

// BasePath is where the local cache lives.
func (c *Config) BasePath() string {
	return c.CachePath
}

// MaxLength is the wire length for the configured option.
func (c *Config) MaxLength() gateway.MaxLength {
	return suggest.LengthFor(c.Length, c.Custom)
}

// New returns a viper instance with the defaults, the env binding and the
// config file search path set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServer, "http://localhost:5000")
	v.SetDefault(KeyCookie, "")
	v.SetDefault(KeyTimeout, "10s")
	v.SetDefault(KeyLength, "20")
	v.SetDefault(KeyDebounce, "400ms")
	v.SetDefault(KeyEmptyDismiss, "2500ms")
	v.SetDefault(KeyReloadDelay, "1s")
	v.SetDefault(KeyRollback, string(tasks.Strict))
	v.SetDefault(KeyCachePath, "~/.yourdiary/cache")
	v.SetDefault(KeyLogFile, "~/.yourdiary/yourdiary.log")
	v.SetDefault(KeyLogLevel, "info")

	v.SetConfigName(".yourdiary") // .yaml is implicit
	v.SetEnvPrefix("YOURDIARY")
	v.AutomaticEnv()

	if override := os.Getenv("YOURDIARY_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	return v
}

// Load reads the config file, if any, and resolves v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return Resolve(v)
}

// Resolve turns the values held by v into a Config without touching disk.
func Resolve(v *viper.Viper) (*Config, error) {
	c := &Config{
		Server: strings.TrimSpace(v.GetString(KeyServer)),
		Cookie: v.GetString(KeyCookie),
	}
	var err error
	if c.Timeout, err = duration(v, KeyTimeout); err != nil {
		return nil, err
	}
	if c.Debounce, err = duration(v, KeyDebounce); err != nil {
		return nil, err
	}
	if c.EmptyDismiss, err = duration(v, KeyEmptyDismiss); err != nil {
		return nil, err
	}
	if c.ReloadDelay, err = duration(v, KeyReloadDelay); err != nil {
		return nil, err
	}
	if c.Length, c.Custom, err = suggest.ParseOption(v.GetString(KeyLength)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyLength, err)
	}
	if c.Rollback, err = tasks.ParsePolicy(v.GetString(KeyRollback)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyRollback, err)
	}
	if c.CachePath, err = homedir.Expand(v.GetString(KeyCachePath)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyCachePath, err)
	}
	if c.LogFile, err = homedir.Expand(v.GetString(KeyLogFile)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyLogFile, err)
	}
	c.LogLevel = v.GetString(KeyLogLevel)
	return c, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
