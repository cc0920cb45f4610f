// Package config loads writerctl settings from flags, WRITERCTL_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Session backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

const envPrefix = "WRITERCTL"

type SessionConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Channel string `mapstructure:"channel"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type Config struct {
	ServerURL string        `mapstructure:"server_url"`
	LogLevel  string        `mapstructure:"log_level"`
	Session   SessionConfig `mapstructure:"session"`
	Redis     RedisConfig   `mapstructure:"redis"`
}

// Flags registers the overridable settings on fs. Flag names match the
// viper keys with dots replaced by dashes.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default ~/.writerhub/writerctl.yaml)")
	fs.String("server-url", "", "API base URL")
	fs.String("log-level", "", "log level")
	fs.String("session-backend", "", "session backend: file or redis")
	fs.String("session-path", "", "session file path")
}

// Load resolves the configuration. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	setDefaults(v, home)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := ""
	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
		explicit, _ = fs.GetString("config")
	}

	if explicit != "" {
		path, err := homedir.Expand(explicit)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("writerctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".writerhub"))
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || explicit != "" {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.StringToTimeDurationHookFunc()
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Session.Path, err = homedir.Expand(cfg.Session.Path); err != nil {
		return nil, fmt.Errorf("expand session path: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("log_level", "error")

	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.path", filepath.Join(home, ".writerhub", "session.json"))
	v.SetDefault("session.channel", "auth")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "writerhub:session")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"server_url":      "server-url",
		"log_level":       "log-level",
		"session.backend": "session-backend",
		"session.path":    "session-path",
	} {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("config: server_url is required")
	}
	switch c.Session.Backend {
	case BackendFile:
		if c.Session.Path == "" {
			return fmt.Errorf("config: session.path is required for the file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown session.backend %q", c.Session.Backend)
	}
	return nil
}
