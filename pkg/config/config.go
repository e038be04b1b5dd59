// Package config loads launcher settings from built-in defaults, an
// optional TOML file and HZ_-prefixed environment variables, in that order.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	lerrors "github.com/Qwinci/hzlauncher/pkg/errors"
)

const (
	DefaultConfigFile = "hzlauncher.toml"
	EnvPrefix         = "HZ_"

	DefaultManifestURL  = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"
	DefaultResourcesURL = "https://resources.download.minecraft.net"
)

type Config struct {
	DataDir          string        `koanf:"data_dir"`
	JavaPath         string        `koanf:"java_path"`
	Parallel         int           `koanf:"parallel"`
	RequestTimeout   time.Duration `koanf:"request_timeout"`
	OperationTimeout time.Duration `koanf:"operation_timeout"`
	ManifestURL      string        `koanf:"manifest_url"`
	ResourcesURL     string        `koanf:"resources_url"`
	AccountFile      string        `koanf:"account_file"`
	MetricsAddr      string        `koanf:"metrics_addr"`
	Launcher         Launcher      `koanf:"launcher"`
	Discord          Discord       `koanf:"discord"`
}

type Launcher struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
}

type Discord struct {
	Enabled bool   `koanf:"enabled"`
	AppID   string `koanf:"app_id"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"data_dir":          "data",
		"java_path":         "java",
		"parallel":          8,
		"request_timeout":   "5m",
		"operation_timeout": "0s",
		"manifest_url":      DefaultManifestURL,
		"resources_url":     DefaultResourcesURL,
		"account_file":      "data/account.toml",
		"metrics_addr":      "",
		"launcher.name":     "HZLauncher",
		"launcher.version":  "1.0",
		"discord.enabled":   false,
		"discord.app_id":    "",
	}
}

// Default returns the configuration with no file or environment applied.
func Default() *Config {
	cfg, err := load("", false)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads defaults, then path (DefaultConfigFile when empty; a missing
// default file is not an error), then the environment.
func Load(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, external bool) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, lerrors.Wrap(err, lerrors.ErrConfigLoad, "failed to load defaults")
	}

	if external {
		explicit := path != ""
		if !explicit {
			path = DefaultConfigFile
		}
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, lerrors.Wrapf(err, lerrors.ErrConfigLoad, "failed to load config from %s", path)
			}
		} else if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, lerrors.Wrapf(err, lerrors.ErrConfigLoad, "failed to stat config %s", path)
		}

		if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, lerrors.Wrap(err, lerrors.ErrConfigLoad, "failed to load env vars")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, lerrors.Wrap(err, lerrors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// HZ_DISCORD__APP_ID -> discord.app_id
func envKey(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", "."), value
}

func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return lerrors.New(lerrors.ErrConfigLoad, "data_dir must not be empty")
	case c.JavaPath == "":
		return lerrors.New(lerrors.ErrConfigLoad, "java_path must not be empty")
	case c.Parallel < 1:
		return lerrors.Newf(lerrors.ErrConfigLoad, "parallel must be at least 1, got %d", c.Parallel)
	case c.RequestTimeout < 0 || c.OperationTimeout < 0:
		return lerrors.New(lerrors.ErrConfigLoad, "timeouts must not be negative")
	}
	return nil
}
