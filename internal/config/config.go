// Package config provides configuration types, defaults, and loading for wutag.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/v0rts/wutag/internal/tag"
	"github.com/v0rts/wutag/internal/walk"
)

const (
	BackendFile   = "file"
	BackendBadger = "badger"

	envPrefix = "WUTAG"
)

// RegistryConfig selects where the tag registry is persisted.
type RegistryConfig struct {
	Path    string `mapstructure:"path" yaml:"path"`
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// WalkConfig controls path discovery for pattern arguments.
type WalkConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir,omitempty"`
	MaxDepth int    `mapstructure:"max_depth" yaml:"max_depth"`
}

type UIConfig struct {
	NoColor bool     `mapstructure:"no_color" yaml:"no_color"`
	Colors  []string `mapstructure:"colors" yaml:"colors,omitempty"`
}

type Config struct {
	Registry RegistryConfig `mapstructure:"registry" yaml:"registry"`
	Walk     WalkConfig     `mapstructure:"walk" yaml:"walk"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	Debug    bool           `mapstructure:"debug" yaml:"debug"`
}

// DefaultRegistryPath is the registry file inside the user cache directory.
func DefaultRegistryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "wutag", "wutag.registry")
}

// DefaultConfigPath is where `wutag config init` writes and where Load looks
// when no file is given.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wutag", "config.yaml")
}

func Defaults() Config {
	colors := make([]string, 0, len(tag.DefaultColors))
	for _, c := range tag.DefaultColors {
		colors = append(colors, string(c))
	}

	return Config{
		Registry: RegistryConfig{
			Path:    DefaultRegistryPath(),
			Backend: BackendFile,
		},
		Walk: WalkConfig{
			MaxDepth: walk.DefaultMaxDepth,
		},
		UI: UIConfig{
			Colors: colors,
		},
	}
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("registry.path", d.Registry.Path)
	v.SetDefault("registry.backend", d.Registry.Backend)
	v.SetDefault("walk.dir", d.Walk.Dir)
	v.SetDefault("walk.max_depth", d.Walk.MaxDepth)
	v.SetDefault("ui.no_color", d.UI.NoColor)
	v.SetDefault("ui.colors", d.UI.Colors)
	v.SetDefault("debug", d.Debug)
}

// Load reads the configuration into v and decodes it. cfgFile overrides the
// default lookup; a missing default file is not an error. Environment
// variables such as WUTAG_REGISTRY_PATH override file values.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Registry.Backend {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("registry.backend: unknown backend %q", c.Registry.Backend)
	}

	if c.Registry.Path == "" {
		return errors.New("registry.path is required")
	}

	if c.Walk.MaxDepth < 0 {
		return fmt.Errorf("walk.max_depth: must not be negative, got %d", c.Walk.MaxDepth)
	}

	if _, err := c.Palette(); err != nil {
		return err
	}
	return nil
}

// Palette parses ui.colors into tag colors.
func (c Config) Palette() ([]tag.Color, error) {
	palette := make([]tag.Color, 0, len(c.UI.Colors))
	for i, raw := range c.UI.Colors {
		color, err := tag.ParseColor(raw)
		if err != nil {
			return nil, fmt.Errorf("ui.colors[%d]: %w", i, err)
		}
		palette = append(palette, color)
	}
	return palette, nil
}

// WriteDefaultConfig writes the default configuration as YAML to path,
// creating parent directories. An existing file is left untouched.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
