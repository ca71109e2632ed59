// Package config loads viewer settings from defaults, an optional config
// file, TREEVIZ_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"treeviz/layout"
)

// EnvPrefix is prepended to every environment override, e.g. TREEVIZ_API_BASE_URL.
const EnvPrefix = "TREEVIZ"

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete viewer configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	View      ViewConfig      `mapstructure:"view"`
	Animation AnimationConfig `mapstructure:"animation"`
	Log       LogConfig       `mapstructure:"log"`
}

// APIConfig locates the search service. AlphaBeta also decides whether pruned
// branches are drawn distinctly.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Player    string        `mapstructure:"player"`
	AlphaBeta bool          `mapstructure:"alpha_beta"`
}

// ViewConfig sizes the canvas and sets the initial view options.
type ViewConfig struct {
	Width      float64 `mapstructure:"width"`
	Height     float64 `mapstructure:"height"`
	MaxDepth   string  `mapstructure:"max_depth"`
	CellWidth  float64 `mapstructure:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height"`
}

// AnimationConfig sets the redraw cadence.
type AnimationConfig struct {
	FPS       int           `mapstructure:"fps"`
	HoverTick time.Duration `mapstructure:"hover_tick"`
}

// LogConfig selects the log destination. An empty file disables logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Depth returns the parsed depth cutoff.
func (c *Config) Depth() (int, error) {
	return layout.ParseDepth(c.View.MaxDepth)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := c.Depth(); err != nil {
		return fmt.Errorf("%w: view.max_depth: %v", ErrInvalid, err)
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("%w: view size %vx%v", ErrInvalid, c.View.Width, c.View.Height)
	}
	if c.View.CellWidth <= 0 || c.View.CellHeight <= 0 {
		return fmt.Errorf("%w: cell size %vx%v", ErrInvalid, c.View.CellWidth, c.View.CellHeight)
	}
	if c.Animation.FPS <= 0 || c.Animation.HoverTick <= 0 {
		return fmt.Errorf("%w: animation fps=%d hover_tick=%s", ErrInvalid, c.Animation.FPS, c.Animation.HoverTick)
	}
	switch c.API.Player {
	case "", "X", "O":
	default:
		return fmt.Errorf("%w: api.player %q", ErrInvalid, c.API.Player)
	}
	return nil
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.player", "")
	v.SetDefault("api.alpha_beta", true)

	v.SetDefault("view.width", 1200.0)
	v.SetDefault("view.height", 800.0)
	v.SetDefault("view.max_depth", "3")
	v.SetDefault("view.cell_width", 6.0)
	v.SetDefault("view.cell_height", 12.0)

	v.SetDefault("animation.fps", 30)
	v.SetDefault("animation.hover_tick", 100*time.Millisecond)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"api-url":     "api.base_url",
	"timeout":     "api.timeout",
	"player":      "api.player",
	"alpha-beta":  "api.alpha_beta",
	"width":       "view.width",
	"height":      "view.height",
	"depth":       "view.max_depth",
	"cell-width":  "view.cell_width",
	"cell-height": "view.cell_height",
	"fps":         "animation.fps",
	"log-level":   "log.level",
	"log-file":    "log.file",
}

// Load builds the configuration. path may be empty. Flags in fs that appear
// in FlagKeys override file and environment values when set explicitly.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if fs != nil {
		for name, key := range FlagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
