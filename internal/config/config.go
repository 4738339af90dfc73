// Package config loads thought-stick settings from defaults, an optional
// config file, THOUGHT_STICK_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rcliao/thought-stick/internal/board"
	"github.com/rcliao/thought-stick/internal/physics"
	"github.com/rcliao/thought-stick/internal/store"
	"github.com/rcliao/thought-stick/internal/viewport"
)

// EnvPrefix is the prefix of environment variables, e.g. THOUGHT_STICK_DB.
const EnvPrefix = "THOUGHT_STICK"

// Settings is the resolved configuration.
type Settings struct {
	DB         string          `mapstructure:"db"`
	Slot       string          `mapstructure:"slot"`
	Board      BoardSettings   `mapstructure:"board"`
	Physics    PhysicsSettings `mapstructure:"physics"`
	LogLevel   string          `mapstructure:"log_level"`
	LogFile    string          `mapstructure:"log_file"`
	MetricsOut string          `mapstructure:"metrics_out"`
}

// BoardSettings is the on-screen board size.
type BoardSettings struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// PhysicsSettings holds the throw tuning.
type PhysicsSettings struct {
	ThrowFactor        float64       `mapstructure:"throw_factor"`
	PendingThrowFactor float64       `mapstructure:"pending_throw_factor"`
	ItemSize           float64       `mapstructure:"item_size"`
	MinTop             float64       `mapstructure:"min_top"`
	SettleDelay        time.Duration `mapstructure:"settle_delay"`
	Stiffness          float64       `mapstructure:"stiffness"`
	VelocityCarry      float64       `mapstructure:"velocity_carry"`
}

// Dir returns the default data directory, ~/.thought-stick.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".thought-stick")
}

func setDefaults(v *viper.Viper) {
	def := physics.DefaultConfig()
	v.SetDefault("db", filepath.Join(Dir(), "board.db"))
	v.SetDefault("slot", store.DefaultSlot)
	v.SetDefault("board.width", 1280.0)
	v.SetDefault("board.height", 800.0)
	v.SetDefault("physics.throw_factor", def.ThrowFactor)
	v.SetDefault("physics.pending_throw_factor", physics.MaxThrowFactor)
	v.SetDefault("physics.item_size", def.ItemSize)
	v.SetDefault("physics.min_top", def.MinTop)
	v.SetDefault("physics.settle_delay", def.SettleDelay)
	v.SetDefault("physics.stiffness", def.Stiffness)
	v.SetDefault("physics.velocity_carry", def.VelocityCarry)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("metrics_out", "")
}

// Load reads settings into v. With cfgFile empty, config.yaml in Dir() is
// used when present; an explicit cfgFile must exist.
func Load(v *viper.Viper, cfgFile string) (*Settings, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	s.DB = expandHome(s.DB)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for usable values.
func (s *Settings) Validate() error {
	if s.DB == "" {
		return errors.New("db path is empty")
	}
	if s.Slot == "" {
		return errors.New("slot is empty")
	}
	if err := s.BoardConfig().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// BoardConfig converts the settings into a board configuration.
func (s *Settings) BoardConfig() board.Config {
	p := physics.Config{
		ThrowFactor:   s.Physics.ThrowFactor,
		ItemSize:      s.Physics.ItemSize,
		MinTop:        s.Physics.MinTop,
		Stiffness:     s.Physics.Stiffness,
		VelocityCarry: s.Physics.VelocityCarry,
		SettleDelay:   s.Physics.SettleDelay,
	}
	pending := p
	pending.ThrowFactor = s.Physics.PendingThrowFactor
	return board.Config{
		Size:    viewport.Size{W: s.Board.Width, H: s.Board.Height},
		Physics: p,
		Pending: pending,
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
