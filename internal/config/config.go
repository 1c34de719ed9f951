// Package config loads the runtime configuration of the game.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MONOPOLY_GAME_SEED.
const EnvPrefix = "MONOPOLY"

// Config is the complete runtime configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn or error
	Format string `mapstructure:"format"` // json or console
}

// GameConfig describes the session to play.
type GameConfig struct {
	Players   []string `mapstructure:"players"`
	Seed      int64    `mapstructure:"seed"`      // 0 picks a time based seed
	MaxTurns  int      `mapstructure:"max_turns"` // 0 means no limit
	BoardFile string   `mapstructure:"board_file"`
}

// Load reads the configuration file at path, applying defaults and MONOPOLY_
// environment overrides. A missing file is not an error; the defaults and the
// environment are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Game.Players = splitPlayers(cfg.Game.Players)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.players", []string{})
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.max_turns", 0)
	v.SetDefault("game.board_file", "")
}

// Validate checks the values that the game cannot run without.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	if c.Game.MaxTurns < 0 {
		return fmt.Errorf("invalid game.max_turns %d", c.Game.MaxTurns)
	}
	seen := make(map[string]bool, len(c.Game.Players))
	for _, name := range c.Game.Players {
		if seen[name] {
			return fmt.Errorf("duplicate player name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// splitPlayers accepts both a YAML list and a single comma separated value,
// which is what an environment override produces.
func splitPlayers(players []string) []string {
	names := make([]string, 0, len(players))
	for _, entry := range players {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
