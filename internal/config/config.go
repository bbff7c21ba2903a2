package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/lox/blackjack/internal/game"
)

const (
	// DefaultFile is the config file read when none is given
	DefaultFile = "blackjack.hcl"
	// DefaultEnvFile is the dotenv file read when present
	DefaultEnvFile = ".env"
	// EnvPrefix prefixes every environment variable, e.g. BLACKJACK_PLAYERS
	EnvPrefix = "blackjack"
	// HumanAgent marks a seat that is answered at the prompt
	HumanAgent = "human"
)

// Config is the resolved configuration for a session. Zero values for
// Players, Names and Mode mean the driver asks at the prompt.
type Config struct {
	Players    int               `envconfig:"players"`
	Names      []string          `envconfig:"names"`
	Mode       string            `envconfig:"mode"`
	Seed       int64             `envconfig:"seed"`
	Agents     map[string]string `ignored:"true"` // player name to agent spec
	LogLevel   string            `envconfig:"log_level"`
	LogFile    string            `envconfig:"log_file"`
	Transcript string            `envconfig:"transcript"`
	Color      bool              `envconfig:"color"`
}

// fileConfig is the HCL layout. Every block and attribute is optional so a
// file only overrides what it names.
type fileConfig struct {
	Game    *gameBlock    `hcl:"game,block"`
	Players []playerBlock `hcl:"player,block"`
	Log     *logBlock     `hcl:"log,block"`
	Output  *outputBlock  `hcl:"output,block"`
}

type gameBlock struct {
	Players *int    `hcl:"players,optional"`
	Mode    *string `hcl:"mode,optional"`
	Seed    *int64  `hcl:"seed,optional"`
}

type playerBlock struct {
	Name  string `hcl:"name,label"`
	Agent string `hcl:"agent,optional"`
}

type logBlock struct {
	Level *string `hcl:"level,optional"`
	File  *string `hcl:"file,optional"`
}

type outputBlock struct {
	Transcript *string `hcl:"transcript,optional"`
	Color      *bool   `hcl:"color,optional"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Color:    true,
		Agents:   map[string]string{},
	}
}

// Load builds a configuration from defaults, the HCL file at path, the
// dotenv file and the environment, in that order. Missing files are skipped.
func Load(path, envFile string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from an HCL file on top of the defaults
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if g := fc.Game; g != nil {
		if g.Players != nil {
			cfg.Players = *g.Players
		}
		if g.Mode != nil {
			cfg.Mode = *g.Mode
		}
		if g.Seed != nil {
			cfg.Seed = *g.Seed
		}
	}
	for _, p := range fc.Players {
		cfg.Names = append(cfg.Names, p.Name)
		if p.Agent != "" {
			cfg.Agents[p.Name] = p.Agent
		}
	}
	if l := fc.Log; l != nil {
		if l.Level != nil {
			cfg.LogLevel = *l.Level
		}
		if l.File != nil {
			cfg.LogFile = *l.File
		}
	}
	if o := fc.Output; o != nil {
		if o.Transcript != nil {
			cfg.Transcript = *o.Transcript
		}
		if o.Color != nil {
			cfg.Color = *o.Color
		}
	}

	return cfg, nil
}

// ApplyEnv loads envFile into the process environment, without replacing
// variables that are already set, then applies BLACKJACK_* variables
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Players != 0 && c.Players < game.MinPlayers {
		return fmt.Errorf("players must be at least %d, got %d", game.MinPlayers, c.Players)
	}
	if c.Players != 0 && len(c.Names) > c.Players {
		return fmt.Errorf("%d player names given for %d players", len(c.Names), c.Players)
	}

	seen := make(map[string]bool, len(c.Names))
	for _, name := range c.Names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("player names cannot be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate player name %q", name)
		}
		seen[name] = true
	}

	if _, _, err := c.FixedMode(); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	for name, spec := range c.Agents {
		if strings.EqualFold(spec, HumanAgent) {
			continue
		}
		if _, err := game.ParseAgent(spec, nil); err != nil {
			return fmt.Errorf("player %s: %w", name, err)
		}
	}
	return nil
}

// FixedMode returns the configured mode. ok is false when the mode should
// be asked for.
func (c *Config) FixedMode() (mode game.Mode, ok bool, err error) {
	if c.Mode == "" {
		return game.Auto, false, nil
	}
	mode, err = game.ParseMode(c.Mode)
	if err != nil {
		return game.Auto, false, err
	}
	return mode, true, nil
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// BotAgent returns the bot agent spec for a player, or "" when the player
// is answered at the prompt
func (c *Config) BotAgent(name string) string {
	spec := c.Agents[name]
	if strings.EqualFold(spec, HumanAgent) {
		return ""
	}
	return spec
}
