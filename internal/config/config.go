// Package config loads textcleaner settings from defaults, an optional TOML
// file and TEXTCLEANER_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"textcleaner/internal/algorithms"
	"textcleaner/internal/workspace"
)

const EnvPrefix = "TEXTCLEANER"

type Config struct {
	Tool      ToolConfig      `mapstructure:"tool"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Workers   WorkersConfig   `mapstructure:"workers"`
	Algorithm AlgorithmConfig `mapstructure:"algorithm"`
	Log       LogConfig       `mapstructure:"log"`
}

type ToolConfig struct {
	// Name is the executable's file name.
	Name string `mapstructure:"name"`
	// Dir overrides the directory searched for the tool. Empty means the
	// directory holding the running executable.
	Dir           string        `mapstructure:"dir"`
	AlgorithmFlag string        `mapstructure:"algorithm_flag"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type WorkspaceConfig struct {
	Dir          string        `mapstructure:"dir"`
	SweepOnStart bool          `mapstructure:"sweep_on_start"`
	SweepMaxAge  time.Duration `mapstructure:"sweep_max_age"`
}

type WorkersConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

type AlgorithmConfig struct {
	Default string `mapstructure:"default"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tool.name", "imgclean")
	v.SetDefault("tool.dir", "")
	v.SetDefault("tool.algorithm_flag", "-a")
	v.SetDefault("tool.timeout", time.Duration(0)) // unbounded

	v.SetDefault("workspace.dir", filepath.Join(os.TempDir(), "textcleaner"))
	v.SetDefault("workspace.sweep_on_start", true)
	v.SetDefault("workspace.sweep_max_age", 24*time.Hour)

	v.SetDefault("workers.max_concurrent", runtime.NumCPU())

	v.SetDefault("algorithm.default", string(algorithms.BradleyRoth))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// NewViper returns a Viper instance with defaults and environment binding.
// configFile is read when non-empty.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	return v, nil
}

// Load reads the configuration and validates it.
func Load(configFile string) (*Config, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Tool.Name) == "" {
		return fmt.Errorf("tool.name must not be empty")
	}
	if c.Tool.Timeout < 0 {
		return fmt.Errorf("tool.timeout must not be negative, got %s", c.Tool.Timeout)
	}
	if strings.TrimSpace(c.Workspace.Dir) == "" {
		return fmt.Errorf("workspace.dir must not be empty")
	}
	if c.Workspace.SweepMaxAge < workspace.MinSweepAge {
		return fmt.Errorf("workspace.sweep_max_age must be at least %s, got %s", workspace.MinSweepAge, c.Workspace.SweepMaxAge)
	}
	if c.Workers.MaxConcurrent <= 0 {
		return fmt.Errorf("workers.max_concurrent must be positive, got %d", c.Workers.MaxConcurrent)
	}
	if c.Algorithm.Default != "" {
		if _, err := algorithms.NewManager().Parse(c.Algorithm.Default); err != nil {
			return fmt.Errorf("algorithm.default: %w", err)
		}
	}
	return nil
}
