package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds qtermsim configuration.
type Config struct {
	Simulator SimulatorConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// SimulatorConfig controls how states are built.
type SimulatorConfig struct {
	Workers           int
	ParallelThreshold int    `mapstructure:"parallel_threshold"`
	Seed              uint64 // 0 draws a random seed
	MemoryLimit       uint64 `mapstructure:"memory_limit"` // bytes, 0 probes the machine
	Shots             int
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string
}

// New returns a viper instance with defaults, env overrides and the
// optional config file at path. An empty path searches
// $HOME/.config/qtermsim for config.{yaml,toml,json}. Env var overrides use
// prefix QTERMSIM_, so QTERMSIM_LOG_LEVEL sets log.level.
func New(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("simulator.workers", 0)
	v.SetDefault("simulator.parallel_threshold", 1<<12)
	v.SetDefault("simulator.seed", 0)
	v.SetDefault("simulator.memory_limit", 0)
	v.SetDefault("simulator.shots", 1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.addr", "")

	v.SetEnvPrefix("QTERMSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("QTERMSIM_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return v, nil
	}

	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "qtermsim"))
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Simulator.Workers < 0 {
		return Config{}, fmt.Errorf("simulator.workers must not be negative, got %d", c.Simulator.Workers)
	}
	if c.Simulator.Shots < 1 {
		return Config{}, fmt.Errorf("simulator.shots must be positive, got %d", c.Simulator.Shots)
	}
	return c, nil
}

// Load is New followed by Decode.
func Load(path string) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	return Decode(v)
}
