// Package config loads forge CLI configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds tool configuration.
type Config struct {
	Run     RunConfig
	Adapter AdapterConfig
}

// RunConfig holds simulator loop settings.
type RunConfig struct {
	TickPeriod time.Duration
	Regmap     string
	Scenario   string
}

// AdapterConfig holds host link settings.
type AdapterConfig struct {
	Kind string
}

// Load reads configuration from file and env. Env var overrides use prefix
// FORGE_, e.g. FORGE_RUN_TICK_PERIOD=2ms.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("run.tick_period", "1ms")
	v.SetDefault("run.regmap", "")
	v.SetDefault("run.scenario", "single-pulse")
	v.SetDefault("adapter.kind", "simulator")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FORGE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "forge"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FORGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	period, err := time.ParseDuration(v.GetString("run.tick_period"))
	if err != nil {
		return Config{}, fmt.Errorf("config: run.tick_period: %w", err)
	}
	if period <= 0 {
		return Config{}, fmt.Errorf("config: run.tick_period must be positive, got %v", period)
	}

	return Config{
		Run: RunConfig{
			TickPeriod: period,
			Regmap:     v.GetString("run.regmap"),
			Scenario:   v.GetString("run.scenario"),
		},
		Adapter: AdapterConfig{
			Kind: v.GetString("adapter.kind"),
		},
	}, nil
}
