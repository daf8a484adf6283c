// Package config holds the settings of the shell and of the analyses it
// runs. Settings come, in order of precedence, from flags, TENPAI_
// environment variables, an optional YAML config file and the defaults
// below.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug               = "debug"
	ConfigStrategy            = "strategy"
	ConfigPatterns            = "patterns"
	ConfigThreads             = "threads"
	ConfigDraws               = "draws"
	ConfigIterations          = "iterations"
	ConfigStoppingCondition   = "stopping-condition"
	ConfigCacheMemoryFraction = "cache-memory-fraction"
	ConfigConfigFile          = "config-file"
	ConfigCPUProfile          = "cpu-profile"
	ConfigMemProfile          = "mem-profile"
)

const EnvPrefix = "TENPAI"

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config holding only the defaults.
func DefaultConfig() Config {
	c := Config{viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigStrategy, "heuristic")
	c.SetDefault(ConfigPatterns, "standard,pairs")
	c.SetDefault(ConfigThreads, max(1, runtime.NumCPU()))
	c.SetDefault(ConfigDraws, 6)
	c.SetDefault(ConfigIterations, 2000)
	c.SetDefault(ConfigStoppingCondition, "none")
	c.SetDefault(ConfigCacheMemoryFraction, 0.02)
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("tenpai", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigStrategy, "heuristic", "shanten strategy: heuristic, patternmatch or bruteforce")
	fs.String(ConfigPatterns, "standard,pairs", "comma-separated win patterns")
	fs.Int(ConfigThreads, max(1, runtime.NumCPU()), "worker threads for analyses and simulations")
	fs.Int(ConfigDraws, 6, "tiles drawn per win-rate iteration")
	fs.Int(ConfigIterations, 2000, "win-rate iterations")
	fs.String(ConfigStoppingCondition, "none", "win-rate auto-stop: none, 95, 98 or 99")
	fs.Float64(ConfigCacheMemoryFraction, 0.02, "fraction of system memory for the result cache; 0 turns it off")
	fs.String(ConfigConfigFile, "", "YAML config file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	return fs
}

// Load reads the flags in args, the environment and the config file, if
// one is named. It returns the arguments that are not flags.
func (c *Config) Load(args []string) ([]string, error) {
	c.Viper = viper.New()
	c.setDefaults()

	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.BindPFlags(fs); err != nil {
		return nil, err
	}
	c.SetEnvPrefix(EnvPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return fs.Args(), nil
}

// SetKey changes a setting from the shell. Only known keys can be set.
func (c *Config) SetKey(key, value string) error {
	switch key {
	case ConfigDebug:
		switch strings.ToLower(value) {
		case "true", "on", "1":
			c.Set(key, true)
		case "false", "off", "0":
			c.Set(key, false)
		default:
			return fmt.Errorf("%s must be on or off", key)
		}
	case ConfigThreads, ConfigDraws, ConfigIterations:
		var n int
		if _, err := fmt.Sscan(value, &n); err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		c.Set(key, n)
	case ConfigCacheMemoryFraction:
		var f float64
		if _, err := fmt.Sscan(value, &f); err != nil || f < 0 || f > 0.5 {
			return fmt.Errorf("%s must be between 0 and 0.5", key)
		}
		c.Set(key, f)
	case ConfigStrategy, ConfigPatterns, ConfigStoppingCondition:
		c.Set(key, value)
	default:
		return errors.New("unknown setting " + key)
	}
	return nil
}

// SanitizedSettings returns every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
