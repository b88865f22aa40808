package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "gridline.yaml"
	ConfigFileNameAlt = "gridline.yml"
)

// Defaults for unset keys.
const (
	DefaultSampleSize        = 10_000
	DefaultHistoryDepth      = 100
	DefaultParallelThreshold = 50_000
	DefaultDelimiter         = ","
	DefaultHeader            = "auto"
	DefaultOutput            = "table"
)

var configFileUsed string

// ConfigFileUsed returns the path of the config file that was loaded, or
// empty when none was found.
func ConfigFileUsed() string { return configFileUsed }

// findConfigFile finds the config file to use.
// Priority: explicit path > gridline.yaml > gridline.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	return ""
}

// Load resolves the configuration from defaults, an optional YAML file,
// GRIDLINE_-prefixed environment variables, and explicitly set flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"sample_size":        DefaultSampleSize,
		"history_depth":      DefaultHistoryDepth,
		"workers":            0,
		"parallel_threshold": DefaultParallelThreshold,
		"delimiter":          DefaultDelimiter,
		"header":             DefaultHeader,
		"output":             DefaultOutput,
		"verbose":            false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment (GRIDLINE_SAMPLE_SIZE -> sample_size)
	if err := k.Load(env.Provider("GRIDLINE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GRIDLINE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority; only explicitly set ones)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
