// Package cli provides the command-line interface for JCL.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all CLI configuration options.
type Config struct {
	ModuleDir    string `mapstructure:"module_dir"`
	OutputFormat string `mapstructure:"output"`
	BestEffort   bool   `mapstructure:"best_effort"`
	Verbose      bool   `mapstructure:"verbose"`
	NoColor      bool   `mapstructure:"no_color"`
}

// Default configuration values.
const (
	DefaultModuleDir = "."
	DefaultOutput    = "jcl"
)

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("module_dir", DefaultModuleDir)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("best_effort", false)
	v.SetDefault("verbose", false)
	v.SetDefault("no_color", false)

	v.SetEnvPrefix("JCL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	} else {
		configPaths := []string{
			"jcl.yaml",
			"jcl.yml",
			".jcl.yaml",
			".jcl.yml",
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPaths = append(configPaths,
				homeDir+"/.jcl/jcl.yaml",
				homeDir+"/.jcl/jcl.yml",
			)
		}
		for _, configPath := range configPaths {
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				if err := v.ReadInConfig(); err != nil {
					return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
				}
				break
			}
		}
	}

	// Flags win over everything else.
	if flags != nil {
		bind := func(key, flag string) {
			if f := flags.Lookup(flag); f != nil && f.Changed {
				v.Set(key, f.Value.String())
			}
		}
		bind("module_dir", "module-dir")
		bind("output", "output")
		bind("best_effort", "best-effort")
		bind("verbose", "verbose")
		bind("no_color", "no-color")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	switch cfg.OutputFormat {
	case "jcl", "json", "yaml":
	default:
		return nil, fmt.Errorf("invalid output format %q (want jcl, json or yaml)", cfg.OutputFormat)
	}

	return &cfg, nil
}
