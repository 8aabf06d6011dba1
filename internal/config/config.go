// Package config loads converter settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".xcdb"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for xcdb settings.
const envPrefix = "XCDB"

// DefaultOutput is the output file written when none is configured.
const DefaultOutput = "compile_commands.json"

// Config holds converter settings. Field tags use mapstructure for viper
// unmarshalling.
type Config struct {
	Output       string   `mapstructure:"output"`
	ExcludeDirs  []string `mapstructure:"exclude_dirs"`
	ExcludeFiles []string `mapstructure:"exclude_files"`
}

// Load loads configuration from file, env vars, and defaults. If configPath
// is non-empty it is used as the explicit config file path; otherwise the
// config file is searched in CWD and $HOME. A missing config file is not an
// error unless it was named explicitly.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	viperCfg.SetDefault("output", DefaultOutput)
	viperCfg.SetDefault("exclude_dirs", []string{})
	viperCfg.SetDefault("exclude_files", []string{})

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	return &cfg, nil
}

// CompileFilter turns a set of regular expressions into a path predicate. An
// empty set matches nothing.
func CompileFilter(patterns []string) (func(string) bool, error) {
	if len(patterns) == 0 {
		return func(string) bool { return false }, nil
	}

	regexps := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		regexps = append(regexps, re)
	}

	return func(path string) bool {
		for _, re := range regexps {
			if re.MatchString(path) {
				return true
			}
		}
		return false
	}, nil
}
