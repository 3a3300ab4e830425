// Package config handles configuration loading and management for
// JSGenerator. It supports XDG config paths, project-level overrides,
// and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for JSGenerator.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Phases    PhasesConfig    `mapstructure:"phases"`
	Output    OutputConfig    `mapstructure:"output"`
	Fences    []string        `mapstructure:"fences"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key.
	APIKey string `mapstructure:"api_key"`
	// Model is the model used for generation and repair.
	Model string `mapstructure:"model"`
	// Temperature is the sampling temperature.
	Temperature float64 `mapstructure:"temperature"`
	// UseAWSBedrock routes calls through AWS Bedrock instead of the direct API.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the AWS region for Bedrock.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
}

// WorkspaceConfig holds filesystem layout settings.
type WorkspaceConfig struct {
	// WorkDir is the root under which clones, templates, playgrounds,
	// logs and generated examples are placed.
	WorkDir string `mapstructure:"work_dir"`
	// CacheDir is where model responses are cached. Empty disables caching.
	CacheDir string `mapstructure:"cache_dir"`
}

// PhasesConfig toggles the candidate-producing and repair phases.
type PhasesConfig struct {
	// Extract enables pulling examples out of the README.
	Extract bool `mapstructure:"extract"`
	// Generate enables model-based example synthesis.
	Generate bool `mapstructure:"generate"`
	// Fix enables the single repair pass over rejected examples.
	Fix bool `mapstructure:"fix"`
}

// OutputConfig holds example output settings.
type OutputConfig struct {
	// OnlyVar rewrites const/let declarations to var in written examples,
	// needed by some runtime analysis tools.
	OnlyVar bool `mapstructure:"only_var"`
	// SplitModes writes extracted and generated examples into separate
	// subdirectories instead of one numbered sequence.
	SplitModes bool `mapstructure:"split_modes"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.jsgen.yaml in current directory or parent)
// 3. User config (~/.config/jsgen/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "JSGEN_MODEL")
	v.BindEnv("workspace.work_dir", "JSGEN_WORK_DIR")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.temperature", cfg.Anthropic.Temperature)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("workspace.work_dir", cfg.Workspace.WorkDir)
	v.Set("workspace.cache_dir", cfg.Workspace.CacheDir)
	v.Set("phases.extract", cfg.Phases.Extract)
	v.Set("phases.generate", cfg.Phases.Generate)
	v.Set("phases.fix", cfg.Phases.Fix)
	v.Set("output.only_var", cfg.Output.OnlyVar)
	v.Set("output.split_modes", cfg.Output.SplitModes)
	v.Set("fences", cfg.Fences)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.temperature", 0.0)
	v.SetDefault("anthropic.use_aws_bedrock", false)

	v.SetDefault("workspace.work_dir", "__jsgenerator__")
	v.SetDefault("workspace.cache_dir", "__jsgenerator__/cache")

	v.SetDefault("phases.extract", true)
	v.SetDefault("phases.generate", true)
	v.SetDefault("phases.fix", true)

	v.SetDefault("output.only_var", false)
	v.SetDefault("output.split_modes", false)

	v.SetDefault("fences", []string{"js", "javascript"})
}

// getUserConfigDir returns the XDG config directory for JSGenerator.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "jsgen")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "jsgen")
	}
	return filepath.Join(home, ".config", "jsgen")
}

// findProjectConfig searches for .jsgen.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".jsgen.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model:       "claude-sonnet-4-20250514",
			Temperature: 0,
		},
		Workspace: WorkspaceConfig{
			WorkDir:  "__jsgenerator__",
			CacheDir: "__jsgenerator__/cache",
		},
		Phases: PhasesConfig{
			Extract:  true,
			Generate: true,
			Fix:      true,
		},
		Output: OutputConfig{},
		Fences: []string{"js", "javascript"},
	}
}
