package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mieschendahl/JSGenerator/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify jsgen configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/jsgen/config.yaml
Project-specific overrides can be placed in .jsgen.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	// Mask API key if set
	apiKeyDisplay := "(not set)"
	if cfg.Anthropic.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.temperature: %g\n", cfg.Anthropic.Temperature)
	fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", cfg.Anthropic.AWSRegion)
	fmt.Printf("anthropic.aws_profile: %s\n", cfg.Anthropic.AWSProfile)
	fmt.Printf("workspace.work_dir: %s\n", cfg.Workspace.WorkDir)
	fmt.Printf("workspace.cache_dir: %s\n", cfg.Workspace.CacheDir)
	fmt.Printf("phases.extract: %t\n", cfg.Phases.Extract)
	fmt.Printf("phases.generate: %t\n", cfg.Phases.Generate)
	fmt.Printf("phases.fix: %t\n", cfg.Phases.Fix)
	fmt.Printf("output.only_var: %t\n", cfg.Output.OnlyVar)
	fmt.Printf("output.split_modes: %t\n", cfg.Output.SplitModes)
	fmt.Printf("fences: %s\n", strings.Join(cfg.Fences, ", "))
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.temperature":
		return strconv.FormatFloat(cfg.Anthropic.Temperature, 'g', -1, 64), nil
	case "anthropic.use_aws_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseAWSBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "workspace.work_dir":
		return cfg.Workspace.WorkDir, nil
	case "workspace.cache_dir":
		return cfg.Workspace.CacheDir, nil
	case "phases.extract":
		return strconv.FormatBool(cfg.Phases.Extract), nil
	case "phases.generate":
		return strconv.FormatBool(cfg.Phases.Generate), nil
	case "phases.fix":
		return strconv.FormatBool(cfg.Phases.Fix), nil
	case "output.only_var":
		return strconv.FormatBool(cfg.Output.OnlyVar), nil
	case "output.split_modes":
		return strconv.FormatBool(cfg.Output.SplitModes), nil
	case "fences":
		return strings.Join(cfg.Fences, ", "), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature: %s", value)
		}
		cfg.Anthropic.Temperature = f
	case "anthropic.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.Anthropic.UseAWSBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "workspace.work_dir":
		cfg.Workspace.WorkDir = value
	case "workspace.cache_dir":
		cfg.Workspace.CacheDir = value
	case "phases.extract":
		return setBool(&cfg.Phases.Extract, value)
	case "phases.generate":
		return setBool(&cfg.Phases.Generate, value)
	case "phases.fix":
		return setBool(&cfg.Phases.Fix, value)
	case "output.only_var":
		return setBool(&cfg.Output.OnlyVar, value)
	case "output.split_modes":
		return setBool(&cfg.Output.SplitModes, value)
	case "fences":
		var fences []string
		for _, f := range strings.Split(value, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fences = append(fences, f)
			}
		}
		if len(fences) == 0 {
			return fmt.Errorf("fences needs at least one language tag")
		}
		cfg.Fences = fences
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func setBool(dst *bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean: %s", value)
	}
	*dst = b
	return nil
}
