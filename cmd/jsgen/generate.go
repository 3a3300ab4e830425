package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mieschendahl/JSGenerator/internal/config"
	"github.com/Mieschendahl/JSGenerator/internal/exec"
	"github.com/Mieschendahl/JSGenerator/internal/generator"
	"github.com/Mieschendahl/JSGenerator/internal/git"
	"github.com/Mieschendahl/JSGenerator/internal/logging"
	"github.com/Mieschendahl/JSGenerator/internal/pipeline"
	"github.com/Mieschendahl/JSGenerator/internal/registry"
)

var (
	genModel      string
	genWorkDir    string
	genNoExtract  bool
	genNoGenerate bool
	genNoFix      bool
	genNoCache    bool
	genOnlyVar    bool
	genSplitModes bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <package>...",
	Short: "Generate validated usage examples for npm packages",
	Long: `Generate runnable usage examples for one or more npm packages.

For each package the pipeline runs three phases, each of which can be
disabled individually:

  extract   Pull fenced js/javascript blocks out of the README.
  generate  Ask the model for additional examples based on the README
            and the package's main module.
  fix       Give every rejected candidate one combined repair pass.

Every candidate is executed with node inside a fresh copy of a template
directory where the package has been installed. Only candidates that
exit cleanly are kept. Accepted examples are written as example_<i>.js
files under <work-dir>/examples/<package>/.

Writing a file named "stop" into <work-dir>/signals/ aborts the run at
the next phase boundary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genModel, "model", "", "Claude model to use (overrides config)")
	generateCmd.Flags().StringVar(&genWorkDir, "work-dir", "", "Work directory (overrides config)")
	generateCmd.Flags().BoolVar(&genNoExtract, "no-extract", false, "Skip README extraction")
	generateCmd.Flags().BoolVar(&genNoGenerate, "no-generate", false, "Skip model-based generation")
	generateCmd.Flags().BoolVar(&genNoFix, "no-fix", false, "Skip the repair pass for rejected candidates")
	generateCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "Bypass the model response cache")
	generateCmd.Flags().BoolVar(&genOnlyVar, "only-var", false, "Rewrite const/let declarations to var in output")
	generateCmd.Flags().BoolVar(&genSplitModes, "split-modes", false, "Write extracted and generated examples into separate subdirectories")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyGenerateFlags(cfg)

	if err := CheckNodeToolchain(); err != nil {
		return err
	}

	needsModel := cfg.Phases.Generate || cfg.Phases.Fix
	if needsModel && cfg.Anthropic.APIKey == "" && os.Getenv("ANTHROPIC_API_KEY") == "" && !cfg.Anthropic.UseAWSBedrock {
		return fmt.Errorf("no Anthropic API key configured\n\n" +
			"Set ANTHROPIC_API_KEY, or run:\n" +
			"  jsgen config anthropic.api_key <key>\n\n" +
			"Or disable the model phases with --no-generate --no-fix")
	}

	if err := os.MkdirAll(cfg.Workspace.WorkDir, 0755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}

	log := logging.NewForWorkDir(cfg.Workspace.WorkDir)
	defer log.Close()

	runner := exec.NewStreamingRunner(log.Sink())
	metadata := registry.NewClient(runner)
	cloner := git.NewCloner(runner)

	var gen generator.Generator
	var tokens *generator.TokenTracker
	if needsModel {
		client, err := generator.NewClient(generator.ClientConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        cfg.Anthropic.APIKey,
			Temperature:   cfg.Anthropic.Temperature,
			UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
		})
		if err != nil {
			return fmt.Errorf("create model client: %w", err)
		}
		tokens = client.Tracker()
		gen = client

		if cfg.Workspace.CacheDir != "" && !genNoCache {
			cached, err := generator.OpenCache(client, cfg.Workspace.CacheDir, cfg.Anthropic.Model)
			if err != nil {
				return fmt.Errorf("open response cache: %w", err)
			}
			defer cached.Close()
			gen = cached
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, finishing up...")
		cancel()
	}()

	p := pipeline.New(cfg, runner, metadata, cloner, gen, log)
	p.Tokens = tokens

	var failures int
	for _, pkg := range args {
		fmt.Printf("%s %s\n", color.CyanString("==>"), pkg)
		report, err := p.Run(ctx, pkg)
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", color.RedString("✗"), pkg, err)
			continue
		}
		printReport(report)
		if report.Stopped {
			fmt.Println(color.YellowString("Stop signal received, aborting remaining packages"))
			break
		}
	}

	if tokens != nil {
		in, out := tokens.Total()
		fmt.Printf("Model usage: %d calls, %d input tokens, %d output tokens\n", tokens.Calls(), in, out)
	}

	if failures > 0 {
		return fmt.Errorf("%d package(s) failed", failures)
	}
	return nil
}

// applyGenerateFlags folds command-line overrides into the loaded config.
func applyGenerateFlags(cfg *config.Config) {
	if genModel != "" {
		cfg.Anthropic.Model = genModel
	}
	if genWorkDir != "" {
		cfg.Workspace.WorkDir = genWorkDir
	}
	if genNoExtract {
		cfg.Phases.Extract = false
	}
	if genNoGenerate {
		cfg.Phases.Generate = false
	}
	if genNoFix {
		cfg.Phases.Fix = false
	}
	if genOnlyVar {
		cfg.Output.OnlyVar = true
	}
	if genSplitModes {
		cfg.Output.SplitModes = true
	}
}

func printReport(report *pipeline.Report) {
	total := len(report.Files)
	if total == 0 {
		fmt.Printf("%s %s: no runnable examples\n", color.YellowString("⚠"), report.Package)
	} else {
		fmt.Printf("%s %s: %d runnable example(s)\n", color.GreenString("✓"), report.Package, total)
	}
	fmt.Printf("    extracted: %d  generated: %d  repaired: %d  dropped: %d\n",
		report.Extracted, report.Generated, report.Repaired, report.Dropped)
	for _, f := range report.Files {
		fmt.Printf("    %s\n", f)
	}
}
