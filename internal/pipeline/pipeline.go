// Package pipeline wires metadata lookup, documentation retrieval,
// environment provisioning, extraction, generation, validation and
// repair into one sequential run per package.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mieschendahl/JSGenerator/internal/config"
	"github.com/Mieschendahl/JSGenerator/internal/exec"
	"github.com/Mieschendahl/JSGenerator/internal/extract"
	"github.com/Mieschendahl/JSGenerator/internal/generator"
	"github.com/Mieschendahl/JSGenerator/internal/git"
	"github.com/Mieschendahl/JSGenerator/internal/logging"
	"github.com/Mieschendahl/JSGenerator/internal/repair"
	"github.com/Mieschendahl/JSGenerator/internal/validate"
	"github.com/Mieschendahl/JSGenerator/internal/workspace"
)

// MetadataLookup resolves a package identifier to its repository URL.
type MetadataLookup interface {
	RepositoryURL(ctx context.Context, pkg string) (string, error)
}

// RepoCloner retrieves a repository into a local directory.
type RepoCloner interface {
	Clone(ctx context.Context, url, dest string) error
}

// Pipeline runs the full example-generation flow for one package.
type Pipeline struct {
	cfg      *config.Config
	runner   exec.CommandRunner
	metadata MetadataLookup
	cloner   RepoCloner
	gen      generator.Generator
	log      *logging.RunLog

	// Tokens, when set, is included in the run manifest.
	Tokens *generator.TokenTracker
}

// New creates a Pipeline. The generator may be nil when the generate
// and fix phases are disabled.
func New(cfg *config.Config, runner exec.CommandRunner, metadata MetadataLookup, cloner RepoCloner, gen generator.Generator, log *logging.RunLog) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{
		cfg:      cfg,
		runner:   runner,
		metadata: metadata,
		cloner:   cloner,
		gen:      gen,
		log:      log,
	}
}

// Report summarizes what one Run produced.
type Report struct {
	Package   string
	Extracted int
	Generated int
	Accepted  int
	Repaired  int
	Dropped   int
	Files     []string
	Stopped   bool
}

// Run generates validated usage examples for pkg and writes them under
// the work directory's examples/ tree. Only environment-level failures
// are returned as errors; per-candidate failures are absorbed into the
// report.
func (p *Pipeline) Run(ctx context.Context, pkg string) (*Report, error) {
	workDir := p.cfg.Workspace.WorkDir
	report := &Report{Package: pkg}

	stop, err := NewStopWatcher(workDir)
	if err != nil {
		return nil, fmt.Errorf("start stop watcher: %w", err)
	}
	defer stop.Close()

	p.log.Section("metadata")
	url, err := p.metadata.RepositoryURL(ctx, pkg)
	if err != nil {
		return nil, err
	}
	p.log.Logf("repository: %s", url)

	p.log.Section("clone")
	repoPath := filepath.Join(workDir, "repositories", pkg)
	if err := p.cloner.Clone(ctx, url, repoPath); err != nil {
		return nil, err
	}

	docs, err := git.ReadDocs(repoPath)
	if err != nil {
		return nil, err
	}
	if err := p.persistDocs(pkg, docs); err != nil {
		return nil, err
	}

	pctx := generator.PromptContext{
		Package: pkg,
		Readme:  docs.Readme,
		Main:    docs.Main,
	}

	if stop.Stopped() {
		report.Stopped = true
		return report, nil
	}

	p.log.Section("provision")
	provisioner := workspace.NewProvisioner(p.runner, workDir)
	template, err := provisioner.Provision(ctx, pkg)
	if err != nil {
		return nil, err
	}

	var extracted, generated []string

	if p.cfg.Phases.Extract && docs.Readme != "" {
		sc := extract.NewScanner(docs.Readme, p.cfg.Fences...)
		for sc.Next() {
			extracted = append(extracted, sc.Text())
		}
		p.log.Logf("extracted %d candidates from README", len(extracted))
	}
	report.Extracted = len(extracted)

	if p.cfg.Phases.Generate {
		p.log.Section("generate")
		response, err := p.gen.Generate(ctx, generator.BuildGeneratePrompt(pctx))
		if err != nil {
			return nil, fmt.Errorf("generate examples: %w", err)
		}
		generated = extract.All(response, p.cfg.Fences...)
		p.log.Logf("model produced %d candidates", len(generated))
	}
	report.Generated = len(generated)

	if stop.Stopped() {
		report.Stopped = true
		return report, nil
	}

	playground := workspace.NewPlaygroundDir(workDir)
	defer workspace.Remove(playground)
	validator := validate.New(p.runner, template, playground, p.log)

	p.log.Section("validate")
	candidates := append(append([]string{}, extracted...), generated...)
	accepted, rejected, err := validator.Validate(ctx, candidates)
	if err != nil {
		return nil, err
	}
	report.Accepted = len(accepted)
	p.log.Logf("accepted %d of %d candidates", len(accepted), len(candidates))

	var repaired []string
	if p.cfg.Phases.Fix && len(rejected) > 0 && !stop.Stopped() {
		p.log.Section("repair")
		orch := repair.New(p.gen, validator, p.cfg.Fences, p.log)
		repaired, err = orch.Repair(ctx, rejected, pctx)
		if err != nil {
			return nil, err
		}
	}
	report.Repaired = len(repaired)
	report.Dropped = len(rejected) - len(repaired)
	if report.Dropped < 0 {
		report.Dropped = 0
	}
	report.Stopped = stop.Stopped()

	p.log.Section("write")
	fromExtracted, fromGenerated := splitAccepted(candidates, accepted, len(extracted))
	fromGenerated = append(fromGenerated, repaired...)
	files, err := p.writeOutput(pkg, report, fromExtracted, fromGenerated)
	if err != nil {
		return nil, err
	}
	report.Files = files

	return report, nil
}

// splitAccepted attributes each accepted example back to its source
// phase. Validation preserves input order and partitions totally, so a
// single forward walk over candidates and accepted suffices.
func splitAccepted(candidates, accepted []string, extractedCount int) (fromExtracted, fromGenerated []string) {
	ai := 0
	for ci, c := range candidates {
		if ai >= len(accepted) {
			break
		}
		if accepted[ai] == c {
			if ci < extractedCount {
				fromExtracted = append(fromExtracted, c)
			} else {
				fromGenerated = append(fromGenerated, c)
			}
			ai++
		}
	}
	return fromExtracted, fromGenerated
}

// persistDocs saves retrieved documentation under the work directory,
// keyed by package, for inspection and reuse.
func (p *Pipeline) persistDocs(pkg string, docs git.Docs) error {
	workDir := p.cfg.Workspace.WorkDir

	if docs.Readme != "" {
		path := filepath.Join(workDir, "README", pkg+".md")
		if err := writeDoc(path, docs.Readme); err != nil {
			return err
		}
	}
	if docs.Main != "" {
		path := filepath.Join(workDir, "main", pkg+".js")
		if err := writeDoc(path, docs.Main); err != nil {
			return err
		}
	}
	return nil
}

func writeDoc(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create doc directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("persist %s: %w", path, err)
	}
	return nil
}

// writeOutput writes the final accepted examples and the run manifest.
// With split_modes enabled, extraction-sourced and model-sourced
// examples land in separate subdirectories; repaired examples are
// model-produced text and count as generated.
func (p *Pipeline) writeOutput(pkg string, report *Report, fromExtracted, fromGenerated []string) ([]string, error) {
	baseDir := filepath.Join(p.cfg.Workspace.WorkDir, "examples", pkg)
	onlyVar := p.cfg.Output.OnlyVar

	var files []string
	if p.cfg.Output.SplitModes {
		extFiles, err := writeExamples(filepath.Join(baseDir, "extracted"), fromExtracted, onlyVar)
		if err != nil {
			return nil, err
		}
		genFiles, err := writeExamples(filepath.Join(baseDir, "generated"), fromGenerated, onlyVar)
		if err != nil {
			return nil, err
		}
		files = append(extFiles, genFiles...)
	} else {
		final := append(append([]string{}, fromExtracted...), fromGenerated...)
		var err error
		files, err = writeExamples(baseDir, final, onlyVar)
		if err != nil {
			return nil, err
		}
	}

	manifest := Manifest{
		Package:     pkg,
		Model:       p.cfg.Anthropic.Model,
		GeneratedAt: time.Now().UTC(),
		Counts: ManifestCounts{
			Extracted: report.Extracted,
			Generated: report.Generated,
			Accepted:  report.Accepted,
			Repaired:  report.Repaired,
			Dropped:   report.Dropped,
		},
		Files: files,
	}
	if p.Tokens != nil {
		in, out := p.Tokens.Total()
		manifest.Tokens = &TokenUsage{Input: in, Output: out, Calls: p.Tokens.Calls()}
	}
	if err := writeManifest(baseDir, manifest); err != nil {
		return nil, err
	}

	return files, nil
}
