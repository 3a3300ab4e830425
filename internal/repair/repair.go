// Package repair drives the single bounded regeneration-and-revalidation
// cycle applied to rejected examples.
package repair

import (
	"context"
	"fmt"

	"github.com/Mieschendahl/JSGenerator/internal/extract"
	"github.com/Mieschendahl/JSGenerator/internal/generator"
	"github.com/Mieschendahl/JSGenerator/internal/logging"
	"github.com/Mieschendahl/JSGenerator/internal/validate"
)

// Orchestrator performs one repair pass over rejected candidates.
// There is deliberately no loop-until-convergence: one model call and
// one re-validation bound the cost regardless of how many repaired
// candidates still fail.
type Orchestrator struct {
	gen       generator.Generator
	validator *validate.Validator
	langs     []string
	log       *logging.RunLog
}

// New creates a repair orchestrator. langs are the fence tags used to
// parse the model response; empty means the extract defaults.
func New(gen generator.Generator, validator *validate.Validator, langs []string, log *logging.RunLog) *Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	return &Orchestrator{
		gen:       gen,
		validator: validator,
		langs:     langs,
		log:       log,
	}
}

// Repair regenerates the rejected candidates through a single combined
// model request and re-validates the results once. It returns only the
// repaired candidates that now execute cleanly; candidates that still
// fail are logged and dropped.
//
// With an empty rejected list this is a no-op: no model call is made.
func (o *Orchestrator) Repair(ctx context.Context, rejected []validate.Rejection, pctx generator.PromptContext) ([]string, error) {
	if len(rejected) == 0 {
		return nil, nil
	}

	failures := make([]generator.Failure, len(rejected))
	for i, r := range rejected {
		failures[i] = generator.Failure{Example: r.Example, Diagnostic: r.Diagnostic}
	}

	prompt := generator.BuildRepairPrompt(pctx, failures)
	o.log.Logf("repairing %d rejected candidates with one regeneration request", len(rejected))

	response, err := o.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("repair generation: %w", err)
	}

	candidates := extract.All(response, o.langs...)
	o.log.Logf("repair response contained %d candidates", len(candidates))

	accepted, stillRejected, err := o.validator.Validate(ctx, candidates)
	if err != nil {
		return nil, err
	}

	for _, r := range stillRejected {
		o.log.Logf("dropping candidate that failed repair: %s", r.Diagnostic)
	}

	return accepted, nil
}
