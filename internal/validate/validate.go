// Package validate classifies candidate examples by actually executing
// them under Node against a provisioned copy of the package under test.
package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mieschendahl/JSGenerator/internal/exec"
	"github.com/Mieschendahl/JSGenerator/internal/logging"
	"github.com/Mieschendahl/JSGenerator/internal/workspace"
)

// EntryPoint is the file name a candidate is written to before execution.
const EntryPoint = "index.js"

// Interpreter is the runtime binary candidates are executed with.
const Interpreter = "node"

// Rejection pairs a failed candidate with the diagnostic transcript of
// its execution.
type Rejection struct {
	// Example is the candidate's source text, unchanged.
	Example string
	// Diagnostic is the combined stdout/stderr of the failing run,
	// trimmed of leading and trailing whitespace only.
	Diagnostic string
}

// Validator executes candidates sequentially, each in a playground
// freshly reset from the template so no state leaks between runs.
type Validator struct {
	runner     exec.CommandRunner
	template   *workspace.Template
	playground string
	log        *logging.RunLog
}

// New creates a Validator. The playground directory is owned by the
// Validator for the duration of each Validate call.
func New(runner exec.CommandRunner, template *workspace.Template, playground string, log *logging.RunLog) *Validator {
	if log == nil {
		log = logging.Nop()
	}
	return &Validator{
		runner:     runner,
		template:   template,
		playground: playground,
		log:        log,
	}
}

// Validate executes each candidate in input order and partitions the
// batch into accepted and rejected. The two lists are a total, disjoint
// partition of the input, each preserving relative input order.
//
// A candidate's own non-zero exit becomes a Rejection; failure to start
// the interpreter at all is an environment problem and aborts the whole
// batch with an error.
func (v *Validator) Validate(ctx context.Context, examples []string) (accepted []string, rejected []Rejection, err error) {
	if len(examples) == 0 {
		return nil, nil, nil
	}

	for i, example := range examples {
		if err := workspace.Reset(v.playground, v.template); err != nil {
			return nil, nil, fmt.Errorf("reset playground: %w", err)
		}

		entry := filepath.Join(v.playground, EntryPoint)
		if err := os.WriteFile(entry, []byte(example), 0644); err != nil {
			return nil, nil, fmt.Errorf("write candidate %d: %w", i, err)
		}

		res, err := v.runner.Run(ctx, v.playground, Interpreter, EntryPoint)
		if err != nil {
			return nil, nil, fmt.Errorf("invoke %s: %w", Interpreter, err)
		}

		if res.Ok() {
			v.log.Logf("candidate %d accepted", i)
			accepted = append(accepted, example)
		} else {
			v.log.Logf("candidate %d rejected (exit %d)", i, res.ExitCode)
			rejected = append(rejected, Rejection{
				Example:    example,
				Diagnostic: strings.TrimSpace(res.Output),
			})
		}
	}

	return accepted, rejected, nil
}
