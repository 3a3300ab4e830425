package generator

import (
	"fmt"
	"strings"
)

// SystemPrompt frames every generation and repair request.
const SystemPrompt = "You are a Javascript/Node package expert."

// PromptContext carries the documentation context embedded in prompts.
type PromptContext struct {
	// Package is the npm package identifier.
	Package string
	// Readme is the package's README text, or empty.
	Readme string
	// Main is the package's main source file text, or empty.
	Main string
}

// Failure pairs a rejected example with its execution diagnostic for
// repair-prompt construction.
type Failure struct {
	Example    string
	Diagnostic string
}

// BuildGeneratePrompt builds the request for fresh usage examples.
func BuildGeneratePrompt(pctx PromptContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Please look at the readme of the npm package %q and generate a list of use case examples for this package.", pctx.Package)
	b.WriteString("\nOnly respond with the list of examples.")
	b.WriteString("\nEach example should start with ```js and end with ```.")
	b.WriteString("\nEach example should be independently executable via Node.")
	b.WriteString("\nEach example should be meaningfully different.")

	appendDocs(&b, pctx)
	return b.String()
}

// BuildRepairPrompt builds the single combined regeneration request for
// all failed examples, embedding each example together with the output
// of its failing execution.
func BuildRepairPrompt(pctx PromptContext, failures []Failure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "I am trying to run some use case examples for the npm package %q but Node raised an error.", pctx.Package)
	b.WriteString("\nPlease try to fix these examples.")
	b.WriteString("\nOnly respond with the list of fixed examples.")
	b.WriteString("\nEach example should start with ```js and end with ```.")
	b.WriteString("\nEach example should be independently executable via Node.")

	for i, f := range failures {
		fmt.Fprintf(&b, "\n\nExample %d:\n```js\n%s\n```", i+1, f.Example)
		fmt.Fprintf(&b, "\n\nError %d:\n```bash\n%s\n```", i+1, f.Diagnostic)
	}

	appendDocs(&b, pctx)
	return b.String()
}

func appendDocs(b *strings.Builder, pctx PromptContext) {
	if pctx.Readme != "" {
		fmt.Fprintf(b, "\n\nHere is the readme of the package:\n```README\n%s\n```", pctx.Readme)
	}
	if pctx.Main != "" {
		fmt.Fprintf(b, "\n\nHere is the main file of the package:\n```js\n%s\n```", pctx.Main)
	}
}
