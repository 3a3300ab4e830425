package generator

import (
	"strings"
	"testing"
)

func TestBuildGeneratePromptEmbedsDocs(t *testing.T) {
	prompt := BuildGeneratePrompt(PromptContext{
		Package: "left-pad",
		Readme:  "# left-pad\npads strings",
		Main:    "module.exports = leftPad;",
	})

	for _, want := range []string{
		`"left-pad"`,
		"independently executable via Node",
		"meaningfully different",
		"```README\n# left-pad\npads strings\n```",
		"```js\nmodule.exports = leftPad;\n```",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestBuildGeneratePromptOmitsMissingDocs(t *testing.T) {
	prompt := BuildGeneratePrompt(PromptContext{Package: "pkg", Readme: "readme only"})

	if strings.Contains(prompt, "main file of the package") {
		t.Error("expected no main-file section when main is empty")
	}
	if !strings.Contains(prompt, "readme only") {
		t.Error("expected readme section")
	}
}

func TestBuildRepairPromptNumbersPairs(t *testing.T) {
	prompt := BuildRepairPrompt(PromptContext{Package: "pkg"}, []Failure{
		{Example: "foo()", Diagnostic: "foo is not defined"},
		{Example: "bar()", Diagnostic: "bar is not defined"},
	})

	for _, want := range []string{
		"Example 1:\n```js\nfoo()\n```",
		"Error 1:\n```bash\nfoo is not defined\n```",
		"Example 2:\n```js\nbar()\n```",
		"Error 2:\n```bash\nbar is not defined\n```",
		"Please try to fix these examples.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}
