package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var (
	constRe = regexp.MustCompile(`\bconst\b`)
	letRe   = regexp.MustCompile(`\blet\b`)
)

// looseDeclarations rewrites const and let declarations to var.
// Some runtime analysis tools only handle var-scoped code.
func looseDeclarations(example string) string {
	example = constRe.ReplaceAllString(example, "var")
	return letRe.ReplaceAllString(example, "var")
}

// writeExamples writes the examples as zero-based numbered source files
// under dir, clearing the directory first. Returns the written paths,
// in order.
func writeExamples(dir string, examples []string, onlyVar bool) ([]string, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clear examples directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create examples directory: %w", err)
	}

	var files []string
	for i, example := range examples {
		if onlyVar {
			example = looseDeclarations(example)
		}
		path := filepath.Join(dir, fmt.Sprintf("example_%d.js", i))
		if err := os.WriteFile(path, []byte(example), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}
