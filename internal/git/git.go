// Package git provides repository cloning and documentation retrieval
// for npm packages.
package git

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mieschendahl/JSGenerator/internal/exec"
)

// ErrNoDocumentation indicates a cloned repository exposes neither a
// readable README nor a readable main source file. Without at least one
// of the two there is nothing to extract from or to prompt with.
var ErrNoDocumentation = errors.New("repository has no readable README or main file")

// readmeNames are tried in order when looking for documentation.
var readmeNames = []string{
	"README.md", "README.rst", "README.txt", "README",
	"readme.md", "readme.rst", "readme.txt", "readme",
}

// Cloner clones repositories via the git CLI.
type Cloner struct {
	runner exec.CommandRunner
}

// NewCloner creates a Cloner using the given command runner.
func NewCloner(runner exec.CommandRunner) *Cloner {
	return &Cloner{runner: runner}
}

// Clone performs a shallow clone of url into dest, clearing any prior
// contents of dest first so reruns start from a fresh checkout.
func (c *Cloner) Clone(ctx context.Context, url, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clear clone directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create clone parent directory: %w", err)
	}

	res, err := c.runner.Run(ctx, "", "git", "clone", "--depth", "1", url, dest)
	if err != nil {
		return fmt.Errorf("git clone %s: %w", url, err)
	}
	if !res.Ok() {
		return fmt.Errorf("git clone %s exited with code %d: %s", url, res.ExitCode, strings.TrimSpace(res.Output))
	}
	return nil
}

// Docs holds the documentation sources retrieved from a clone.
// Either field may be empty, but never both.
type Docs struct {
	// Readme is the README text, or empty if none was found.
	Readme string
	// Main is the content of the package's main source file, or empty.
	Main string
}

// ReadDocs retrieves the README and main-file text from a cloned
// repository. A missing README is tolerated while the main file is
// readable and vice versa; if both are missing it returns
// ErrNoDocumentation.
func ReadDocs(repoPath string) (Docs, error) {
	docs := Docs{
		Readme: readmeText(repoPath),
		Main:   mainText(repoPath),
	}
	if docs.Readme == "" && docs.Main == "" {
		return Docs{}, ErrNoDocumentation
	}
	return docs, nil
}

// readmeText returns the first readable README variant, or empty.
func readmeText(repoPath string) string {
	for _, name := range readmeNames {
		data, err := os.ReadFile(filepath.Join(repoPath, name))
		if err == nil {
			return string(data)
		}
	}
	return ""
}

// mainText returns the content of the file named by package.json's
// "main" field (default index.js), or empty.
func mainText(repoPath string) string {
	data, err := os.ReadFile(filepath.Join(repoPath, "package.json"))
	if err != nil {
		return ""
	}

	var pkg struct {
		Main string `json:"main"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	if pkg.Main == "" {
		pkg.Main = "index.js"
	}

	content, err := os.ReadFile(filepath.Join(repoPath, filepath.FromSlash(pkg.Main)))
	if err != nil {
		return ""
	}
	return string(content)
}
