package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mieschendahl/JSGenerator/internal/exec"
)

type fakeRunner struct {
	result exec.Result
	err    error
	args   []string
}

func (f *fakeRunner) Run(ctx context.Context, workDir string, name string, args ...string) (exec.Result, error) {
	f.args = append([]string{name}, args...)
	return f.result, f.err
}

func (f *fakeRunner) LookPath(name string) error { return nil }

func TestCloneRunsShallowClone(t *testing.T) {
	tmpDir := t.TempDir()
	dest := filepath.Join(tmpDir, "repos", "pkg")
	runner := &fakeRunner{}
	c := NewCloner(runner)

	if err := c.Clone(context.Background(), "https://github.com/u/r", dest); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	got := strings.Join(runner.args, " ")
	want := "git clone --depth 1 https://github.com/u/r " + dest
	if got != want {
		t.Errorf("expected command %q, got %q", want, got)
	}
}

func TestCloneClearsPriorContents(t *testing.T) {
	tmpDir := t.TempDir()
	dest := filepath.Join(tmpDir, "pkg")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dest, "stale.txt")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCloner(&fakeRunner{})
	if err := c.Clone(context.Background(), "https://github.com/u/r", dest); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected prior contents to be removed")
	}
}

func TestCloneFailureIsError(t *testing.T) {
	runner := &fakeRunner{result: exec.Result{ExitCode: 128, Output: "fatal: repository not found"}}
	c := NewCloner(runner)

	err := c.Clone(context.Background(), "https://github.com/u/r", t.TempDir())
	if err == nil {
		t.Fatal("expected an error for a failed clone")
	}
	if !strings.Contains(err.Error(), "repository not found") {
		t.Errorf("expected git output in error, got %v", err)
	}
}

func TestReadDocsPrefersReadmeAndMain(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "README.md", "# My package")
	writeFile(t, repo, "package.json", `{"main": "lib/entry.js"}`)
	writeFile(t, repo, "lib/entry.js", "module.exports = {};")

	docs, err := ReadDocs(repo)
	if err != nil {
		t.Fatalf("ReadDocs failed: %v", err)
	}
	if docs.Readme != "# My package" {
		t.Errorf("expected README content, got %q", docs.Readme)
	}
	if docs.Main != "module.exports = {};" {
		t.Errorf("expected main file content, got %q", docs.Main)
	}
}

func TestReadDocsLowercaseReadmeFallback(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "readme.md", "lowercase readme")

	docs, err := ReadDocs(repo)
	if err != nil {
		t.Fatalf("ReadDocs failed: %v", err)
	}
	if docs.Readme != "lowercase readme" {
		t.Errorf("expected lowercase readme, got %q", docs.Readme)
	}
}

func TestReadDocsDefaultMainIsIndexJS(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "package.json", `{"name": "pkg"}`)
	writeFile(t, repo, "index.js", "console.log('hi');")

	docs, err := ReadDocs(repo)
	if err != nil {
		t.Fatalf("ReadDocs failed: %v", err)
	}
	if docs.Main != "console.log('hi');" {
		t.Errorf("expected index.js content, got %q", docs.Main)
	}
}

func TestReadDocsMissingBothIsFatal(t *testing.T) {
	repo := t.TempDir()

	_, err := ReadDocs(repo)
	if !errors.Is(err, ErrNoDocumentation) {
		t.Errorf("expected ErrNoDocumentation, got %v", err)
	}
}

func TestReadDocsReadmeOnlyIsEnough(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "README.md", "docs only")

	docs, err := ReadDocs(repo)
	if err != nil {
		t.Fatalf("ReadDocs failed: %v", err)
	}
	if docs.Main != "" {
		t.Errorf("expected no main content, got %q", docs.Main)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
