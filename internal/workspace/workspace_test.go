package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mieschendahl/JSGenerator/internal/exec"
)

type fakeRunner struct {
	result  exec.Result
	err     error
	workDir string
	args    []string
}

func (f *fakeRunner) Run(ctx context.Context, workDir string, name string, args ...string) (exec.Result, error) {
	f.workDir = workDir
	f.args = append([]string{name}, args...)
	return f.result, f.err
}

func (f *fakeRunner) LookPath(name string) error { return nil }

func TestProvisionRunsNpmInstallInTemplateDir(t *testing.T) {
	workDir := t.TempDir()
	runner := &fakeRunner{}
	p := NewProvisioner(runner, workDir)

	tmpl, err := p.Provision(context.Background(), "left-pad")
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	wantDir := filepath.Join(workDir, "playground_template")
	if tmpl.Dir() != wantDir {
		t.Errorf("expected template dir %q, got %q", wantDir, tmpl.Dir())
	}
	if runner.workDir != wantDir {
		t.Errorf("expected npm install to run in %q, got %q", wantDir, runner.workDir)
	}
	if got := strings.Join(runner.args, " "); got != "npm install left-pad" {
		t.Errorf("expected npm install command, got %q", got)
	}
}

func TestProvisionClearsPriorTemplate(t *testing.T) {
	workDir := t.TempDir()
	stale := filepath.Join(workDir, "playground_template", "stale.js")
	if err := os.MkdirAll(filepath.Dir(stale), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewProvisioner(&fakeRunner{}, workDir)
	if _, err := p.Provision(context.Background(), "pkg"); err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected prior template contents to be cleared")
	}
}

func TestProvisionInstallFailureIsFatal(t *testing.T) {
	runner := &fakeRunner{result: exec.Result{ExitCode: 1, Output: "npm ERR! 404"}}
	p := NewProvisioner(runner, t.TempDir())

	_, err := p.Provision(context.Background(), "no-such-pkg")
	if err == nil {
		t.Fatal("expected an error for a failed install")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected install output in error, got %v", err)
	}
}

func TestResetOverwritesResidue(t *testing.T) {
	workDir := t.TempDir()

	tmplDir := filepath.Join(workDir, "playground_template")
	writeFile(t, filepath.Join(tmplDir, "node_modules", "pkg", "index.js"), "module.exports = 1;")
	writeFile(t, filepath.Join(tmplDir, "package.json"), "{}")
	tmpl := &Template{dir: tmplDir}

	playground := filepath.Join(workDir, "playground")
	if err := Reset(playground, tmpl); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	// Leave residue from a "prior execution".
	writeFile(t, filepath.Join(playground, "index.js"), "leaked state")
	writeFile(t, filepath.Join(playground, "leftover.txt"), "junk")

	if err := Reset(playground, tmpl); err != nil {
		t.Fatalf("second Reset failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(playground, "leftover.txt")); !os.IsNotExist(err) {
		t.Error("expected residue to be removed by Reset")
	}
	if _, err := os.Stat(filepath.Join(playground, "index.js")); !os.IsNotExist(err) {
		t.Error("expected prior entry-point file to be removed by Reset")
	}

	data, err := os.ReadFile(filepath.Join(playground, "node_modules", "pkg", "index.js"))
	if err != nil {
		t.Fatalf("expected installed package to be copied: %v", err)
	}
	if string(data) != "module.exports = 1;" {
		t.Errorf("expected template content, got %q", string(data))
	}
}

func TestResetPreservesSymlinks(t *testing.T) {
	workDir := t.TempDir()
	tmplDir := filepath.Join(workDir, "playground_template")
	writeFile(t, filepath.Join(tmplDir, "node_modules", "pkg", "cli.js"), "#!/usr/bin/env node")
	binDir := filepath.Join(tmplDir, "node_modules", ".bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("../pkg/cli.js", filepath.Join(binDir, "pkg")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	playground := filepath.Join(workDir, "playground")
	if err := Reset(playground, &Template{dir: tmplDir}); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	link, err := os.Readlink(filepath.Join(playground, "node_modules", ".bin", "pkg"))
	if err != nil {
		t.Fatalf("expected a symlink in playground: %v", err)
	}
	if link != "../pkg/cli.js" {
		t.Errorf("expected symlink target preserved, got %q", link)
	}
}

func TestNewPlaygroundDirIsRunScoped(t *testing.T) {
	workDir := t.TempDir()

	a := NewPlaygroundDir(workDir)
	b := NewPlaygroundDir(workDir)

	if !strings.HasPrefix(a, filepath.Join(workDir, "playground-")) {
		t.Errorf("expected playground under work dir, got %q", a)
	}
	if a == b {
		t.Error("expected distinct playground dirs per run")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
