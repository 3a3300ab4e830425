// Package workspace manages the provisioned template environment and
// the per-execution playground directories candidates run in.
package workspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Mieschendahl/JSGenerator/internal/exec"
)

// Template is the one-time-provisioned reference directory with the
// package under test installed. It is read-only once provisioned:
// validation runs copy from it and never write into it.
type Template struct {
	dir string
}

// Dir returns the template's directory path.
func (t *Template) Dir() string {
	return t.dir
}

// TemplateForDir wraps an already-provisioned directory as a Template.
func TemplateForDir(dir string) *Template {
	return &Template{dir: dir}
}

// Provisioner materializes template environments via npm.
type Provisioner struct {
	runner  exec.CommandRunner
	workDir string
}

// NewProvisioner creates a Provisioner rooted at workDir.
func NewProvisioner(runner exec.CommandRunner, workDir string) *Provisioner {
	return &Provisioner{runner: runner, workDir: workDir}
}

// Provision creates a fresh template directory with pkg installed.
// Any prior template state is cleared first, so reruns always start
// from a clean install. A failed install is fatal: nothing downstream
// can run without a usable environment.
func (p *Provisioner) Provision(ctx context.Context, pkg string) (*Template, error) {
	dir := filepath.Join(p.workDir, "playground_template")
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clear template directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create template directory: %w", err)
	}

	res, err := p.runner.Run(ctx, dir, "npm", "install", pkg)
	if err != nil {
		return nil, fmt.Errorf("npm install %s: %w", pkg, err)
	}
	if !res.Ok() {
		return nil, fmt.Errorf("npm install %s exited with code %d: %s", pkg, res.ExitCode, strings.TrimSpace(res.Output))
	}

	return &Template{dir: dir}, nil
}

// NewPlaygroundDir returns a run-scoped playground path under workDir.
// The uuid suffix keeps concurrent runs in a shared work directory from
// clobbering each other's scratch space.
func NewPlaygroundDir(workDir string) string {
	return filepath.Join(workDir, "playground-"+uuid.New().String()[:8])
}

// Reset restores the playground to an exact copy of the template,
// discarding anything a prior execution left behind.
func Reset(playground string, template *Template) error {
	if err := os.RemoveAll(playground); err != nil {
		return fmt.Errorf("clear playground: %w", err)
	}
	if err := copyTree(template.Dir(), playground); err != nil {
		return fmt.Errorf("copy template into playground: %w", err)
	}
	return nil
}

// Remove deletes the playground directory entirely.
func Remove(playground string) error {
	return os.RemoveAll(playground)
}

// copyTree recursively copies src into dst, preserving file modes and
// symlinks. npm trees contain symlinks under node_modules/.bin, so
// following them instead of recreating them would break installs.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
