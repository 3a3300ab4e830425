// Package registry resolves npm package metadata through the npm CLI.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mieschendahl/JSGenerator/internal/exec"
)

// Client looks up package metadata via `npm view`.
type Client struct {
	runner exec.CommandRunner
}

// NewClient creates a registry client using the given command runner.
func NewClient(runner exec.CommandRunner) *Client {
	return &Client{runner: runner}
}

// RepositoryURL returns the normalized GitHub repository URL for the
// given package. A package without a resolvable GitHub repository is an
// error: the pipeline cannot proceed without its documentation source.
func (c *Client) RepositoryURL(ctx context.Context, pkg string) (string, error) {
	res, err := c.runner.Run(ctx, "", "npm", "view", pkg, "repository", "--json")
	if err != nil {
		return "", fmt.Errorf("npm view %s: %w", pkg, err)
	}
	if !res.Ok() {
		return "", fmt.Errorf("npm view %s exited with code %d: %s", pkg, res.ExitCode, strings.TrimSpace(res.Output))
	}

	url, err := parseRepositoryField(res.Output)
	if err != nil {
		return "", fmt.Errorf("package %s: %w", pkg, err)
	}
	return normalizeGitHubURL(url)
}

// parseRepositoryField extracts the URL from npm's repository JSON,
// which is either an object with a "url" field or a bare string.
func parseRepositoryField(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("no repository metadata")
	}

	var field interface{}
	if err := json.Unmarshal([]byte(raw), &field); err != nil {
		return "", fmt.Errorf("parse repository metadata: %w", err)
	}

	switch v := field.(type) {
	case map[string]interface{}:
		if url, ok := v["url"].(string); ok && url != "" {
			return url, nil
		}
		return "", fmt.Errorf("repository metadata has no url")
	case string:
		if v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no repository metadata")
}

// normalizeGitHubURL turns the many shapes npm records
// (git+https://github.com/u/r.git, git://github.com/u/r, ...) into a
// plain https://github.com/u/r URL.
func normalizeGitHubURL(url string) (string, error) {
	idx := strings.Index(url, "github.com")
	if idx < 0 {
		return "", fmt.Errorf("repository %q is not hosted on GitHub", url)
	}
	path := url[idx+len("github.com"):]
	path = strings.TrimSuffix(path, "/")
	if i := strings.Index(path, ".git"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, ":")
	if path == "" || path == "/" {
		return "", fmt.Errorf("repository %q has no owner/name path", url)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "https://github.com" + path, nil
}
