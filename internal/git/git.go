package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner provides git command execution. Interface for testing.
type Runner interface {
	RunGit(ctx context.Context, dir string, args ...string) (string, error)
}

// CmdError is returned by ExecGit when git exits non-zero or cannot be started.
type CmdError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CmdError) Error() string {
	return fmt.Sprintf("git %s: %s: %v", strings.Join(e.Args, " "), e.Stderr, e.Err)
}

func (e *CmdError) Unwrap() error { return e.Err }

// NotInRepo reports whether git refused to run because dir is not inside a repository.
func (e *CmdError) NotInRepo() bool {
	return strings.Contains(strings.ToLower(e.Stderr), "not a git repository")
}

// ExecGit implements Runner by calling the git binary.
// Stdout is returned untrimmed so diff text can be concatenated verbatim.
type ExecGit struct{}

func (g *ExecGit) RunGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &CmdError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.String(), nil
}

// Collector answers staged-changes queries for the repository containing dir.
type Collector struct {
	git Runner
	dir string
}

// NewCollector creates a Collector. An empty dir means the process working directory.
func NewCollector(git Runner, dir string) *Collector {
	return &Collector{git: git, dir: dir}
}

// RepoRoot returns the top-level directory of the repository.
func (c *Collector) RepoRoot(ctx context.Context) (string, error) {
	out, err := c.git.RunGit(ctx, c.dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HooksDir returns the directory git reads hooks from. It honours
// core.hooksPath and linked worktrees.
func (c *Collector) HooksDir(ctx context.Context) (string, error) {
	out, err := c.git.RunGit(ctx, c.dir, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	p := strings.TrimSpace(out)
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.dir, p)
	}
	return p, nil
}
