// Package hook installs and removes the git-police pre-commit hook.
package hook

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Name is the hook file written into the hooks directory.
const Name = "pre-commit"

// Marker identifies a hook written by git-police.
const Marker = "# installed by git-police"

// ErrForeignHook is returned when a pre-commit hook exists that git-police
// did not write.
var ErrForeignHook = errors.New("a pre-commit hook not written by git-police already exists")

// Options configures Install.
type Options struct {
	// Binary is the git-police executable the hook runs. Empty resolves the
	// running executable.
	Binary string
	// Force overwrites a foreign hook, keeping a .bak copy of it.
	Force bool
}

// Result describes what Install did.
type Result struct {
	Path string
	// Backup is the path of the saved foreign hook, if one was replaced.
	Backup string
	// Replaced is true when an earlier git-police hook was rewritten.
	Replaced bool
}

// Script renders the hook script for binary.
func Script(binary string) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString(Marker + "\n")
	b.WriteString("# Reattach the terminal so the interrogation can read an answer.\n")
	b.WriteString("if [ -t 1 ] && [ -r /dev/tty ]; then\n")
	b.WriteString("\texec < /dev/tty\n")
	b.WriteString("fi\n")
	b.WriteString("echo\n")
	b.WriteString("echo \"--- RUNNING GIT POLICE INTERROGATION ---\"\n")
	fmt.Fprintf(&b, "%s patrol \"$@\"\n", shellQuote(binary))
	b.WriteString("exit $?\n")
	return b.String()
}

// shellQuote single-quotes s for /bin/sh.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '/' || r == '.' || r == '-' || r == '_' || r == ':' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// IsOurs reports whether the hook at path was written by git-police.
func IsOurs(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Contains(data, []byte(Marker)), nil
}

// Install writes the pre-commit hook into hooksDir.
func Install(hooksDir string, opts Options) (Result, error) {
	binary := opts.Binary
	if binary == "" {
		binary = resolveBinary()
	}

	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create hooks dir: %w", err)
	}

	res := Result{Path: filepath.Join(hooksDir, Name)}
	if _, err := os.Stat(res.Path); err == nil {
		ours, err := IsOurs(res.Path)
		if err != nil {
			return Result{}, fmt.Errorf("read existing hook: %w", err)
		}
		switch {
		case ours:
			res.Replaced = true
		case !opts.Force:
			return Result{}, fmt.Errorf("%s: %w (use --force to replace it)", res.Path, ErrForeignHook)
		default:
			res.Backup = res.Path + ".bak"
			if err := os.Rename(res.Path, res.Backup); err != nil {
				return Result{}, fmt.Errorf("back up existing hook: %w", err)
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Result{}, fmt.Errorf("stat hook: %w", err)
	}

	if err := os.WriteFile(res.Path, []byte(Script(binary)), 0o755); err != nil {
		return Result{}, fmt.Errorf("write hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(res.Path, 0o755); err != nil {
		return Result{}, fmt.Errorf("chmod hook: %w", err)
	}
	return res, nil
}

// Uninstall removes the pre-commit hook from hooksDir if git-police wrote
// it. A backup left by a forced install is restored. It returns false when
// there was no hook to remove.
func Uninstall(hooksDir string) (bool, error) {
	path := filepath.Join(hooksDir, Name)
	ours, err := IsOurs(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read hook: %w", err)
	}
	if !ours {
		return false, fmt.Errorf("%s: %w", path, ErrForeignHook)
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("remove hook: %w", err)
	}
	backup := path + ".bak"
	if _, err := os.Stat(backup); err == nil {
		if err := os.Rename(backup, path); err != nil {
			return true, fmt.Errorf("restore backup hook: %w", err)
		}
	}
	return true, nil
}

// resolveBinary returns the absolute path of the running git-police
// executable, falling back to "git-police" on PATH.
func resolveBinary() string {
	if exe, err := os.Executable(); err == nil {
		if abs, err := filepath.EvalSymlinks(exe); err == nil {
			return abs
		}
		return exe
	}
	return "git-police"
}
