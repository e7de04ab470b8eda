package git

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to diff text cut at the character budget.
const TruncationMarker = "\n[...OUTPUT TRUNCATED]"

// Status distinguishes "nothing staged" from "could not ask git".
type Status int

const (
	StatusOK Status = iota
	StatusNotInRepo
	StatusToolFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotInRepo:
		return "not in repository"
	case StatusToolFailed:
		return "git failed"
	default:
		return "unknown"
	}
}

// StagedResult is the outcome of listing staged paths.
// Paths is empty whenever Status is not StatusOK.
type StagedResult struct {
	Status Status
	Paths  []string
	Err    error
}

// FileStat is one numstat entry. Binary entries carry zero counts.
type FileStat struct {
	Path    string
	Added   int
	Removed int
	Binary  bool
}

// ParseError reports a numstat line that could not be understood.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse numstat line %q: %s", e.Line, e.Reason)
}

// ListStaged lists paths with staged changes. Git failures are folded into
// the result status rather than returned. Paths are read NUL-separated so
// git never C-quotes them.
func (c *Collector) ListStaged(ctx context.Context) StagedResult {
	out, err := c.git.RunGit(ctx, c.dir, "diff", "--cached", "--name-only", "-z")
	if err != nil {
		var cmdErr *CmdError
		if errors.As(err, &cmdErr) && cmdErr.NotInRepo() {
			return StagedResult{Status: StatusNotInRepo, Err: err}
		}
		return StagedResult{Status: StatusToolFailed, Err: err}
	}

	var paths []string
	for _, p := range strings.Split(out, "\x00") {
		if p == "" {
			continue
		}
		paths = append(paths, p)
	}
	return StagedResult{Status: StatusOK, Paths: paths}
}

// DiffStats returns added/removed counts for the given staged paths using a
// single git invocation.
func (c *Collector) DiffStats(ctx context.Context, paths []string) ([]FileStat, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	args := append([]string{"diff", "--cached", "--numstat", "-z", "--"}, paths...)
	out, err := c.git.RunGit(ctx, c.dir, args...)
	if err != nil {
		return nil, fmt.Errorf("numstat: %w", err)
	}
	return parseNumstat(out)
}

// parseNumstat reads `git diff --numstat -z` output. A plain entry is
// "added\tremoved\tpath\0". A rename leaves the path field empty and is
// followed by "old\0new\0"; the new path is kept.
func parseNumstat(out string) ([]FileStat, error) {
	var stats []FileStat
	tokens := strings.Split(out, "\x00")
	for i := 0; i < len(tokens); i++ {
		entry := tokens[i]
		if entry == "" {
			continue
		}
		fields := strings.SplitN(entry, "\t", 3)
		if len(fields) != 3 {
			return nil, &ParseError{Line: entry, Reason: fmt.Sprintf("expected 3 fields, got %d", len(fields))}
		}

		path := fields[2]
		if path == "" {
			if i+2 >= len(tokens) || tokens[i+2] == "" {
				return nil, &ParseError{Line: entry, Reason: "rename without source and destination"}
			}
			path = tokens[i+2]
			i += 2
		}

		fs := FileStat{Path: path}
		if fields[0] == "-" && fields[1] == "-" {
			fs.Binary = true
			stats = append(stats, fs)
			continue
		}

		added, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, &ParseError{Line: entry, Reason: "non-numeric added count"}
		}
		removed, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &ParseError{Line: entry, Reason: "non-numeric removed count"}
		}
		fs.Added = added
		fs.Removed = removed
		stats = append(stats, fs)
	}
	return stats, nil
}

// DiffText concatenates the staged diff of each path in order. Once the
// accumulated text exceeds budget no further files are read and the text is
// cut to budget with TruncationMarker appended. A file whose diff cannot be
// read is skipped. A budget of zero or less disables the limit.
func (c *Collector) DiffText(ctx context.Context, paths []string, budget int) (string, bool) {
	var b strings.Builder
	for _, p := range paths {
		if budget > 0 && b.Len() > budget {
			break
		}
		out, err := c.git.RunGit(ctx, c.dir, "diff", "--cached", "--", p)
		if err != nil {
			continue
		}
		b.WriteString(out)
	}

	text := b.String()
	if budget > 0 && len(text) > budget {
		return cut(text, budget) + TruncationMarker, true
	}
	return text, false
}

// cut shortens s to at most n bytes without splitting a UTF-8 sequence.
func cut(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
