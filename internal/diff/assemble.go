// Package diff builds the bounded diff blob sent to the model.
package diff

import (
	"context"
	"sort"
	"strings"

	"github.com/lucasnoah/gitpolice/internal/git"
)

// Source provides staged diff stats and text. Implemented by *git.Collector.
type Source interface {
	DiffStats(ctx context.Context, paths []string) ([]git.FileStat, error)
	DiffText(ctx context.Context, paths []string, budget int) (string, bool)
}

// Blob is the concatenated diff for one run.
type Blob struct {
	Text      string
	Truncated bool
	// Files is the order the diffs were concatenated in.
	Files []string
	// OrderErr is set when numstat output could not be parsed; Files then
	// keeps the caller's order.
	OrderErr error
}

// Empty reports whether the blob has no diff content.
func (b Blob) Empty() bool {
	return strings.TrimSpace(b.Text) == ""
}

// Assemble orders paths by lines added (most first) and concatenates their
// diffs up to budget characters.
func Assemble(ctx context.Context, src Source, paths []string, budget int) Blob {
	var blob Blob

	stats, err := src.DiffStats(ctx, paths)
	if err != nil {
		blob.OrderErr = err
		blob.Files = append([]string(nil), paths...)
	} else {
		blob.Files = Order(stats)
	}

	blob.Text, blob.Truncated = src.DiffText(ctx, blob.Files, budget)
	return blob
}

// Order sorts stats by lines added, descending. Binary entries go last and
// ties keep their input order.
func Order(stats []git.FileStat) []string {
	sorted := append([]git.FileStat(nil), stats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Binary != b.Binary {
			return !a.Binary
		}
		return a.Added > b.Added
	})

	paths := make([]string, len(sorted))
	for i, s := range sorted {
		paths[i] = s.Path
	}
	return paths
}
