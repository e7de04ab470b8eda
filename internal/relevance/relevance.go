// Package relevance decides which staged files are worth asking about.
package relevance

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultExcludedFiles are basenames that never carry reviewable logic.
var DefaultExcludedFiles = []string{
	"LICENSE", "Makefile", "Dockerfile", "requirements.txt",
}

// DefaultExcludedExtensions are suffixes for docs, images, lockfiles,
// structured config and ignore files.
var DefaultExcludedExtensions = []string{
	".md", ".txt", ".rst", ".adoc",
	".png", ".jpg", ".jpeg", ".svg", ".ico",
	".lock", ".json", ".yaml", ".yml", ".toml", ".ini",
	".gitignore", ".dockerignore",
}

// Filter drops paths by exact basename, suffix or glob.
type Filter struct {
	files map[string]bool
	exts  []string
	globs []string
}

// New creates a Filter with the default exclusions plus the given extras.
func New(extraFiles, extraExts, ignoreGlobs []string) *Filter {
	f := &Filter{files: make(map[string]bool)}
	for _, name := range append(append([]string{}, DefaultExcludedFiles...), extraFiles...) {
		f.files[name] = true
	}
	for _, ext := range append(append([]string{}, DefaultExcludedExtensions...), extraExts...) {
		ext = strings.ToLower(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.exts = append(f.exts, ext)
	}
	f.globs = ignoreGlobs
	return f
}

// Default returns a Filter with only the built-in exclusions.
func Default() *Filter {
	return New(nil, nil, nil)
}

// Filter returns the relevant subset of paths, preserving order.
func (f *Filter) Filter(paths []string) []string {
	var kept []string
	for _, p := range paths {
		if f.Excluded(p) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// Excluded reports whether p should be left out of the review.
func (f *Filter) Excluded(p string) bool {
	base := path.Base(filepath.ToSlash(p))
	if f.files[base] {
		return true
	}
	lower := strings.ToLower(base)
	for _, ext := range f.exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, pattern := range f.globs {
		if matched, _ := filepath.Match(pattern, p); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
