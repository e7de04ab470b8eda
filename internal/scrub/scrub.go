// Package scrub redacts personal data from diff text before it is sent to a
// remote model. It is best effort: false positives and misses are expected,
// and it must not be relied on as a security boundary.
package scrub

import "regexp"

// Rule replaces every match of Pattern with Replacement.
// Replacement may reference capture groups ($1, ${name}).
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Placeholders used by the default rules.
const (
	Email       = "{{EMAIL}}"
	Name        = "{{NAME}}"
	Phone       = "{{PHONE}}"
	IP          = "{{IP}}"
	Secret      = "{{SECRET}}"
	Credentials = "{{CREDENTIALS}}"
)

// Order matters: identities and URL credentials must be handled before the
// bare email rule consumes their address part.
var defaultRules = []Rule{
	{
		Name:        "url-credentials",
		Pattern:     regexp.MustCompile(`(\b[a-zA-Z][a-zA-Z0-9+.-]*://)[^/\s:@]+:[^/\s@]+@`),
		Replacement: "${1}" + Credentials + "@",
	},
	{
		Name:        "trailer",
		Pattern:     regexp.MustCompile(`(?i)\b(signed-off-by|co-authored-by|reviewed-by|acked-by|reported-by|author|committer|maintainer)(\s*[:=]\s*)([^\n<"']*[^\s<"'])`),
		Replacement: "${1}${2}" + Name,
	},
	{
		Name:        "identity",
		Pattern:     regexp.MustCompile(`\b\p{Lu}[\p{L}'-]+(?:[ \t]+\p{Lu}[\p{L}'-]+)+(\s*<[^<>\s]+@[^<>\s]+>)`),
		Replacement: Name + "${1}",
	},
	{
		Name:        "email",
		Pattern:     regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
		Replacement: Email,
	},
	{
		Name:        "secret-assignment",
		Pattern:     regexp.MustCompile(`(?i)\b((?:api[_-]?key|secret|token|password|passwd|pwd)\w*["']?\s*(?::=|[:=])\s*)(["'])[^"'\n]{4,}(["'])`),
		Replacement: "${1}${2}" + Secret + "${3}",
	},
	{
		Name:        "ipv4",
		Pattern:     regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`),
		Replacement: IP,
	},
	{
		Name:        "phone",
		Pattern:     regexp.MustCompile(`(?:\+\d{1,3}[ .-]?)?(?:\(\d{3}\)|\b\d{3})[ .-]\d{3}[ .-]\d{4}\b`),
		Replacement: Phone,
	},
}

// Scrubber applies an ordered rule set.
type Scrubber struct {
	rules []Rule
}

// New creates a Scrubber with the default rules followed by extra.
func New(extra ...Rule) *Scrubber {
	rules := append(append([]Rule(nil), defaultRules...), extra...)
	return &Scrubber{rules: rules}
}

// Scrub returns text with every rule applied in order.
func (s *Scrubber) Scrub(text string) string {
	for _, r := range s.rules {
		text = r.Pattern.ReplaceAllString(text, r.Replacement)
	}
	return text
}

// Rules returns the names of the active rules.
func (s *Scrubber) Rules() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name
	}
	return names
}
