package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validModes = map[string]bool{
	"local":  true,
	"global": true,
}

// Validate checks a Config for semantic errors.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if !validModes[cfg.Mode] {
		errs = append(errs, ValidationError{Field: "mode", Message: fmt.Sprintf("%q is not valid (expected local or global)", cfg.Mode)})
	}
	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, ValidationError{Field: "model", Message: "is required"})
	}
	if cfg.MaxChar <= 0 {
		errs = append(errs, ValidationError{Field: "max_char", Message: "must be positive"})
	}
	if cfg.GlobalMaxChar <= 0 {
		errs = append(errs, ValidationError{Field: "global_max_char", Message: "must be positive"})
	}
	if strings.TrimSpace(cfg.Gemini.Model) == "" {
		errs = append(errs, ValidationError{Field: "gemini.model", Message: "is required"})
	}

	if cfg.Ollama.Host != "" {
		host := cfg.Ollama.Host
		if !strings.Contains(host, "://") {
			host = "http://" + host
		}
		if u, err := url.Parse(host); err != nil || u.Host == "" {
			errs = append(errs, ValidationError{Field: "ollama.host", Message: fmt.Sprintf("%q is not a valid host", cfg.Ollama.Host)})
		}
	}
	if cfg.Gemini.BaseURL != "" {
		if u, err := url.Parse(cfg.Gemini.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{Field: "gemini.base_url", Message: fmt.Sprintf("%q is not an absolute URL", cfg.Gemini.BaseURL)})
		}
	}

	timeouts := []struct{ field, value string }{
		{"ollama.timeout", cfg.Ollama.Timeout},
		{"gemini.timeout", cfg.Gemini.Timeout},
	}
	for _, t := range timeouts {
		if t.value == "" {
			continue
		}
		if d, err := time.ParseDuration(t.value); err != nil || d <= 0 {
			errs = append(errs, ValidationError{Field: t.field, Message: fmt.Sprintf("invalid duration %q", t.value)})
		}
	}

	for i, ext := range cfg.Filter.ExcludeExtensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("filter.exclude_extensions[%d]", i),
				Message: fmt.Sprintf("%q must start with a dot", ext),
			})
		}
	}

	return errs
}

// OllamaTimeout returns the parsed local backend timeout, or 0 for none.
func (c *Config) OllamaTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Ollama.Timeout)
	return d
}

// GeminiTimeout returns the parsed remote backend timeout, or 0 for none.
func (c *Config) GeminiTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Gemini.Timeout)
	return d
}
