package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
mode: global
model: llama3.2:3b
max_char: 8000
global_max_char: 50000
templates_dir: .git-police/templates
ollama:
  host: http://gpu-box:11434
  timeout: "90s"
gemini:
  model: gemini-2.5-pro
  timeout: "1m"
filter:
  exclude_files:
    - CHANGELOG.md
  exclude_extensions:
    - .snap
  ignore:
    - "vendor/*"
`

const validTOML = `
mode = "local"
model = "qwen2.5-coder:7b"
max_char = 6000

[ollama]
host = "127.0.0.1:11434"

[filter]
exclude_extensions = [".pb.go"]
`

func writeTestConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTestConfig(t, ".git-police.yaml", validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Mode != "global" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "global")
	}
	if cfg.Model != "llama3.2:3b" {
		t.Errorf("Model = %q, want %q", cfg.Model, "llama3.2:3b")
	}
	if cfg.MaxChar != 8000 || cfg.GlobalMaxChar != 50000 {
		t.Errorf("budgets = %d/%d, want 8000/50000", cfg.MaxChar, cfg.GlobalMaxChar)
	}
	if cfg.Ollama.Host != "http://gpu-box:11434" {
		t.Errorf("Ollama.Host = %q", cfg.Ollama.Host)
	}
	if cfg.OllamaTimeout() != 90*time.Second {
		t.Errorf("OllamaTimeout() = %v, want 90s", cfg.OllamaTimeout())
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if len(cfg.Filter.ExcludeFiles) != 1 || cfg.Filter.ExcludeFiles[0] != "CHANGELOG.md" {
		t.Errorf("Filter.ExcludeFiles = %v", cfg.Filter.ExcludeFiles)
	}
	if len(cfg.Filter.Ignore) != 1 || cfg.Filter.Ignore[0] != "vendor/*" {
		t.Errorf("Filter.Ignore = %v", cfg.Filter.Ignore)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Budget() != 50000 {
		t.Errorf("Budget() = %d, want 50000 in global mode", cfg.Budget())
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeTestConfig(t, ".git-police.toml", validTOML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Model != "qwen2.5-coder:7b" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.MaxChar != 6000 {
		t.Errorf("MaxChar = %d, want 6000", cfg.MaxChar)
	}
	if cfg.GlobalMaxChar != DefaultGlobalMaxChar {
		t.Errorf("GlobalMaxChar = %d, want default %d", cfg.GlobalMaxChar, DefaultGlobalMaxChar)
	}
	if cfg.Ollama.Host != "127.0.0.1:11434" {
		t.Errorf("Ollama.Host = %q", cfg.Ollama.Host)
	}
	if len(cfg.Filter.ExcludeExtensions) != 1 || cfg.Filter.ExcludeExtensions[0] != ".pb.go" {
		t.Errorf("Filter.ExcludeExtensions = %v", cfg.Filter.ExcludeExtensions)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTestConfig(t, "empty.yaml", "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Mode != DefaultMode || cfg.Model != DefaultModel {
		t.Errorf("mode/model = %q/%q, want defaults", cfg.Mode, cfg.Model)
	}
	if cfg.MaxChar != 12000 || cfg.GlobalMaxChar != 120000 {
		t.Errorf("budgets = %d/%d, want 12000/120000", cfg.MaxChar, cfg.GlobalMaxChar)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("defaults should validate, got %v", errs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTestConfig(t, "bad.yaml", "mode: [unclosed\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "YAML") {
		t.Fatalf("expected YAML parse error, got %v", err)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeTestConfig(t, "bad.toml", "mode = \n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "TOML") {
		t.Fatalf("expected TOML parse error, got %v", err)
	}
}

func TestLoadDefault_RepoFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", t.TempDir())
	repo := t.TempDir()
	if err := os.WriteFile(filepath.Join(repo, ".git-police.yml"), []byte("model: tiny\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDefault(repo)
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if cfg.Model != "tiny" {
		t.Errorf("Model = %q, want %q", cfg.Model, "tiny")
	}
}

func TestLoadDefault_NoFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty for defaults", cfg.Source)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
}

func TestLoadDefault_EnvPathWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	explicit := writeTestConfig(t, "custom.yaml", "model: explicit\n")
	t.Setenv(EnvConfigPath, explicit)

	repo := t.TempDir()
	if err := os.WriteFile(filepath.Join(repo, ".git-police.yaml"), []byte("model: repo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDefault(repo)
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if cfg.Model != "explicit" {
		t.Errorf("Model = %q, want %q", cfg.Model, "explicit")
	}
}

func TestLoadDefault_EnvPathMissing(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadDefault(""); err == nil {
		t.Fatal("expected error for missing GIT_POLICE_CONFIG file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvMode:        "GLOBAL",
		EnvModel:       "llama3",
		EnvMaxChar:     "4000",
		EnvAPIKey:      "k-123",
		EnvGeminiModel: "gemini-x",
		EnvOllamaHost:  "http://other:11434",
	}
	cfg := Default()
	if err := ApplyEnv(cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}

	if cfg.Mode != "global" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "global")
	}
	if cfg.Model != "llama3" || cfg.Gemini.Model != "gemini-x" {
		t.Errorf("models = %q/%q", cfg.Model, cfg.Gemini.Model)
	}
	if cfg.APIKey != "k-123" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Ollama.Host != "http://other:11434" {
		t.Errorf("Ollama.Host = %q", cfg.Ollama.Host)
	}
	if cfg.MaxChar != 4000 {
		t.Errorf("MaxChar = %d, want 4000", cfg.MaxChar)
	}
	if cfg.GlobalMaxChar != DefaultGlobalMaxChar {
		t.Errorf("GlobalMaxChar = %d, MAX_CHAR must not touch the remote budget", cfg.GlobalMaxChar)
	}
}

func TestApplyEnv_BadMaxChar(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, func(k string) string {
		if k == EnvMaxChar {
			return "lots"
		}
		return ""
	})
	if err == nil {
		t.Fatal("expected error for non-integer MAX_CHAR")
	}
	if cfg.MaxChar != DefaultMaxChar {
		t.Errorf("MaxChar = %d, want unchanged", cfg.MaxChar)
	}
}

func TestApplyEnv_EmptyLeavesConfig(t *testing.T) {
	cfg := Default()
	cfg.Model = "from-file"
	if err := ApplyEnv(cfg, func(string) string { return "" }); err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "from-file" {
		t.Errorf("Model = %q, want %q", cfg.Model, "from-file")
	}
}

func TestReadEnvFileVar(t *testing.T) {
	path := writeTestConfig(t, ".env", `# credentials
OTHER=1
export GEMINI_API_KEY="quoted-key"
`)
	if got := readEnvFileVar(path, "GEMINI_API_KEY"); got != "quoted-key" {
		t.Errorf("readEnvFileVar() = %q, want %q", got, "quoted-key")
	}
	if got := readEnvFileVar(path, "MISSING"); got != "" {
		t.Errorf("readEnvFileVar(MISSING) = %q, want empty", got)
	}
	if got := readEnvFileVar(filepath.Join(t.TempDir(), "none"), "OTHER"); got != "" {
		t.Errorf("readEnvFileVar(no file) = %q, want empty", got)
	}
}

func TestLoadAPIKey(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".git-police"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, ".git-police", ".env"), []byte("GEMINI_API_KEY=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	LoadAPIKey(cfg)
	if cfg.APIKey != "from-file" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "from-file")
	}

	cfg.APIKey = "from-env"
	LoadAPIKey(cfg)
	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q, environment must win", cfg.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad mode", func(c *Config) { c.Mode = "cloud" }, "mode"},
		{"empty model", func(c *Config) { c.Model = " " }, "model"},
		{"zero budget", func(c *Config) { c.MaxChar = 0 }, "max_char"},
		{"negative global budget", func(c *Config) { c.GlobalMaxChar = -1 }, "global_max_char"},
		{"bad timeout", func(c *Config) { c.Ollama.Timeout = "soon" }, "ollama.timeout"},
		{"relative base url", func(c *Config) { c.Gemini.BaseURL = "/v1" }, "gemini.base_url"},
		{"extension without dot", func(c *Config) { c.Filter.ExcludeExtensions = []string{"lock"} }, "filter.exclude_extensions[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := Validate(cfg)
			if len(errs) != 1 {
				t.Fatalf("Validate() = %v, want exactly one error", errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Field: "mode", Message: "bad"}
	if e.Error() != "mode: bad" {
		t.Errorf("Error() = %q", e.Error())
	}
}
