package config

// Config is the git-police configuration, parsed from YAML or TOML.
type Config struct {
	// Mode is "local" (Ollama) or "global" (Gemini).
	Mode string `yaml:"mode" toml:"mode"`
	// Model is the local model id.
	Model string `yaml:"model" toml:"model"`
	// MaxChar bounds the diff sent to the local model.
	MaxChar int `yaml:"max_char" toml:"max_char"`
	// GlobalMaxChar bounds the diff sent to the remote model.
	GlobalMaxChar int `yaml:"global_max_char" toml:"global_max_char"`
	// TemplatesDir holds prompt template overrides, relative to the repo root.
	TemplatesDir string `yaml:"templates_dir,omitempty" toml:"templates_dir,omitempty"`

	Ollama OllamaConfig `yaml:"ollama" toml:"ollama"`
	Gemini GeminiConfig `yaml:"gemini" toml:"gemini"`
	Filter FilterConfig `yaml:"filter" toml:"filter"`

	// APIKey is the Gemini credential. Never read from or written to config files.
	APIKey string `yaml:"-" toml:"-"`
	// Source is the file the config was loaded from, empty for defaults.
	Source string `yaml:"-" toml:"-"`
}

// OllamaConfig configures the local backend.
type OllamaConfig struct {
	Host    string `yaml:"host" toml:"host"`
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// GeminiConfig configures the remote backend.
type GeminiConfig struct {
	Model   string `yaml:"model" toml:"model"`
	BaseURL string `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// FilterConfig extends the built-in relevance exclusions.
type FilterConfig struct {
	ExcludeFiles      []string `yaml:"exclude_files,omitempty" toml:"exclude_files,omitempty"`
	ExcludeExtensions []string `yaml:"exclude_extensions,omitempty" toml:"exclude_extensions,omitempty"`
	Ignore            []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`
}

// Defaults.
const (
	DefaultMode          = "local"
	DefaultModel         = "phi4-mini:latest"
	DefaultMaxChar       = 12000
	DefaultGlobalMaxChar = 120000
	DefaultOllamaHost    = "http://localhost:11434"
	DefaultOllamaTimeout = "5m"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGeminiTimeout = "2m"
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Budget returns the diff character budget for the configured mode.
func (c *Config) Budget() int {
	if c.Mode == "global" {
		return c.GlobalMaxChar
	}
	return c.MaxChar
}
