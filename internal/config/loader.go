package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names an explicit config file, checked before any other location.
const EnvConfigPath = "GIT_POLICE_CONFIG"

// RepoConfigNames are the per-repository config files, in search order.
var RepoConfigNames = []string{".git-police.yaml", ".git-police.yml", ".git-police.toml"}

// Load reads and parses a configuration file. The format follows the file
// extension: .toml is parsed as TOML, everything else as YAML. Defaults are
// applied to anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config TOML: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyDefaults(&cfg)
	cfg.Source = path
	return &cfg, nil
}

// Candidates returns the config search list for a repository root.
// Search order: $GIT_POLICE_CONFIG, <repo>/.git-police.{yaml,yml,toml},
// ~/.git-police/config.yaml.
func Candidates(repoRoot string) []string {
	var candidates []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		candidates = append(candidates, p)
	}
	if repoRoot != "" {
		for _, name := range RepoConfigNames {
			candidates = append(candidates, filepath.Join(repoRoot, name))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".git-police", "config.yaml"))
	}
	return candidates
}

// LoadDefault loads the first config file found in the standard locations.
// Unlike an explicit Load, a missing file is not an error: the built-in
// defaults are returned instead. An explicitly named $GIT_POLICE_CONFIG that
// does not exist is reported.
func LoadDefault(repoRoot string) (*Config, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%s=%s: %w", EnvConfigPath, p, err)
		}
	}
	for _, path := range Candidates(repoRoot) {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// applyDefaults fills every unset field with its built-in value.
func applyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxChar == 0 {
		cfg.MaxChar = DefaultMaxChar
	}
	if cfg.GlobalMaxChar == 0 {
		cfg.GlobalMaxChar = DefaultGlobalMaxChar
	}
	if cfg.Ollama.Host == "" {
		cfg.Ollama.Host = DefaultOllamaHost
	}
	if cfg.Ollama.Timeout == "" {
		cfg.Ollama.Timeout = DefaultOllamaTimeout
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultGeminiModel
	}
	if cfg.Gemini.Timeout == "" {
		cfg.Gemini.Timeout = DefaultGeminiTimeout
	}
}
