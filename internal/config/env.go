package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables that override the config file.
const (
	EnvMode        = "GIT_POLICE_MODE"
	EnvModel       = "GIT_POLICE_MODEL"
	EnvMaxChar     = "MAX_CHAR"
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvGeminiModel = "GIT_POLICE_GEMINI_MODEL"
	EnvOllamaHost  = "OLLAMA_HOST"
)

// ApplyEnv overlays environment variables onto cfg. getenv is usually
// os.Getenv. MAX_CHAR bounds the local diff only; the remote budget comes
// from global_max_char. A malformed MAX_CHAR is reported and leaves the
// budget untouched.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvMode)); v != "" {
		cfg.Mode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvModel)); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(getenv(EnvGeminiModel)); v != "" {
		cfg.Gemini.Model = v
	}
	if v := strings.TrimSpace(getenv(EnvOllamaHost)); v != "" {
		cfg.Ollama.Host = v
	}
	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		cfg.APIKey = v
	}

	if v := strings.TrimSpace(getenv(EnvMaxChar)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: not an integer", EnvMaxChar, v)
		}
		cfg.MaxChar = n
	}
	return nil
}

// LoadAPIKey fills cfg.APIKey from ~/.git-police/.env when the environment
// did not provide one.
func LoadAPIKey(cfg *Config) {
	if cfg.APIKey != "" {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	cfg.APIKey = readEnvFileVar(filepath.Join(home, ".git-police", ".env"), EnvAPIKey)
}

// readEnvFileVar reads the value of a specific key from a .env file.
// Supports both "KEY=VALUE" and "export KEY=VALUE" forms, with optional
// surrounding quotes. Returns "" if the file or key is not found.
func readEnvFileVar(path, key string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(k) != key {
			continue
		}
		v = strings.TrimSpace(v)
		if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
			v = v[1 : len(v)-1]
		}
		return v
	}
	return ""
}
