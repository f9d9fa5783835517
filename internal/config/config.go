package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields Rosarium needs to reach the garden API.
type Config struct {
	APIBase   string
	TokenPath string
	LogDir    string
}

const (
	defaultConfigPath = "~/.config/rosarium/config.toml"
	defaultAPIBase    = "http://127.0.0.1:8000/api"
	defaultTokenPath  = "~/.config/rosarium/token.json"
	defaultLogDir     = "~/.local/state/rosarium"
)

// Load locates and parses the config, falling back to defaults when the
// file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase   string `toml:"api_base"`
		TokenPath string `toml:"token_path"`
		LogDir    string `toml:"log_dir"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.TokenPath); v != "" {
		cfg.TokenPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIBase:   defaultAPIBase,
		TokenPath: mustExpand(defaultTokenPath),
		LogDir:    mustExpand(defaultLogDir),
	}
}

// LogPath returns the application log file path.
func (c Config) LogPath() string {
	return filepath.Join(c.LogDir, "rosarium.log")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
