// Package config handles loading and parsing the Rosarium configuration file.
//
// # Overview
//
// This package reads a small TOML file to discover where the rose-garden
// API lives and where to keep the session token and logs. Everything has a
// working default, so a missing config file is not an error.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/rosarium/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/rosarium/config.toml
//   - API base: http://127.0.0.1:8000/api
//   - Token file: ~/.config/rosarium/token.json
//   - Log directory: ~/.local/state/rosarium
//
// # Configuration Fields
//
//   - api_base: base URL of the REST API, including any path prefix
//   - token_path: where the persisted session token pair is written
//   - log_dir: directory for the application log file
//
// Paths support ~ expansion to the user's home directory.
package config
