package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// tokenFile is the on-disk shape of the persisted session.
type tokenFile struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// FileTokens holds the access/refresh pair and mirrors every change to a
// JSON file so the session survives restarts. It implements api.TokenStore.
type FileTokens struct {
	mu      sync.RWMutex
	path    string
	access  string
	refresh string
}

// LoadTokens builds a FileTokens rehydrated from path. A missing file is
// not an error; the store simply starts empty.
func LoadTokens(path string) (*FileTokens, error) {
	t := &FileTokens{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		// A corrupt token file means a fresh login, not a crash.
		return t, nil
	}
	t.access = tf.Access
	t.refresh = tf.Refresh
	return t, nil
}

// AccessToken returns the current access token, empty when logged out.
func (t *FileTokens) AccessToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.access
}

// RefreshToken returns the current refresh token.
func (t *FileTokens) RefreshToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.refresh
}

// SetTokens swaps in a new pair and persists it. Called on login and on
// every silent refresh.
func (t *FileTokens) SetTokens(access, refresh string) error {
	t.mu.Lock()
	t.access = access
	t.refresh = refresh
	path := t.path
	t.mu.Unlock()

	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.MarshalIndent(tokenFile{Access: access, Refresh: refresh}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear drops the pair and removes the file. Always succeeds locally.
func (t *FileTokens) Clear() {
	t.mu.Lock()
	t.access = ""
	t.refresh = ""
	path := t.path
	t.mu.Unlock()

	if path != "" {
		_ = os.Remove(path)
	}
}
