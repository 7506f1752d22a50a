// ABOUTME: Bearer token persistence across CLI invocations
// ABOUTME: Stores the token as a JSON file in the user config directory

package client

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TokenStore persists the bearer token across process restarts.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a mode-0600 JSON file so a login
// survives until an explicit logout or a rejected token.
type FileTokenStore struct {
	path string
}

type tokenFile struct {
	AccessToken string `json:"access_token"`
}

// NewFileTokenStore creates a store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the persisted token. A missing file is not an error; it
// returns an empty token.
func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		// Corrupt token file, treat as logged out.
		return "", nil
	}
	return tf.AccessToken, nil
}

// Save writes the token, creating the parent directory when needed.
func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(tokenFile{AccessToken: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the token file.
func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
