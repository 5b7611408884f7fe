package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jabirmahmud0/techhive-client/pkg/config"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
)

// credentialFile is the single well-known durable-storage key holding the
// serialized session identity.
const credentialFile = "userInfo.json"

// CredStore persists the session identity on the local device so the
// client starts logged in after a restart.
type CredStore struct {
	dir string
}

// NewCredStore builds a store rooted at the configured directory.
func NewCredStore(cfg config.StorageConfig) *CredStore {
	dir := cfg.Dir
	if dir == "" {
		dir = ".techhive"
	}
	return &CredStore{dir: dir}
}

func (s *CredStore) path() string {
	return filepath.Join(s.dir, credentialFile)
}

// Load reads the stored identity. A missing file means no session and is
// not an error.
func (s *CredStore) Load() (*types.User, error) {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var user types.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if user.Token == "" {
		return nil, nil
	}
	return &user, nil
}

// Save writes the identity with owner-only permissions.
func (s *CredStore) Save(user *types.User) error {
	if user == nil {
		return fmt.Errorf("cannot save nil user")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path(), raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored identity; a missing file is fine.
func (s *CredStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
