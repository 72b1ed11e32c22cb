package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// sessionFileName holds the persisted session. The file can contain
// bearer tokens and the service principal client secret, so it is
// written 0600 inside a 0700 directory.
const sessionFileName = "session.json"

// SessionStore is a file-based implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSessionStore creates a session store under configDir.
// If configDir is empty, defaults to ~/.fabricctl.
func NewSessionStore(configDir string) (*SessionStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, DefaultConfigDirName)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SessionStore{
		filePath: filepath.Join(configDir, sessionFileName),
	}, nil
}

// Save replaces the persisted session state.
func (s *SessionStore) Save(_ context.Context, state *domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load returns the persisted state, or domain.ErrNotFound when no
// session has been saved.
func (s *SessionStore) Load(_ context.Context) (*domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &state, nil
}

// Clear removes any persisted state.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Path returns the session file path.
func (s *SessionStore) Path() string {
	return s.filePath
}
