// Package profile resolves user profiles used to personalize the first turn
// of a conversation. Profiles are optional; a missing profile or a broken
// store never fails a chat request.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const profilesFile = "profiles.json"

// Profile holds the details shown in a first-turn greeting.
type Profile struct {
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	Headline  string   `json:"headline,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// Store resolves profiles by user ID. The second return value reports whether
// a profile exists for the user.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, bool, error)
}

// FileStore reads profiles from a JSON file under the data directory. The file
// is loaded lazily on first use and cached; admin-side edits take effect on
// restart.
type FileStore struct {
	path string

	mu       sync.Mutex
	loaded   bool
	profiles map[string]Profile
}

// NewFileStore creates a profile store backed by dataDir/profiles.json.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{path: filepath.Join(dataDir, profilesFile)}
}

// Get returns the profile for userID, if any.
func (s *FileStore) Get(ctx context.Context, userID string) (*Profile, bool, error) {
	if userID == "" {
		return nil, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.load(); err != nil {
			return nil, false, err
		}
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (s *FileStore) load() error {
	s.profiles = make(map[string]Profile)
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read profiles: %w", err)
	}
	var list []Profile
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse profiles: %w", err)
	}
	for _, p := range list {
		if p.UserID != "" {
			s.profiles[p.UserID] = p
		}
	}
	s.loaded = true
	return nil
}
