package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the persistent app configuration, kept in a config.json in
// the data directory. Saves merge into the existing content so partial
// updates (window geometry, a single toggle) never wipe other keys.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]any
}

func NewStore(dataDir string) (*Store, error) {
	s := &Store{
		path: filepath.Join(dataDir, "config.json"),
		data: map[string]any{},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// All returns a copy of the full configuration map.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Save merges updates into the current configuration and writes it to
// disk.
func (s *Store) Save(updates map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range updates {
		s.data[k] = v
	}

	b, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DisabledFields returns the set of field keys the user switched off.
// It satisfies the composition engine's SettingsSource. Keys absent
// from the config count as enabled.
func (s *Store) DisabledFields() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]bool{}
	raw, ok := s.data["disabledFields"].([]any)
	if !ok {
		return out
	}
	for _, v := range raw {
		if key, ok := v.(string); ok {
			out[key] = true
		}
	}
	return out
}
