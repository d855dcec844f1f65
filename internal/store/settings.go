package store

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// SettingsStore is a string key/value store persisted as a YAML map.
type SettingsStore struct {
	mu   sync.Mutex
	path string
}

type settingsData struct {
	Settings map[string]string `yaml:"settings"`
}

// NewSettingsStore creates a store backed by the YAML file at path. The
// file is created on the first write.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Get returns the value stored under key and whether it was present.
func (s *SettingsStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data.Settings[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *SettingsStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data.Settings[key] = value
	return s.save(data)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SettingsStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data.Settings[key]; !ok {
		return nil
	}
	delete(data.Settings, key)
	return s.save(data)
}

// All returns a copy of every stored setting.
func (s *SettingsStore) All(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return maps.Clone(data.Settings), nil
}

func (s *SettingsStore) load() (*settingsData, error) {
	var data settingsData
	if err := readYAML(s.path, &data); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if data.Settings == nil {
		data.Settings = make(map[string]string)
	}
	return &data, nil
}

func (s *SettingsStore) save(data *settingsData) error {
	if err := writeYAML(s.path, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
