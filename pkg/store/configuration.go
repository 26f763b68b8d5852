package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/openmhealth/shimmock/pkg/models"
)

var _ models.ConfigurationStore = &MemoryConfigurationStore{}

// MemoryConfigurationStore keeps the current configuration in memory as compacted JSON.
// Replace is a full swap: nothing of the previous document survives.
type MemoryConfigurationStore struct {
	mu      sync.RWMutex
	initial json.RawMessage
	current json.RawMessage
}

// NewMemoryConfigurationStore creates a store seeded with initial, which Reset restores.
func NewMemoryConfigurationStore(initial models.Configuration) (*MemoryConfigurationStore, error) {
	raw, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initial configuration: %w", err)
	}
	return &MemoryConfigurationStore{
		initial: raw,
		current: raw,
	}, nil
}

func (s *MemoryConfigurationStore) Get(_ context.Context) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneRaw(s.current), nil
}

// Replace stores raw as the new configuration. Invalid JSON is rejected with
// models.ErrInvalidJSON and the stored value is left as it was.
func (s *MemoryConfigurationStore) Replace(_ context.Context, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return fmt.Errorf("%w: %w", models.ErrInvalidJSON, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = buf.Bytes()

	return nil
}

func (s *MemoryConfigurationStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.initial

	return nil
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), raw...)
}
