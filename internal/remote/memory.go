package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/goverland-labs/goverland-profile-storage/internal/metrics"
)

// MemoryStore keeps records in process. Useful for local runs and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage

	reads int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]json.RawMessage),
	}
}

func (s *MemoryStore) Set(_ context.Context, path string, value any) (err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("memory", "set", err, start)
	}(time.Now())

	if err = validatePath(path); err != nil {
		return err
	}

	fields, err := toFields(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[path] = fields

	return nil
}

func (s *MemoryStore) Update(_ context.Context, path string, fields map[string]any) (err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("memory", "update", err, start)
	}(time.Now())

	if err = validatePath(path); err != nil {
		return err
	}

	patch, err := toFields(fields)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[path]
	if !ok {
		current = make(map[string]json.RawMessage, len(patch))
	}
	maps.Copy(current, patch)
	s.data[path] = current

	return nil
}

func (s *MemoryStore) Get(_ context.Context, path string) (raw json.RawMessage, exists bool, err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("memory", "get", err, start)
	}(time.Now())

	if err = validatePath(path); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++

	fields, ok := s.data[path]
	if !ok {
		return nil, false, nil
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return nil, false, fmt.Errorf("marshal %s: %w", path, err)
	}

	return raw, true, nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) (list map[string]json.RawMessage, err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("memory", "list", err, start)
	}(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	list = make(map[string]json.RawMessage)
	for path, fields := range s.data {
		if _, ok := ChildID(prefix, path); !ok {
			continue
		}

		raw, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", path, err)
		}
		list[path] = raw
	}

	return list, nil
}

// Reads returns how many point reads were served.
func (s *MemoryStore) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reads
}
