package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	vaultapi "github.com/hashicorp/vault/api"

	"github.com/goverland-labs/goverland-profile-storage/internal/metrics"
)

const (
	keyData = "data"
	keyKeys = "keys"
)

var ErrUnableToCastData = errors.New("failed to cast data")

type vaultReadWriter interface {
	ReadWithContext(ctx context.Context, path string) (*vaultapi.Secret, error)
	WriteWithContext(ctx context.Context, path string, data map[string]interface{}) (*vaultapi.Secret, error)
	ListWithContext(ctx context.Context, path string) (*vaultapi.Secret, error)
}

// VaultStore keeps every path as a kv v2 secret under the configured mount.
// Update is read-merge-write and is not atomic: the last writer wins.
type VaultStore struct {
	cli          vaultReadWriter
	dataPath     string
	metadataPath string
}

func NewVaultStore(cli vaultReadWriter, dataPath, metadataPath string) *VaultStore {
	return &VaultStore{
		cli:          cli,
		dataPath:     dataPath,
		metadataPath: metadataPath,
	}
}

func (s *VaultStore) getPath(path string) string {
	return fmt.Sprintf("%s%s", s.dataPath, path)
}

func (s *VaultStore) Set(ctx context.Context, path string, value any) (err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("vault", "set", err, start)
	}(time.Now())

	if err = validatePath(path); err != nil {
		return err
	}

	data, err := toPlainMap(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	if err = s.write(ctx, path, data); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	return nil
}

func (s *VaultStore) Update(ctx context.Context, path string, fields map[string]any) (err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("vault", "update", err, start)
	}(time.Now())

	if err = validatePath(path); err != nil {
		return err
	}

	patch, err := toPlainMap(fields)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	current, _, err := s.read(ctx, path)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	if current == nil {
		current = make(map[string]interface{}, len(patch))
	}
	for k, v := range patch {
		current[k] = v
	}

	if err = s.write(ctx, path, current); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	return nil
}

func (s *VaultStore) Get(ctx context.Context, path string) (raw json.RawMessage, exists bool, err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("vault", "get", err, start)
	}(time.Now())

	if err = validatePath(path); err != nil {
		return nil, false, err
	}

	data, ok, err := s.read(ctx, path)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", path, err)
	}

	if !ok {
		return nil, false, nil
	}

	raw, err = json.Marshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("marshal %s: %w", path, err)
	}

	return raw, true, nil
}

func (s *VaultStore) List(ctx context.Context, prefix string) (list map[string]json.RawMessage, err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("vault", "list", err, start)
	}(time.Now())

	sec, err := s.cli.ListWithContext(ctx, fmt.Sprintf("%s%s", s.metadataPath, prefix))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	list = make(map[string]json.RawMessage)
	if sec == nil {
		return list, nil
	}

	keys, ok := sec.Data[keyKeys].([]interface{})
	if !ok {
		return nil, fmt.Errorf("list %s: %w", prefix, ErrUnableToCastData)
	}

	for _, key := range keys {
		name, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("list %s: %w", prefix, ErrUnableToCastData)
		}

		path := fmt.Sprintf("%s/%s", prefix, name)
		if _, ok := ChildID(prefix, path); !ok {
			// nested folders end with a slash
			continue
		}

		data, exists, err := s.read(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		if !exists {
			continue
		}

		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", path, err)
		}
		list[path] = raw
	}

	return list, nil
}

func (s *VaultStore) read(ctx context.Context, path string) (map[string]interface{}, bool, error) {
	sec, err := s.cli.ReadWithContext(ctx, s.getPath(path))
	if err != nil {
		return nil, false, err
	}

	// deleted kv v2 versions come back with empty data
	if sec == nil || sec.Data[keyData] == nil {
		return nil, false, nil
	}

	data, ok := sec.Data[keyData].(map[string]interface{})
	if !ok {
		return nil, false, ErrUnableToCastData
	}

	return data, true, nil
}

func (s *VaultStore) write(ctx context.Context, path string, data map[string]interface{}) error {
	_, err := s.cli.WriteWithContext(ctx, s.getPath(path), map[string]interface{}{
		keyData: data,
	})

	return err
}

func toPlainMap(value any) (map[string]interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}

	var data map[string]interface{}
	if err = json.Unmarshal(raw, &data); err != nil || data == nil {
		return nil, ErrNotAnObject
	}

	return data, nil
}
