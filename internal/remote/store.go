package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const ProfilesPrefix = "profiles"

var (
	ErrNotAnObject = errors.New("value is not a json object")
	ErrInvalidPath = errors.New("invalid path")
)

func ProfilePath(id string) string {
	return fmt.Sprintf("%s/%s", ProfilesPrefix, id)
}

// ChildID returns the last segment of the path when it is a direct child of prefix.
func ChildID(prefix, path string) (string, bool) {
	id, ok := strings.CutPrefix(path, prefix+"/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}

	return id, true
}

func validatePath(path string) error {
	if path == "" || strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	return nil
}

// toFields converts any json object value into its top level fields.
func toFields(value any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, ErrNotAnObject
	}

	return fields, nil
}
