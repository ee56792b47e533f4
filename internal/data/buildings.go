package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LoadBuildings loads building records from a JSON file.
func LoadBuildings(path string) ([]BuildingRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read buildings file: %w", err)
	}
	records, err := ParseBuildings(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse buildings file %s: %w", path, err)
	}
	return records, nil
}

// ParseBuildings accepts either an array of records or an object keyed by
// building name. Object entries are returned sorted by key and take their
// name from the key when the record omits it.
func ParseBuildings(raw []byte) ([]BuildingRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	switch raw[0] {
	case '[':
		var records []BuildingRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("no buildings defined")
		}
		return records, nil
	case '{':
		var byName map[string]json.RawMessage
		if err := json.Unmarshal(raw, &byName); err != nil {
			return nil, err
		}
		if len(byName) == 0 {
			return nil, fmt.Errorf("no buildings defined")
		}
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)

		records := make([]BuildingRecord, 0, len(names))
		for _, name := range names {
			var r BuildingRecord
			if err := json.Unmarshal(byName[name], &r); err != nil {
				return nil, fmt.Errorf("building %q: %w", name, err)
			}
			if r.Name == "" {
				r.Name = name
			}
			if r.Name != name {
				return nil, fmt.Errorf("building key %q does not match name %q", name, r.Name)
			}
			records = append(records, r)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("expected a JSON array or object of buildings")
	}
}

// SaveBuildings writes records as a JSON array.
func SaveBuildings(records []BuildingRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal buildings: %w", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write buildings file: %w", err)
	}

	return nil
}
