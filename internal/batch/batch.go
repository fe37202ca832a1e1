// Package batch reads placement records written by the level generator.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"makerbot/internal/domain"
)

// Format is a batch file encoding
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the decoder from the file extension. Anything that is
// not .yaml or .yml is treated as JSON, the generator's native output.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// IsBatchFile reports whether path has an extension Load understands
func IsBatchFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads and decodes a batch file
func Load(path string) ([]domain.Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}
	records, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("batch: %s: %w", path, err)
	}
	return records, nil
}

// Parse decodes a list of {name, x, y} records
func Parse(data []byte, format Format) ([]domain.Placement, error) {
	var records []domain.Placement
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}

	for i := range records {
		records[i].Name = strings.TrimSpace(records[i].Name)
		if records[i].Name == "" {
			return nil, fmt.Errorf("record %d: missing name", i+1)
		}
	}
	return records, nil
}
