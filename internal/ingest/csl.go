// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refsys/pkg/types"
)

// ParseFile reads CSL records from a JSON or YAML file, chosen by
// extension (.json, .yaml, .yml). Each record comes back with its
// identifiers normalized and its stable work identity assigned.
func ParseFile(path string) ([]*types.CSLItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON parses CSL-JSON input, accepting either a single object or
// an array of objects.
func ParseJSON(data []byte) ([]*types.CSLItem, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []*types.CSLItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing CSL-JSON array: %w", err)
		}
		return normalizeAll(items), nil
	}

	var item types.CSLItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("parsing CSL-JSON object: %w", err)
	}
	return normalizeAll([]*types.CSLItem{&item}), nil
}

// ParseYAML parses a CSL-YAML list of records.
func ParseYAML(data []byte) ([]*types.CSLItem, error) {
	var items []*types.CSLItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		var item types.CSLItem
		if singleErr := yaml.Unmarshal(data, &item); singleErr == nil {
			return normalizeAll([]*types.CSLItem{&item}), nil
		}
		return nil, fmt.Errorf("parsing CSL-YAML: %w", err)
	}
	return normalizeAll(items), nil
}

// Normalize validates every identifier on the record (invalid ones are
// cleared rather than kept) and assigns the work identity. The identity
// is computed once here and never mutated downstream.
func Normalize(item *types.CSLItem) {
	ids := Canonicalize(item)
	item.DOI = ids.DOI
	item.ArxivID = ids.ArxivID
	item.PubMedID = ids.PubMedID
	item.ISBN = ids.ISBN
	item.ID = WorkID(item)
}

func normalizeAll(items []*types.CSLItem) []*types.CSLItem {
	for _, item := range items {
		Normalize(item)
	}
	return items
}
