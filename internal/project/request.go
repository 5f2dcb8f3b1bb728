package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/BarCut/internal/model"
)

// LoadRequest reads a request payload. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func LoadRequest(path string) (model.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Request{}, fmt.Errorf("failed to read request: %w", err)
	}
	req, err := DecodeRequest(data, isYAML(path))
	if err != nil {
		return model.Request{}, fmt.Errorf("failed to parse request file %s: %w", path, err)
	}
	return req, nil
}

// DecodeRequest decodes a request payload from YAML or JSON.
// Unknown JSON fields are rejected so typos do not go unnoticed.
func DecodeRequest(data []byte, asYAML bool) (model.Request, error) {
	var req model.Request
	if asYAML {
		if err := yaml.Unmarshal(data, &req); err != nil {
			return model.Request{}, err
		}
		return req, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return model.Request{}, err
	}
	return req, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
