package idmap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table maps raw label ids to province ids.
type Table map[string]string

// Load decodes a JSON object of string to string.
func Load(r io.Reader) (Table, error) {
	t := Table{}
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		if err == io.EOF {
			return t, nil
		}
		return nil, fmt.Errorf("decode id map: %w", err)
	}
	return t, nil
}

// LoadYAML decodes a YAML mapping of string to string.
func LoadYAML(r io.Reader) (Table, error) {
	t := Table{}
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		if err == io.EOF {
			return t, nil
		}
		return nil, fmt.Errorf("decode id map: %w", err)
	}
	return t, nil
}

// LoadFile reads a table, choosing the decoder by file extension.
func LoadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open id map: %w", err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode reads a table from r, using YAML for ".yaml"/".yml" names and
// JSON otherwise.
func Decode(r io.Reader, name string) (Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return LoadYAML(r)
	default:
		return Load(r)
	}
}
