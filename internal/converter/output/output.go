package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"map-extractor/internal/converter/models"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is a serialization of models.Map.
type Format string

const (
	JSON        Format = "json"
	JSONCompact Format = "json-compact"
	YAML        Format = "yaml"
	MsgPack     Format = "msgpack"
)

// ParseFormat resolves a user supplied format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return JSON, nil
	case JSON, JSONCompact, YAML, MsgPack:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case YAML:
		return "application/yaml"
	case MsgPack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// Encode writes m to w in format f.
func Encode(w io.Writer, m *models.Map, f Format) error {
	switch f {
	case JSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case JSONCompact:
		return json.NewEncoder(w).Encode(m)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case MsgPack:
		return msgpack.NewEncoder(w).Encode(m)
	default:
		return fmt.Errorf("unknown output format %q", string(f))
	}
}
