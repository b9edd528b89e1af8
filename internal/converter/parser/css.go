package parser

import (
	"regexp"
	"strings"
)

var declaration = regexp.MustCompile(`([\w-]+)\s*:\s*([^;]+)`)

// ============================================================
// CSS Parser
// ============================================================

// Declarations is an ordered set of CSS declarations. Keys keep the position
// of their first occurrence; a repeated key takes the last value.
type Declarations struct {
	keys   []string
	values map[string]string
}

func (d Declarations) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

func (d Declarations) Keys() []string {
	return d.keys
}

func (d Declarations) Len() int {
	return len(d.keys)
}

// CssParser tokenizes inline style strings ("fill: red; stroke: none").
type CssParser struct{}

// Parse scans s for "key: value" pairs. Fragments that do not look like a
// declaration are skipped.
func (CssParser) Parse(s string) Declarations {
	d := Declarations{values: make(map[string]string)}
	for _, m := range declaration.FindAllStringSubmatch(s, -1) {
		key := m[1]
		value := strings.TrimSpace(m[2])
		if _, seen := d.values[key]; !seen {
			d.keys = append(d.keys, key)
		}
		d.values[key] = value
	}
	return d
}
