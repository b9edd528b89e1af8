package pipeline

import (
	"strings"

	"map-extractor/internal/converter/shapes"

	"golang.org/x/net/html"
)

// ============================================================
// Normalizers
// ============================================================

// Normalizer rewrites one element into another.
type Normalizer interface {
	Normalize(n *html.Node) (*html.Node, error)
}

// ShapeToPath turns any supported primitive into a <path>.
type ShapeToPath struct{}

func (ShapeToPath) Normalize(n *html.Node) (*html.Node, error) {
	return shapes.Convert(n)
}

// IDNormalizer rewrites the id attribute through Rewrite. Elements without
// an id pass through untouched. The source node is never modified.
type IDNormalizer struct {
	Rewrite func(id string) string
}

func (r IDNormalizer) Normalize(n *html.Node) (*html.Node, error) {
	idx := -1
	for i, a := range n.Attr {
		if a.Key == "id" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return n, nil
	}

	out := *n
	out.Attr = make([]html.Attribute, len(n.Attr))
	copy(out.Attr, n.Attr)
	out.Attr[idx].Val = r.Rewrite(n.Attr[idx].Val)
	return &out, nil
}

// StripSuffix removes a trailing suffix from ids ("berCenter" -> "ber").
func StripSuffix(suffix string) func(string) string {
	return func(id string) string {
		return strings.TrimSuffix(id, suffix)
	}
}

// Remap looks ids up in table, keeping ids it does not know.
func Remap(table map[string]string) func(string) string {
	return func(id string) string {
		if mapped, ok := table[id]; ok {
			return mapped
		}
		return id
	}
}
