package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"map-extractor/internal/converter/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// LabelAttr is the attribute Inkscape uses to name layer groups.
const LabelAttr = "inkscape:label"

// ============================================================
// Document
// ============================================================

// Document is a loaded SVG board. Root is the <svg> element.
type Document struct {
	Root   *goquery.Selection
	Width  float64
	Height float64
}

// ParseSVG loads an SVG document and reads the board size from its viewBox.
func ParseSVG(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	root := doc.Find("svg").First()
	if root.Length() == 0 {
		return nil, models.ErrNoSvgElement
	}

	viewBox, ok := root.Attr("viewBox")
	if !ok {
		return nil, models.ErrNoViewBox
	}
	width, height, err := parseViewBox(viewBox)
	if err != nil {
		return nil, err
	}

	return &Document{Root: root, Width: width, Height: height}, nil
}

// viewBox = "minX minY width height"
func parseViewBox(s string) (float64, float64, error) {
	parts := splitList(s)
	if len(parts) != 4 {
		return 0, 0, fmt.Errorf("%w: malformed value %q", models.ErrNoViewBox, s)
	}
	w, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: width %q: %v", models.ErrNoViewBox, parts[2], err)
	}
	h, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: height %q: %v", models.ErrNoViewBox, parts[3], err)
	}
	return w, h, nil
}

// ============================================================
// Layers
// ============================================================

// Layer returns the <g> groups under root named name, either by id or by
// Inkscape label.
func Layer(root *goquery.Selection, name string) *goquery.Selection {
	return root.Find("g").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if id, _ := s.Attr("id"); id == name {
			return true
		}
		label, _ := s.Attr(LabelAttr)
		return label == name
	})
}

// ============================================================
// Node helpers
// ============================================================

// Attr returns the value of key on n, or "" when absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries key.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Describe renders a short identification of n for error messages.
func Describe(n *html.Node) string {
	if id := Attr(n, "id"); id != "" {
		return fmt.Sprintf("<%s id=%q>", n.Data, id)
	}
	return "<" + n.Data + ">"
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
