package shapes

import (
	"fmt"
	"strings"

	"map-extractor/internal/converter/models"
	"map-extractor/internal/converter/parser"

	"golang.org/x/net/html"
)

// Kind enumerates the primitive shapes that can be normalized to a path.
type Kind int

const (
	Path Kind = iota
	Rect
	Polygon
	Polyline
	Line
)

// byTag resolves element names to kinds.
var byTag = map[string]Kind{
	"path":     Path,
	"rect":     Rect,
	"polygon":  Polygon,
	"polyline": Polyline,
	"line":     Line,
}

func (k Kind) Tag() string {
	switch k {
	case Path:
		return "path"
	case Rect:
		return "rect"
	case Polygon:
		return "polygon"
	case Polyline:
		return "polyline"
	case Line:
		return "line"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Tags lists the element names a Converter can be built for.
func Tags() []string {
	return []string{"path", "rect", "polygon", "polyline", "line"}
}

// Selector matches every supported primitive.
func Selector() string {
	return strings.Join(Tags(), ", ")
}

// ============================================================
// Converter
// ============================================================

// Converter normalizes one kind of primitive into a <path> element
// carrying the source id and style.
type Converter struct {
	Kind Kind
}

// For returns the converter registered for tag.
func For(tag string) (Converter, error) {
	kind, ok := byTag[tag]
	if !ok {
		return Converter{}, fmt.Errorf("%w: <%s>", models.ErrUnsupportedElement, tag)
	}
	return Converter{Kind: kind}, nil
}

// Convert dispatches n to the converter registered for its tag.
func Convert(n *html.Node) (*html.Node, error) {
	c, err := For(n.Data)
	if err != nil {
		return nil, err
	}
	return c.Convert(n)
}

func (c Converter) Convert(n *html.Node) (*html.Node, error) {
	if n.Type != html.ElementNode || n.Data != c.Kind.Tag() {
		return nil, fmt.Errorf("%w: %s converter got %s", models.ErrTagMismatch, c.Kind.Tag(), parser.Describe(n))
	}

	var (
		d   string
		err error
	)
	switch c.Kind {
	case Path:
		return n, nil
	case Rect:
		d = rectPath(n)
	case Polygon:
		d, err = pointsPath(n, true)
	case Polyline:
		d, err = pointsPath(n, false)
	case Line:
		d = linePath(n)
	default:
		return nil, fmt.Errorf("%w: <%s>", models.ErrUnsupportedElement, n.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", parser.Describe(n), err)
	}
	return newPath(n, d), nil
}

// ============================================================
// Path builders
// ============================================================

func rectPath(n *html.Node) string {
	x := parser.ParseLength(parser.Attr(n, "x"))
	y := parser.ParseLength(parser.Attr(n, "y"))
	w := parser.ParseLength(parser.Attr(n, "width"))
	h := parser.ParseLength(parser.Attr(n, "height"))

	return buildPath([]models.Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}, true)
}

func pointsPath(n *html.Node, closed bool) (string, error) {
	points, err := parser.ParsePoints(parser.Attr(n, "points"))
	if err != nil {
		return "", err
	}
	return buildPath(points, closed), nil
}

func linePath(n *html.Node) string {
	return buildPath([]models.Point{
		{X: parser.ParseLength(parser.Attr(n, "x1")), Y: parser.ParseLength(parser.Attr(n, "y1"))},
		{X: parser.ParseLength(parser.Attr(n, "x2")), Y: parser.ParseLength(parser.Attr(n, "y2"))},
	}, false)
}

// buildPath spells points as "M x,y L x,y ... [Z]". Commands are separated
// by single spaces; the center parser depends on the space after the move.
func buildPath(points []models.Point, closed bool) string {
	if len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("M ")
	sb.WriteString(parser.FormatPoint(points[0]))
	for _, p := range points[1:] {
		sb.WriteString(" L ")
		sb.WriteString(parser.FormatPoint(p))
	}
	if closed {
		sb.WriteString(" Z")
	}
	return sb.String()
}

func newPath(src *html.Node, d string) *html.Node {
	out := &html.Node{
		Type:      html.ElementNode,
		Data:      "path",
		Namespace: src.Namespace,
	}
	for _, key := range []string{"id", "style"} {
		if parser.HasAttr(src, key) {
			out.Attr = append(out.Attr, html.Attribute{Key: key, Val: parser.Attr(src, key)})
		}
	}
	out.Attr = append(out.Attr, html.Attribute{Key: "d", Val: d})
	return out
}
