package pipeline

import (
	"fmt"

	"map-extractor/internal/converter/models"
	"map-extractor/internal/converter/parser"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ============================================================
// Serializers
// ============================================================

// Serializer turns one normalized element into a typed record.
type Serializer[T any] interface {
	Serialize(n *html.Node) (T, error)
}

// expectTag is the shared validation step; nothing is read from n before it passes.
func expectTag(n *html.Node, tag string) error {
	if n.Type != html.ElementNode || n.Data != tag {
		return fmt.Errorf("%w: expected <%s>, got %s", models.ErrTagMismatch, tag, parser.Describe(n))
	}
	return nil
}

// PathSerializer emits models.Path records.
type PathSerializer struct {
	Styles parser.StyleParser
}

func (s PathSerializer) Serialize(n *html.Node) (models.Path, error) {
	if err := expectTag(n, "path"); err != nil {
		return models.Path{}, err
	}
	return models.Path{
		ID:     parser.Attr(n, "id"),
		D:      parser.Attr(n, "d"),
		Styles: s.Styles.Parse(parser.Attr(n, "style")),
	}, nil
}

// CenterSerializer emits models.Center records anchored at the path's move command.
type CenterSerializer struct {
	Centers parser.CenterParser
}

func (s CenterSerializer) Serialize(n *html.Node) (models.Center, error) {
	if err := expectTag(n, "path"); err != nil {
		return models.Center{}, err
	}
	point, err := s.Centers.Parse(parser.Attr(n, "d"))
	if err != nil {
		return models.Center{}, fmt.Errorf("center of %s: %w", parser.Describe(n), err)
	}
	return models.Center{ID: parser.Attr(n, "id"), Center: point}, nil
}

// TextSerializer emits models.Text records. The label is placed at its first
// <tspan>, falling back to the <text> coordinates where the tspan has none.
type TextSerializer struct {
	Styles parser.StyleParser
}

func (s TextSerializer) Serialize(n *html.Node) (models.Text, error) {
	if err := expectTag(n, "text"); err != nil {
		return models.Text{}, err
	}

	sel := goquery.NewDocumentFromNode(n).Selection
	tspan := sel.Find("tspan").First()
	if tspan.Length() == 0 {
		return models.Text{}, fmt.Errorf("%w: %s has no <tspan>", models.ErrMissingChild, parser.Describe(n))
	}
	span := tspan.Nodes[0]

	x := parser.ParseLength(parser.Attr(span, "x"))
	if x == 0 {
		x = parser.ParseLength(parser.Attr(n, "x"))
	}
	y := parser.ParseLength(parser.Attr(span, "y"))
	if y == 0 {
		y = parser.ParseLength(parser.Attr(n, "y"))
	}

	return models.Text{
		ID:        parser.Attr(n, "id"),
		Value:     sel.Text(),
		Styles:    s.Styles.Parse(parser.Attr(n, "style")),
		Transform: parser.Attr(n, "transform"),
		Point:     models.Point{X: x, Y: y},
	}, nil
}
