package parser

import (
	"strings"
	"testing"

	"map-extractor/internal/converter/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSVG(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(`<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1200 850.5">
  <g id="provinces"></g>
</svg>`))
	require.NoError(t, err)
	assert.Equal(t, 1200.0, doc.Width)
	assert.Equal(t, 850.5, doc.Height)
	assert.Equal(t, "svg", doc.Root.Nodes[0].Data)
}

func TestParseSVGCommaSeparatedViewBox(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(`<svg viewBox="0,0,100,60"></svg>`))
	require.NoError(t, err)
	assert.Equal(t, 100.0, doc.Width)
	assert.Equal(t, 60.0, doc.Height)
}

func TestParseSVGErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no svg element", `<div>not a board</div>`, models.ErrNoSvgElement},
		{"empty input", ``, models.ErrNoSvgElement},
		{"no viewBox", `<svg width="10" height="10"></svg>`, models.ErrNoViewBox},
		{"short viewBox", `<svg viewBox="0 0 10"></svg>`, models.ErrNoViewBox},
		{"non-numeric viewBox", `<svg viewBox="0 0 wide 10"></svg>`, models.ErrNoViewBox},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSVG(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLayerMatchesIDOrLabel(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(`<svg viewBox="0 0 10 10">
  <g id="provinces"><path id="a" d="M0,0 L1,1"/></g>
  <g id="layer7" inkscape:label="names"><text id="b">B</text></g>
  <g id="other"></g>
</svg>`))
	require.NoError(t, err)

	provinces := Layer(doc.Root, "provinces")
	require.Equal(t, 1, provinces.Length())
	assert.Equal(t, 1, provinces.Find("path").Length())

	names := Layer(doc.Root, "names")
	require.Equal(t, 1, names.Length())
	id, _ := names.Attr("id")
	assert.Equal(t, "layer7", id)

	assert.Equal(t, 0, Layer(doc.Root, "borders").Length())
}

func TestNodeHelpers(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(`<svg viewBox="0 0 10 10"><rect id="r" x="1"/><line/></svg>`))
	require.NoError(t, err)

	rect := doc.Root.Find("rect").Nodes[0]
	assert.Equal(t, "1", Attr(rect, "x"))
	assert.Equal(t, "", Attr(rect, "y"))
	assert.True(t, HasAttr(rect, "id"))
	assert.False(t, HasAttr(rect, "style"))
	assert.Equal(t, `<rect id="r">`, Describe(rect))
	assert.Equal(t, "<line>", Describe(doc.Root.Find("line").Nodes[0]))
}
