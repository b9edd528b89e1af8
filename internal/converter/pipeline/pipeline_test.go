package pipeline

import (
	"errors"
	"strings"
	"testing"

	"map-extractor/internal/converter/models"
	"map-extractor/internal/converter/parser"
	"map-extractor/internal/converter/shapes"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const board = `<svg viewBox="0 0 100 100">
  <g id="foreground">
    <path id="b1" d="M 0,0 L 10,10" style="stroke:#000"/>
    <rect id="swiss" x="5" y="5" width="10" height="10" style="fill:url(#stripes)"/>
    <line id="b2" x1="1" y1="2" x2="3" y2="4"/>
  </g>
  <g inkscape:label="province-centers">
    <path id="berCenter" d="M 15,15 L 16,16"/>
    <path id="mun" d="M 40 50 L 41,51"/>
  </g>
  <g id="names">
    <text id="label-ber" x="3" y="4" transform="rotate(10)" style="font-size:12px"><tspan x="30" y="0">Berlin</tspan></text>
    <text id="plain" x="1" y="2"><tspan>Plain</tspan></text>
  </g>
</svg>`

func loadBoard(t *testing.T) *goquery.Selection {
	t.Helper()
	doc, err := parser.ParseSVG(strings.NewReader(board))
	require.NoError(t, err)
	return doc.Root
}

func ids(nodes []*html.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, parser.Attr(n, "id"))
	}
	return out
}

func TestSelectorScopesToLayer(t *testing.T) {
	root := loadBoard(t)

	got := Selector{Layer: "foreground", Query: shapes.Selector()}.Select(root)
	assert.Equal(t, []string{"b1", "swiss", "b2"}, ids(got))

	got = Selector{Layer: "province-centers", Query: "path"}.Select(root)
	assert.Equal(t, []string{"berCenter", "mun"}, ids(got))

	assert.Empty(t, Selector{Layer: "background", Query: "path"}.Select(root))
	assert.Len(t, Selector{Query: "text"}.Select(root), 2)
}

func TestFilterSplitsImpassable(t *testing.T) {
	nodes := Selector{Layer: "foreground", Query: shapes.Selector()}.Select(loadBoard(t))

	striped := StyleContains("stripes")
	assert.Equal(t, []string{"swiss"}, ids(striped.Apply(nodes)))
	assert.Equal(t, []string{"b1", "b2"}, ids(Not(striped).Apply(nodes)))
}

func TestIDNormalizer(t *testing.T) {
	strip := IDNormalizer{Rewrite: StripSuffix("Center")}
	nodes := Selector{Layer: "province-centers", Query: "path"}.Select(loadBoard(t))

	out, err := strip.Normalize(nodes[0])
	require.NoError(t, err)
	assert.Equal(t, "ber", parser.Attr(out, "id"))
	assert.Equal(t, "berCenter", parser.Attr(nodes[0], "id"), "source element must not change")

	out, err = strip.Normalize(nodes[1])
	require.NoError(t, err)
	assert.Equal(t, "mun", parser.Attr(out, "id"))

	bare := &html.Node{Type: html.ElementNode, Data: "path"}
	out, err = strip.Normalize(bare)
	require.NoError(t, err)
	assert.Same(t, bare, out)
}

func TestIDRewriters(t *testing.T) {
	strip := StripSuffix("Center")
	assert.Equal(t, "ber", strip("berCenter"))
	assert.Equal(t, "ber", strip("ber"))

	remap := Remap(map[string]string{"label-ber": "ber"})
	assert.Equal(t, "ber", remap("label-ber"))
	assert.Equal(t, "kie", remap("kie"))
}

func TestPathSerializer(t *testing.T) {
	nodes := Selector{Layer: "foreground", Query: "path"}.Select(loadBoard(t))

	got, err := PathSerializer{}.Serialize(nodes[0])
	require.NoError(t, err)
	assert.Equal(t, models.Path{ID: "b1", D: "M 0,0 L 10,10", Styles: models.Styles{Stroke: "#000"}}, got)

	rect := Selector{Layer: "foreground", Query: "rect"}.Select(loadBoard(t))[0]
	_, err = PathSerializer{}.Serialize(rect)
	assert.ErrorIs(t, err, models.ErrTagMismatch)
}

func TestCenterSerializer(t *testing.T) {
	nodes := Selector{Layer: "province-centers", Query: "path"}.Select(loadBoard(t))

	got, err := CenterSerializer{}.Serialize(nodes[1])
	require.NoError(t, err)
	assert.Equal(t, models.Center{ID: "mun", Center: models.Point{X: 40, Y: 50}}, got)

	bad := &html.Node{Type: html.ElementNode, Data: "path", Attr: []html.Attribute{{Key: "id", Val: "x"}, {Key: "d", Val: "L 1,1"}}}
	_, err = CenterSerializer{}.Serialize(bad)
	assert.ErrorIs(t, err, models.ErrPatternMismatch)

	_, err = CenterSerializer{}.Serialize(&html.Node{Type: html.ElementNode, Data: "rect"})
	assert.ErrorIs(t, err, models.ErrTagMismatch)
}

func TestTextSerializer(t *testing.T) {
	nodes := Selector{Layer: "names", Query: "text"}.Select(loadBoard(t))
	require.Len(t, nodes, 2)

	got, err := TextSerializer{}.Serialize(nodes[0])
	require.NoError(t, err)
	assert.Equal(t, models.Text{
		ID:        "label-ber",
		Value:     "Berlin",
		Styles:    models.Styles{FontSize: "12px"},
		Transform: "rotate(10)",
		Point:     models.Point{X: 30, Y: 4},
	}, got)

	got, err = TextSerializer{}.Serialize(nodes[1])
	require.NoError(t, err)
	assert.Equal(t, models.Point{X: 1, Y: 2}, got.Point)
	assert.Empty(t, got.Transform)
}

func TestTextSerializerMissingTspan(t *testing.T) {
	doc, err := parser.ParseSVG(strings.NewReader(`<svg viewBox="0 0 1 1"><text id="t">bare</text></svg>`))
	require.NoError(t, err)

	_, err = TextSerializer{}.Serialize(doc.Root.Find("text").Nodes[0])
	assert.ErrorIs(t, err, models.ErrMissingChild)

	_, err = TextSerializer{}.Serialize(&html.Node{Type: html.ElementNode, Data: "path"})
	assert.ErrorIs(t, err, models.ErrTagMismatch)
}

func TestParserRunsStagesInOrder(t *testing.T) {
	p := Parser[models.Path]{
		Selector:    Selector{Layer: "foreground", Query: shapes.Selector()},
		Filters:     []Filter{Not(StyleContains("stripes"))},
		Normalizers: []Normalizer{ShapeToPath{}},
		Serializer:  PathSerializer{},
	}

	got, err := p.Parse(loadBoard(t))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, models.Path{ID: "b2", D: "M 1,2 L 3,4"}, got[1])
}

func TestParserCentersWithSuffix(t *testing.T) {
	p := Parser[models.Center]{
		Selector:    Selector{Layer: "province-centers", Query: shapes.Selector()},
		Normalizers: []Normalizer{ShapeToPath{}, IDNormalizer{Rewrite: StripSuffix("Center")}},
		Serializer:  CenterSerializer{},
	}

	got, err := p.Parse(loadBoard(t))
	require.NoError(t, err)
	assert.Equal(t, []models.Center{
		{ID: "ber", Center: models.Point{X: 15, Y: 15}},
		{ID: "mun", Center: models.Point{X: 40, Y: 50}},
	}, got)
}

type failingNormalizer struct{ calls *int }

func (f failingNormalizer) Normalize(*html.Node) (*html.Node, error) {
	*f.calls++
	return nil, errors.New("boom")
}

func TestParserAbortsOnFirstFailure(t *testing.T) {
	calls := 0
	p := Parser[models.Path]{
		Selector:    Selector{Layer: "foreground", Query: shapes.Selector()},
		Normalizers: []Normalizer{failingNormalizer{calls: &calls}, ShapeToPath{}},
		Serializer:  PathSerializer{},
	}

	got, err := p.Parse(loadBoard(t))
	assert.EqualError(t, err, "boom")
	assert.Nil(t, got)
	assert.Equal(t, 1, calls)
}

func TestParserWithoutNormalizerSurfacesTagMismatch(t *testing.T) {
	p := Parser[models.Path]{
		Selector:   Selector{Layer: "foreground", Query: shapes.Selector()},
		Serializer: PathSerializer{},
	}
	_, err := p.Parse(loadBoard(t))
	assert.ErrorIs(t, err, models.ErrTagMismatch)
}
