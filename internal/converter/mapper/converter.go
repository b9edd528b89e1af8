package mapper

import (
	"fmt"
	"io"

	"map-extractor/internal/converter/layers"
	"map-extractor/internal/converter/models"
	"map-extractor/internal/converter/parser"
	"map-extractor/internal/converter/pipeline"
	"map-extractor/internal/converter/shapes"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultCenterSuffix      = "Center"
	DefaultImpassablePattern = "stripes"
)

// Options tunes a Processor. The zero value uses the defaults.
type Options struct {
	// CenterSuffix is stripped from ids in the center layers.
	CenterSuffix string
	// ImpassablePattern marks foreground elements whose style references it
	// as impassable provinces rather than borders.
	ImpassablePattern string
	// Strict runs the layer validators before extraction.
	Strict bool
	// Parallel runs the layer passes concurrently.
	Parallel bool
}

func (o Options) withDefaults() Options {
	if o.CenterSuffix == "" {
		o.CenterSuffix = DefaultCenterSuffix
	}
	if o.ImpassablePattern == "" {
		o.ImpassablePattern = DefaultImpassablePattern
	}
	return o
}

// ============================================================
// Processor
// ============================================================

// Processor turns an SVG board into a models.Map. It keeps no state between
// calls and is safe for concurrent use.
type Processor struct {
	opts Options
}

func New(opts Options) *Processor {
	return &Processor{opts: opts.withDefaults()}
}

// passes holds the output of every layer pass.
type passes struct {
	background      []models.Path
	borders         []models.Path
	impassable      []models.Path
	provinceCenters []models.Center
	supplyCenters   []models.Center
	names           []models.Text
	provinces       []models.Path
}

// Process SVG → Map. ids maps raw label ids to province ids; it may be nil.
func (p *Processor) Process(r io.Reader, ids map[string]string) (*models.Map, error) {
	doc, err := parser.ParseSVG(r)
	if err != nil {
		return nil, fmt.Errorf("parse SVG: %w", err)
	}

	if p.opts.Strict {
		if err := layers.ValidateAll(doc.Root); err != nil {
			return nil, err
		}
	}

	out, err := p.runPasses(doc.Root, ids)
	if err != nil {
		return nil, err
	}

	provinces, err := merge(out)
	if err != nil {
		return nil, err
	}

	return &models.Map{
		Width:               doc.Width,
		Height:              doc.Height,
		Provinces:           provinces,
		BackgroundElements:  out.background,
		Borders:             out.borders,
		ImpassableProvinces: out.impassable,
	}, nil
}

// ============================================================
// Layer passes
// ============================================================

func (p *Processor) runPasses(root *goquery.Selection, ids map[string]string) (*passes, error) {
	var (
		styles  = parser.StyleParser{Css: parser.CssParser{}}
		centers = parser.CenterParser{}

		toPath     = pipeline.ShapeToPath{}
		stripID    = pipeline.IDNormalizer{Rewrite: pipeline.StripSuffix(p.opts.CenterSuffix)}
		remapID    = pipeline.IDNormalizer{Rewrite: pipeline.Remap(ids)}
		impassable = pipeline.StyleContains(p.opts.ImpassablePattern)

		paths = pipeline.PathSerializer{Styles: styles}
	)

	pathPass := func(layer string, filters ...pipeline.Filter) pipeline.Parser[models.Path] {
		return pipeline.Parser[models.Path]{
			Selector:    pipeline.Selector{Layer: layer, Query: shapes.Selector()},
			Filters:     filters,
			Normalizers: []pipeline.Normalizer{toPath},
			Serializer:  paths,
		}
	}
	centerPass := func(layer string) pipeline.Parser[models.Center] {
		return pipeline.Parser[models.Center]{
			Selector:    pipeline.Selector{Layer: layer, Query: shapes.Selector()},
			Normalizers: []pipeline.Normalizer{toPath, stripID},
			Serializer:  pipeline.CenterSerializer{Centers: centers},
		}
	}
	namePass := pipeline.Parser[models.Text]{
		Selector:    pipeline.Selector{Layer: layers.Names, Query: "text"},
		Normalizers: []pipeline.Normalizer{remapID},
		Serializer:  pipeline.TextSerializer{Styles: styles},
	}

	out := &passes{}
	tasks := []func() error{
		run(layers.Background, root, pathPass(layers.Background), &out.background),
		run("borders", root, pathPass(layers.Foreground, pipeline.Not(impassable)), &out.borders),
		run("impassable-provinces", root, pathPass(layers.Foreground, impassable), &out.impassable),
		run(layers.ProvinceCenters, root, centerPass(layers.ProvinceCenters), &out.provinceCenters),
		run(layers.SupplyCenters, root, centerPass(layers.SupplyCenters), &out.supplyCenters),
		run(layers.Names, root, namePass, &out.names),
		run(layers.Provinces, root, pathPass(layers.Provinces), &out.provinces),
	}

	if !p.opts.Parallel {
		for _, task := range tasks {
			if err := task(); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	var g errgroup.Group
	for _, task := range tasks {
		g.Go(task)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// run binds one pass to its destination. Each pass writes only its own slot.
func run[T any](name string, root *goquery.Selection, pass pipeline.Parser[T], dst *[]T) func() error {
	return func() error {
		records, err := pass.Parse(root)
		if err != nil {
			return fmt.Errorf("layer %q: %w", name, err)
		}
		*dst = records
		return nil
	}
}

// ============================================================
// Merge
// ============================================================

// merge builds one Province per path of the provinces layer, in document
// order. A supply center takes precedence over a province center.
func merge(out *passes) ([]models.Province, error) {
	provinceCenters := indexCenters(out.provinceCenters)
	supplyCenters := indexCenters(out.supplyCenters)

	labels := make(map[string][]models.Text)
	for _, t := range out.names {
		labels[t.ID] = append(labels[t.ID], t)
	}

	provinces := make([]models.Province, 0, len(out.provinces))
	for _, path := range out.provinces {
		province := models.Province{
			ID:     path.ID,
			Path:   path,
			Styles: path.Styles,
			Text:   labels[path.ID],
		}
		if province.Text == nil {
			province.Text = []models.Text{}
		}

		if sc, ok := supplyCenters[path.ID]; ok {
			point := sc
			province.SupplyCenter = &point
			province.Center = sc
		} else if pc, ok := provinceCenters[path.ID]; ok {
			province.Center = pc
		} else {
			return nil, fmt.Errorf("%w: province %q", models.ErrNoCenterFound, path.ID)
		}

		provinces = append(provinces, province)
	}
	return provinces, nil
}

// indexCenters keeps the first center recorded for each id.
func indexCenters(centers []models.Center) map[string]models.Point {
	index := make(map[string]models.Point, len(centers))
	for _, c := range centers {
		if _, seen := index[c.ID]; !seen {
			index[c.ID] = c.Center
		}
	}
	return index
}
