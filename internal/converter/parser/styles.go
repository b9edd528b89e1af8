package parser

import (
	"maps"
	"slices"

	"map-extractor/internal/converter/models"
)

// styleFields maps recognized CSS properties onto Styles fields.
var styleFields = map[string]func(*models.Styles, string){
	"fill":              func(s *models.Styles, v string) { s.Fill = v },
	"stroke":            func(s *models.Styles, v string) { s.Stroke = v },
	"stroke-width":      func(s *models.Styles, v string) { s.StrokeWidth = v },
	"stroke-dasharray":  func(s *models.Styles, v string) { s.StrokeDasharray = v },
	"stroke-dashoffset": func(s *models.Styles, v string) { s.StrokeDashoffset = v },
	"stroke-opacity":    func(s *models.Styles, v string) { s.StrokeOpacity = v },
	"fill-opacity":      func(s *models.Styles, v string) { s.FillOpacity = v },
	"stroke-miterlimit": func(s *models.Styles, v string) { s.StrokeMiterlimit = v },
	"font-size":         func(s *models.Styles, v string) { s.FontSize = v },
	"font-family":       func(s *models.Styles, v string) { s.FontFamily = v },
	"font-weight":       func(s *models.Styles, v string) { s.FontWeight = v },
	"font-style":        func(s *models.Styles, v string) { s.FontStyle = v },
	"letter-spacing":    func(s *models.Styles, v string) { s.LetterSpacing = v },
	"transform":         func(s *models.Styles, v string) { s.Transform = v },
}

// ============================================================
// Style Parser
// ============================================================

// StyleParser projects an inline style onto the Styles whitelist.
type StyleParser struct {
	Css CssParser
}

func (p StyleParser) Parse(style string) models.Styles {
	var s models.Styles
	decls := p.Css.Parse(style)
	for _, key := range decls.Keys() {
		set, ok := styleFields[key]
		if !ok {
			continue
		}
		v, _ := decls.Get(key)
		set(&s, v)
	}
	return s
}

// SupportedProperties lists the CSS properties kept by StyleParser.
func SupportedProperties() []string {
	return slices.Sorted(maps.Keys(styleFields))
}
