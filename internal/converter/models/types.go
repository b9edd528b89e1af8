package models

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
}

// ============================================================
// Presentation
// ============================================================

// Styles holds the whitelisted presentation attributes of an element.
// Anything outside this set is dropped during parsing.
type Styles struct {
	Fill             string `json:"fill,omitempty" yaml:"fill,omitempty" msgpack:"fill,omitempty"`
	Stroke           string `json:"stroke,omitempty" yaml:"stroke,omitempty" msgpack:"stroke,omitempty"`
	StrokeWidth      string `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty" msgpack:"strokeWidth,omitempty"`
	StrokeDasharray  string `json:"strokeDasharray,omitempty" yaml:"strokeDasharray,omitempty" msgpack:"strokeDasharray,omitempty"`
	StrokeDashoffset string `json:"strokeDashoffset,omitempty" yaml:"strokeDashoffset,omitempty" msgpack:"strokeDashoffset,omitempty"`
	StrokeOpacity    string `json:"strokeOpacity,omitempty" yaml:"strokeOpacity,omitempty" msgpack:"strokeOpacity,omitempty"`
	FillOpacity      string `json:"fillOpacity,omitempty" yaml:"fillOpacity,omitempty" msgpack:"fillOpacity,omitempty"`
	StrokeMiterlimit string `json:"strokeMiterlimit,omitempty" yaml:"strokeMiterlimit,omitempty" msgpack:"strokeMiterlimit,omitempty"`
	FontSize         string `json:"fontSize,omitempty" yaml:"fontSize,omitempty" msgpack:"fontSize,omitempty"`
	FontFamily       string `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty" msgpack:"fontFamily,omitempty"`
	FontWeight       string `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty" msgpack:"fontWeight,omitempty"`
	FontStyle        string `json:"fontStyle,omitempty" yaml:"fontStyle,omitempty" msgpack:"fontStyle,omitempty"`
	LetterSpacing    string `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty" msgpack:"letterSpacing,omitempty"`
	Transform        string `json:"transform,omitempty" yaml:"transform,omitempty" msgpack:"transform,omitempty"`
}

// ============================================================
// Layer records
// ============================================================

// Path is a shape normalized to move/line/close commands.
type Path struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	D      string `json:"d" yaml:"d" msgpack:"d"`
	Styles Styles `json:"styles" yaml:"styles" msgpack:"styles"`
}

// Center is an anchor point owned by a province id.
type Center struct {
	ID     string `json:"id" yaml:"id" msgpack:"id"`
	Center Point  `json:"center" yaml:"center" msgpack:"center"`
}

// Text is a province label.
type Text struct {
	ID        string `json:"id" yaml:"id" msgpack:"id"`
	Value     string `json:"value" yaml:"value" msgpack:"value"`
	Styles    Styles `json:"styles" yaml:"styles" msgpack:"styles"`
	Transform string `json:"transform,omitempty" yaml:"transform,omitempty" msgpack:"transform,omitempty"`
	Point     Point  `json:"point" yaml:"point" msgpack:"point"`
}

// ============================================================
// Board
// ============================================================

type Province struct {
	ID           string `json:"id" yaml:"id" msgpack:"id"`
	Path         Path   `json:"path" yaml:"path" msgpack:"path"`
	Styles       Styles `json:"styles" yaml:"styles" msgpack:"styles"`
	Center       Point  `json:"center" yaml:"center" msgpack:"center"`
	SupplyCenter *Point `json:"supplyCenter,omitempty" yaml:"supplyCenter,omitempty" msgpack:"supplyCenter,omitempty"`
	Text         []Text `json:"text" yaml:"text" msgpack:"text"`
}

// Map is the extracted board.
type Map struct {
	Width               float64    `json:"width" yaml:"width" msgpack:"width"`
	Height              float64    `json:"height" yaml:"height" msgpack:"height"`
	Provinces           []Province `json:"provinces" yaml:"provinces" msgpack:"provinces"`
	BackgroundElements  []Path     `json:"backgroundElements" yaml:"backgroundElements" msgpack:"backgroundElements"`
	Borders             []Path     `json:"borders" yaml:"borders" msgpack:"borders"`
	ImpassableProvinces []Path     `json:"impassableProvinces" yaml:"impassableProvinces" msgpack:"impassableProvinces"`
}

// Summary counts what a Map contains.
type Summary struct {
	Provinces     int `json:"provinces"`
	SupplyCenters int `json:"supplyCenters"`
	Labels        int `json:"labels"`
	Background    int `json:"background"`
	Borders       int `json:"borders"`
	Impassable    int `json:"impassable"`
}

func (m *Map) Summary() Summary {
	s := Summary{
		Provinces:  len(m.Provinces),
		Background: len(m.BackgroundElements),
		Borders:    len(m.Borders),
		Impassable: len(m.ImpassableProvinces),
	}
	for _, p := range m.Provinces {
		if p.SupplyCenter != nil {
			s.SupplyCenters++
		}
		s.Labels += len(p.Text)
	}
	return s
}
