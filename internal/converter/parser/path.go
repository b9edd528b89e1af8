package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"map-extractor/internal/converter/models"
)

const number = `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`

var (
	// An absolute move command followed by whitespace, e.g. "M 10,20 L ...".
	moveCommand = regexp.MustCompile(`^M\s*(` + number + `)(?:\s*,\s*|\s+)(` + number + `)\s`)
	leadingNum  = regexp.MustCompile(`^\s*(` + number + `)`)
)

// ============================================================
// Center Parser
// ============================================================

// CenterParser reads the anchor point of a path from its leading move command.
type CenterParser struct{}

// Parse returns the coordinates of the "M x,y " prefix of d.
func (CenterParser) Parse(d string) (models.Point, error) {
	m := moveCommand.FindStringSubmatch(d)
	if m == nil {
		return models.Point{}, fmt.Errorf("%w: path %q does not start with a move command", models.ErrPatternMismatch, truncate(d, 40))
	}
	x, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("%w: x %q: %v", models.ErrPatternMismatch, m[1], err)
	}
	y, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("%w: y %q: %v", models.ErrPatternMismatch, m[2], err)
	}
	return models.Point{X: x, Y: y}, nil
}

// ============================================================
// Coordinates
// ============================================================

// ParsePoints parses a polygon/polyline points list ("x1,y1 x2,y2 ...").
func ParsePoints(s string) ([]models.Point, error) {
	fields := splitList(s)
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("odd number of coordinates in %q", truncate(s, 40))
	}
	points := make([]models.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("parse x %q: %w", fields[i], err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse y %q: %w", fields[i+1], err)
		}
		points = append(points, models.Point{X: x, Y: y})
	}
	return points, nil
}

// ParseLength reads the leading number of an attribute value such as "12",
// "12px" or "12 30". Missing or unreadable values yield 0.
func ParseLength(s string) float64 {
	m := leadingNum.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatPoint renders p the way converted paths spell coordinates.
func FormatPoint(p models.Point) string {
	return FormatNumber(p.X) + "," + FormatNumber(p.Y)
}

func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
