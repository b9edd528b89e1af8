package pipeline

import (
	"strings"

	"map-extractor/internal/converter/parser"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ============================================================
// Selector
// ============================================================

// Selector finds the elements matching Query inside the named layer. With
// no Layer the query runs against the whole subtree.
type Selector struct {
	Layer string
	Query string
}

func (s Selector) Select(root *goquery.Selection) []*html.Node {
	scope := root
	if s.Layer != "" {
		scope = parser.Layer(root, s.Layer)
	}
	return scope.Find(s.Query).Nodes
}

// ============================================================
// Filter
// ============================================================

// Filter keeps the elements for which it returns true.
type Filter func(n *html.Node) bool

func (f Filter) Apply(nodes []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if f(n) {
			out = append(out, n)
		}
	}
	return out
}

// StyleContains matches elements whose inline style mentions pattern.
func StyleContains(pattern string) Filter {
	return func(n *html.Node) bool {
		return strings.Contains(parser.Attr(n, "style"), pattern)
	}
}

// Not inverts f.
func Not(f Filter) Filter {
	return func(n *html.Node) bool {
		return !f(n)
	}
}
