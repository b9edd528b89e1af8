package pipeline

import (
	"github.com/PuerkitoBio/goquery"
)

// ============================================================
// Parser
// ============================================================

// Parser is one extraction pass: select, filter, normalize, serialize.
// Any failing stage aborts the pass and no records are returned.
type Parser[T any] struct {
	Selector    Selector
	Filters     []Filter
	Normalizers []Normalizer
	Serializer  Serializer[T]
}

func (p Parser[T]) Parse(root *goquery.Selection) ([]T, error) {
	nodes := p.Selector.Select(root)
	for _, f := range p.Filters {
		nodes = f.Apply(nodes)
	}

	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		var err error
		for _, norm := range p.Normalizers {
			if n, err = norm.Normalize(n); err != nil {
				return nil, err
			}
		}
		record, err := p.Serializer.Serialize(n)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}
