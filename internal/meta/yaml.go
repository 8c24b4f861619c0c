// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package meta

import (
	"math"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// MarshalYAML encodes v for go.yaml.in/yaml/v3, keeping mapping order.
func (v Value) MarshalYAML() (any, error) {
	return v.node(), nil
}

// MarshalYAML encodes m for go.yaml.in/yaml/v3, keeping insertion order.
func (m *Mapping) MarshalYAML() (any, error) {
	return Map(m).node(), nil
}

func (v Value) node() *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case KindNumber:
		tag := "!!float"
		if v.n == math.Trunc(v.n) && math.Abs(v.n) < 1e15 {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: formatNumber(v.n)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.seq {
			n.Content = append(n.Content, item.node())
		}
		return n
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.m.Entries() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				e.Value.node())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
