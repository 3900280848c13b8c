package cli

import (
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/resqpack/internal/model"
)

// outline renders o as a YAML mapping in declared field order. Repeated
// fields become sequences, references become {ref, title} mappings and
// top-level objects held by value are shown by identifier.
func outline(o *model.Object, g *model.Graph) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, scalarNode("$type"), scalarNode(o.Type.Name()))
	for _, s := range o.Slots() {
		if len(s.Values) == 0 {
			continue
		}
		var v *yaml.Node
		if s.Field.Singular() {
			v = outlineValue(s.Values[0], g)
		} else {
			v = &yaml.Node{Kind: yaml.SequenceNode}
			for _, x := range s.Values {
				v.Content = append(v.Content, outlineValue(x, g))
			}
		}
		n.Content = append(n.Content, scalarNode(s.Field.Name), v)
	}
	return n
}

func outlineValue(v model.Value, g *model.Graph) *yaml.Node {
	switch x := v.(type) {
	case model.Scalar:
		return scalarNode(x.Text)
	case model.Enum:
		return scalarNode(x.Symbol)
	case *model.Reference:
		return refNode(x.UUID, x.Title)
	case *model.Object:
		if g != nil && g.Contains(x) {
			return refNode(x.ID(), x.Title())
		}
		return outline(x, g)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func refNode(id, title string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	n.Content = append(n.Content, scalarNode("ref"), scalarNode(id))
	if title != "" {
		n.Content = append(n.Content, scalarNode("title"), scalarNode(title))
	}
	return n
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
