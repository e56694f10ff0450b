package ast

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlRepr struct{}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func mapping(pairs ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Content = append(m.Content, scalar(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return m
}

func sequence(style yaml.Style, items []*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: style, Content: items}
}

func (yamlRepr) Number(value float64) *yaml.Node {
	return mapping("number", &yaml.Node{Kind: yaml.ScalarNode, Value: formatNumber(value)})
}

func (yamlRepr) Variable(name string) *yaml.Node {
	return mapping("var", scalar(name))
}

func (yamlRepr) Binary(op rune, left *yaml.Node, right *yaml.Node) *yaml.Node {
	return mapping("binary", mapping("op", scalar(string(op)), "left", left, "right", right))
}

func (yamlRepr) Call(callee string, args []*yaml.Node) *yaml.Node {
	return mapping("call", mapping("callee", scalar(callee), "args", sequence(0, args)))
}

func (yamlRepr) Prototype(name string, params []string) *yaml.Node {
	items := make([]*yaml.Node, len(params))
	for i, param := range params {
		items[i] = scalar(param)
	}
	return mapping("name", scalar(name), "params", sequence(yaml.FlowStyle, items))
}

func (yamlRepr) Function(proto *yaml.Node, body *yaml.Node) *yaml.Node {
	return mapping("def", mapping("proto", proto, "body", body))
}

func (yamlRepr) Extern(proto *yaml.Node) *yaml.Node {
	return mapping("extern", mapping("proto", proto))
}

// YAML converts n to a YAML document node.
func YAML(n Node) *yaml.Node {
	return Fold[*yaml.Node](n, yamlRepr{})
}

// EncodeYAML writes one YAML document per node.
func EncodeYAML(w io.Writer, nodes ...Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, n := range nodes {
		if err := enc.Encode(YAML(n)); err != nil {
			return fmt.Errorf("encode %v: %w", n, err)
		}
	}
	return enc.Close()
}
