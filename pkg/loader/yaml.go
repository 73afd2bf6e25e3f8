package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// yamlNodeToValue converts a decoded YAML node tree, keeping mapping order.
func yamlNodeToValue(n *yaml.Node) (jsonvalue.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsonvalue.Null(), nil
		}
		return yamlNodeToValue(n.Content[0])
	case yaml.AliasNode:
		return yamlNodeToValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]jsonvalue.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlNodeToValue(c)
			if err != nil {
				return jsonvalue.Value{}, err
			}
			items = append(items, v)
		}
		return jsonvalue.Array(items...), nil
	case yaml.MappingNode:
		members := make([]jsonvalue.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				merged, err := yamlNodeToValue(v)
				if err != nil {
					return jsonvalue.Value{}, err
				}
				members = append(members, merged.Members()...)
				continue
			}
			val, err := yamlNodeToValue(v)
			if err != nil {
				return jsonvalue.Value{}, err
			}
			members = append(members, jsonvalue.Member{Key: k.Value, Value: val})
		}
		return jsonvalue.Object(members...), nil
	case yaml.ScalarNode:
		var x any
		if err := n.Decode(&x); err != nil {
			return jsonvalue.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return jsonvalue.FromAny(x)
	default:
		return jsonvalue.Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}
