// internal/rules/yaml.go
package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/solatis/chancekeeper/internal/types"
)

// Alias expansion limits. A document may expand to yamlAliasRatio times its
// own node count, and never less than yamlMinExpansion nodes.
const (
	yamlAliasRatio   = 10
	yamlMinExpansion = 10000
)

// ParseYAML decodes YAML text into the ordered JSON model. Mappings keep key
// order and duplicates, matching ParseJSON, so the same decoders serve both.
// Recursive aliases and alias expansion beyond the document's budget are
// structural errors.
func ParseYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", types.ErrStructural, err)
	}

	d := &yamlDecoder{active: make(map[*yaml.Node]bool)}
	d.budget = max(yamlAliasRatio*countYAMLNodes(&doc), yamlMinExpansion)
	return d.decode(&doc)
}

// countYAMLNodes counts the nodes of the document as written, without
// following aliases.
func countYAMLNodes(n *yaml.Node) int {
	count := 1
	for _, c := range n.Content {
		count += countYAMLNodes(c)
	}
	return count
}

// yamlDecoder tracks the nodes on the current path and the number of nodes
// decoded so far.
type yamlDecoder struct {
	active  map[*yaml.Node]bool
	decoded int
	budget  int
}

func (d *yamlDecoder) decode(n *yaml.Node) (any, error) {
	d.decoded++
	if d.decoded > d.budget {
		return nil, fmt.Errorf("%w: line %d: alias expansion exceeds %d nodes", types.ErrStructural, n.Line, d.budget)
	}

	if d.active[n] {
		return nil, fmt.Errorf("%w: line %d: recursive alias", types.ErrStructural, n.Line)
	}
	d.active[n] = true
	defer delete(d.active, n)

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("%w: line %d: unknown alias", types.ErrStructural, n.Line)
		}
		return d.decode(n.Alias)

	case yaml.MappingNode:
		obj := make(Object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: line %d: mapping keys must be scalars", types.ErrStructural, key.Line)
			}
			v, err := d.decode(value)
			if err != nil {
				return nil, err
			}
			obj = append(obj, Property{Name: key.Value, Value: v})
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := make(Array, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case yaml.ScalarNode:
		return yamlScalar(n)

	default:
		return nil, fmt.Errorf("%w: line %d: unsupported YAML node", types.ErrStructural, n.Line)
	}
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", types.ErrStructural, n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", types.ErrStructural, n.Line, err)
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", types.ErrStructural, n.Line, err)
		}
		return f, nil
	default:
		return n.Value, nil
	}
}
