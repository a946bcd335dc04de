// internal/rules/node.go
package rules

import "github.com/solatis/chancekeeper/internal/types"

/*
 * Condition tree node model.
 *
 * A tree is built from two kinds of node:
 *   - Leaf: tests one context key (BoolEquals, ApproxEquals, MoreThan,
 *     LessThan, or any registered extension).
 *   - Container: combines ordered children (And, Or, Not).
 *
 * Every node evaluates against a read-only Context and encodes itself as one
 * JSON property. A Modifier owns its root And exclusively; children are owned
 * by their parent. No back-references, no shared ownership, no cycles.
 *
 * Nil children are tolerated and skipped by both evaluation and encoding.
 */

// Wrapper keys for built-in containers and operators, plus the reserved
// Modifier and Chance keys.
const (
	KeyAnd       = "and"
	KeyOr        = "or"
	KeyNot       = "not"
	KeyMoreThan  = "more_than"
	KeyLessThan  = "less_than"
	KeyFactor    = "factor"
	KeyModifiers = "modifiers"
)

// Node is a unit of a condition tree.
type Node interface {
	// Evaluate reports whether the condition holds for ctx. A non-nil error
	// aborts evaluation of the enclosing tree.
	Evaluate(ctx types.Context) (bool, error)

	// Encode returns the node's JSON property.
	Encode() (Property, error)
}

// Leaf is a node that tests a single context key.
type Leaf interface {
	Node
	ConditionName() string
}

// Container is a node combining child nodes.
type Container interface {
	Node
	ChildNodes() []Node
}

// encodeChildren encodes children as one object keyed by each child's
// property name. On the first duplicate name it switches to an array of
// single-property objects, keeping order, so no child is lost.
func encodeChildren(children []Node) (any, error) {
	obj := make(Object, 0, len(children))
	seen := make(map[string]struct{}, len(children))
	var arr Array

	for _, child := range children {
		if child == nil {
			continue
		}
		p, err := child.Encode()
		if err != nil {
			return nil, err
		}

		if arr != nil {
			arr = append(arr, Object{p})
			continue
		}
		if _, dup := seen[p.Name]; dup {
			arr = make(Array, 0, len(children))
			for _, prev := range obj {
				arr = append(arr, Object{prev})
			}
			arr = append(arr, Object{p})
			continue
		}
		seen[p.Name] = struct{}{}
		obj = append(obj, p)
	}

	if arr != nil {
		return arr, nil
	}
	return obj, nil
}
