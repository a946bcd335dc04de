// internal/rules/container.go
package rules

import "github.com/solatis/chancekeeper/internal/types"

/*
 * Container nodes.
 *
 *   And: true when every child is true. Empty And is true.
 *   Or:  true when any child is true. Empty Or is false.
 *   Not: true when every child is false (NOR). Empty Not is true.
 *
 * All three short-circuit left to right. A child error aborts evaluation and
 * is returned unchanged so the caller sees the failing condition.
 */

// And holds when all children hold.
type And struct {
	Children []Node
}

// NewAnd returns an And over children.
func NewAnd(children ...Node) *And {
	return &And{Children: children}
}

// Add appends children.
func (a *And) Add(children ...Node) { a.Children = append(a.Children, children...) }

func (a *And) ChildNodes() []Node { return a.Children }

func (a *And) Evaluate(ctx types.Context) (bool, error) {
	for _, child := range a.Children {
		if child == nil {
			continue
		}
		ok, err := child.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (a *And) Encode() (Property, error) {
	return encodeContainer(KeyAnd, a.Children)
}

// Or holds when at least one child holds.
type Or struct {
	Children []Node
}

// NewOr returns an Or over children.
func NewOr(children ...Node) *Or {
	return &Or{Children: children}
}

// Add appends children.
func (o *Or) Add(children ...Node) { o.Children = append(o.Children, children...) }

func (o *Or) ChildNodes() []Node { return o.Children }

func (o *Or) Evaluate(ctx types.Context) (bool, error) {
	for _, child := range o.Children {
		if child == nil {
			continue
		}
		ok, err := child.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (o *Or) Encode() (Property, error) {
	return encodeContainer(KeyOr, o.Children)
}

// Not holds when no child holds.
type Not struct {
	Children []Node
}

// NewNot returns a Not over children.
func NewNot(children ...Node) *Not {
	return &Not{Children: children}
}

// Add appends children.
func (n *Not) Add(children ...Node) { n.Children = append(n.Children, children...) }

func (n *Not) ChildNodes() []Node { return n.Children }

func (n *Not) Evaluate(ctx types.Context) (bool, error) {
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		ok, err := child.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

func (n *Not) Encode() (Property, error) {
	return encodeContainer(KeyNot, n.Children)
}

func encodeContainer(key string, children []Node) (Property, error) {
	value, err := encodeChildren(children)
	if err != nil {
		return Property{}, err
	}
	return Property{Name: key, Value: value}, nil
}
