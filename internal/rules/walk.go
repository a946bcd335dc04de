// internal/rules/walk.go
package rules

import "sort"

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the children of the node just visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	if c, ok := n.(Container); ok {
		for _, child := range c.ChildNodes() {
			Walk(child, fn)
		}
	}
}

// Depth returns the number of levels in the tree rooted at n. A leaf or an
// empty container has depth 1.
func Depth(n Node) int {
	if n == nil {
		return 0
	}
	c, ok := n.(Container)
	if !ok {
		return 1
	}
	deepest := 0
	for _, child := range c.ChildNodes() {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// ConditionNames returns the distinct context keys read by the tree rooted
// at n, sorted.
func ConditionNames(n Node) []string {
	set := make(map[string]struct{})
	collectNames(n, set)
	return sortedKeys(set)
}

// ConditionNames returns the distinct context keys read by any modifier.
func (c *Chance) ConditionNames() []string {
	set := make(map[string]struct{})
	for _, m := range c.Modifiers {
		if m != nil && m.Condition != nil {
			collectNames(m.Condition, set)
		}
	}
	return sortedKeys(set)
}

// Depth returns the depth of the deepest modifier tree.
func (c *Chance) Depth() int {
	deepest := 0
	for _, m := range c.Modifiers {
		if m == nil || m.Condition == nil {
			continue
		}
		if d := Depth(m.Condition); d > deepest {
			deepest = d
		}
	}
	return deepest
}

func collectNames(n Node, set map[string]struct{}) {
	Walk(n, func(node Node) bool {
		if leaf, ok := node.(Leaf); ok {
			set[leaf.ConditionName()] = struct{}{}
		}
		return true
	})
}

func sortedKeys(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
