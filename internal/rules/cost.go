// internal/rules/cost.go
package rules

/*
 * Cost model for condition evaluation.
 *
 * Estimates the relative work of evaluating a tree so stored chances can be
 * compared and expensive definitions spotted before they reach the hot path.
 *
 * Leaf cost:      lookup_cost + (operator_cost * type_multiplier)
 * Container cost: container_cost + sum(child costs)
 * Chance cost:    sum(modifier root costs)
 *
 * Costs are an upper bound: short-circuiting usually evaluates fewer nodes.
 * Node types outside this package can report their own cost by implementing
 * Coster; others are charged as a numeric equality.
 */

// Canonical cost constants.
const (
	// Operator base costs
	CostBoolEquals   = 1
	CostApproxEquals = 5
	CostCompare      = 7
	CostContainer    = 1

	// Context lookup cost per leaf
	CostLookup = 128

	// Operand type multipliers
	MultiplierBool  = 1
	MultiplierFloat = 4
)

// Coster is implemented by nodes that know their own evaluation cost.
type Coster interface {
	Cost() int
}

// NodeCost computes the cost of the tree rooted at n.
func NodeCost(n Node) int {
	switch v := n.(type) {
	case nil:
		return 0
	case Coster:
		return v.Cost()
	case *BoolEquals:
		return CostLookup + CostBoolEquals*MultiplierBool
	case *ApproxEquals:
		return CostLookup + CostApproxEquals*MultiplierFloat
	case *MoreThan, *LessThan:
		return CostLookup + CostCompare*MultiplierFloat
	case Container:
		total := CostContainer
		for _, child := range v.ChildNodes() {
			total += NodeCost(child)
		}
		return total
	default:
		return CostLookup + CostApproxEquals*MultiplierFloat
	}
}

// Cost computes the cost of evaluating m's condition.
func (m *Modifier) Cost() int {
	if m == nil || m.Condition == nil {
		return 0
	}
	return NodeCost(m.Condition)
}

// Cost computes the cost of evaluating every modifier of c.
func (c *Chance) Cost() int {
	total := 0
	for _, m := range c.Modifiers {
		total += m.Cost()
	}
	return total
}
