package condition

import (
	"encoding/json"
	"fmt"
)

// Logic joins the children of a Group.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Operator compares a field value against a rule value.
type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
)

// Rule is a single comparison against one field of the runtime context.
type Rule struct {
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

// Group is a recursive AND/OR combination of rules and nested groups.
type Group struct {
	Logic Logic  `json:"logic"`
	Rules []Node `json:"rules"`
}

// Node is either a Rule or a nested Group. Exactly one side is set.
type Node struct {
	Rule  *Rule
	Group *Group
}

// Visibility is the per-block visibility attribute: an optional condition
// tree plus the editor preview override.
type Visibility struct {
	Condition    *Group `json:"condition,omitempty"`
	ShowInEditor bool   `json:"showInEditor"`
}

// MarshalJSON flattens the node to the wire shape of whichever side is set.
func (n Node) MarshalJSON() ([]byte, error) {
	switch {
	case n.Group != nil:
		return json.Marshal(n.Group)
	case n.Rule != nil:
		return json.Marshal(n.Rule)
	default:
		return nil, fmt.Errorf("condition: node has neither rule nor group")
	}
}

// UnmarshalJSON discriminates on the presence of the "logic" key: groups
// carry it, rules do not.
func (n *Node) UnmarshalJSON(data []byte) error {
	var probe struct {
		Logic *Logic `json:"logic"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Logic != nil {
		var g Group
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		n.Group = &g
		n.Rule = nil
		return nil
	}
	var r Rule
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	n.Rule = &r
	n.Group = nil
	return nil
}

// RuleNode wraps a rule as a tree node.
func RuleNode(field string, op Operator, value interface{}) Node {
	return Node{Rule: &Rule{Field: field, Operator: op, Value: value}}
}

// GroupNode wraps a nested group as a tree node.
func GroupNode(logic Logic, rules ...Node) Node {
	return Node{Group: &Group{Logic: logic, Rules: rules}}
}

// Clone returns a deep copy of the group. The tree is always newly built,
// so a structural copy is enough.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	out := &Group{Logic: g.Logic, Rules: make([]Node, len(g.Rules))}
	for i, n := range g.Rules {
		switch {
		case n.Group != nil:
			out.Rules[i] = Node{Group: n.Group.Clone()}
		case n.Rule != nil:
			r := *n.Rule
			out.Rules[i] = Node{Rule: &r}
		}
	}
	return out
}

// Clone returns a deep copy of the visibility attribute.
func (v *Visibility) Clone() *Visibility {
	if v == nil {
		return nil
	}
	return &Visibility{Condition: v.Condition.Clone(), ShowInEditor: v.ShowInEditor}
}
