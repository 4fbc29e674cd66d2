package condition

import (
	"strconv"
	"strings"
)

// Evaluate walks the rule tree against a flattened field-value map and
// returns whether the condition holds. It is total: malformed rules and
// absent fields degrade to false instead of raising.
//
// Missing-field semantics: a rule whose field is absent evaluates false,
// except "!=" which evaluates true (absence counts as "not equal"). This
// asymmetry is deliberate and load-bearing for documents whose runtime
// context is filled in progressively.
func Evaluate(g *Group, fieldValues map[string]interface{}) bool {
	if g == nil {
		return true
	}
	// An empty rule list is vacuously true for AND, false for OR.
	if len(g.Rules) == 0 {
		return g.Logic != LogicOr
	}

	and := g.Logic != LogicOr
	for _, node := range g.Rules {
		v := evalNode(node, fieldValues)
		if and && !v {
			return false
		}
		if !and && v {
			return true
		}
	}
	return and
}

// ShouldRender decides block visibility: no condition means visible, a
// passing condition means visible, and editors may force-preview hidden
// blocks via the showInEditor override.
func ShouldRender(v *Visibility, fieldValues map[string]interface{}, isEditorContext bool) bool {
	if v == nil || v.Condition == nil {
		return true
	}
	if Evaluate(v.Condition, fieldValues) {
		return true
	}
	return isEditorContext && v.ShowInEditor
}

func evalNode(n Node, fieldValues map[string]interface{}) bool {
	switch {
	case n.Group != nil:
		return Evaluate(n.Group, fieldValues)
	case n.Rule != nil:
		return evalRule(n.Rule, fieldValues)
	default:
		return false
	}
}

func evalRule(r *Rule, fieldValues map[string]interface{}) bool {
	actual, present := fieldValues[r.Field]
	if !present {
		return r.Operator == OpNotEqual
	}
	return compare(r.Operator, actual, r.Value)
}

// compare coerces both operands to the same primitive kind (number,
// string, or boolean) and compares. Mismatched kinds evaluate false.
func compare(op Operator, actual, expected interface{}) bool {
	if af, ok := toNumber(actual); ok {
		ef, ok := toNumber(expected)
		if !ok {
			return false
		}
		return compareNumbers(op, af, ef)
	}

	if ab, ok := actual.(bool); ok {
		eb, ok := toBool(expected)
		if !ok {
			return false
		}
		switch op {
		case OpEqual:
			return ab == eb
		case OpNotEqual:
			return ab != eb
		default:
			return false
		}
	}

	if as, ok := actual.(string); ok {
		es, ok := expected.(string)
		if !ok {
			return false
		}
		return compareStrings(op, as, es)
	}

	return false
}

func compareNumbers(op Operator, a, b float64) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpGreater:
		return a > b
	case OpLess:
		return a < b
	case OpGreaterOrEqual:
		return a >= b
	case OpLessOrEqual:
		return a <= b
	default:
		return false
	}
}

func compareStrings(op Operator, a, b string) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpGreater:
		return a > b
	case OpLess:
		return a < b
	case OpGreaterOrEqual:
		return a >= b
	case OpLessOrEqual:
		return a <= b
	default:
		return false
	}
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}
