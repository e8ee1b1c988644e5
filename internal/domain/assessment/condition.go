package assessment

import (
	"regexp"
	"strconv"
	"strings"
)

// Alert conditions accept exactly one comparison of the form
// "score <op> <number>". Anything else (compound expressions, other
// identifiers, non-numeric thresholds) evaluates to false rather than
// erroring. This is a deliberately closed grammar, not an expression
// language.
var conditionPattern = regexp.MustCompile(`^score(>=|<=|==|!=|>|<)(-?\d+(?:\.\d+)?)$`)

func evalCondition(expr string, score float64) bool {
	compact := strings.Join(strings.Fields(expr), "")
	m := conditionPattern.FindStringSubmatch(compact)
	if m == nil {
		return false
	}
	threshold, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return false
	}
	switch m[1] {
	case ">=":
		return score >= threshold
	case "<=":
		return score <= threshold
	case ">":
		return score > threshold
	case "<":
		return score < threshold
	case "==":
		return score == threshold
	case "!=":
		return score != threshold
	}
	return false
}

// ValidCondition reports whether expr fits the alert-condition grammar.
// Used by template linting; the engine itself silently ignores malformed
// conditions.
func ValidCondition(expr string) bool {
	return conditionPattern.MatchString(strings.Join(strings.Fields(expr), ""))
}
