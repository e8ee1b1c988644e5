package assessment

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// normalizeResponse converts one raw response into a scorable number.
// ok=false means "not scorable": the value is then skipped by every
// aggregation, never counted as zero. weighted reports whether the question
// appears in scoring_config.weighted_items; only then do free-text style
// items (text, textarea, date, time) attempt a best-effort numeric parse.
func normalizeResponse(q *Question, raw interface{}, weighted bool) (float64, bool) {
	switch q.Type {
	case TypeScale, TypeLikert, TypeSlider, TypeNumber:
		v, ok := toFloat(raw)
		if !ok {
			return 0, false
		}
		if q.ReverseScored {
			if max, hasMax := q.MaxBound(); hasMax {
				min, _ := q.MinBound() // defaults to 0 when absent
				v = (max - v) + min
			}
		}
		return v, true

	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return 0, false
		}
		if b {
			return 1, true
		}
		return 0, true

	case TypeSingleChoice:
		return resolveOptionScore(q, raw)

	case TypeMultipleChoice, TypeMultiChoice:
		selections, ok := raw.([]interface{})
		if !ok {
			return 0, false
		}
		var sum float64
		for _, sel := range selections {
			if v, ok := resolveOptionScore(q, sel); ok {
				sum += v
			}
		}
		return sum, true

	case TypeText, TypeTextarea, TypeDate, TypeTime:
		// Not numeric by default; only explicitly weighted items get a
		// best-effort parse.
		if !weighted {
			return 0, false
		}
		return toFloat(raw)

	default:
		return 0, false
	}
}

// resolveOptionScore resolves a raw selection to its score. Matching order:
// an already-numeric value is taken as a direct option index; otherwise
// options carrying an explicit value match by value and bare-label options
// match by label. Reverse scoring reflects the resolved position across the
// option order and scores the reflected position.
func resolveOptionScore(q *Question, raw interface{}) (float64, bool) {
	idx, ok := resolveOptionIndex(q, raw)
	if !ok {
		return 0, false
	}
	if q.ReverseScored {
		idx = (len(q.Options) - 1) - idx
	}
	return optionScore(q, idx), true
}

func resolveOptionIndex(q *Question, raw interface{}) (int, bool) {
	if f, ok := numericValue(raw); ok {
		i := int(f)
		if float64(i) == f && i >= 0 && i < len(q.Options) {
			return i, true
		}
		return 0, false
	}
	for i, opt := range q.Options {
		if opt.Value != nil {
			if valueEqual(opt.Value, raw) {
				return i, true
			}
			continue
		}
		if s, ok := raw.(string); ok && s == opt.Label {
			return i, true
		}
	}
	return 0, false
}

// optionScore scores the option at idx: its explicit value when the author
// supplied a numeric one, otherwise the zero-based position.
func optionScore(q *Question, idx int) float64 {
	if q.Options[idx].Value != nil {
		if f, ok := numericValue(q.Options[idx].Value); ok {
			return f
		}
	}
	return float64(idx)
}

func valueEqual(a, b interface{}) bool {
	if fa, ok := numericValue(a); ok {
		fb, ok := numericValue(b)
		return ok && fa == fb
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		return ok && sa == sb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// numericValue unwraps values that are already numbers. Strings are not
// coerced here; that distinction matters for option-index resolution.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toFloat coerces a raw response to a float, accepting numeric types and
// parseable strings. NaN and everything unparseable report ok=false.
func toFloat(v interface{}) (float64, bool) {
	if f, ok := numericValue(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
