package assessment

import (
	"fmt"
	"math"
	"regexp"
)

const stepEpsilon = 1e-6

// ValidateResponses reports missing required questions and responses whose
// shape does not fit their question definition. The report is advisory and
// independent of scoring: an invalid response set still produces a
// best-effort score because aggregation skips whatever it cannot
// normalize.
func (e *Engine) ValidateResponses() ValidationReport {
	report := ValidationReport{
		MissingQuestions: []string{},
		InvalidResponses: []string{},
	}
	for i := range e.tmpl.Questions {
		q := &e.tmpl.Questions[i]
		raw, present := e.responses[q.ID]
		if !present || raw == nil || raw == "" {
			// Missing required questions short-circuit type validation;
			// empty optional ones are skipped entirely.
			if q.IsRequired() {
				report.MissingQuestions = append(report.MissingQuestions, q.ID)
			}
			continue
		}
		if !validResponse(q, raw) {
			report.InvalidResponses = append(report.InvalidResponses, q.ID)
		}
	}
	report.IsComplete = len(report.MissingQuestions) == 0
	return report
}

func validResponse(q *Question, raw interface{}) bool {
	switch q.Type {
	case TypeScale, TypeLikert, TypeSlider, TypeNumber:
		return validNumeric(q, raw)

	case TypeSingleChoice:
		_, ok := resolveOptionIndex(q, raw)
		return ok

	case TypeMultipleChoice, TypeMultiChoice:
		selections, ok := raw.([]interface{})
		if !ok {
			return false
		}
		for _, sel := range selections {
			if _, ok := resolveOptionIndex(q, sel); !ok {
				return false
			}
		}
		return true

	case TypeText, TypeTextarea:
		return validText(q, raw)

	default:
		return true
	}
}

func validNumeric(q *Question, raw interface{}) bool {
	v, ok := toFloat(raw)
	if !ok {
		return false
	}
	if min, hasMin := q.MinBound(); hasMin && v < min {
		return false
	}
	if max, hasMax := q.MaxBound(); hasMax && v > max {
		return false
	}
	if q.Step != nil && *q.Step > 0 {
		min, _ := q.MinBound()
		steps := math.Round((v - min) / *q.Step)
		if math.Abs(v-(min+steps**q.Step)) > stepEpsilon {
			return false
		}
	}
	return true
}

func validText(q *Question, raw interface{}) bool {
	if q.Validation == nil {
		return true
	}
	if q.Validation.Pattern != "" {
		// A malformed pattern is treated as no constraint; template typos
		// must not fail the client's response.
		if re, err := regexp.Compile(q.Validation.Pattern); err == nil {
			if !re.MatchString(stringify(raw)) {
				return false
			}
		}
	}
	if v, ok := toFloat(raw); ok {
		if q.Validation.MinValue != nil && v < *q.Validation.MinValue {
			return false
		}
		if q.Validation.MaxValue != nil && v > *q.Validation.MaxValue {
			return false
		}
	}
	return true
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
