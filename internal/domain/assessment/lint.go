package assessment

import (
	"fmt"
	"regexp"
)

// LintTemplate reports authoring problems in a template: duplicate or
// dangling question ids, an unknown scoring method, malformed alert
// conditions or validation patterns, and interpretation ranges that are
// inverted, overlapping, or leave gaps below the advisory max_score. The
// engine never enforces any of this at scoring time (first-hit matching
// and the Unknown fallback absorb authoring slack); linting exists so
// authors hear about it before a client does.
func LintTemplate(t *Template) []string {
	var problems []string

	ids := make(map[string]bool, len(t.Questions))
	for i := range t.Questions {
		q := &t.Questions[i]
		if q.ID == "" {
			problems = append(problems, fmt.Sprintf("question %d: missing id", i))
			continue
		}
		if ids[q.ID] {
			problems = append(problems, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		ids[q.ID] = true
		if q.Validation != nil && q.Validation.Pattern != "" {
			if _, err := regexp.Compile(q.Validation.Pattern); err != nil {
				problems = append(problems, fmt.Sprintf("question %q: invalid validation pattern: %v", q.ID, err))
			}
		}
	}

	switch t.Scoring.Method {
	case MethodSum, MethodAverage, MethodWeightedSum, MethodCustom:
	default:
		problems = append(problems, fmt.Sprintf("unknown scoring method %q", t.Scoring.Method))
	}

	for id := range t.Scoring.WeightedItems {
		if !ids[id] {
			problems = append(problems, fmt.Sprintf("weighted item %q references an unknown question", id))
		}
	}
	for _, sub := range t.Scoring.Subscales {
		for _, id := range sub.Items {
			if !ids[id] {
				problems = append(problems, fmt.Sprintf("subscale %q references unknown question %q", sub.Name, id))
			}
		}
	}

	if item := t.Cutoffs.SuicideRiskItem; item != "" && !ids[item] {
		problems = append(problems, fmt.Sprintf("suicide_risk_item %q references an unknown question", item))
	}

	for _, rule := range t.Interpretation.ClinicalAlerts {
		if !ValidCondition(rule.Condition) {
			problems = append(problems, fmt.Sprintf("alert condition %q does not fit the score-comparison grammar", rule.Condition))
		}
	}

	problems = append(problems, lintRanges(t)...)
	return problems
}

func lintRanges(t *Template) []string {
	var problems []string
	ranges := t.Interpretation.Ranges
	for _, r := range ranges {
		if r.Min > r.Max {
			problems = append(problems, fmt.Sprintf("interpretation range %q: min %g exceeds max %g", r.Label, r.Min, r.Max))
		}
	}
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].Min <= ranges[j].Max && ranges[j].Min <= ranges[i].Max {
				problems = append(problems, fmt.Sprintf("interpretation ranges %q and %q overlap (first match wins)", ranges[i].Label, ranges[j].Label))
			}
		}
	}
	// Gap check over the advisory 0..max_score span, probing at integer
	// steps since authored bands are integer-bounded in practice.
	if max := t.Scoring.MaxScore; max > 0 && len(ranges) > 0 {
		for s := 0.0; s <= max; s++ {
			covered := false
			for _, r := range ranges {
				if s >= r.Min && s <= r.Max {
					covered = true
					break
				}
			}
			if !covered {
				problems = append(problems, fmt.Sprintf("score %g falls in no interpretation range", s))
			}
		}
	}
	return problems
}
