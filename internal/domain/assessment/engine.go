package assessment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Engine scores one set of responses against one template. It is read-only
// over both inputs and every method is independently callable; construction
// is the only state it carries, so instances are safe to build from any
// context, including tests and the offline CLI.
type Engine struct {
	tmpl      *Template
	responses map[string]interface{}
}

func NewEngine(tmpl *Template, responses map[string]interface{}) *Engine {
	return &Engine{tmpl: tmpl, responses: responses}
}

func (e *Engine) normalize(q *Question) (float64, bool) {
	raw, ok := e.responses[q.ID]
	if !ok {
		return 0, false
	}
	_, weighted := e.tmpl.Scoring.WeightedItems[q.ID]
	return normalizeResponse(q, raw, weighted)
}

// RawScore computes the overall score using the configured method, rounded
// to two decimal places. An unknown method is a template-authoring bug and
// is the engine's only hard error; every response-quality problem degrades
// to a skipped item instead.
func (e *Engine) RawScore() (float64, error) {
	var score float64
	switch e.tmpl.Scoring.Method {
	case MethodSum:
		score = e.sum()
	case MethodAverage:
		score = e.average()
	case MethodWeightedSum:
		score = e.weightedSum()
	case MethodCustom:
		score = e.custom()
	default:
		return 0, fmt.Errorf("unsupported scoring method %q", e.tmpl.Scoring.Method)
	}
	return round2(score), nil
}

func (e *Engine) sum() float64 {
	var total float64
	for i := range e.tmpl.Questions {
		if v, ok := e.normalize(&e.tmpl.Questions[i]); ok {
			total += v
		}
	}
	return total
}

// average divides by the count of successfully normalized items, not the
// question count, so unanswered items do not drag the mean toward zero.
func (e *Engine) average() float64 {
	var total float64
	var count int
	for i := range e.tmpl.Questions {
		if v, ok := e.normalize(&e.tmpl.Questions[i]); ok {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func (e *Engine) weightedSum() float64 {
	var total float64
	for i := range e.tmpl.Questions {
		q := &e.tmpl.Questions[i]
		v, ok := e.normalize(q)
		if !ok {
			continue
		}
		weight := 1.0
		if w, ok := e.tmpl.Scoring.WeightedItems[q.ID]; ok {
			weight = w
		}
		total += v * weight
	}
	return total
}

// custom dispatches on the custom_logic string: the literals "average" and
// "weighted_sum" (case-insensitive) delegate to those methods, anything
// else falls back to a plain sum. That fallback mirrors longstanding
// production behavior and is kept intentionally.
func (e *Engine) custom() float64 {
	switch strings.ToLower(strings.TrimSpace(e.tmpl.Scoring.CustomLogic)) {
	case "average":
		return e.average()
	case "weighted_sum":
		return e.weightedSum()
	default:
		return e.sum()
	}
}

// SubscaleScores totals each configured subscale over its member items.
// Subscales always sum regardless of the overall scoring method. Returns
// nil when the template configures none.
func (e *Engine) SubscaleScores() map[string]float64 {
	if len(e.tmpl.Scoring.Subscales) == 0 {
		return nil
	}
	scores := make(map[string]float64, len(e.tmpl.Scoring.Subscales))
	for _, sub := range e.tmpl.Scoring.Subscales {
		var total float64
		for _, id := range sub.Items {
			q := e.tmpl.Question(id)
			if q == nil {
				continue
			}
			if v, ok := e.normalize(q); ok {
				total += v
			}
		}
		scores[sub.Name] = total
	}
	return scores
}

// Interpretation returns the first configured range containing the score
// (bounds inclusive). An unmatched score never errors; it maps to the
// "Unknown" fallback category.
func (e *Engine) Interpretation(score float64) Interpretation {
	for _, r := range e.tmpl.Interpretation.Ranges {
		if score >= r.Min && score <= r.Max {
			return Interpretation{
				Category:             r.Label,
				Description:          r.Description,
				Severity:             r.Severity,
				ClinicalSignificance: r.ClinicalSignificance,
				Recommendations:      r.Recommendations,
			}
		}
	}
	return Interpretation{
		Category:             "Unknown",
		Description:          "The score does not fall within any configured interpretation range.",
		ClinicalSignificance: "unknown",
		Recommendations:      "Consult with your clinician for interpretation of this result.",
	}
}

// ClinicalAlerts evaluates every safety rule against the score. Alerts
// accumulate; multiple can fire on one run and there is no early exit. The
// suicide-risk check reads the specific item's normalized response and is
// independent of the overall score.
func (e *Engine) ClinicalAlerts(score float64) []Alert {
	alerts := []Alert{}

	if cutoff := e.tmpl.Cutoffs.ClinicalCutoff; cutoff != nil && score >= *cutoff {
		alerts = append(alerts, Alert{
			Message:        fmt.Sprintf("Score %s meets or exceeds the clinical cutoff of %s.", formatScore(score), formatScore(*cutoff)),
			Severity:       SeverityWarning,
			ActionRequired: true,
		})
	}

	if item, threshold := e.tmpl.Cutoffs.SuicideRiskItem, e.tmpl.Cutoffs.SuicideRiskThreshold; item != "" && threshold != nil {
		if q := e.tmpl.Question(item); q != nil {
			if v, ok := e.normalize(q); ok && v >= *threshold {
				alerts = append(alerts, Alert{
					Message:        "Suicide risk item response meets or exceeds the configured threshold. Immediate clinical review required.",
					Severity:       SeverityCritical,
					ActionRequired: true,
				})
			}
		}
	}

	for _, rule := range e.tmpl.Interpretation.ClinicalAlerts {
		if evalCondition(rule.Condition, score) {
			alerts = append(alerts, Alert{
				Message:        rule.Message,
				Severity:       rule.Severity,
				ActionRequired: rule.ActionRequired,
			})
		}
	}

	return alerts
}

// NarrativeReport renders a human-readable multi-line summary of the
// scoring run. Pure formatting; the embedded date line is the only
// wall-clock dependent output of the engine.
func (e *Engine) NarrativeReport(score float64, interp Interpretation) string {
	name := e.tmpl.Name
	if name == "" {
		name = e.tmpl.ID
	}
	if e.tmpl.Abbreviation != "" {
		name = fmt.Sprintf("%s (%s)", name, e.tmpl.Abbreviation)
	}

	lines := []string{
		"Assessment: " + name,
		"Date: " + time.Now().Format("January 2, 2006"),
	}
	if max := e.tmpl.Scoring.MaxScore; max > 0 {
		lines = append(lines,
			fmt.Sprintf("Score: %s / %s", formatScore(score), formatScore(max)),
			fmt.Sprintf("Percentage: %d%%", int(math.Round(score/max*100))),
		)
	} else {
		lines = append(lines, "Score: "+formatScore(score))
	}
	lines = append(lines, "Interpretation: "+interp.Category)
	if interp.Description != "" {
		lines = append(lines, "Description: "+interp.Description)
	}
	if interp.Recommendations != "" {
		lines = append(lines, "Recommendations: "+interp.Recommendations)
	}
	return strings.Join(lines, "\n")
}

// CompletionPercentage reports answered questions (present, non-nil,
// non-empty-string responses) over total questions, rounded to the nearest
// whole percent.
func (e *Engine) CompletionPercentage() int {
	total := len(e.tmpl.Questions)
	if total == 0 {
		return 0
	}
	answered := 0
	for i := range e.tmpl.Questions {
		raw, ok := e.responses[e.tmpl.Questions[i].ID]
		if ok && raw != nil && raw != "" {
			answered++
		}
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
