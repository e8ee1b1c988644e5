package assessment

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// QuestionType identifies the response shape of a questionnaire item.
type QuestionType string

const (
	TypeScale          QuestionType = "scale"
	TypeLikert         QuestionType = "likert"
	TypeSlider         QuestionType = "slider"
	TypeNumber         QuestionType = "number"
	TypeBoolean        QuestionType = "boolean"
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
	// TypeMultiChoice is a legacy alias for TypeMultipleChoice still present
	// in older template files.
	TypeMultiChoice QuestionType = "multi_choice"
	TypeText        QuestionType = "text"
	TypeTextarea    QuestionType = "textarea"
	TypeDate        QuestionType = "date"
	TypeTime        QuestionType = "time"
)

// Option is one selectable choice of a single_choice or multiple_choice
// question. Template authors may write it as a bare label string, in which
// case Value is nil and the option scores by its zero-based position, or as
// a {label, value} pair, in which case the explicit value is the score.
type Option struct {
	Label string
	Value interface{}
}

func (o *Option) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Label = s
		o.Value = nil
		return nil
	}
	var pair struct {
		Label string      `json:"label"`
		Value interface{} `json:"value"`
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("option must be a string or a {label, value} pair: %w", err)
	}
	o.Label = pair.Label
	o.Value = pair.Value
	return nil
}

func (o Option) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return json.Marshal(o.Label)
	}
	return json.Marshal(struct {
		Label string      `json:"label"`
		Value interface{} `json:"value"`
	}{o.Label, o.Value})
}

func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Label = node.Value
		o.Value = nil
		return nil
	}
	var pair struct {
		Label string      `yaml:"label"`
		Value interface{} `yaml:"value"`
	}
	if err := node.Decode(&pair); err != nil {
		return fmt.Errorf("option must be a string or a {label, value} pair: %w", err)
	}
	o.Label = pair.Label
	o.Value = pair.Value
	return nil
}

// ValidationRule holds optional free-text/numeric constraints for an item.
type ValidationRule struct {
	Pattern  string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinValue *float64 `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty" yaml:"max_value,omitempty"`
}

// Question is one item in a questionnaire template. Numeric bounds may be
// authored as min/max or as the scale_min/scale_max aliases.
type Question struct {
	ID            string          `json:"id" yaml:"id"`
	Type          QuestionType    `json:"type" yaml:"type"`
	Text          string          `json:"text,omitempty" yaml:"text,omitempty"`
	Min           *float64        `json:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64        `json:"max,omitempty" yaml:"max,omitempty"`
	ScaleMin      *float64        `json:"scale_min,omitempty" yaml:"scale_min,omitempty"`
	ScaleMax      *float64        `json:"scale_max,omitempty" yaml:"scale_max,omitempty"`
	Step          *float64        `json:"step,omitempty" yaml:"step,omitempty"`
	Options       []Option        `json:"options,omitempty" yaml:"options,omitempty"`
	ReverseScored bool            `json:"reverse_scored,omitempty" yaml:"reverse_scored,omitempty"`
	Required      *bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Validation    *ValidationRule `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// IsRequired reports whether the question must be answered. Questions are
// required unless the template explicitly sets required: false.
func (q *Question) IsRequired() bool {
	return q.Required == nil || *q.Required
}

// MinBound returns the lower numeric bound (min or its scale_min alias).
func (q *Question) MinBound() (float64, bool) {
	if q.Min != nil {
		return *q.Min, true
	}
	if q.ScaleMin != nil {
		return *q.ScaleMin, true
	}
	return 0, false
}

// MaxBound returns the upper numeric bound (max or its scale_max alias).
func (q *Question) MaxBound() (float64, bool) {
	if q.Max != nil {
		return *q.Max, true
	}
	if q.ScaleMax != nil {
		return *q.ScaleMax, true
	}
	return 0, false
}

// ScoringMethod selects how normalized item values aggregate into the raw
// score.
type ScoringMethod string

const (
	MethodSum         ScoringMethod = "sum"
	MethodAverage     ScoringMethod = "average"
	MethodWeightedSum ScoringMethod = "weighted_sum"
	MethodCustom      ScoringMethod = "custom"
)

// Subscale is a named subset of questions totalled independently of the
// overall score.
type Subscale struct {
	Name     string   `json:"name" yaml:"name"`
	Items    []string `json:"items" yaml:"items"`
	MaxScore float64  `json:"max_score,omitempty" yaml:"max_score,omitempty"`
}

// ScoringConfig describes how a template is scored. MaxScore is advisory:
// it feeds percentage display only and is never enforced against the
// achievable sum.
type ScoringConfig struct {
	Method        ScoringMethod      `json:"method" yaml:"method"`
	MaxScore      float64            `json:"max_score,omitempty" yaml:"max_score,omitempty"`
	WeightedItems map[string]float64 `json:"weighted_items,omitempty" yaml:"weighted_items,omitempty"`
	Subscales     []Subscale         `json:"subscales,omitempty" yaml:"subscales,omitempty"`
	CustomLogic   string             `json:"custom_logic,omitempty" yaml:"custom_logic,omitempty"`
}

// InterpretationRange maps a closed score band [Min, Max] to a clinical
// label. Bands are matched first-hit in authored order.
type InterpretationRange struct {
	Min                  float64 `json:"min" yaml:"min"`
	Max                  float64 `json:"max" yaml:"max"`
	Label                string  `json:"label" yaml:"label"`
	Description          string  `json:"description,omitempty" yaml:"description,omitempty"`
	Severity             string  `json:"severity,omitempty" yaml:"severity,omitempty"`
	ClinicalSignificance string  `json:"clinical_significance,omitempty" yaml:"clinical_significance,omitempty"`
	Recommendations      string  `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// ClinicalAlertRule raises an alert when its condition matches the overall
// score. Condition uses the restricted "score <op> <number>" grammar.
type ClinicalAlertRule struct {
	Condition      string `json:"condition" yaml:"condition"`
	Message        string `json:"message" yaml:"message"`
	Severity       string `json:"severity,omitempty" yaml:"severity,omitempty"`
	ActionRequired bool   `json:"action_required,omitempty" yaml:"action_required,omitempty"`
}

// InterpretationRules holds the score bands and rule-based alerts of a
// template.
type InterpretationRules struct {
	Ranges         []InterpretationRange `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	ClinicalAlerts []ClinicalAlertRule   `json:"clinical_alerts,omitempty" yaml:"clinical_alerts,omitempty"`
}

// ClinicalCutoffs holds safety thresholds evaluated on every scoring run.
type ClinicalCutoffs struct {
	ClinicalCutoff       *float64 `json:"clinical_cutoff,omitempty" yaml:"clinical_cutoff,omitempty"`
	SuicideRiskItem      string   `json:"suicide_risk_item,omitempty" yaml:"suicide_risk_item,omitempty"`
	SuicideRiskThreshold *float64 `json:"suicide_risk_threshold,omitempty" yaml:"suicide_risk_threshold,omitempty"`
}

// Template is the immutable definition of a questionnaire: ordered typed
// questions plus scoring and interpretation configuration.
type Template struct {
	ID             string              `json:"id" yaml:"id"`
	Name           string              `json:"name" yaml:"name"`
	Abbreviation   string              `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
	Description    string              `json:"description,omitempty" yaml:"description,omitempty"`
	Questions      []Question          `json:"questions" yaml:"questions"`
	Scoring        ScoringConfig       `json:"scoring_config" yaml:"scoring_config"`
	Interpretation InterpretationRules `json:"interpretation_rules,omitempty" yaml:"interpretation_rules,omitempty"`
	Cutoffs        ClinicalCutoffs     `json:"clinical_cutoffs,omitempty" yaml:"clinical_cutoffs,omitempty"`
}

// Question returns the question with the given id, or nil.
func (t *Template) Question(id string) *Question {
	for i := range t.Questions {
		if t.Questions[i].ID == id {
			return &t.Questions[i]
		}
	}
	return nil
}

// Interpretation is the clinical reading of a score.
type Interpretation struct {
	Category             string `json:"category"`
	Description          string `json:"description,omitempty"`
	Severity             string `json:"severity,omitempty"`
	ClinicalSignificance string `json:"clinical_significance,omitempty"`
	Recommendations      string `json:"recommendations,omitempty"`
}

// Alert severity levels.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert is a safety or clinical flag raised during scoring.
type Alert struct {
	Message        string `json:"message"`
	Severity       string `json:"severity"`
	ActionRequired bool   `json:"action_required"`
}

// ValidationReport describes response completeness and shape problems.
// It is advisory: an incomplete or invalid response set still scores
// (unscorable answers are skipped, never treated as zero).
type ValidationReport struct {
	IsComplete       bool     `json:"is_complete"`
	MissingQuestions []string `json:"missing_questions"`
	InvalidResponses []string `json:"invalid_responses"`
}

// ScoreResult is the full output of one scoring run.
type ScoreResult struct {
	TemplateID           string             `json:"template_id"`
	RawScore             float64            `json:"raw_score"`
	MaxScore             float64            `json:"max_score,omitempty"`
	Interpretation       Interpretation     `json:"interpretation"`
	SubscaleScores       map[string]float64 `json:"subscale_scores,omitempty"`
	Alerts               []Alert            `json:"alerts"`
	Narrative            string             `json:"narrative"`
	CompletionPercentage int                `json:"completion_percentage"`
}
