package assessment

import (
	"context"
	"fmt"
)

// Service exposes the scoring engine to collaborator code (HTTP handlers,
// the offline CLI). It owns template lookup; the engine itself stays a
// pure function of (template, responses).
type Service struct {
	templates TemplateRepository
}

func NewService(templates TemplateRepository) *Service {
	return &Service{templates: templates}
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*Template, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context, limit, offset int) ([]*Template, int, error) {
	return s.templates.List(ctx, limit, offset)
}

// Score runs a full scoring pass for the given template id.
func (s *Service) Score(ctx context.Context, id string, responses map[string]interface{}) (*ScoreResult, error) {
	if responses == nil {
		return nil, fmt.Errorf("responses are required")
	}
	tmpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ScoreTemplate(tmpl, responses)
}

// Validate reports completeness and shape problems for the given template
// id without scoring.
func (s *Service) Validate(ctx context.Context, id string, responses map[string]interface{}) (*ValidationResult, error) {
	if responses == nil {
		return nil, fmt.Errorf("responses are required")
	}
	tmpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	eng := NewEngine(tmpl, responses)
	return &ValidationResult{
		ValidationReport:     eng.ValidateResponses(),
		CompletionPercentage: eng.CompletionPercentage(),
	}, nil
}

// ValidationResult pairs the validation report with the completion
// percentage the portal shows next to it.
type ValidationResult struct {
	ValidationReport
	CompletionPercentage int `json:"completion_percentage"`
}

// ScoreTemplate assembles the complete score result for one template and
// response set. Shared by the service and the offline scorer.
func ScoreTemplate(tmpl *Template, responses map[string]interface{}) (*ScoreResult, error) {
	eng := NewEngine(tmpl, responses)
	score, err := eng.RawScore()
	if err != nil {
		return nil, err
	}
	interp := eng.Interpretation(score)
	return &ScoreResult{
		TemplateID:           tmpl.ID,
		RawScore:             score,
		MaxScore:             tmpl.Scoring.MaxScore,
		Interpretation:       interp,
		SubscaleScores:       eng.SubscaleScores(),
		Alerts:               eng.ClinicalAlerts(score),
		Narrative:            eng.NarrativeReport(score, interp),
		CompletionPercentage: eng.CompletionPercentage(),
	}, nil
}
