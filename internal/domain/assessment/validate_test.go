package assessment

import "testing"

func TestValidate_MissingRequired(t *testing.T) {
	tmpl := sumTemplate("q1", "q2", "q3")
	eng := NewEngine(tmpl, map[string]interface{}{"q1": 1.0, "q3": 2.0})
	report := eng.ValidateResponses()
	if report.IsComplete {
		t.Error("expected incomplete")
	}
	if len(report.MissingQuestions) != 1 || report.MissingQuestions[0] != "q2" {
		t.Errorf("expected missing [q2], got %v", report.MissingQuestions)
	}
}

func TestValidate_Complete(t *testing.T) {
	tmpl := sumTemplate("q1", "q2")
	report := NewEngine(tmpl, map[string]interface{}{"q1": 1.0, "q2": 2.0}).ValidateResponses()
	if !report.IsComplete || len(report.MissingQuestions) != 0 || len(report.InvalidResponses) != 0 {
		t.Errorf("expected clean report, got %+v", report)
	}
}

func TestValidate_OptionalNotMissing(t *testing.T) {
	tmpl := sumTemplate("q1")
	tmpl.Questions[0].Required = boolPtr(false)
	report := NewEngine(tmpl, map[string]interface{}{}).ValidateResponses()
	if !report.IsComplete || len(report.MissingQuestions) != 0 {
		t.Errorf("optional question must not be missing, got %+v", report)
	}
}

func TestValidate_EmptyValuesAreMissing(t *testing.T) {
	tmpl := sumTemplate("q1", "q2")
	report := NewEngine(tmpl, map[string]interface{}{"q1": nil, "q2": ""}).ValidateResponses()
	if len(report.MissingQuestions) != 2 {
		t.Errorf("expected nil and empty-string to count as missing, got %v", report.MissingQuestions)
	}
	// Missing answers are not additionally flagged invalid.
	if len(report.InvalidResponses) != 0 {
		t.Errorf("expected no invalid entries, got %v", report.InvalidResponses)
	}
}

func TestValidate_EmptyOptionalSkipsTypeCheck(t *testing.T) {
	tmpl := sumTemplate("q1")
	tmpl.Questions[0].Required = boolPtr(false)
	report := NewEngine(tmpl, map[string]interface{}{"q1": ""}).ValidateResponses()
	if len(report.InvalidResponses) != 0 {
		t.Errorf("present-but-empty optional value must be skipped, got %v", report.InvalidResponses)
	}
}

func TestValidate_NumericOutOfBounds(t *testing.T) {
	tmpl := sumTemplate("q1")
	report := NewEngine(tmpl, map[string]interface{}{"q1": 5.0}).ValidateResponses()
	if len(report.InvalidResponses) != 1 {
		t.Errorf("expected out-of-bounds value flagged, got %v", report.InvalidResponses)
	}
}

func TestValidate_NumericUnparseable(t *testing.T) {
	tmpl := sumTemplate("q1")
	report := NewEngine(tmpl, map[string]interface{}{"q1": "abc"}).ValidateResponses()
	if len(report.InvalidResponses) != 1 {
		t.Errorf("expected unparseable value flagged, got %v", report.InvalidResponses)
	}
}

func TestValidate_OpenEndedBounds(t *testing.T) {
	tmpl := &Template{Questions: []Question{{ID: "q1", Type: TypeNumber}}, Scoring: ScoringConfig{Method: MethodSum}}
	report := NewEngine(tmpl, map[string]interface{}{"q1": 1e9}).ValidateResponses()
	if len(report.InvalidResponses) != 0 {
		t.Errorf("absent bounds are open-ended, got %v", report.InvalidResponses)
	}
}

func TestValidate_StepGrid(t *testing.T) {
	tmpl := sumTemplate("q1")
	tmpl.Questions[0].Max = floatPtr(10)
	tmpl.Questions[0].Step = floatPtr(0.5)
	eng := NewEngine(tmpl, map[string]interface{}{"q1": 2.5})
	if n := len(eng.ValidateResponses().InvalidResponses); n != 0 {
		t.Errorf("2.5 lands on the 0.5 grid, got %d invalid", n)
	}
	eng = NewEngine(tmpl, map[string]interface{}{"q1": 2.3})
	if n := len(eng.ValidateResponses().InvalidResponses); n != 1 {
		t.Errorf("2.3 is off the 0.5 grid, got %d invalid", n)
	}
	// Values within epsilon of the grid pass.
	eng = NewEngine(tmpl, map[string]interface{}{"q1": 2.5000000001})
	if n := len(eng.ValidateResponses().InvalidResponses); n != 0 {
		t.Errorf("epsilon tolerance not applied, got %d invalid", n)
	}
}

func TestValidate_SingleChoice(t *testing.T) {
	tmpl := &Template{Scoring: ScoringConfig{Method: MethodSum}, Questions: []Question{
		{ID: "q1", Type: TypeSingleChoice, Options: []Option{{Label: "A"}, {Label: "B"}}},
	}}
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": "A"}).ValidateResponses().InvalidResponses); n != 0 {
		t.Errorf("valid label flagged invalid")
	}
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": "Z"}).ValidateResponses().InvalidResponses); n != 1 {
		t.Errorf("unknown label not flagged")
	}
}

func TestValidate_MultipleChoice(t *testing.T) {
	tmpl := &Template{Scoring: ScoringConfig{Method: MethodSum}, Questions: []Question{
		{ID: "q1", Type: TypeMultipleChoice, Options: []Option{{Label: "A"}, {Label: "B"}}},
	}}
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": "A"}).ValidateResponses().InvalidResponses); n != 1 {
		t.Errorf("non-array not flagged")
	}
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": []interface{}{"A", "Z"}}).ValidateResponses().InvalidResponses); n != 1 {
		t.Errorf("unresolvable element not flagged")
	}
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": []interface{}{"A", "B"}}).ValidateResponses().InvalidResponses); n != 0 {
		t.Errorf("valid selections flagged")
	}
}

func TestValidate_TextPattern(t *testing.T) {
	tmpl := &Template{Scoring: ScoringConfig{Method: MethodSum}, Questions: []Question{
		{ID: "q1", Type: TypeText, Validation: &ValidationRule{Pattern: `^\d{3}$`}},
	}}
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": "123"}).ValidateResponses().InvalidResponses); n != 0 {
		t.Errorf("matching text flagged invalid")
	}
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": "12a"}).ValidateResponses().InvalidResponses); n != 1 {
		t.Errorf("non-matching text not flagged")
	}
}

func TestValidate_MalformedPatternIgnored(t *testing.T) {
	tmpl := &Template{Scoring: ScoringConfig{Method: MethodSum}, Questions: []Question{
		{ID: "q1", Type: TypeText, Validation: &ValidationRule{Pattern: `([`}},
	}}
	report := NewEngine(tmpl, map[string]interface{}{"q1": "anything"}).ValidateResponses()
	if len(report.InvalidResponses) != 0 {
		t.Errorf("malformed pattern must act as no constraint, got %v", report.InvalidResponses)
	}
}

func TestValidate_TextNumericBounds(t *testing.T) {
	tmpl := &Template{Scoring: ScoringConfig{Method: MethodSum}, Questions: []Question{
		{ID: "q1", Type: TypeText, Validation: &ValidationRule{MinValue: floatPtr(1), MaxValue: floatPtr(10)}},
	}}
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": "12"}).ValidateResponses().InvalidResponses); n != 1 {
		t.Errorf("out-of-bounds numeric text not flagged")
	}
	// Non-numeric text skips the numeric bounds check.
	if n := len(NewEngine(tmpl, map[string]interface{}{"q1": "hello"}).ValidateResponses().InvalidResponses); n != 0 {
		t.Errorf("non-numeric text wrongly bounds-checked")
	}
}

func TestValidate_DateTimeNoChecks(t *testing.T) {
	tmpl := &Template{Scoring: ScoringConfig{Method: MethodSum}, Questions: []Question{
		{ID: "d", Type: TypeDate},
		{ID: "t", Type: TypeTime},
		{ID: "b", Type: TypeBoolean},
	}}
	report := NewEngine(tmpl, map[string]interface{}{"d": "whenever", "t": 42.0, "b": "maybe"}).ValidateResponses()
	if len(report.InvalidResponses) != 0 {
		t.Errorf("types without extra checks flagged: %v", report.InvalidResponses)
	}
}

func TestValidate_InvalidDoesNotBlockScoring(t *testing.T) {
	tmpl := sumTemplate("q1", "q2")
	eng := NewEngine(tmpl, map[string]interface{}{"q1": "abc", "q2": 2.0})
	report := eng.ValidateResponses()
	if len(report.InvalidResponses) != 1 {
		t.Fatalf("setup: expected one invalid response, got %v", report.InvalidResponses)
	}
	score, err := eng.RawScore()
	if err != nil {
		t.Fatalf("scoring must absorb invalid responses: %v", err)
	}
	if score != 2 {
		t.Errorf("expected unscorable answer skipped, got %v", score)
	}
}
