package service

import (
	"encoding/json"
	"os"
	"testing"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func response(versionID string, value interface{}) *model.FieldResponse {
	raw, _ := json.Marshal(value)
	return &model.FieldResponse{
		UUIDBase:       model.UUIDBase{ID: "resp-1"},
		FieldVersionID: versionID,
		ResponseValue:  raw,
	}
}

func fieldRule(id uint, score model.ScoreValue, cond model.ConditionType, value string) model.ScoringRule {
	return model.ScoringRule{
		BaseModel:      model.BaseModel{ID: id},
		TargetType:     model.TargetField,
		TargetID:       "v1",
		ScoreValue:     score,
		ConditionType:  cond,
		ConditionValue: value,
		IsActive:       true,
	}
}

func TestEvaluateResponseText(t *testing.T) {
	version := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldLongText,
	}

	rules := []model.ScoringRule{
		fieldRule(1, model.ScoreRed, model.CondContains, "medication"),
		fieldRule(2, model.ScoreYellow, model.CondEquals, "none"),
		fieldRule(3, model.ScoreGreen, model.CondContains, "meditation"),
	}

	tests := []struct {
		name    string
		answer  string
		matched int
		tally   ColorTally
	}{
		{"contains match", "I take medication daily", 1, ColorTally{Red: 1}},
		{"equals requires whole value", "none at all", 0, ColorTally{}},
		{"exact equals", "none", 1, ColorTally{Yellow: 1}},
		{"two rules fire", "medication and meditation", 2, ColorTally{Red: 1, Green: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, tally, err := EvaluateResponse(response("v1", tt.answer), version, rules, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(matched) != tt.matched {
				t.Errorf("matched %d rules, want %d", len(matched), tt.matched)
			}
			if tally != tt.tally {
				t.Errorf("tally = %+v, want %+v", tally, tt.tally)
			}
		})
	}
}

func TestEvaluateResponseMultipleSelect(t *testing.T) {
	version := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldMultipleSelect,
	}

	rules := []model.ScoringRule{
		fieldRule(1, model.ScoreRed, model.CondContains, "psychiatric care"),
		fieldRule(2, model.ScoreGreen, model.CondEquals, "none of the above"),
	}

	tests := []struct {
		name   string
		answer []string
		tally  ColorTally
	}{
		{"membership regardless of order", []string{"therapy", "psychiatric care"}, ColorTally{Red: 1}},
		{"membership first position", []string{"psychiatric care", "therapy"}, ColorTally{Red: 1}},
		{"equals needs sole selection", []string{"none of the above", "therapy"}, ColorTally{}},
		{"equals with sole selection", []string{"none of the above"}, ColorTally{Green: 1}},
		{"empty selection", nil, ColorTally{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, tally, err := EvaluateResponse(response("v1", tt.answer), version, rules, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tally != tt.tally {
				t.Errorf("tally = %+v, want %+v", tally, tt.tally)
			}
		})
	}
}

func TestEvaluateResponseYesNo(t *testing.T) {
	version := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldYesNo,
	}

	rules := []model.ScoringRule{
		fieldRule(1, model.ScoreRed, model.CondEquals, "yes"),
		fieldRule(2, model.ScoreGreen, model.CondEquals, "no"),
	}

	tests := []struct {
		name   string
		answer interface{}
		tally  ColorTally
	}{
		{"boolean true", true, ColorTally{Red: 1}},
		{"boolean false", false, ColorTally{Green: 1}},
		{"string yes", "Yes", ColorTally{Red: 1}},
		{"string no", "no", ColorTally{Green: 1}},
		{"numeric-ish string", "1", ColorTally{Red: 1}},
		{"unrecognized matches nothing", "maybe", ColorTally{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, tally, err := EvaluateResponse(response("v1", tt.answer), version, rules, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tally != tt.tally {
				t.Errorf("tally = %+v, want %+v", tally, tt.tally)
			}
		})
	}
}

func TestEvaluateResponseOpinionScale(t *testing.T) {
	version := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldOpinionScale,
	}

	rules := []model.ScoringRule{
		fieldRule(1, model.ScoreRed, model.CondEquals, "1"),
		fieldRule(2, model.ScoreGreen, model.CondEquals, "10"),
	}

	// Providers send scale answers as JSON numbers.
	_, tally, err := EvaluateResponse(response("v1", 10), version, rules, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (tally != ColorTally{Green: 1}) {
		t.Errorf("tally = %+v, want green 1", tally)
	}
}

func TestEvaluateResponseChoiceRules(t *testing.T) {
	version := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldMultipleSelect,
		Choices: []model.Choice{
			{UUIDBase: model.UUIDBase{ID: "c1"}, Label: "inpatient treatment"},
			{UUIDBase: model.UUIDBase{ID: "c2"}, Label: "none of the above"},
		},
	}

	choiceRules := map[string][]model.ScoringRule{
		"c1": {{
			BaseModel:  model.BaseModel{ID: 10},
			TargetType: model.TargetChoice,
			TargetID:   "c1",
			ScoreValue: model.ScoreRed,
			// Condition on a choice rule is ignored; selection alone fires it.
			ConditionType:  model.CondEquals,
			ConditionValue: "something else entirely",
			IsActive:       true,
		}},
		"c2": {{
			BaseModel:  model.BaseModel{ID: 11},
			TargetType: model.TargetChoice,
			TargetID:   "c2",
			ScoreValue: model.ScoreGreen,
			IsActive:   true,
		}},
	}

	matched, tally, err := EvaluateResponse(response("v1", []string{"inpatient treatment"}), version, nil, choiceRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != 10 {
		t.Fatalf("matched = %+v, want rule 10 only", matched)
	}
	if (tally != ColorTally{Red: 1}) {
		t.Errorf("tally = %+v, want red 1", tally)
	}
}

func TestEvaluateResponseNADoesNotCount(t *testing.T) {
	version := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldShortText,
	}
	rules := []model.ScoringRule{
		fieldRule(1, model.ScoreNA, model.CondEquals, "prefer not to say"),
	}

	matched, tally, err := EvaluateResponse(response("v1", "prefer not to say"), version, rules, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 {
		t.Fatalf("matched %d rules, want 1", len(matched))
	}
	if (tally != ColorTally{}) {
		t.Errorf("tally = %+v, want empty", tally)
	}
}

func TestEvaluateResponseUnknownTypeSkips(t *testing.T) {
	version := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldType("file_upload"),
	}
	rules := []model.ScoringRule{
		fieldRule(1, model.ScoreRed, model.CondContains, "anything"),
	}

	matched, tally, err := EvaluateResponse(response("v1", "anything"), version, rules, nil)
	if err != nil {
		t.Fatalf("unknown type must not error: %v", err)
	}
	if len(matched) != 0 || (tally != ColorTally{}) {
		t.Errorf("unknown type must match nothing, got %d rules, tally %+v", len(matched), tally)
	}
}

func TestEvaluateResponseIdempotent(t *testing.T) {
	version := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldMultipleChoice,
	}
	rules := []model.ScoringRule{
		fieldRule(1, model.ScoreYellow, model.CondEquals, "sometimes"),
	}
	resp := response("v1", "sometimes")

	_, first, err := EvaluateResponse(resp, version, rules, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, second, err := EvaluateResponse(resp, version, rules, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("re-evaluation changed the tally: %+v then %+v", first, second)
	}
}

// A submission with two affirmative risk answers and two protective factors
// selected must aggregate to exactly two reds and two greens.
func TestScoringCompositeScenario(t *testing.T) {
	yesNo := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v1"},
		FieldType: model.FieldYesNo,
	}
	yesIsRed := []model.ScoringRule{
		fieldRule(1, model.ScoreRed, model.CondEquals, "yes"),
	}

	multi := &model.FieldVersion{
		UUIDBase:  model.UUIDBase{ID: "v-ms"},
		FieldType: model.FieldMultipleSelect,
		Choices: []model.Choice{
			{UUIDBase: model.UUIDBase{ID: "c1"}, Label: "daily meditation practice"},
			{UUIDBase: model.UUIDBase{ID: "c2"}, Label: "prior retreat experience"},
		},
	}
	choiceRules := map[string][]model.ScoringRule{
		"c1": {{BaseModel: model.BaseModel{ID: 20}, TargetType: model.TargetChoice, TargetID: "c1", ScoreValue: model.ScoreGreen, IsActive: true}},
		"c2": {{BaseModel: model.BaseModel{ID: 21}, TargetType: model.TargetChoice, TargetID: "c2", ScoreValue: model.ScoreGreen, IsActive: true}},
	}

	var total ColorTally
	for _, answer := range []interface{}{true, "yes"} {
		_, tally, err := EvaluateResponse(response("v1", answer), yesNo, yesIsRed, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		total.Add(tally)
	}

	selections := []string{"daily meditation practice", "prior retreat experience"}
	_, tally, err := EvaluateResponse(response("v-ms", selections), multi, nil, choiceRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total.Add(tally)

	want := ColorTally{Red: 2, Yellow: 0, Green: 2}
	if total != want {
		t.Errorf("aggregate tally = %+v, want %+v", total, want)
	}
}

func TestWorstColor(t *testing.T) {
	tests := []struct {
		tally ColorTally
		want  string
	}{
		{ColorTally{Red: 1, Yellow: 3, Green: 5}, "red"},
		{ColorTally{Yellow: 1, Green: 2}, "yellow"},
		{ColorTally{Green: 4}, "green"},
		{ColorTally{}, ""},
	}
	for _, tt := range tests {
		if got := tt.tally.WorstColor(); got != tt.want {
			t.Errorf("WorstColor(%+v) = %q, want %q", tt.tally, got, tt.want)
		}
	}
}

func TestNormalizeYesNo(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{true, "yes"},
		{false, "no"},
		{" YES ", "yes"},
		{"n", "no"},
		{"0", "no"},
		{"definitely", ""},
		{3.14, ""},
	}
	for _, tt := range tests {
		if got := normalizeYesNo(tt.in); got != tt.want {
			t.Errorf("normalizeYesNo(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
