package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
	"retreat_screening_backend/pkg/logger"
	"retreat_screening_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ColorTally is the red/yellow/green count for one response or one whole
// application. NA-valued rules match but do not count.
type ColorTally struct {
	Red    int `json:"red"`
	Yellow int `json:"yellow"`
	Green  int `json:"green"`
}

func (t *ColorTally) Add(other ColorTally) {
	t.Red += other.Red
	t.Yellow += other.Yellow
	t.Green += other.Green
}

func (t *ColorTally) count(v model.ScoreValue) {
	switch v {
	case model.ScoreRed:
		t.Red++
	case model.ScoreYellow:
		t.Yellow++
	case model.ScoreGreen:
		t.Green++
	}
}

// WorstColor returns the label persisted on the response row: red beats
// yellow beats green; empty when nothing matched.
func (t ColorTally) WorstColor() string {
	switch {
	case t.Red > 0:
		return string(model.ScoreRed)
	case t.Yellow > 0:
		return string(model.ScoreYellow)
	case t.Green > 0:
		return string(model.ScoreGreen)
	}
	return ""
}

type ScoringService struct {
	Rules     *repository.ScoringRuleRepository
	Responses *repository.FieldResponseRepository
	Apps      *repository.ApplicationRepository
}

func NewScoringService(rules *repository.ScoringRuleRepository, responses *repository.FieldResponseRepository, apps *repository.ApplicationRepository) *ScoringService {
	return &ScoringService{Rules: rules, Responses: responses, Apps: apps}
}

// EvaluateResponse matches one response against the supplied rules and
// returns the matched set plus the color tally. Pure over its inputs; rule
// fetching and persistence happen in ScoreApplication.
//
// fieldRules are the active rules targeting the response's field version.
// choiceRules maps choice version id to its active rules; a choice rule
// counts as matched whenever its choice is selected, regardless of its
// condition.
func EvaluateResponse(resp *model.FieldResponse, version *model.FieldVersion, fieldRules []model.ScoringRule, choiceRules map[string][]model.ScoringRule) ([]model.ScoringRule, ColorTally, error) {
	var matched []model.ScoringRule
	var tally ColorTally

	value, err := decodeResponseValue(resp.ResponseValue)
	if err != nil {
		return nil, tally, fmt.Errorf("decode response %s: %w", resp.ID, err)
	}

	switch version.FieldType {
	case model.FieldShortText, model.FieldLongText:
		text := valueAsString(value)
		for _, rule := range fieldRules {
			if textRuleMatches(rule, text) {
				matched = append(matched, rule)
			}
		}

	case model.FieldMultipleChoice:
		selected := valueAsString(value)
		for _, rule := range fieldRules {
			if rule.ConditionType == model.CondEquals && selected == rule.ConditionValue {
				matched = append(matched, rule)
			}
		}

	case model.FieldMultipleSelect:
		selections := valueAsList(value)
		for _, rule := range fieldRules {
			if multiSelectRuleMatches(rule, selections) {
				matched = append(matched, rule)
			}
		}

	case model.FieldOpinionScale:
		scale := valueAsString(value)
		for _, rule := range fieldRules {
			if rule.ConditionType == model.CondEquals && scale == rule.ConditionValue {
				matched = append(matched, rule)
			}
		}

	case model.FieldYesNo:
		answer := normalizeYesNo(value)
		for _, rule := range fieldRules {
			if rule.ConditionType == model.CondEquals && answer != "" && answer == strings.ToLower(rule.ConditionValue) {
				matched = append(matched, rule)
			}
		}

	default:
		logger.Log.Warn("unknown field type, skipping response",
			zap.String("fieldType", string(version.FieldType)),
			zap.String("responseId", resp.ID))
		return nil, tally, nil
	}

	// Choice-level rules fire on selection alone.
	selected := selectedLabels(version.FieldType, value)
	for _, choice := range version.Choices {
		if !selected[choice.Label] {
			continue
		}
		matched = append(matched, choiceRules[choice.ID]...)
	}

	for _, rule := range matched {
		tally.count(rule.ScoreValue)
	}
	return matched, tally, nil
}

// ScoreApplication evaluates every response of an application, sums the
// tallies and replaces the aggregate counts on the application row. A failure
// on an individual response is logged and the pass continues; the persisted
// counts cover everything that evaluated cleanly. Re-running with unchanged
// inputs yields identical counts.
func (s *ScoringService) ScoreApplication(applicationID uint) (ColorTally, error) {
	var total ColorTally

	responses, err := s.Responses.ListByApplication(applicationID)
	if err != nil {
		monitoring.ScoringPassCounter.WithLabelValues("error").Inc()
		return total, err
	}

	fieldRules, choiceRules, err := s.fetchRules(responses)
	if err != nil {
		monitoring.ScoringPassCounter.WithLabelValues("error").Inc()
		return total, err
	}

	for i := range responses {
		resp := &responses[i]
		if resp.FieldVersion == nil {
			logger.Log.Warn("response has no field version, skipping", zap.String("responseId", resp.ID))
			continue
		}

		_, tally, err := EvaluateResponse(resp, resp.FieldVersion, fieldRules[resp.FieldVersionID], choiceRules)
		if err != nil {
			logger.Log.Error("response evaluation failed, continuing pass",
				zap.String("responseId", resp.ID), zap.Error(err))
			continue
		}
		total.Add(tally)

		if err := s.Responses.UpdateScore(resp.ID, tally.WorstColor()); err != nil {
			logger.Log.Error("failed to persist response score",
				zap.String("responseId", resp.ID), zap.Error(err))
		}
	}

	if err := s.Apps.ReplaceScores(applicationID, total.Red, total.Yellow, total.Green); err != nil {
		monitoring.ScoringPassCounter.WithLabelValues("error").Inc()
		return total, err
	}

	monitoring.ScoringPassCounter.WithLabelValues("ok").Inc()
	return total, nil
}

// fetchRules loads, in two queries, every active rule that could apply to the
// given responses: field rules grouped by field version id and choice rules
// grouped by choice id.
func (s *ScoringService) fetchRules(responses []model.FieldResponse) (map[string][]model.ScoringRule, map[string][]model.ScoringRule, error) {
	var versionIDs, choiceIDs []string
	for i := range responses {
		versionIDs = append(versionIDs, responses[i].FieldVersionID)
		if responses[i].FieldVersion != nil {
			for _, c := range responses[i].FieldVersion.Choices {
				choiceIDs = append(choiceIDs, c.ID)
			}
		}
	}

	fieldRuleRows, err := s.Rules.ListActiveForTargets(model.TargetField, versionIDs)
	if err != nil {
		return nil, nil, err
	}
	choiceRuleRows, err := s.Rules.ListActiveForTargets(model.TargetChoice, choiceIDs)
	if err != nil {
		return nil, nil, err
	}

	fieldRules := make(map[string][]model.ScoringRule)
	for _, r := range fieldRuleRows {
		fieldRules[r.TargetID] = append(fieldRules[r.TargetID], r)
	}
	choiceRules := make(map[string][]model.ScoringRule)
	for _, r := range choiceRuleRows {
		choiceRules[r.TargetID] = append(choiceRules[r.TargetID], r)
	}
	return fieldRules, choiceRules, nil
}

func textRuleMatches(rule model.ScoringRule, text string) bool {
	switch rule.ConditionType {
	case model.CondEquals:
		return text == rule.ConditionValue
	case model.CondContains:
		return strings.Contains(text, rule.ConditionValue)
	}
	return false
}

// multiSelectRuleMatches treats contains as membership; equals requires the
// condition value to be the only selection.
func multiSelectRuleMatches(rule model.ScoringRule, selections []string) bool {
	switch rule.ConditionType {
	case model.CondContains:
		for _, s := range selections {
			if s == rule.ConditionValue {
				return true
			}
		}
	case model.CondEquals:
		return len(selections) == 1 && selections[0] == rule.ConditionValue
	}
	return false
}

func decodeResponseValue(raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func valueAsString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func valueAsList(v interface{}) []string {
	switch x := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, item := range x {
			out = append(out, valueAsString(item))
		}
		return out
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	case nil:
		return nil
	}
	return []string{valueAsString(v)}
}

// normalizeYesNo maps boolean and textual answers onto "yes"/"no". Anything
// unrecognized yields "" and matches no rule.
func normalizeYesNo(v interface{}) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "yes", "y", "true", "1":
			return "yes"
		case "no", "n", "false", "0":
			return "no"
		}
	}
	return ""
}

// selectedLabels returns the set of choice labels picked by this response,
// used to trigger choice-level rules.
func selectedLabels(fieldType model.FieldType, value interface{}) map[string]bool {
	selected := make(map[string]bool)
	switch fieldType {
	case model.FieldMultipleSelect:
		for _, s := range valueAsList(value) {
			selected[s] = true
		}
	case model.FieldMultipleChoice:
		if s := valueAsString(value); s != "" {
			selected[s] = true
		}
	}
	return selected
}
