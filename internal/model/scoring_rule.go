package model

type RuleTargetType string

const (
	TargetField  RuleTargetType = "field"
	TargetChoice RuleTargetType = "choice"
)

type ScoreValue string

const (
	ScoreRed    ScoreValue = "red"
	ScoreYellow ScoreValue = "yellow"
	ScoreGreen  ScoreValue = "green"
	ScoreNA     ScoreValue = "na"
)

func ValidScoreValue(v ScoreValue) bool {
	switch v {
	case ScoreRed, ScoreYellow, ScoreGreen, ScoreNA:
		return true
	}
	return false
}

type ConditionType string

const (
	CondEquals   ConditionType = "equals"
	CondContains ConditionType = "contains"
)

// ScoringRule attaches a condition to a field or choice version. TargetID
// points at a specific version, so rules are versioned indirectly.
// Choice-targeted rules fire on selection alone; the condition is only
// evaluated for field-targeted rules.
// swagger:model ScoringRule
type ScoringRule struct {
	BaseModel
	TargetType     RuleTargetType `gorm:"type:varchar(16);not null;index:idx_rule_target" json:"targetType"`
	TargetID       string         `gorm:"type:varchar(36);not null;index:idx_rule_target" json:"targetId"`
	ScoreValue     ScoreValue     `gorm:"type:varchar(16);not null" json:"scoreValue"`
	ConditionType  ConditionType  `gorm:"type:varchar(16)" json:"conditionType"`
	ConditionValue string         `gorm:"size:255" json:"conditionValue"`
	IsActive       bool           `gorm:"default:true" json:"isActive"`
}

func (ScoringRule) TableName() string {
	return "scoring_rules"
}
