package model

import "encoding/json"

// FieldResponse is one answered question on a submission. ResponseValue keeps
// the provider's raw JSON value (string, string array, number or bool); the
// evaluator normalizes it per field type. Score holds the worst color matched
// at last scoring time, for display in the review table.
type FieldResponse struct {
	UUIDBase
	ApplicationID  uint            `gorm:"index;not null" json:"applicationId"`
	FieldVersionID string          `gorm:"type:varchar(36);index;not null" json:"fieldVersionId"`
	FieldVersion   *FieldVersion   `gorm:"foreignKey:FieldVersionID" json:"fieldVersion,omitempty"`
	ResponseValue  json.RawMessage `gorm:"type:json" json:"responseValue"`
	Score          string          `gorm:"size:16" json:"score"`
}

func (FieldResponse) TableName() string {
	return "field_responses"
}
