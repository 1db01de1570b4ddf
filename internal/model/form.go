package model

type FieldType string

const (
	FieldShortText      FieldType = "short_text"
	FieldLongText       FieldType = "long_text"
	FieldMultipleChoice FieldType = "multiple_choice"
	FieldMultipleSelect FieldType = "multiple_select"
	FieldOpinionScale   FieldType = "opinion_scale"
	FieldYesNo          FieldType = "yes_no"
)

// swagger:model Form
type Form struct {
	BaseModel
	ExternalID string `gorm:"size:64;uniqueIndex" json:"externalId"`
	Title      string `gorm:"size:255;not null" json:"title"`
}

func (Form) TableName() string {
	return "forms"
}

type FormField struct {
	BaseModel
	FormID     uint   `gorm:"index;not null" json:"formId"`
	ExternalID string `gorm:"size:64;index" json:"externalId"`
	Title      string `gorm:"size:255" json:"title"`
}

func (FormField) TableName() string {
	return "form_fields"
}

// FieldVersion is an immutable snapshot of a question as it existed at a
// point in time. Responses and scoring rules reference versions, not fields,
// so historical submissions stay scored against the rules in force when they
// were submitted.
type FieldVersion struct {
	UUIDBase
	FieldID    uint      `gorm:"index;not null" json:"fieldId"`
	FieldType  FieldType `gorm:"type:varchar(32);not null" json:"fieldType"`
	Title      string    `gorm:"size:255" json:"title"`
	VersionNum int       `gorm:"default:1" json:"versionNum"`
	Choices    []Choice  `gorm:"foreignKey:FieldVersionID" json:"choices,omitempty"`
}

func (FieldVersion) TableName() string {
	return "field_versions"
}

// Choice is one selectable option on a field version. Responses are matched
// against choices by label equality.
type Choice struct {
	UUIDBase
	FieldVersionID string `gorm:"type:varchar(36);index;not null" json:"fieldVersionId"`
	Label          string `gorm:"size:255;not null" json:"label"`
}

func (Choice) TableName() string {
	return "choices"
}
