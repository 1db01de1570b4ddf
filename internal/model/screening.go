package model

import "time"

type ScreeningStatus string

const (
	ScreeningScheduled ScreeningStatus = "scheduled"
	ScreeningCompleted ScreeningStatus = "completed"
	ScreeningCanceled  ScreeningStatus = "canceled"
	ScreeningNoShow    ScreeningStatus = "no_show"
)

// ScreeningCall is a scheduled call between a screener and an applicant,
// usually created from a booking-provider webhook.
// swagger:model ScreeningCall
type ScreeningCall struct {
	BaseModel
	ApplicationID   uint            `gorm:"index;not null" json:"applicationId"`
	ScreenerID      uint            `gorm:"index" json:"screenerId"`
	ScheduledAt     time.Time       `json:"scheduledAt"`
	DurationMinutes int             `gorm:"default:30" json:"durationMinutes"`
	ExternalEventID string          `gorm:"size:64;index" json:"externalEventId"`
	Status          ScreeningStatus `gorm:"type:varchar(16);default:'scheduled'" json:"status"`
	Outcome         string          `gorm:"size:64" json:"outcome"`
	Notes           string          `gorm:"type:text" json:"notes"`
}

func (ScreeningCall) TableName() string {
	return "screening_calls"
}
