package model

import "time"

type ApplicationStatus string

const (
	StatusSubmitted          ApplicationStatus = "submitted"
	StatusScreeningScheduled ApplicationStatus = "screening_scheduled"
	StatusScreeningCompleted ApplicationStatus = "screening_completed"
	StatusClosed             ApplicationStatus = "closed"
	StatusRejected           ApplicationStatus = "rejected"
)

func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusSubmitted, StatusScreeningScheduled, StatusScreeningCompleted, StatusClosed, StatusRejected:
		return true
	}
	return false
}

type RejectedType string

const (
	RejectedTemporary RejectedType = "temporary"
	RejectedPermanent RejectedType = "permanent"
)

// Application is one form submission by a participant. The red/yellow/green
// counts are derived by the scoring pass and fully replaced on each rescore;
// they are never edited directly.
// swagger:model Application
type Application struct {
	BaseModel
	ParticipantID      uint              `gorm:"index;not null" json:"participantId"`
	Participant        *Participant      `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
	FormID             uint              `gorm:"index" json:"formId"`
	SubmissionToken    string            `gorm:"size:64;uniqueIndex;not null" json:"submissionToken"`
	Status             ApplicationStatus `gorm:"type:varchar(32);default:'submitted';index" json:"status"`
	ClosedReason       string            `gorm:"size:64" json:"closedReason"`
	RejectedType       RejectedType      `gorm:"type:varchar(16)" json:"rejectedType"`
	RedCount           int               `gorm:"default:0" json:"redCount"`
	YellowCount        int               `gorm:"default:0" json:"yellowCount"`
	GreenCount         int               `gorm:"default:0" json:"greenCount"`
	AssignedScreenerID uint              `gorm:"index" json:"assignedScreenerId"`
	Notes              string            `gorm:"type:text" json:"notes"`
	SubmittedAt        time.Time         `json:"submittedAt"`
}

func (Application) TableName() string {
	return "applications"
}
