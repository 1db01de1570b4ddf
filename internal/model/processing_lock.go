package model

import (
	"encoding/json"
	"time"
)

// ProcessingLock guards against duplicate concurrent processing of the same
// inbound submission. Correctness relies on the unique index: the second
// delivery of a token fails to insert and is dropped. Locks left behind by a
// crashed pass are picked up by the sweeper once they go stale.
type ProcessingLock struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string          `gorm:"size:64;uniqueIndex;not null" json:"token"`
	Payload   json.RawMessage `gorm:"type:json" json:"-"` // original webhook body, kept so the sweeper can reprocess
	CreatedAt time.Time       `json:"createdAt"`
}

func (ProcessingLock) TableName() string {
	return "processing_locks"
}
