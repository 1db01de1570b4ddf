package repository

import (
	"encoding/json"
	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ProcessingLockRepository struct {
	DB *gorm.DB
}

func NewProcessingLockRepository(db *gorm.DB) *ProcessingLockRepository {
	return &ProcessingLockRepository{DB: db}
}

// Acquire inserts the lock row, storing the raw webhook body alongside so a
// stale lock can be reprocessed later. The unique index on token turns a
// duplicate delivery into util.ErrLockHeld.
func (r *ProcessingLockRepository) Acquire(token string, payload json.RawMessage) error {
	lock := &model.ProcessingLock{Token: token, Payload: payload}
	err := r.DB.Create(lock).Error
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return util.ErrLockHeld
	}
	return err
}

func (r *ProcessingLockRepository) Release(token string) error {
	return r.DB.Unscoped().Where("token = ?", token).Delete(&model.ProcessingLock{}).Error
}

// FindStale returns locks older than the threshold, i.e. submissions whose
// processing pass likely died before releasing.
func (r *ProcessingLockRepository) FindStale(olderThan time.Duration) ([]model.ProcessingLock, error) {
	var locks []model.ProcessingLock
	err := r.DB.Where("created_at < ?", time.Now().Add(-olderThan)).Find(&locks).Error
	return locks, err
}
