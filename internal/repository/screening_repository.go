package repository

import (
	"retreat_screening_backend/internal/model"

	"gorm.io/gorm"
)

type ScreeningRepository struct {
	DB *gorm.DB
}

func NewScreeningRepository(db *gorm.DB) *ScreeningRepository {
	return &ScreeningRepository{DB: db}
}

func (r *ScreeningRepository) Create(s *model.ScreeningCall) error {
	return r.DB.Create(s).Error
}

func (r *ScreeningRepository) FindByID(id uint) (*model.ScreeningCall, error) {
	var s model.ScreeningCall
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *ScreeningRepository) FindByExternalEvent(eventID string) (*model.ScreeningCall, error) {
	var s model.ScreeningCall
	err := r.DB.Where("external_event_id = ?", eventID).First(&s).Error
	return &s, err
}

func (r *ScreeningRepository) Update(s *model.ScreeningCall) error {
	return r.DB.Save(s).Error
}

// FindPendingForApplication returns the oldest still-scheduled call, the first
// strategy when matching a booking webhook.
func (r *ScreeningRepository) FindPendingForApplication(applicationID uint) (*model.ScreeningCall, error) {
	var s model.ScreeningCall
	err := r.DB.Where("application_id = ? AND status = ?", applicationID, model.ScreeningScheduled).
		Order("scheduled_at").
		First(&s).Error
	return &s, err
}

func (r *ScreeningRepository) List(page, pageSize int, screenerID uint, status string) ([]model.ScreeningCall, int64, error) {
	var items []model.ScreeningCall
	var total int64

	query := r.DB.Model(&model.ScreeningCall{})
	if screenerID != 0 {
		query = query.Where("screener_id = ?", screenerID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("scheduled_at DESC").Find(&items).Error
	return items, total, err
}
