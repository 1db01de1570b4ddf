package repository

import (
	"retreat_screening_backend/internal/model"

	"gorm.io/gorm"
)

type FieldResponseRepository struct {
	DB *gorm.DB
}

func NewFieldResponseRepository(db *gorm.DB) *FieldResponseRepository {
	return &FieldResponseRepository{DB: db}
}

func (r *FieldResponseRepository) CreateBatch(responses []model.FieldResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return r.DB.Create(&responses).Error
}

func (r *FieldResponseRepository) ListByApplication(applicationID uint) ([]model.FieldResponse, error) {
	var responses []model.FieldResponse
	err := r.DB.Preload("FieldVersion").Preload("FieldVersion.Choices").
		Where("application_id = ?", applicationID).
		Find(&responses).Error
	return responses, err
}

func (r *FieldResponseRepository) UpdateScore(id string, score string) error {
	return r.DB.Model(&model.FieldResponse{}).
		Where("id = ?", id).
		Update("score", score).Error
}
