package repository

import (
	"errors"
	"retreat_screening_backend/internal/model"

	"gorm.io/gorm"
)

type ParticipantRepository struct {
	DB *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

func (r *ParticipantRepository) Create(p *model.Participant) error {
	return r.DB.Create(p).Error
}

func (r *ParticipantRepository) FindByID(id uint) (*model.Participant, error) {
	var p model.Participant
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *ParticipantRepository) FindByEmail(email string) (*model.Participant, error) {
	var p model.Participant
	err := r.DB.Where("email = ?", email).First(&p).Error
	return &p, err
}

func (r *ParticipantRepository) Update(p *model.Participant) error {
	return r.DB.Save(p).Error
}

// UpsertByEmail returns the existing participant for the email, creating one
// when absent. Used by the form-submission webhook.
func (r *ParticipantRepository) UpsertByEmail(p *model.Participant) (*model.Participant, error) {
	existing, err := r.FindByEmail(p.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepository) List(page, pageSize int, search string) ([]model.Participant, int64, error) {
	var items []model.Participant
	var total int64

	query := r.DB.Model(&model.Participant{})
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", term, term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&items).Error
	return items, total, err
}
