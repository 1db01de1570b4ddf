package repository

import (
	"retreat_screening_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// ApplicationFilter narrows the application listing.
type ApplicationFilter struct {
	Status             string
	AssignedScreenerID uint
	Search             string
	StartDate          time.Time
	EndDate            time.Time
}

type ApplicationRepository struct {
	DB *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

func (r *ApplicationRepository) Create(a *model.Application) error {
	return r.DB.Create(a).Error
}

func (r *ApplicationRepository) FindByID(id uint) (*model.Application, error) {
	var a model.Application
	err := r.DB.Preload("Participant").First(&a, id).Error
	return &a, err
}

func (r *ApplicationRepository) FindByToken(token string) (*model.Application, error) {
	var a model.Application
	err := r.DB.Where("submission_token = ?", token).First(&a).Error
	return &a, err
}

func (r *ApplicationRepository) Update(a *model.Application) error {
	return r.DB.Save(a).Error
}

// ReplaceScores overwrites the aggregate tallies in a single UPDATE so
// concurrent readers never observe a partially applied rescore.
func (r *ApplicationRepository) ReplaceScores(id uint, red, yellow, green int) error {
	return r.DB.Model(&model.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"red_count":    red,
			"yellow_count": yellow,
			"green_count":  green,
		}).Error
}

func (r *ApplicationRepository) UpdateStatus(id uint, status model.ApplicationStatus, closedReason string, rejectedType model.RejectedType) error {
	return r.DB.Model(&model.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"closed_reason": closedReason,
			"rejected_type": rejectedType,
		}).Error
}

func (r *ApplicationRepository) List(page, pageSize int, filter ApplicationFilter) ([]model.Application, int64, error) {
	var items []model.Application
	var total int64

	query := r.DB.Model(&model.Application{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedScreenerID != 0 {
		query = query.Where("assigned_screener_id = ?", filter.AssignedScreenerID)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Joins("JOIN participants ON participants.id = applications.participant_id").
			Where("participants.first_name LIKE ? OR participants.last_name LIKE ? OR participants.email LIKE ?", term, term, term)
	}
	if !filter.StartDate.IsZero() {
		query = query.Where("applications.submitted_at >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("applications.submitted_at <= ?", filter.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Participant").
		Offset(offset).Limit(pageSize).
		Order("applications.submitted_at DESC").
		Find(&items).Error
	return items, total, err
}

// FindSubmittedAround matches a booking to an application by timestamp
// proximity. Used as the second webhook matching strategy.
func (r *ApplicationRepository) FindSubmittedAround(participantID uint, at time.Time, window time.Duration) (*model.Application, error) {
	var a model.Application
	err := r.DB.Where("participant_id = ?", participantID).
		Where("submitted_at BETWEEN ? AND ?", at.Add(-window), at.Add(window)).
		Order("submitted_at DESC").
		First(&a).Error
	return &a, err
}

func (r *ApplicationRepository) FindMostRecent(participantID uint) (*model.Application, error) {
	var a model.Application
	err := r.DB.Where("participant_id = ?", participantID).
		Order("submitted_at DESC").
		First(&a).Error
	return &a, err
}
