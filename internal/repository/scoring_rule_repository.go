package repository

import (
	"retreat_screening_backend/internal/model"

	"gorm.io/gorm"
)

type ScoringRuleRepository struct {
	DB *gorm.DB
}

func NewScoringRuleRepository(db *gorm.DB) *ScoringRuleRepository {
	return &ScoringRuleRepository{DB: db}
}

func (r *ScoringRuleRepository) Create(rule *model.ScoringRule) error {
	return r.DB.Create(rule).Error
}

func (r *ScoringRuleRepository) FindByID(id uint) (*model.ScoringRule, error) {
	var rule model.ScoringRule
	err := r.DB.First(&rule, id).Error
	return &rule, err
}

func (r *ScoringRuleRepository) Update(rule *model.ScoringRule) error {
	return r.DB.Save(rule).Error
}

// Delete is idempotent: deleting an id that does not exist is not an error.
func (r *ScoringRuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ScoringRule{}, id).Error
}

func (r *ScoringRuleRepository) List(page, pageSize int, targetType, targetID string) ([]model.ScoringRule, int64, error) {
	var rules []model.ScoringRule
	var total int64

	query := r.DB.Model(&model.ScoringRule{})
	if targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}
	if targetID != "" {
		query = query.Where("target_id = ?", targetID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("id").Find(&rules).Error
	return rules, total, err
}

// ListActiveForTargets fetches every active rule whose target id is in ids,
// for one target type. The evaluator calls this once per application with the
// response's field version id plus all of its choice ids.
func (r *ScoringRuleRepository) ListActiveForTargets(targetType model.RuleTargetType, ids []string) ([]model.ScoringRule, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rules []model.ScoringRule
	err := r.DB.Where("target_type = ? AND target_id IN ? AND is_active = ?", targetType, ids, true).
		Find(&rules).Error
	return rules, err
}
