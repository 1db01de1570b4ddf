package service

import (
	"errors"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"

	"gorm.io/gorm"
)

type ScoringRuleService struct {
	Rules *repository.ScoringRuleRepository
}

func NewScoringRuleService(rules *repository.ScoringRuleRepository) *ScoringRuleService {
	return &ScoringRuleService{Rules: rules}
}

type ScoringRuleRequest struct {
	TargetType     string `json:"targetType" binding:"required,oneof=field choice"`
	TargetID       string `json:"targetId" binding:"required"`
	ScoreValue     string `json:"scoreValue" binding:"required,oneof=red yellow green na"`
	ConditionType  string `json:"conditionType" binding:"omitempty,oneof=equals contains"`
	ConditionValue string `json:"conditionValue"`
	IsActive       *bool  `json:"isActive"`
}

func (s *ScoringRuleService) Create(req ScoringRuleRequest) (*model.ScoringRule, error) {
	rule := &model.ScoringRule{
		TargetType:     model.RuleTargetType(req.TargetType),
		TargetID:       req.TargetID,
		ScoreValue:     model.ScoreValue(req.ScoreValue),
		ConditionType:  model.ConditionType(req.ConditionType),
		ConditionValue: req.ConditionValue,
		IsActive:       true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if err := s.Rules.Create(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *ScoringRuleService) List(page, pageSize int, targetType, targetID string) ([]model.ScoringRule, int64, error) {
	return s.Rules.List(page, pageSize, targetType, targetID)
}

func (s *ScoringRuleService) Update(id uint, req ScoringRuleRequest) (*model.ScoringRule, error) {
	rule, err := s.Rules.FindByID(id)
	if err != nil {
		return nil, err
	}

	rule.TargetType = model.RuleTargetType(req.TargetType)
	rule.TargetID = req.TargetID
	rule.ScoreValue = model.ScoreValue(req.ScoreValue)
	rule.ConditionType = model.ConditionType(req.ConditionType)
	rule.ConditionValue = req.ConditionValue
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.Rules.Update(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Delete is idempotent: deleting an id that was already removed succeeds.
func (s *ScoringRuleService) Delete(id uint) error {
	err := s.Rules.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
