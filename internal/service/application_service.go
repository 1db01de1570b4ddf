package service

import (
	"strings"
	"time"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
	"retreat_screening_backend/internal/util"
	"retreat_screening_backend/pkg/logger"

	"go.uber.org/zap"
)

// scorer is the slice of ScoringService the orchestration layer needs,
// narrowed so the retry contract can be exercised without a database.
type scorer interface {
	ScoreApplication(applicationID uint) (ColorTally, error)
}

type ApplicationService struct {
	Apps       *repository.ApplicationRepository
	Responses  *repository.FieldResponseRepository
	Scoring    scorer
	CRM        *CRMService
	RetryDelay time.Duration
}

func NewApplicationService(apps *repository.ApplicationRepository, responses *repository.FieldResponseRepository, scoring *ScoringService, crm *CRMService, retryDelay time.Duration) *ApplicationService {
	return &ApplicationService{Apps: apps, Responses: responses, Scoring: scoring, CRM: crm, RetryDelay: retryDelay}
}

type ApplicationDetail struct {
	*model.Application
	Responses []model.FieldResponse `json:"responses"`
}

type UpdateApplicationRequest struct {
	Notes              *string `json:"notes"`
	AssignedScreenerID *uint   `json:"assignedScreenerId"`
}

type StatusUpdateRequest struct {
	Status       string `json:"status" binding:"required"`
	ClosedReason string `json:"closed_reason"`
	RejectedType string `json:"rejected_type" binding:"omitempty,oneof=temporary permanent"`
}

func (s *ApplicationService) List(page, pageSize int, filter repository.ApplicationFilter) ([]model.Application, int64, error) {
	return s.Apps.List(page, pageSize, filter)
}

func (s *ApplicationService) GetDetail(id uint) (*ApplicationDetail, error) {
	app, err := s.Apps.FindByID(id)
	if err != nil {
		return nil, err
	}
	responses, err := s.Responses.ListByApplication(id)
	if err != nil {
		return nil, err
	}
	return &ApplicationDetail{Application: app, Responses: responses}, nil
}

func (s *ApplicationService) Update(id uint, req UpdateApplicationRequest) (*model.Application, error) {
	app, err := s.Apps.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Notes != nil {
		app.Notes = *req.Notes
	}
	if req.AssignedScreenerID != nil {
		app.AssignedScreenerID = *req.AssignedScreenerID
	}

	if err := s.Apps.Update(app); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateStatus persists a staff status change and then kicks off the CRM
// reconciler. The local change is the source of truth: a sync failure is
// logged but never undoes or blocks it.
func (s *ApplicationService) UpdateStatus(id uint, req StatusUpdateRequest) (*model.Application, error) {
	status := model.ApplicationStatus(strings.ToLower(req.Status))
	if !model.ValidStatus(status) {
		return nil, util.ErrInvalidStatus
	}

	rejectedType := model.RejectedType(strings.ToLower(req.RejectedType))

	app, err := s.Apps.FindByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.Apps.UpdateStatus(id, status, req.ClosedReason, rejectedType); err != nil {
		return nil, err
	}
	app.Status = status
	app.ClosedReason = req.ClosedReason
	app.RejectedType = rejectedType

	if err := s.CRM.SyncApplication(id); err != nil {
		logger.Log.Error("crm sync after status change failed",
			zap.Uint("applicationId", id), zap.Error(err))
	}

	return app, nil
}

// Rescore re-runs the scoring pass over the application's stored responses
// and pushes the fresh tally to the CRM.
func (s *ApplicationService) Rescore(id uint) (ColorTally, error) {
	if _, err := s.Apps.FindByID(id); err != nil {
		return ColorTally{}, err
	}

	tally, err := s.scoreWithRetry(id)
	if err != nil {
		return tally, err
	}

	if err := s.CRM.SyncApplication(id); err != nil {
		logger.Log.Error("crm sync after rescore failed",
			zap.Uint("applicationId", id), zap.Error(err))
	}
	return tally, nil
}

// scoreWithRetry runs the scoring pass under the same retry contract the
// webhook ingest path uses: one more attempt after a fixed delay.
func (s *ApplicationService) scoreWithRetry(id uint) (ColorTally, error) {
	var tally ColorTally
	err := WithRetry(s.RetryDelay, func() error {
		var scoreErr error
		tally, scoreErr = s.Scoring.ScoreApplication(id)
		return scoreErr
	})
	return tally, err
}
