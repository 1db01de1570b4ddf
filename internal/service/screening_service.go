package service

import (
	"time"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
)

type ScreeningService struct {
	Screenings *repository.ScreeningRepository
	Apps       *repository.ApplicationRepository
}

func NewScreeningService(screenings *repository.ScreeningRepository, apps *repository.ApplicationRepository) *ScreeningService {
	return &ScreeningService{Screenings: screenings, Apps: apps}
}

type CreateScreeningRequest struct {
	ApplicationID   uint      `json:"applicationId" binding:"required"`
	ScreenerID      uint      `json:"screenerId"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
}

type UpdateScreeningRequest struct {
	Status  *string    `json:"status" binding:"omitempty,oneof=scheduled completed canceled no_show"`
	Outcome *string    `json:"outcome"`
	Notes   *string    `json:"notes"`
	At      *time.Time `json:"scheduledAt"`
}

// Create schedules a call by hand (most calls arrive via the booking
// webhook instead) and moves the application forward when it is still in
// submitted state.
func (s *ScreeningService) Create(req CreateScreeningRequest) (*model.ScreeningCall, error) {
	app, err := s.Apps.FindByID(req.ApplicationID)
	if err != nil {
		return nil, err
	}

	call := &model.ScreeningCall{
		ApplicationID:   req.ApplicationID,
		ScreenerID:      req.ScreenerID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Status:          model.ScreeningScheduled,
	}
	if call.DurationMinutes == 0 {
		call.DurationMinutes = 30
	}
	if err := s.Screenings.Create(call); err != nil {
		return nil, err
	}

	if app.Status == model.StatusSubmitted {
		if err := s.Apps.UpdateStatus(app.ID, model.StatusScreeningScheduled, app.ClosedReason, app.RejectedType); err != nil {
			return nil, err
		}
	}
	return call, nil
}

func (s *ScreeningService) List(page, pageSize int, screenerID uint, status string) ([]model.ScreeningCall, int64, error) {
	return s.Screenings.List(page, pageSize, screenerID, status)
}

func (s *ScreeningService) GetByID(id uint) (*model.ScreeningCall, error) {
	return s.Screenings.FindByID(id)
}

func (s *ScreeningService) Update(id uint, req UpdateScreeningRequest) (*model.ScreeningCall, error) {
	call, err := s.Screenings.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		call.Status = model.ScreeningStatus(*req.Status)
	}
	if req.Outcome != nil {
		call.Outcome = *req.Outcome
	}
	if req.Notes != nil {
		call.Notes = *req.Notes
	}
	if req.At != nil {
		call.ScheduledAt = *req.At
	}

	if err := s.Screenings.Update(call); err != nil {
		return nil, err
	}
	return call, nil
}
