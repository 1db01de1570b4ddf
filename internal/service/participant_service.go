package service

import (
	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
)

type ParticipantService struct {
	Participants *repository.ParticipantRepository
}

func NewParticipantService(participants *repository.ParticipantRepository) *ParticipantService {
	return &ParticipantService{Participants: participants}
}

type CreateParticipantRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Timezone  string `json:"timezone"`
}

type UpdateParticipantRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Timezone  *string `json:"timezone"`
}

func (s *ParticipantService) Create(req CreateParticipantRequest) (*model.Participant, error) {
	p := &model.Participant{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Timezone:  req.Timezone,
	}
	if err := s.Participants.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ParticipantService) List(page, pageSize int, search string) ([]model.Participant, int64, error) {
	return s.Participants.List(page, pageSize, search)
}

func (s *ParticipantService) GetByID(id uint) (*model.Participant, error) {
	return s.Participants.FindByID(id)
}

func (s *ParticipantService) Update(id uint, req UpdateParticipantRequest) (*model.Participant, error) {
	p, err := s.Participants.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Timezone != nil {
		p.Timezone = *req.Timezone
	}

	if err := s.Participants.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}
