package service

import (
	"errors"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
	"retreat_screening_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	Users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{Users: users}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin screener viewer"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin screener viewer"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Disabled *bool   `json:"disabled"`
}

func (s *UserService) Create(req CreateUserRequest) (*model.User, error) {
	if _, err := s.Users.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     model.UserRole(req.Role),
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(page, pageSize int, role, search string) ([]model.User, int64, error) {
	return s.Users.List(page, pageSize, role, search)
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	return s.Users.FindByID(id)
}

func (s *UserService) Update(id uint, req UpdateUserRequest) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = model.UserRole(*req.Role)
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
	}
	if req.Password != nil {
		hashed, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	return s.Users.Delete(id)
}
