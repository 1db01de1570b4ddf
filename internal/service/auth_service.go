package service

import (
	"context"
	"errors"
	"fmt"

	"retreat_screening_backend/internal/config"
	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
	"retreat_screening_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService issues JWTs backed by server-side session records: every token
// carries a JTI that must still exist in Redis for the token to be accepted.
// Logout deletes the record, revoking the token before its expiry.
type AuthService struct {
	Users  *repository.UserRepository
	Redis  *redis.Client
	Config *config.Config
}

func NewAuthService(users *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Redis: rdb, Config: cfg}
}

func sessionKey(jti string) string {
	return "session:" + jti
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.Users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Disabled {
		return nil, util.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, jti, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	err = s.Redis.Set(ctx, sessionKey(jti), fmt.Sprintf("%d", user.ID), s.Config.JWT.ExpireTime).Err()
	if err != nil {
		return nil, err
	}

	if err := s.Users.TouchLastLogin(user.ID); err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

// SessionValid reports whether the token's session record still exists.
func (s *AuthService) SessionValid(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	n, err := s.Redis.Exists(ctx, sessionKey(jti)).Result()
	return err == nil && n > 0
}

func (s *AuthService) Logout(ctx context.Context, jti string) error {
	return s.Redis.Del(ctx, sessionKey(jti)).Err()
}

// HashPassword is shared with user administration.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
