package service

import (
	"context"
	"errors"

	"stockatelier/internal/model"
	"stockatelier/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService authenticates credentials. Session issuance lives at the HTTP
// layer; this service only answers "who is this".
type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.User, error)
}

type authService struct {
	repo repository.UserRepository
}

func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo}
}

// Login verifies the password against the stored bcrypt hash. Unknown user
// and wrong password both return ErrInvalidCredentials: the response must not
// reveal which half failed.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
