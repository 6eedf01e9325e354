package services

import (
	"context"
	"errors"
	"time"

	"inknet/internal/core/domain"
	"inknet/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on any login failure. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

type userService struct {
	repo   ports.UserRepository
	logger *zap.SugaredLogger
}

func NewUserService(repo ports.UserRepository, logger *zap.SugaredLogger) ports.UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           domain.UserID(uuid.New().String()),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("user registered",
		"user_id", user.ID,
		"username", user.Username,
	)
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
