package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"go.uber.org/zap"
)

// UserService регистрирует пользователей и отдаёт их по ID
type UserService struct {
	userRepo repository.UserStore
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register создаёт пользователя. Повторная регистрация существующего
// email возвращает уже созданного пользователя.
func (s *UserService) Register(ctx context.Context, email, fullName string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidArgument)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user := &model.User{Email: email, FullName: fullName}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))

	return user, nil
}

// GetUser получает пользователя по ID
func (s *UserService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
