package services

import (
	"context"
	"strings"

	"github.com/steptracker/steptracker/internal/apperr"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
)

// UserService handles the lightweight account layer. There is no password;
// an email identifies a tracked user and the session rides a cookie.
type UserService interface {
	Register(ctx context.Context, email string) (models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, apperr.Validation("email", "must be a valid email address")
	}

	user, err := s.users.Upsert(ctx, email)
	if err != nil {
		log.Error("failed to register user: %v", err)
		return models.User{}, apperr.Internal(err)
	}
	log.Info("user signed in: id=%s", user.ID)
	return *user, nil
}

func (s *userService) Get(ctx context.Context, id string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.Get(ctx, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return models.User{}, apperr.Internal(err)
	}
	if user == nil {
		return models.User{}, apperr.NotFound("user", id)
	}
	return *user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	users, err := s.users.List(ctx)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, apperr.Internal(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
