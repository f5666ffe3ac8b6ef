package planner

import (
	"context"
	"strings"

	"event-planner/data/models"
	"event-planner/data/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RegisterUser stores a new account. passwordHash must already be hashed;
// the email is stored lowercased and must not be taken.
func (s *Service) RegisterUser(ctx context.Context, email, name, passwordHash string) (models.User, error) {
	u := models.User{
		ID:        uuid.New(),
		Email:     normalizeEmail(email),
		Name:      strings.TrimSpace(name),
		Password:  passwordHash,
		CreatedAt: s.clock(),
	}
	if err := models.ValidateModel(u); err != nil {
		return models.User{}, newError(Validation, "a valid email and password are required")
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.User{}, newError(InvalidState, "email is already registered")
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Service) UserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return models.User{}, notFound(err, errUserNotFound)
	}
	return u, nil
}

func (s *Service) User(ctx context.Context, id uuid.UUID) (models.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return models.User{}, notFound(err, errUserNotFound)
	}
	return u, nil
}
