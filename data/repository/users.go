package repository

import (
	"context"
	"fmt"

	"event-planner/data/models"

	"github.com/google/uuid"
)

func (sr *SqlRepo) CreateUser(ctx context.Context, u models.User) error {
	return sr.create(ctx, u)
}

func (sr *SqlRepo) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	var u models.User
	if err := sr.getModelByID(ctx, &u, id); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetUserByEmail matches the address case-insensitively.
func (sr *SqlRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	query := fmt.Sprintf("SELECT %s FROM users WHERE lower(email) = lower($1)", selectList(u, ""))
	r := sr.q().QueryRowContext(ctx, query, email)
	if err := models.ScanRowToModel(&u, r); err != nil {
		return models.User{}, translateError(err, "error fetching user by email")
	}
	return u, nil
}
