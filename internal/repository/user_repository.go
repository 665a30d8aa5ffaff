package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

// UserRepository belongs to the account aggregate family and is used outside the
// competition unit of work.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
