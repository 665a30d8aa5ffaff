package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

type CompetitionFilter struct {
	Status *domain.CompetitionStatus
	Limit  int
	Offset int
}

type CompetitionRepository interface {
	Add(ctx context.Context, c *domain.Competition) error
	Update(ctx context.Context, c *domain.Competition) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Competition, error)
	// FindByIDForUpdate locks the row until the unit of work ends. Capacity checks
	// that are followed by an approval must load the competition through it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Competition, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID, filter CompetitionFilter) ([]*domain.Competition, error)
	List(ctx context.Context, filter CompetitionFilter) ([]*domain.Competition, error)
	CountByCreator(ctx context.Context, creatorID uuid.UUID) (int, error)
	// ExistsWithName compares names case-insensitively; excludeID may be uuid.Nil.
	ExistsWithName(ctx context.Context, creatorID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}
