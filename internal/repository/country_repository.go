package repository

import (
	"context"

	"github.com/fairway/competitions/internal/domain"
)

type CountryRepository interface {
	FindByCode(ctx context.Context, code domain.CountryCode) (*domain.Country, error)
	AreAdjacent(ctx context.Context, a, b domain.CountryCode) (bool, error)
}
