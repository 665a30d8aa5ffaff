package memory

import (
	"context"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type countryRepository struct {
	st *state
}

func (r *countryRepository) FindByCode(_ context.Context, code domain.CountryCode) (*domain.Country, error) {
	c, ok := r.st.countries[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *countryRepository) AreAdjacent(_ context.Context, a, b domain.CountryCode) (bool, error) {
	return r.st.adjacent[adjacency{a, b}], nil
}
