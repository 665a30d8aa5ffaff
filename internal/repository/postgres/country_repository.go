package postgres

import (
	"context"
	"database/sql"

	"github.com/fairway/competitions/internal/domain"
)

type countryRepository struct {
	executor DBExecutor
}

func NewCountryRepository(db *sql.DB) *countryRepository {
	return &countryRepository{executor: db}
}

func NewCountryRepositoryWithTx(tx *sql.Tx) *countryRepository {
	return &countryRepository{executor: tx}
}

func (r *countryRepository) FindByCode(ctx context.Context, code domain.CountryCode) (*domain.Country, error) {
	country := &domain.Country{}
	var dbCode string
	err := r.executor.QueryRowContext(
		ctx,
		`SELECT code, name_en, name_es FROM countries WHERE code = $1`,
		string(code),
	).Scan(&dbCode, &country.NameEN, &country.NameES)
	if err != nil {
		return nil, mapError(err)
	}
	country.Code = domain.CountryCode(dbCode)
	return country, nil
}

func (r *countryRepository) AreAdjacent(ctx context.Context, a, b domain.CountryCode) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM country_adjacencies
			WHERE (country_code = $1 AND adjacent_code = $2)
			   OR (country_code = $2 AND adjacent_code = $1)
		)
	`
	var adjacent bool
	err := r.executor.QueryRowContext(ctx, query, string(a), string(b)).Scan(&adjacent)
	return adjacent, err
}
