package service

import (
	"context"
	"errors"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

// validateLocation checks that every country is known and that each secondary
// country borders the primary one.
func validateLocation(ctx context.Context, countries repository.CountryRepository, loc domain.Location) error {
	for _, code := range loc.Codes() {
		if _, err := countries.FindByCode(ctx, code); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Newf(domain.ErrInvalidCountryCode, "unknown country %s", code)
			}
			return err
		}
	}
	for _, code := range loc.Secondary {
		adjacent, err := countries.AreAdjacent(ctx, loc.Primary, code)
		if err != nil {
			return err
		}
		if !adjacent {
			return domain.Newf(domain.ErrInvalidLocation, "%s does not border %s", code, loc.Primary)
		}
	}
	return nil
}
