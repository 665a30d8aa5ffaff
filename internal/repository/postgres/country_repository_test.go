package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/competitions/internal/repository"
)

func TestCountryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("find by code", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCountryRepository(db)

		mock.ExpectQuery("FROM countries WHERE code").
			WithArgs("PT").
			WillReturnRows(sqlmock.NewRows([]string{"code", "name_en", "name_es"}).AddRow("PT", "Portugal", "Portugal"))

		c, err := repo.FindByCode(ctx, "PT")
		require.NoError(t, err)
		assert.Equal(t, "Portugal", c.NameEN)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCountryRepository(db)

		mock.ExpectQuery("FROM countries").
			WithArgs("XX").
			WillReturnRows(sqlmock.NewRows([]string{"code", "name_en", "name_es"}))

		_, err := repo.FindByCode(ctx, "XX")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("adjacency is checked both ways", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCountryRepository(db)

		mock.ExpectQuery(`FROM country_adjacencies`).
			WithArgs("FR", "ES").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.AreAdjacent(ctx, "FR", "ES")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
