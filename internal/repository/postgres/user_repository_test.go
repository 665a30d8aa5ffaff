package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/competitions/internal/repository"
)

var userRowColumns = []string{"id", "email", "first_name", "last_name", "handicap", "created_at", "updated_at"}

func setupUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewUserRepository(db), mock
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found with handicap", func(t *testing.T) {
		repo, mock := setupUserRepo(t)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery("FROM users").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(id.String(), "ana@club.es", "Ana", "Pérez", 14.2, now, nil))

		user, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ana Pérez", user.FullName())
		assert.Equal(t, 14.2, *user.Handicap)
		assert.Nil(t, user.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupUserRepo(t)
		id := uuid.New()

		mock.ExpectQuery("FROM users").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo, mock := setupUserRepo(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`WHERE email = \$1`).
		WithArgs("ana@club.es").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(id.String(), "ana@club.es", "Ana", "", nil, now, now))

	user, err := repo.FindByEmail(context.Background(), "  ANA@club.es ")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Nil(t, user.Handicap)
	require.NotNil(t, user.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
