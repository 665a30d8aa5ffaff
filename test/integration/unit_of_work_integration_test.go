//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
	"github.com/fairway/competitions/internal/repository/postgres"
)

type postgresFixture struct {
	uow *postgres.UnitOfWorkFactory
	db  *sql.DB
}

func draftCompetition(t *testing.T, creatorID uuid.UUID, name string) *domain.Competition {
	t.Helper()
	start := time.Now().UTC().AddDate(0, 3, 0)
	c, _, err := domain.NewCompetition(domain.NewCompetitionParams{
		CreatorID:      creatorID,
		Name:           name,
		Dates:          domain.DateRange{Start: domain.DateOf(start), End: domain.DateOf(start.AddDate(0, 0, 2))},
		Location:       domain.Location{Primary: "ES"},
		Handicap:       domain.HandicapSettings{PlayMode: domain.PlayModeScratch},
		MaxPlayers:     12,
		TeamAssignment: domain.TeamAssignmentManual,
		Teams:          domain.TeamNames{Team1: "Europe", Team2: "World"},
	}, time.Now())
	require.NoError(t, err)
	return c
}

func TestUnitOfWorkIntegration(t *testing.T) {
	_, fx := newServices(t)
	ctx := context.Background()
	creator := uuid.New()

	t.Run("rollback leaves no rows", func(t *testing.T) {
		c := draftCompetition(t, creator, "Spring foursomes")
		uow, err := fx.uow.Begin(ctx)
		require.NoError(t, err)

		require.NoError(t, uow.Competitions().Add(ctx, c))
		e, _, err := domain.RequestEnrollment(c.ID, uuid.New(), time.Now())
		require.NoError(t, err)
		require.NoError(t, uow.Enrollments().Add(ctx, e))
		require.NoError(t, uow.Rollback())

		assert.Equal(t, 0, countRows(t, fx.db, "competitions"))
		assert.Equal(t, 0, countRows(t, fx.db, "enrollments"))
	})

	t.Run("commit persists and reads back", func(t *testing.T) {
		c := draftCompetition(t, creator, "Autumn fourballs")
		uow, err := fx.uow.Begin(ctx)
		require.NoError(t, err)
		defer uow.Rollback()

		require.NoError(t, uow.Competitions().Add(ctx, c))
		require.NoError(t, uow.Flush(ctx))
		require.NoError(t, uow.Commit())
		assert.ErrorIs(t, uow.Commit(), sql.ErrTxDone)

		read, err := fx.uow.Begin(ctx)
		require.NoError(t, err)
		defer read.Rollback()

		got, err := read.Competitions().FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Name, got.Name)
		assert.True(t, c.Dates.Start.Equal(got.Dates.Start))
		assert.Equal(t, c.Teams, got.Teams)
	})

	t.Run("unique constraint maps to conflict", func(t *testing.T) {
		uow, err := fx.uow.Begin(ctx)
		require.NoError(t, err)
		defer uow.Rollback()

		err = uow.Competitions().Add(ctx, draftCompetition(t, creator, "AUTUMN FOURBALLS"))
		assert.True(t, errors.Is(err, repository.ErrConflict), "got %v", err)
	})

	t.Run("countries are seeded", func(t *testing.T) {
		uow, err := fx.uow.Begin(ctx)
		require.NoError(t, err)
		defer uow.Rollback()

		adjacent, err := uow.Countries().AreAdjacent(ctx, "ES", "FR")
		require.NoError(t, err)
		assert.True(t, adjacent)
	})
}
