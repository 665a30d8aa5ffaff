package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

var invitationRowColumns = []string{
	"id", "competition_id", "inviter_id", "invitee_email", "invitee_user_id", "personal_message",
	"status", "enrollment_id", "expires_at", "responded_at", "created_at", "updated_at",
}

func setupInvitationRepo(t *testing.T) (*invitationRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewInvitationRepository(db), mock
}

func TestInvitationRepository_Add(t *testing.T) {
	repo, mock := setupInvitationRepo(t)
	now := time.Now().UTC()
	msg := "see you there"
	inv := &domain.Invitation{
		ID: uuid.New(), CompetitionID: uuid.New(), InviterID: uuid.New(),
		InviteeEmail: "guest@example.com", PersonalMessage: &msg,
		Status: domain.InvitationPending, ExpiresAt: now.Add(domain.InvitationTTL),
		CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO invitations").
		WithArgs(
			inv.ID, inv.CompetitionID, inv.InviterID, "guest@example.com", uuid.NullUUID{},
			sql.NullString{String: msg, Valid: true}, "PENDING", uuid.NullUUID{},
			inv.ExpiresAt, sql.NullTime{}, now, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Add(context.Background(), inv))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Update(t *testing.T) {
	repo, mock := setupInvitationRepo(t)
	now := time.Now().UTC()
	userID, enrollmentID := uuid.New(), uuid.New()
	inv := &domain.Invitation{
		ID: uuid.New(), InviteeUserID: &userID, Status: domain.InvitationAccepted,
		EnrollmentID: &enrollmentID, RespondedAt: &now, UpdatedAt: now,
	}

	mock.ExpectExec("UPDATE invitations").
		WithArgs(
			inv.ID, uuid.NullUUID{UUID: userID, Valid: true}, "ACCEPTED",
			uuid.NullUUID{UUID: enrollmentID, Valid: true}, sql.NullTime{Time: now, Valid: true}, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), inv))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Find(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	competitionID := uuid.New()

	t.Run("pending by email", func(t *testing.T) {
		repo, mock := setupInvitationRepo(t)
		id, inviter := uuid.New(), uuid.New()

		mock.ExpectQuery(`WHERE competition_id = \$1 AND invitee_email = \$2 AND status = 'PENDING'`).
			WithArgs(competitionID, "guest@example.com").
			WillReturnRows(sqlmock.NewRows(invitationRowColumns).AddRow(
				id.String(), competitionID.String(), inviter.String(), "guest@example.com", nil, nil,
				"PENDING", nil, now.Add(time.Hour), nil, now, now,
			))

		inv, err := repo.FindPending(ctx, competitionID, "guest@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, inv.ID)
		assert.Equal(t, domain.InvitationPending, inv.Status)
		assert.Nil(t, inv.InviteeUserID)
		assert.Nil(t, inv.PersonalMessage)
		assert.Nil(t, inv.RespondedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no pending invitation", func(t *testing.T) {
		repo, mock := setupInvitationRepo(t)

		mock.ExpectQuery("FROM invitations").
			WillReturnRows(sqlmock.NewRows(invitationRowColumns))

		_, err := repo.FindPending(ctx, competitionID, "nobody@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status as of a moment treats lapsed pending rows as expired", func(t *testing.T) {
		repo, mock := setupInvitationRepo(t)
		status := domain.InvitationExpired

		mock.ExpectQuery(`WHERE competition_id = \$1 AND \(CASE WHEN status = 'PENDING' AND expires_at <= \$3 THEN 'EXPIRED' ELSE status END\) = \$2 ORDER BY created_at DESC LIMIT \$4`).
			WithArgs(competitionID, "EXPIRED", now, 10).
			WillReturnRows(sqlmock.NewRows(invitationRowColumns).AddRow(
				uuid.NewString(), competitionID.String(), uuid.NewString(), "late@example.com", nil, nil,
				"PENDING", nil, now.Add(-time.Hour), nil, now.Add(-domain.InvitationTTL), now,
			))

		got, err := repo.FindByCompetition(ctx, competitionID, repository.InvitationFilter{Status: &status, AsOf: now, Limit: 10})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.InvitationPending, got[0].Status)
		assert.Equal(t, domain.InvitationExpired, got[0].StatusAt(now))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("by invitee matches id or email", func(t *testing.T) {
		repo, mock := setupInvitationRepo(t)
		userID, enrollmentID := uuid.New(), uuid.New()
		status := domain.InvitationAccepted

		mock.ExpectQuery(`WHERE \(invitee_user_id = \$1 OR invitee_email = \$2\) AND status = \$3 ORDER BY created_at DESC`).
			WithArgs(userID, "guest@example.com", "ACCEPTED").
			WillReturnRows(sqlmock.NewRows(invitationRowColumns).AddRow(
				uuid.NewString(), competitionID.String(), uuid.NewString(), "guest@example.com", userID.String(), "hi",
				"ACCEPTED", enrollmentID.String(), now, now, now, now,
			))

		got, err := repo.FindByInvitee(ctx, userID, "guest@example.com", repository.InvitationFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, userID, *got[0].InviteeUserID)
		assert.Equal(t, enrollmentID, *got[0].EnrollmentID)
		assert.Equal(t, "hi", *got[0].PersonalMessage)
		assert.NotNil(t, got[0].RespondedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInvitationRepository_CountByCompetition(t *testing.T) {
	ctx := context.Background()
	competitionID := uuid.New()
	since := time.Now().Add(-time.Hour)

	t.Run("all time", func(t *testing.T) {
		repo, mock := setupInvitationRepo(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invitations WHERE competition_id = \$1$`).
			WithArgs(competitionID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		n, err := repo.CountByCompetition(ctx, competitionID, nil)
		require.NoError(t, err)
		assert.Equal(t, 12, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("window", func(t *testing.T) {
		repo, mock := setupInvitationRepo(t)
		mock.ExpectQuery(`AND created_at >= \$2`).
			WithArgs(competitionID, since).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		n, err := repo.CountByCompetition(ctx, competitionID, &since)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
