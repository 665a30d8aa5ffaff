//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/events"
	"github.com/fairway/competitions/internal/repository"
	"github.com/fairway/competitions/internal/repository/postgres"
	"github.com/fairway/competitions/internal/service"
)

type services struct {
	competitions service.CompetitionService
	enrollments  service.EnrollmentService
	invitations  service.InvitationService
	stats        service.StatsService
	recorder     *events.Recorder
}

func newServices(t *testing.T) (*services, *postgresFixture) {
	database := setupTestDB(t)
	uow := postgres.NewUnitOfWorkFactory(database, nil)
	users := postgres.NewUserRepository(database)
	recorder := &events.Recorder{}
	return &services{
		competitions: service.NewCompetitionService(uow, users, recorder),
		enrollments:  service.NewEnrollmentService(uow, recorder),
		invitations:  service.NewInvitationService(uow, users, recorder),
		stats:        service.NewStatsService(postgres.NewStatsRepository(database)),
		recorder:     recorder,
	}, &postgresFixture{uow: uow, db: database}
}

func createActiveCompetition(t *testing.T, ctx context.Context, s *services, creatorID uuid.UUID, maxPlayers int) *domain.Competition {
	t.Helper()
	start := time.Now().UTC().AddDate(0, 1, 0)
	c, err := s.competitions.Create(ctx, creatorID, service.CreateCompetitionInput{
		Name:               "Ryder weekend",
		StartDate:          start,
		EndDate:            start.AddDate(0, 0, 2),
		CountryCode:        "ES",
		SecondaryCountries: []string{"PT"},
		PlayMode:           "HANDICAP",
		HandicapPercentage: 100,
		MaxPlayers:         maxPlayers,
		TeamAssignment:     "MANUAL",
	})
	require.NoError(t, err)
	require.Equal(t, domain.CompetitionDraft, c.Status)

	c, err = s.competitions.Activate(ctx, creatorID, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.CompetitionActive, c.Status)
	return c
}

func TestCompetitionCapacityIntegration(t *testing.T) {
	s, _ := newServices(t)
	ctx := context.Background()

	creator := uuid.New()
	c := createActiveCompetition(t, ctx, s, creator, 2)

	var requested []*domain.Enrollment
	for i := 0; i < 3; i++ {
		e, err := s.enrollments.Request(ctx, uuid.New(), c.ID)
		require.NoError(t, err)
		require.Equal(t, domain.EnrollmentRequested, e.Status)
		requested = append(requested, e)
	}

	_, err := s.enrollments.Request(ctx, requested[0].UserID, c.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateEnrollment)

	for _, e := range requested[:2] {
		approved, err := s.enrollments.Approve(ctx, creator, e.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EnrollmentApproved, approved.Status)
	}

	_, err = s.enrollments.Approve(ctx, creator, requested[2].ID)
	assert.ErrorIs(t, err, domain.ErrCompetitionFull)

	stats, err := s.stats.GetEnrollmentStats(ctx, c.ID)
	require.NoError(t, err)
	counts := map[domain.EnrollmentStatus]int{}
	for _, st := range stats {
		counts[st.Status] = st.Count
	}
	assert.Equal(t, 2, counts[domain.EnrollmentApproved])
	assert.Equal(t, 1, counts[domain.EnrollmentRequested])

	byStatus, err := s.stats.GetCompetitionStats(ctx, creator)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, domain.CompetitionActive, byStatus[0].Status)
	assert.Equal(t, 1, byStatus[0].Count)
}

func TestCompetitionNameIsUniquePerCreatorIntegration(t *testing.T) {
	s, _ := newServices(t)
	ctx := context.Background()

	creator := uuid.New()
	createActiveCompetition(t, ctx, s, creator, 8)

	start := time.Now().UTC().AddDate(0, 2, 0)
	_, err := s.competitions.Create(ctx, creator, service.CreateCompetitionInput{
		Name:           "RYDER WEEKEND",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 1),
		CountryCode:    "FR",
		PlayMode:       "SCRATCH",
		MaxPlayers:     8,
		TeamAssignment: "MANUAL",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCompetitionName)

	_, err = s.competitions.Create(ctx, uuid.New(), service.CreateCompetitionInput{
		Name:           "Ryder weekend",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 1),
		CountryCode:    "FR",
		PlayMode:       "SCRATCH",
		MaxPlayers:     8,
		TeamAssignment: "MANUAL",
	})
	assert.NoError(t, err)
}

func TestInvitationIntegration(t *testing.T) {
	s, fx := newServices(t)
	ctx := context.Background()

	creator := uuid.New()
	inviteeEmail := "marta@example.com"
	invitee := insertUser(t, fx.db, inviteeEmail, 12.4)
	c := createActiveCompetition(t, ctx, s, creator, 4)

	inv, err := s.invitations.Send(ctx, creator, service.SendInvitationInput{
		CompetitionID: c.ID,
		InviteeEmail:  "  Marta@Example.com ",
	})
	require.NoError(t, err)
	assert.Equal(t, inviteeEmail, inv.InviteeEmail)
	assert.Equal(t, domain.InvitationPending, inv.Status)

	_, err = s.invitations.Send(ctx, creator, service.SendInvitationInput{
		CompetitionID: c.ID,
		InviteeEmail:  inviteeEmail,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateInvitation)

	mine, err := s.invitations.ListMine(ctx, service.Actor{UserID: invitee}, repository.InvitationFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	accepted, enrollment, err := s.invitations.Accept(ctx, service.Actor{UserID: invitee}, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationAccepted, accepted.Status)
	require.NotNil(t, accepted.EnrollmentID)
	assert.Equal(t, enrollment.ID, *accepted.EnrollmentID)
	assert.Equal(t, domain.EnrollmentApproved, enrollment.Status)

	_, err = s.invitations.Decline(ctx, service.Actor{UserID: invitee}, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvitationState)

	assert.Equal(t, 1, countRows(t, fx.db, "invitations"))
	assert.Equal(t, 1, countRows(t, fx.db, "enrollments"))
}
