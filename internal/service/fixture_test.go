package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/events"
	"github.com/fairway/competitions/internal/repository/memory"
)

type fixture struct {
	store    *memory.Store
	recorder *events.Recorder
	now      time.Time
	names    int

	competitions CompetitionService
	enrollments  EnrollmentService
	invitations  InvitationService

	creator uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.SeedCountries()

	f := &fixture{
		store:    store,
		recorder: &events.Recorder{},
		now:      time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		creator:  uuid.New(),
	}
	clock := WithClock(func() time.Time { return f.now })
	uow := memory.NewUnitOfWorkFactory(store, nil)

	f.competitions = NewCompetitionService(uow, store.Users(), f.recorder, clock)
	f.enrollments = NewEnrollmentService(uow, f.recorder, clock)
	f.invitations = NewInvitationService(uow, store.Users(), f.recorder, clock)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// competitionInput starts thirty days from the fixture clock.
func (f *fixture) competitionInput(maxPlayers int) CreateCompetitionInput {
	f.names++
	start := f.now.AddDate(0, 0, 30)
	return CreateCompetitionInput{
		Name:        fmt.Sprintf("Club Championship %d", f.names),
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 2),
		CountryCode: "ES",
		PlayMode:    "SCRATCH",
		MaxPlayers:  maxPlayers,
	}
}

func (f *fixture) draftCompetition(t *testing.T, maxPlayers int) *domain.Competition {
	t.Helper()
	c, err := f.competitions.Create(context.Background(), f.creator, f.competitionInput(maxPlayers))
	require.NoError(t, err)
	return c
}

func (f *fixture) activeCompetition(t *testing.T, maxPlayers int) *domain.Competition {
	t.Helper()
	c := f.draftCompetition(t, maxPlayers)
	c, err := f.competitions.Activate(context.Background(), f.creator, c.ID)
	require.NoError(t, err)
	return c
}

func (f *fixture) registerUser(email string, handicap *float64) domain.User {
	u := domain.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Test",
		LastName:  "Player",
		Handicap:  handicap,
		CreatedAt: f.now,
	}
	f.store.AddUser(u)
	return u
}

func (f *fixture) resetEvents() {
	f.recorder.Events = nil
}

func ptr[T any](v T) *T {
	return &v
}
