package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type CreateCompetitionInput struct {
	Name               string
	StartDate          time.Time
	EndDate            time.Time
	CountryCode        string
	SecondaryCountries []string
	PlayMode           string
	HandicapPercentage int
	MaxPlayers         int
	TeamAssignment     string
	Team1Name          string
	Team2Name          string
}

// UpdateCompetitionInput is a partial update. Fields left nil keep their value;
// pairs such as the dates are merged with the stored half.
type UpdateCompetitionInput struct {
	Name               *string
	StartDate          *time.Time
	EndDate            *time.Time
	CountryCode        *string
	SecondaryCountries *[]string
	PlayMode           *string
	HandicapPercentage *int
	MaxPlayers         *int
	TeamAssignment     *string
	Team1Name          *string
	Team2Name          *string
}

type CompetitionService interface {
	Create(ctx context.Context, creatorID uuid.UUID, in CreateCompetitionInput) (*domain.Competition, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Competition, error)
	ListMine(ctx context.Context, creatorID uuid.UUID, filter repository.CompetitionFilter) ([]*domain.Competition, error)
	ListPublic(ctx context.Context, filter repository.CompetitionFilter) ([]*domain.Competition, error)
	Update(ctx context.Context, actorID, id uuid.UUID, in UpdateCompetitionInput) (*domain.Competition, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error

	Activate(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error)
	CloseEnrollments(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error)
	ReopenEnrollments(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error)
	Start(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error)
	RevertToClosed(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error)
	Complete(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error)
	Cancel(ctx context.Context, actorID, id uuid.UUID, reason *string) (*domain.Competition, error)

	// AssignTeams splits the approved players of a closed AUTOMATIC competition
	// into two balanced teams.
	AssignTeams(ctx context.Context, actorID, id uuid.UUID) ([]*domain.Enrollment, error)
}
