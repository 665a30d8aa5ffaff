package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

type StatsRepository interface {
	GetEnrollmentStats(ctx context.Context, competitionID uuid.UUID) ([]*domain.EnrollmentStatusStat, error)
	GetCompetitionStatsByStatus(ctx context.Context, creatorID uuid.UUID) ([]*domain.CompetitionStatusStat, error)
}
