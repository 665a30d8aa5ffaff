package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

type StatsService interface {
	GetEnrollmentStats(ctx context.Context, competitionID uuid.UUID) ([]*domain.EnrollmentStatusStat, error)
	GetCompetitionStats(ctx context.Context, creatorID uuid.UUID) ([]*domain.CompetitionStatusStat, error)
}
