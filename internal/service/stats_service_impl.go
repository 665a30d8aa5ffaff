package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetEnrollmentStats(ctx context.Context, competitionID uuid.UUID) ([]*domain.EnrollmentStatusStat, error) {
	if err := domain.RequireID(competitionID, "competition id"); err != nil {
		return nil, err
	}
	return s.statsRepo.GetEnrollmentStats(ctx, competitionID)
}

func (s *statsService) GetCompetitionStats(ctx context.Context, creatorID uuid.UUID) ([]*domain.CompetitionStatusStat, error) {
	if err := domain.RequireID(creatorID, "creator id"); err != nil {
		return nil, err
	}
	return s.statsRepo.GetCompetitionStatsByStatus(ctx, creatorID)
}
