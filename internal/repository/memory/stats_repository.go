package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type statsRepository struct {
	store *Store
}

// Stats reads committed data only; it waits for any open scope to finish.
func (s *Store) Stats() repository.StatsRepository {
	return &statsRepository{store: s}
}

func (r *statsRepository) GetEnrollmentStats(ctx context.Context, competitionID uuid.UUID) ([]*domain.EnrollmentStatusStat, error) {
	if err := r.store.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.store.release()

	counts := make(map[domain.EnrollmentStatus]int)
	for _, e := range r.store.data.enrollments {
		if e.CompetitionID == competitionID {
			counts[e.Status]++
		}
	}
	stats := make([]*domain.EnrollmentStatusStat, 0, len(counts))
	for status, n := range counts {
		stats = append(stats, &domain.EnrollmentStatusStat{Status: status, Count: n})
	}
	slices.SortFunc(stats, func(a, b *domain.EnrollmentStatusStat) int {
		return strings.Compare(string(a.Status), string(b.Status))
	})
	return stats, nil
}

func (r *statsRepository) GetCompetitionStatsByStatus(ctx context.Context, creatorID uuid.UUID) ([]*domain.CompetitionStatusStat, error) {
	if err := r.store.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.store.release()

	counts := make(map[domain.CompetitionStatus]int)
	for _, c := range r.store.data.competitions {
		if c.CreatorID == creatorID {
			counts[c.Status]++
		}
	}
	stats := make([]*domain.CompetitionStatusStat, 0, len(counts))
	for status, n := range counts {
		stats = append(stats, &domain.CompetitionStatusStat{Status: status, Count: n})
	}
	slices.SortFunc(stats, func(a, b *domain.CompetitionStatusStat) int {
		return strings.Compare(string(a.Status), string(b.Status))
	})
	return stats, nil
}
