package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

type statsRepository struct {
	executor DBExecutor
}

func NewStatsRepository(db *sql.DB) *statsRepository {
	return &statsRepository{executor: db}
}

func (r *statsRepository) GetEnrollmentStats(ctx context.Context, competitionID uuid.UUID) ([]*domain.EnrollmentStatusStat, error) {
	query := `
		SELECT status, COUNT(id) AS count
		FROM enrollments
		WHERE competition_id = $1
		GROUP BY status
		ORDER BY status
	`

	rows, err := r.executor.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*domain.EnrollmentStatusStat
	for rows.Next() {
		stat := &domain.EnrollmentStatusStat{}
		var status string
		if err := rows.Scan(&status, &stat.Count); err != nil {
			return nil, err
		}
		stat.Status = domain.EnrollmentStatus(status)
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

func (r *statsRepository) GetCompetitionStatsByStatus(ctx context.Context, creatorID uuid.UUID) ([]*domain.CompetitionStatusStat, error) {
	query := `
		SELECT status, COUNT(id) AS count
		FROM competitions
		WHERE creator_id = $1
		GROUP BY status
		ORDER BY status
	`

	rows, err := r.executor.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*domain.CompetitionStatusStat
	for rows.Next() {
		stat := &domain.CompetitionStatusStat{}
		var status string
		if err := rows.Scan(&status, &stat.Count); err != nil {
			return nil, err
		}
		stat.Status = domain.CompetitionStatus(status)
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}
