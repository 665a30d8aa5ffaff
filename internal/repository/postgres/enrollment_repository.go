package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

const enrollmentColumns = `id, competition_id, user_id, status, team_id, custom_handicap, created_at, updated_at`

type enrollmentRepository struct {
	executor DBExecutor
}

func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{executor: db}
}

func NewEnrollmentRepositoryWithTx(tx *sql.Tx) *enrollmentRepository {
	return &enrollmentRepository{executor: tx}
}

func scanEnrollment(row rowScanner) (*domain.Enrollment, error) {
	e := &domain.Enrollment{}
	var (
		status   string
		teamID   sql.NullString
		handicap sql.NullFloat64
	)
	err := row.Scan(
		&e.ID,
		&e.CompetitionID,
		&e.UserID,
		&status,
		&teamID,
		&handicap,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	e.Status = domain.EnrollmentStatus(status)
	e.TeamID = stringPtr(teamID)
	e.CustomHandicap = floatPtr(handicap)
	return e, nil
}

func (r *enrollmentRepository) Add(ctx context.Context, e *domain.Enrollment) error {
	query := `
		INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.executor.ExecContext(
		ctx,
		query,
		e.ID,
		e.CompetitionID,
		e.UserID,
		string(e.Status),
		nullString(e.TeamID),
		nullFloat(e.CustomHandicap),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return mapError(err)
}

func (r *enrollmentRepository) Update(ctx context.Context, e *domain.Enrollment) error {
	query := `
		UPDATE enrollments
		SET status = $2, team_id = $3, custom_handicap = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.executor.ExecContext(
		ctx,
		query,
		e.ID,
		string(e.Status),
		nullString(e.TeamID),
		nullFloat(e.CustomHandicap),
		e.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(result)
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	return scanEnrollment(r.executor.QueryRowContext(ctx, query, id))
}

func (r *enrollmentRepository) FindByCompetition(ctx context.Context, competitionID uuid.UUID, filter repository.EnrollmentFilter) ([]*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE competition_id = $1`
	args := []any{competitionID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at"
	query, args = page(query, args, filter.Limit, filter.Offset)
	return r.list(ctx, query, args...)
}

func (r *enrollmentRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter repository.EnrollmentFilter) ([]*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1`
	args := []any{userID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	query, args = page(query, args, filter.Limit, filter.Offset)
	return r.list(ctx, query, args...)
}

func (r *enrollmentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Enrollment, error) {
	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*domain.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}

	return enrollments, rows.Err()
}

func (r *enrollmentRepository) FindByUserAndCompetition(ctx context.Context, userID, competitionID uuid.UUID) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1 AND competition_id = $2`
	return scanEnrollment(r.executor.QueryRowContext(ctx, query, userID, competitionID))
}

func (r *enrollmentRepository) countByStatus(ctx context.Context, competitionID uuid.UUID, statuses ...domain.EnrollmentStatus) (int, error) {
	args := []any{competitionID}
	placeholders := make([]string, len(statuses))
	for i, s := range statuses {
		args = append(args, string(s))
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	query := `SELECT COUNT(*) FROM enrollments WHERE competition_id = $1 AND status IN (` + strings.Join(placeholders, ", ") + `)`

	var count int
	err := r.executor.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *enrollmentRepository) CountApproved(ctx context.Context, competitionID uuid.UUID) (int, error) {
	return r.countByStatus(ctx, competitionID, domain.EnrollmentApproved)
}

func (r *enrollmentRepository) CountPending(ctx context.Context, competitionID uuid.UUID) (int, error) {
	return r.countByStatus(ctx, competitionID, domain.EnrollmentRequested, domain.EnrollmentInvited)
}

func (r *enrollmentRepository) ExistsForUserInCompetition(ctx context.Context, userID, competitionID uuid.UUID) (bool, error) {
	var exists bool
	err := r.executor.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND competition_id = $2)`,
		userID,
		competitionID,
	).Scan(&exists)
	return exists, err
}

func (r *enrollmentRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.executor.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM enrollments WHERE user_id = $1 AND status IN ('REQUESTED', 'INVITED', 'APPROVED')`,
		userID,
	).Scan(&count)
	return count, err
}
