package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

const competitionColumns = `
	id, creator_id, name, start_date, end_date,
	country_code, secondary_country_1, secondary_country_2,
	play_mode, handicap_percentage, max_players, team_assignment,
	team_1_name, team_2_name, status, cancellation_reason, created_at, updated_at`

type competitionRepository struct {
	executor DBExecutor
}

func NewCompetitionRepository(db *sql.DB) *competitionRepository {
	return &competitionRepository{executor: db}
}

func NewCompetitionRepositoryWithTx(tx *sql.Tx) *competitionRepository {
	return &competitionRepository{executor: tx}
}

func secondaryCountries(loc domain.Location) (sql.NullString, sql.NullString) {
	var first, second sql.NullString
	if len(loc.Secondary) > 0 {
		first = sql.NullString{String: string(loc.Secondary[0]), Valid: true}
	}
	if len(loc.Secondary) > 1 {
		second = sql.NullString{String: string(loc.Secondary[1]), Valid: true}
	}
	return first, second
}

func scanCompetition(row rowScanner) (*domain.Competition, error) {
	c := &domain.Competition{}
	var (
		primary, playMode, teamAssignment, status string
		secondary1, secondary2, reason            sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&c.CreatorID,
		&c.Name,
		&c.Dates.Start,
		&c.Dates.End,
		&primary,
		&secondary1,
		&secondary2,
		&playMode,
		&c.Handicap.Percentage,
		&c.MaxPlayers,
		&teamAssignment,
		&c.Teams.Team1,
		&c.Teams.Team2,
		&status,
		&reason,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	c.Location.Primary = domain.CountryCode(primary)
	for _, s := range []sql.NullString{secondary1, secondary2} {
		if s.Valid {
			c.Location.Secondary = append(c.Location.Secondary, domain.CountryCode(s.String))
		}
	}
	c.Handicap.PlayMode = domain.PlayMode(playMode)
	c.TeamAssignment = domain.TeamAssignment(teamAssignment)
	c.Status = domain.CompetitionStatus(status)
	c.CancellationReason = stringPtr(reason)
	c.Dates.Start = domain.DateOf(c.Dates.Start)
	c.Dates.End = domain.DateOf(c.Dates.End)
	return c, nil
}

func (r *competitionRepository) Add(ctx context.Context, c *domain.Competition) error {
	query := `
		INSERT INTO competitions (` + competitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	secondary1, secondary2 := secondaryCountries(c.Location)
	_, err := r.executor.ExecContext(
		ctx,
		query,
		c.ID,
		c.CreatorID,
		c.Name,
		c.Dates.Start,
		c.Dates.End,
		string(c.Location.Primary),
		secondary1,
		secondary2,
		string(c.Handicap.PlayMode),
		c.Handicap.Percentage,
		c.MaxPlayers,
		string(c.TeamAssignment),
		c.Teams.Team1,
		c.Teams.Team2,
		string(c.Status),
		nullString(c.CancellationReason),
		c.CreatedAt,
		c.UpdatedAt,
	)
	return mapError(err)
}

func (r *competitionRepository) Update(ctx context.Context, c *domain.Competition) error {
	query := `
		UPDATE competitions
		SET name = $2, start_date = $3, end_date = $4,
			country_code = $5, secondary_country_1 = $6, secondary_country_2 = $7,
			play_mode = $8, handicap_percentage = $9, max_players = $10, team_assignment = $11,
			team_1_name = $12, team_2_name = $13, status = $14, cancellation_reason = $15,
			updated_at = $16
		WHERE id = $1
	`

	secondary1, secondary2 := secondaryCountries(c.Location)
	result, err := r.executor.ExecContext(
		ctx,
		query,
		c.ID,
		c.Name,
		c.Dates.Start,
		c.Dates.End,
		string(c.Location.Primary),
		secondary1,
		secondary2,
		string(c.Handicap.PlayMode),
		c.Handicap.Percentage,
		c.MaxPlayers,
		string(c.TeamAssignment),
		c.Teams.Team1,
		c.Teams.Team2,
		string(c.Status),
		nullString(c.CancellationReason),
		c.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(result)
}

func (r *competitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.executor.ExecContext(ctx, `DELETE FROM competitions WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(result)
}

func (r *competitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1`
	return scanCompetition(r.executor.QueryRowContext(ctx, query, id))
}

func (r *competitionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1 FOR UPDATE`
	return scanCompetition(r.executor.QueryRowContext(ctx, query, id))
}

func (r *competitionRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID, filter repository.CompetitionFilter) ([]*domain.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE creator_id = $1`
	args := []any{creatorID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	query, args = page(query, args, filter.Limit, filter.Offset)
	return r.list(ctx, query, args...)
}

func (r *competitionRepository) List(ctx context.Context, filter repository.CompetitionFilter) ([]*domain.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions`
	var args []any
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += " WHERE status = $1"
	}
	query += " ORDER BY start_date, created_at"
	query, args = page(query, args, filter.Limit, filter.Offset)
	return r.list(ctx, query, args...)
}

func (r *competitionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Competition, error) {
	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competitions []*domain.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, err
		}
		competitions = append(competitions, c)
	}

	return competitions, rows.Err()
}

func (r *competitionRepository) CountByCreator(ctx context.Context, creatorID uuid.UUID) (int, error) {
	var count int
	err := r.executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitions WHERE creator_id = $1`, creatorID).Scan(&count)
	return count, err
}

func (r *competitionRepository) ExistsWithName(ctx context.Context, creatorID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM competitions
			WHERE creator_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3
		)
	`
	var exists bool
	err := r.executor.QueryRowContext(ctx, query, creatorID, name, excludeID).Scan(&exists)
	return exists, err
}
