package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

const invitationColumns = `
	id, competition_id, inviter_id, invitee_email, invitee_user_id, personal_message,
	status, enrollment_id, expires_at, responded_at, created_at, updated_at`

type invitationRepository struct {
	executor DBExecutor
}

func NewInvitationRepository(db *sql.DB) *invitationRepository {
	return &invitationRepository{executor: db}
}

func NewInvitationRepositoryWithTx(tx *sql.Tx) *invitationRepository {
	return &invitationRepository{executor: tx}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var (
		status                    string
		inviteeUserID, enrollment uuid.NullUUID
		message                   sql.NullString
		respondedAt               sql.NullTime
	)
	err := row.Scan(
		&inv.ID,
		&inv.CompetitionID,
		&inv.InviterID,
		&inv.InviteeEmail,
		&inviteeUserID,
		&message,
		&status,
		&enrollment,
		&inv.ExpiresAt,
		&respondedAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	inv.Status = domain.InvitationStatus(status)
	inv.InviteeUserID = uuidPtr(inviteeUserID)
	inv.EnrollmentID = uuidPtr(enrollment)
	inv.PersonalMessage = stringPtr(message)
	if respondedAt.Valid {
		t := respondedAt.Time
		inv.RespondedAt = &t
	}
	return inv, nil
}

// invitationStatus appends the status condition. With AsOf set, PENDING rows past
// expires_at match EXPIRED and no longer match PENDING.
func invitationStatus(query string, args []any, filter repository.InvitationFilter) (string, []any) {
	if filter.Status == nil {
		return query, args
	}
	args = append(args, string(*filter.Status))
	statusArg := len(args)
	if filter.AsOf.IsZero() {
		return query + fmt.Sprintf(" AND status = $%d", statusArg), args
	}
	args = append(args, filter.AsOf)
	return query + fmt.Sprintf(
		" AND (CASE WHEN status = 'PENDING' AND expires_at <= $%d THEN 'EXPIRED' ELSE status END) = $%d",
		len(args), statusArg,
	), args
}

func (r *invitationRepository) Add(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.executor.ExecContext(
		ctx,
		query,
		inv.ID,
		inv.CompetitionID,
		inv.InviterID,
		inv.InviteeEmail,
		nullUUID(inv.InviteeUserID),
		nullString(inv.PersonalMessage),
		string(inv.Status),
		nullUUID(inv.EnrollmentID),
		inv.ExpiresAt,
		nullTime(inv.RespondedAt),
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	return mapError(err)
}

func (r *invitationRepository) Update(ctx context.Context, inv *domain.Invitation) error {
	query := `
		UPDATE invitations
		SET invitee_user_id = $2, status = $3, enrollment_id = $4, responded_at = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.executor.ExecContext(
		ctx,
		query,
		inv.ID,
		nullUUID(inv.InviteeUserID),
		string(inv.Status),
		nullUUID(inv.EnrollmentID),
		nullTime(inv.RespondedAt),
		inv.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(result)
}

func (r *invitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return scanInvitation(r.executor.QueryRowContext(ctx, query, id))
}

func (r *invitationRepository) FindByCompetition(ctx context.Context, competitionID uuid.UUID, filter repository.InvitationFilter) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE competition_id = $1`
	args := []any{competitionID}
	query, args = invitationStatus(query, args, filter)
	query += " ORDER BY created_at DESC"
	query, args = page(query, args, filter.Limit, filter.Offset)
	return r.list(ctx, query, args...)
}

func (r *invitationRepository) FindByInvitee(ctx context.Context, userID uuid.UUID, email string, filter repository.InvitationFilter) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE (invitee_user_id = $1 OR invitee_email = $2)`
	args := []any{userID, email}
	query, args = invitationStatus(query, args, filter)
	query += " ORDER BY created_at DESC"
	query, args = page(query, args, filter.Limit, filter.Offset)
	return r.list(ctx, query, args...)
}

func (r *invitationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Invitation, error) {
	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

func (r *invitationRepository) FindPending(ctx context.Context, competitionID uuid.UUID, email string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations
		WHERE competition_id = $1 AND invitee_email = $2 AND status = 'PENDING'`
	return scanInvitation(r.executor.QueryRowContext(ctx, query, competitionID, email))
}

func (r *invitationRepository) CountByCompetition(ctx context.Context, competitionID uuid.UUID, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM invitations WHERE competition_id = $1`
	args := []any{competitionID}
	if since != nil {
		args = append(args, *since)
		query += " AND created_at >= $2"
	}

	var count int
	err := r.executor.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
