package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

// InvitationFilter selects invitations by status. When AsOf is set the status is
// matched as of that instant, so a lapsed PENDING row counts as EXPIRED.
type InvitationFilter struct {
	Status *domain.InvitationStatus
	AsOf   time.Time
	Limit  int
	Offset int
}

// InvitationRepository returns invitations as stored. Callers must run
// CheckExpiration on PENDING rows before acting on them.
type InvitationRepository interface {
	Add(ctx context.Context, inv *domain.Invitation) error
	Update(ctx context.Context, inv *domain.Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	FindByCompetition(ctx context.Context, competitionID uuid.UUID, filter InvitationFilter) ([]*domain.Invitation, error)
	// FindByInvitee matches on user id or email.
	FindByInvitee(ctx context.Context, userID uuid.UUID, email string, filter InvitationFilter) ([]*domain.Invitation, error)
	FindPending(ctx context.Context, competitionID uuid.UUID, email string) (*domain.Invitation, error)
	// CountByCompetition counts invitations created at or after since when it is set.
	CountByCompetition(ctx context.Context, competitionID uuid.UUID, since *time.Time) (int, error)
}
