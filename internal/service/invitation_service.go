package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type SendInvitationInput struct {
	CompetitionID   uuid.UUID
	InviteeEmail    string
	PersonalMessage *string
}

// InvitationService drives the invitation lifecycle. Every read that may branch on
// status first expires lapsed invitations and persists that change.
type InvitationService interface {
	Send(ctx context.Context, inviterID uuid.UUID, in SendInvitationInput) (*domain.Invitation, error)
	// Accept enrolls the invitee as approved, or approves an enrollment they
	// already have pending, and returns the enrollment with the invitation.
	Accept(ctx context.Context, actor Actor, invitationID uuid.UUID) (*domain.Invitation, *domain.Enrollment, error)
	Decline(ctx context.Context, actor Actor, invitationID uuid.UUID) (*domain.Invitation, error)
	Get(ctx context.Context, actor Actor, invitationID uuid.UUID) (*domain.Invitation, error)
	ListMine(ctx context.Context, actor Actor, filter repository.InvitationFilter) ([]*domain.Invitation, error)
	ListByCompetition(ctx context.Context, actorID, competitionID uuid.UUID, filter repository.InvitationFilter) ([]*domain.Invitation, error)
}
