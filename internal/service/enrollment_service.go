package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type EnrollmentService interface {
	// Request is the player asking to join.
	Request(ctx context.Context, userID, competitionID uuid.UUID) (*domain.Enrollment, error)
	// Invite lets the creator reserve a pending spot for a registered player.
	Invite(ctx context.Context, actorID, competitionID, userID uuid.UUID) (*domain.Enrollment, error)
	// DirectEnroll lets the creator add an approved player, optionally with a
	// competition-specific handicap.
	DirectEnroll(ctx context.Context, actorID, competitionID, userID uuid.UUID, customHandicap *float64) (*domain.Enrollment, error)

	Approve(ctx context.Context, actorID, enrollmentID uuid.UUID) (*domain.Enrollment, error)
	Reject(ctx context.Context, actorID, enrollmentID uuid.UUID) (*domain.Enrollment, error)
	Cancel(ctx context.Context, actorID, enrollmentID uuid.UUID, reason *string) (*domain.Enrollment, error)
	Withdraw(ctx context.Context, actorID, enrollmentID uuid.UUID, reason *string) (*domain.Enrollment, error)
	AssignTeam(ctx context.Context, actorID, enrollmentID uuid.UUID, teamID string) (*domain.Enrollment, error)
	SetCustomHandicap(ctx context.Context, actorID, enrollmentID uuid.UUID, handicap float64) (*domain.Enrollment, error)

	// ListByCompetition returns every enrollment to the creator and only approved
	// ones to anybody else.
	ListByCompetition(ctx context.Context, actorID, competitionID uuid.UUID, filter repository.EnrollmentFilter) ([]*domain.Enrollment, error)
	ListMine(ctx context.Context, userID uuid.UUID, filter repository.EnrollmentFilter) ([]*domain.Enrollment, error)
}
