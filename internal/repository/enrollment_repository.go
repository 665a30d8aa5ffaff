package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

type EnrollmentFilter struct {
	Status *domain.EnrollmentStatus
	Limit  int
	Offset int
}

type EnrollmentRepository interface {
	// Add returns ErrConflict when the user already has an enrollment in the competition.
	Add(ctx context.Context, e *domain.Enrollment) error
	Update(ctx context.Context, e *domain.Enrollment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)
	FindByCompetition(ctx context.Context, competitionID uuid.UUID, filter EnrollmentFilter) ([]*domain.Enrollment, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter EnrollmentFilter) ([]*domain.Enrollment, error)
	FindByUserAndCompetition(ctx context.Context, userID, competitionID uuid.UUID) (*domain.Enrollment, error)
	CountApproved(ctx context.Context, competitionID uuid.UUID) (int, error)
	CountPending(ctx context.Context, competitionID uuid.UUID) (int, error)
	ExistsForUserInCompetition(ctx context.Context, userID, competitionID uuid.UUID) (bool, error)
	// CountActiveByUser counts REQUESTED, INVITED and APPROVED enrollments.
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
