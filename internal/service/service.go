package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/events"
	"github.com/fairway/competitions/internal/policy"
	"github.com/fairway/competitions/internal/repository"
)

// Actor is the authenticated caller. Email may be empty; it is then resolved
// from the account when a use case needs it.
type Actor struct {
	UserID uuid.UUID
	Email  string
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now for every use case of the service.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// commit ends the scope and hands its events to the publisher.
func commit(ctx context.Context, uow repository.UnitOfWork, publisher events.Publisher) error {
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	publisher.Publish(ctx, uow.Events()...)
	return nil
}

func mapNotFound(err error, sentinel *domain.DomainError, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFoundError(sentinel, resource)
	}
	return err
}

func loadCompetition(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID, forUpdate bool) (*domain.Competition, error) {
	if err := domain.RequireID(id, "competition id"); err != nil {
		return nil, err
	}
	find := uow.Competitions().FindByID
	if forUpdate {
		find = uow.Competitions().FindByIDForUpdate
	}
	c, err := find(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrCompetitionNotFound, "competition "+id.String())
	}
	return c, nil
}

func loadEnrollment(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*domain.Enrollment, error) {
	if err := domain.RequireID(id, "enrollment id"); err != nil {
		return nil, err
	}
	e, err := uow.Enrollments().FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrEnrollmentNotFound, "enrollment "+id.String())
	}
	return e, nil
}

func loadInvitation(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*domain.Invitation, error) {
	if err := domain.RequireID(id, "invitation id"); err != nil {
		return nil, err
	}
	inv, err := uow.Invitations().FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrInvitationNotFound, "invitation "+id.String())
	}
	return inv, nil
}

func requireCreator(c *domain.Competition, actorID uuid.UUID) error {
	if !c.IsCreator(actorID) {
		return domain.Newf(domain.ErrNotCreator, "user %s is not the creator of competition %s", actorID, c.ID)
	}
	return nil
}

// findEnrollment returns nil without error when the user has no enrollment.
func findEnrollment(ctx context.Context, uow repository.UnitOfWork, userID, competitionID uuid.UUID) (*domain.Enrollment, error) {
	e, err := uow.Enrollments().FindByUserAndCompetition(ctx, userID, competitionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// checkCapacity must run against a competition loaded with FindByIDForUpdate.
func checkCapacity(ctx context.Context, uow repository.UnitOfWork, c *domain.Competition) error {
	approved, err := uow.Enrollments().CountApproved(ctx, c.ID)
	if err != nil {
		return err
	}
	return policy.ValidateCapacity(approved, c.MaxPlayers)
}

func addEnrollment(ctx context.Context, uow repository.UnitOfWork, e *domain.Enrollment) error {
	err := uow.Enrollments().Add(ctx, e)
	if errors.Is(err, repository.ErrConflict) {
		return domain.Newf(domain.ErrDuplicateEnrollment, "user %s is already enrolled in competition %s", e.UserID, e.CompetitionID)
	}
	return err
}
