package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/events"
	"github.com/fairway/competitions/internal/policy"
	"github.com/fairway/competitions/internal/repository"
)

type enrollmentService struct {
	uow       repository.UnitOfWorkFactory
	publisher events.Publisher
	now       func() time.Time
}

func NewEnrollmentService(uow repository.UnitOfWorkFactory, publisher events.Publisher, opts ...Option) EnrollmentService {
	o := buildOptions(opts)
	return &enrollmentService{uow: uow, publisher: publisher, now: o.now}
}

// checkCanEnroll gathers the facts the enrollment policy needs for userID.
func checkCanEnroll(ctx context.Context, uow repository.UnitOfWork, c *domain.Competition, userID uuid.UUID, now time.Time) error {
	existing, err := findEnrollment(ctx, uow, userID, c.ID)
	if err != nil {
		return err
	}
	var existingID *uuid.UUID
	if existing != nil {
		existingID = &existing.ID
	}
	total, err := uow.Enrollments().CountActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	return policy.CanEnroll(existingID, c.Status, c.Dates.Start, total, now)
}

func (s *enrollmentService) Request(ctx context.Context, userID, competitionID uuid.UUID) (*domain.Enrollment, error) {
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, competitionID, false)
	if err != nil {
		return nil, err
	}
	if err := checkCanEnroll(ctx, uow, c, userID, now); err != nil {
		return nil, err
	}

	e, ev, err := domain.RequestEnrollment(c.ID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := addEnrollment(ctx, uow, e); err != nil {
		return nil, err
	}
	uow.Record(ev)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *enrollmentService) Invite(ctx context.Context, actorID, competitionID, userID uuid.UUID) (*domain.Enrollment, error) {
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, competitionID, false)
	if err != nil {
		return nil, err
	}
	if err := requireCreator(c, actorID); err != nil {
		return nil, err
	}
	if err := checkCanEnroll(ctx, uow, c, userID, now); err != nil {
		return nil, err
	}

	e, err := domain.InviteEnrollment(c.ID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := addEnrollment(ctx, uow, e); err != nil {
		return nil, err
	}

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *enrollmentService) DirectEnroll(ctx context.Context, actorID, competitionID, userID uuid.UUID, customHandicap *float64) (*domain.Enrollment, error) {
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, competitionID, true)
	if err != nil {
		return nil, err
	}
	if err := requireCreator(c, actorID); err != nil {
		return nil, err
	}
	if err := checkCanEnroll(ctx, uow, c, userID, now); err != nil {
		return nil, err
	}
	if err := checkCapacity(ctx, uow, c); err != nil {
		return nil, err
	}

	e, ev, err := domain.DirectEnroll(c.ID, userID, customHandicap, now)
	if err != nil {
		return nil, err
	}
	if err := addEnrollment(ctx, uow, e); err != nil {
		return nil, err
	}
	uow.Record(ev)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return e, nil
}

type enrollmentStep func(ctx context.Context, uow repository.UnitOfWork, c *domain.Competition, e *domain.Enrollment, now time.Time) (domain.Event, error)

// mutate loads the enrollment and its competition, runs step and persists the
// enrollment. The competition row is locked for the rest of the scope.
func (s *enrollmentService) mutate(ctx context.Context, enrollmentID uuid.UUID, step enrollmentStep) (*domain.Enrollment, error) {
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	e, err := loadEnrollment(ctx, uow, enrollmentID)
	if err != nil {
		return nil, err
	}
	c, err := loadCompetition(ctx, uow, e.CompetitionID, true)
	if err != nil {
		return nil, err
	}

	ev, err := step(ctx, uow, c, e, now)
	if err != nil {
		return nil, err
	}
	if err := uow.Enrollments().Update(ctx, e); err != nil {
		return nil, err
	}
	uow.Record(ev)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return e, nil
}

// Approve is decided by the creator for requests. An invited player may also
// approve their own invitation.
func (s *enrollmentService) Approve(ctx context.Context, actorID, enrollmentID uuid.UUID) (*domain.Enrollment, error) {
	return s.mutate(ctx, enrollmentID, func(ctx context.Context, uow repository.UnitOfWork, c *domain.Competition, e *domain.Enrollment, now time.Time) (domain.Event, error) {
		if !(e.Status == domain.EnrollmentInvited && e.IsOwnedBy(actorID)) {
			if err := requireCreator(c, actorID); err != nil {
				return nil, err
			}
		}
		if !domain.CanTransitionEnrollment(e.Status, domain.EnrollmentApproved) {
			return nil, domain.Newf(domain.ErrEnrollmentState, "cannot move enrollment from %s to %s", e.Status, domain.EnrollmentApproved)
		}
		if err := checkCapacity(ctx, uow, c); err != nil {
			return nil, err
		}
		return e.Approve(now)
	})
}

func (s *enrollmentService) Reject(ctx context.Context, actorID, enrollmentID uuid.UUID) (*domain.Enrollment, error) {
	return s.mutate(ctx, enrollmentID, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, e *domain.Enrollment, now time.Time) (domain.Event, error) {
		if err := requireCreator(c, actorID); err != nil {
			return nil, err
		}
		return nil, e.Reject(now)
	})
}

func requireOwner(e *domain.Enrollment, actorID uuid.UUID) error {
	if !e.IsOwnedBy(actorID) {
		return domain.Newf(domain.ErrNotEnrollmentOwner, "enrollment %s belongs to another player", e.ID)
	}
	return nil
}

func (s *enrollmentService) Cancel(ctx context.Context, actorID, enrollmentID uuid.UUID, reason *string) (*domain.Enrollment, error) {
	return s.mutate(ctx, enrollmentID, func(_ context.Context, _ repository.UnitOfWork, _ *domain.Competition, e *domain.Enrollment, now time.Time) (domain.Event, error) {
		if err := requireOwner(e, actorID); err != nil {
			return nil, err
		}
		return e.Cancel(reason, now)
	})
}

func (s *enrollmentService) Withdraw(ctx context.Context, actorID, enrollmentID uuid.UUID, reason *string) (*domain.Enrollment, error) {
	return s.mutate(ctx, enrollmentID, func(_ context.Context, _ repository.UnitOfWork, _ *domain.Competition, e *domain.Enrollment, now time.Time) (domain.Event, error) {
		if err := requireOwner(e, actorID); err != nil {
			return nil, err
		}
		return e.Withdraw(reason, now)
	})
}

func (s *enrollmentService) AssignTeam(ctx context.Context, actorID, enrollmentID uuid.UUID, teamID string) (*domain.Enrollment, error) {
	return s.mutate(ctx, enrollmentID, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, e *domain.Enrollment, now time.Time) (domain.Event, error) {
		if err := requireCreator(c, actorID); err != nil {
			return nil, err
		}
		if c.TeamAssignment != domain.TeamAssignmentManual {
			return nil, domain.Newf(domain.ErrTeamAssignmentMode, "competition %s assigns teams automatically", c.ID)
		}
		return nil, e.AssignToTeam(teamID, now)
	})
}

func (s *enrollmentService) SetCustomHandicap(ctx context.Context, actorID, enrollmentID uuid.UUID, handicap float64) (*domain.Enrollment, error) {
	return s.mutate(ctx, enrollmentID, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, e *domain.Enrollment, now time.Time) (domain.Event, error) {
		if err := requireCreator(c, actorID); err != nil {
			return nil, err
		}
		if e.Status != domain.EnrollmentApproved {
			return nil, domain.Newf(domain.ErrEnrollmentState, "handicap can only be set on approved enrollments (status %s)", e.Status)
		}
		return nil, e.SetCustomHandicap(handicap, now)
	})
}

func (s *enrollmentService) ListByCompetition(ctx context.Context, actorID, competitionID uuid.UUID, filter repository.EnrollmentFilter) ([]*domain.Enrollment, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, competitionID, false)
	if err != nil {
		return nil, err
	}
	if !c.IsCreator(actorID) {
		approved := domain.EnrollmentApproved
		if filter.Status != nil && *filter.Status != approved {
			return []*domain.Enrollment{}, nil
		}
		filter.Status = &approved
	}
	return uow.Enrollments().FindByCompetition(ctx, c.ID, filter)
}

func (s *enrollmentService) ListMine(ctx context.Context, userID uuid.UUID, filter repository.EnrollmentFilter) ([]*domain.Enrollment, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.Enrollments().FindByUser(ctx, userID, filter)
}
