package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/events"
	"github.com/fairway/competitions/internal/policy"
	"github.com/fairway/competitions/internal/repository"
)

const invitationRateWindow = time.Hour

type invitationService struct {
	uow       repository.UnitOfWorkFactory
	users     repository.UserRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewInvitationService(
	uow repository.UnitOfWorkFactory,
	users repository.UserRepository,
	publisher events.Publisher,
	opts ...Option,
) InvitationService {
	o := buildOptions(opts)
	return &invitationService{uow: uow, users: users, publisher: publisher, now: o.now}
}

func (s *invitationService) Send(ctx context.Context, inviterID uuid.UUID, in SendInvitationInput) (*domain.Invitation, error) {
	now := s.now()

	email, err := domain.NormalizeEmail(in.InviteeEmail)
	if err != nil {
		return nil, err
	}
	// Accounts live outside the competition unit of work.
	var inviteeID *uuid.UUID
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		inviteeID = &user.ID
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, in.CompetitionID, false)
	if err != nil {
		return nil, err
	}
	if err := requireCreator(c, inviterID); err != nil {
		return nil, err
	}
	if err := policy.CanSendInvitation(c.Status); err != nil {
		return nil, err
	}

	pending, err := uow.Invitations().FindPending(ctx, c.ID, email)
	switch {
	case err == nil:
		ev, expired := pending.CheckExpiration(now)
		if !expired {
			return nil, domain.Newf(domain.ErrDuplicateInvitation, "%s already has a pending invitation", email)
		}
		if err := uow.Invitations().Update(ctx, pending); err != nil {
			return nil, err
		}
		uow.Record(ev)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	since := now.Add(-invitationRateWindow)
	recent, err := uow.Invitations().CountByCompetition(ctx, c.ID, &since)
	if err != nil {
		return nil, err
	}
	if err := policy.ValidateInvitationRate(recent, c.MaxPlayers); err != nil {
		return nil, err
	}

	if inviteeID != nil {
		existing, err := findEnrollment(ctx, uow, *inviteeID, c.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil && !existing.Status.IsPending() {
			return nil, domain.Newf(domain.ErrDuplicateEnrollment, "%s already has enrollment %s (%s)", email, existing.ID, existing.Status)
		}
	}

	inv, ev, err := domain.NewInvitation(domain.NewInvitationParams{
		CompetitionID:   c.ID,
		InviterID:       inviterID,
		InviteeEmail:    email,
		InviteeUserID:   inviteeID,
		PersonalMessage: in.PersonalMessage,
	}, now)
	if err != nil {
		return nil, err
	}
	if err := uow.Invitations().Add(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.Newf(domain.ErrDuplicateInvitation, "%s already has a pending invitation", email)
		}
		return nil, err
	}
	uow.Record(ev)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return inv, nil
}

// resolveEmail fills in the actor's email from the account when the caller did
// not provide one, so invitations sent before registration still match.
func (s *invitationService) resolveEmail(ctx context.Context, actor Actor) (Actor, error) {
	if actor.Email != "" || actor.UserID == uuid.Nil {
		return actor, nil
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return actor, nil
		}
		return actor, err
	}
	actor.Email = user.Email
	return actor, nil
}

// expireIfLapsed persists a lapsed invitation as EXPIRED and commits the scope.
// It reports whether the scope was committed.
func (s *invitationService) expireIfLapsed(ctx context.Context, uow repository.UnitOfWork, inv *domain.Invitation, now time.Time) (bool, error) {
	ev, changed := inv.CheckExpiration(now)
	if !changed {
		return false, nil
	}
	if err := uow.Invitations().Update(ctx, inv); err != nil {
		return false, err
	}
	uow.Record(ev)
	return true, commit(ctx, uow, s.publisher)
}

func expiredError(inv *domain.Invitation) error {
	return domain.Newf(domain.ErrInvitationExpired, "invitation expired at %s", inv.ExpiresAt.Format(time.RFC3339))
}

// loadForResponse opens the invitation for its invitee. When the invitation has
// lapsed, the EXPIRED status is committed before the expiry error is returned,
// so it survives the caller's rollback.
func (s *invitationService) loadForResponse(ctx context.Context, uow repository.UnitOfWork, actor Actor, invitationID uuid.UUID, now time.Time) (*domain.Invitation, error) {
	inv, err := loadInvitation(ctx, uow, invitationID)
	if err != nil {
		return nil, err
	}
	if !inv.IsFor(actor.UserID, actor.Email) {
		return nil, domain.Newf(domain.ErrNotInvitee, "invitation %s is addressed to someone else", inv.ID)
	}
	committed, err := s.expireIfLapsed(ctx, uow, inv, now)
	if err != nil {
		return nil, err
	}
	if committed {
		return nil, expiredError(inv)
	}
	return inv, nil
}

func (s *invitationService) Accept(ctx context.Context, actor Actor, invitationID uuid.UUID) (*domain.Invitation, *domain.Enrollment, error) {
	actor, err := s.resolveEmail(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	inv, err := s.loadForResponse(ctx, uow, actor, invitationID, now)
	if err != nil {
		return nil, nil, err
	}
	if inv.Status != domain.InvitationPending {
		if inv.Status == domain.InvitationExpired {
			return nil, nil, expiredError(inv)
		}
		return nil, nil, domain.Newf(domain.ErrInvitationState, "invitation is already %s", inv.Status)
	}

	c, err := loadCompetition(ctx, uow, inv.CompetitionID, true)
	if err != nil {
		return nil, nil, err
	}
	if err := policy.CanAcceptInvitation(c.Status); err != nil {
		return nil, nil, err
	}

	enrollment, ev, err := s.enrollInvitee(ctx, uow, c, actor.UserID, now)
	if err != nil {
		return nil, nil, err
	}
	uow.Record(ev)

	inv.LinkInvitee(actor.UserID, now)
	accepted, err := inv.Accept(enrollment.ID, now)
	if err != nil {
		return nil, nil, err
	}
	if err := uow.Invitations().Update(ctx, inv); err != nil {
		return nil, nil, err
	}
	uow.Record(accepted)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, nil, err
	}
	return inv, enrollment, nil
}

// enrollInvitee approves a pending enrollment the invitee already has, or creates
// an approved one. Capacity is checked under the competition row lock.
func (s *invitationService) enrollInvitee(ctx context.Context, uow repository.UnitOfWork, c *domain.Competition, userID uuid.UUID, now time.Time) (*domain.Enrollment, domain.Event, error) {
	existing, err := findEnrollment(ctx, uow, userID, c.ID)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil && !existing.Status.IsPending() {
		return nil, nil, domain.Newf(domain.ErrDuplicateEnrollment,
			"user already has enrollment %s (%s) in this competition", existing.ID, existing.Status)
	}
	if err := checkCapacity(ctx, uow, c); err != nil {
		return nil, nil, err
	}

	if existing != nil {
		ev, err := existing.Approve(now)
		if err != nil {
			return nil, nil, err
		}
		if err := uow.Enrollments().Update(ctx, existing); err != nil {
			return nil, nil, err
		}
		return existing, ev, nil
	}

	total, err := uow.Enrollments().CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if total >= policy.MaxEnrollmentsPerUser {
		return nil, nil, domain.Newf(domain.ErrMaxEnrollmentsExceeded,
			"user already has %d enrollments (max %d)", total, policy.MaxEnrollmentsPerUser)
	}

	e, ev, err := domain.DirectEnroll(c.ID, userID, nil, now)
	if err != nil {
		return nil, nil, err
	}
	if err := addEnrollment(ctx, uow, e); err != nil {
		return nil, nil, err
	}
	return e, ev, nil
}

func (s *invitationService) Decline(ctx context.Context, actor Actor, invitationID uuid.UUID) (*domain.Invitation, error) {
	actor, err := s.resolveEmail(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	inv, err := s.loadForResponse(ctx, uow, actor, invitationID, now)
	if err != nil {
		return nil, err
	}
	inv.LinkInvitee(actor.UserID, now)
	ev, err := inv.Decline(now)
	if err != nil {
		return nil, err
	}
	if err := uow.Invitations().Update(ctx, inv); err != nil {
		return nil, err
	}
	uow.Record(ev)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invitationService) Get(ctx context.Context, actor Actor, invitationID uuid.UUID) (*domain.Invitation, error) {
	actor, err := s.resolveEmail(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	inv, err := loadInvitation(ctx, uow, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.InviterID != actor.UserID && !inv.IsFor(actor.UserID, actor.Email) {
		return nil, domain.Newf(domain.ErrNotInvitee, "invitation %s is addressed to someone else", inv.ID)
	}
	if _, err := s.expireIfLapsed(ctx, uow, inv, now); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invitationService) ListMine(ctx context.Context, actor Actor, filter repository.InvitationFilter) ([]*domain.Invitation, error) {
	actor, err := s.resolveEmail(ctx, actor)
	if err != nil {
		return nil, err
	}
	email := actor.Email
	if email != "" {
		if email, err = domain.NormalizeEmail(email); err != nil {
			return nil, err
		}
	}

	return s.listChecked(ctx, filter, func(ctx context.Context, uow repository.UnitOfWork, filter repository.InvitationFilter) ([]*domain.Invitation, error) {
		return uow.Invitations().FindByInvitee(ctx, actor.UserID, email, filter)
	})
}

func (s *invitationService) ListByCompetition(ctx context.Context, actorID, competitionID uuid.UUID, filter repository.InvitationFilter) ([]*domain.Invitation, error) {
	return s.listChecked(ctx, filter, func(ctx context.Context, uow repository.UnitOfWork, filter repository.InvitationFilter) ([]*domain.Invitation, error) {
		c, err := loadCompetition(ctx, uow, competitionID, false)
		if err != nil {
			return nil, err
		}
		if err := requireCreator(c, actorID); err != nil {
			return nil, err
		}
		return uow.Invitations().FindByCompetition(ctx, c.ID, filter)
	})
}

// listChecked expires every lapsed invitation it reads and persists those changes.
// Storage matches the status filter as of now, so lapsed rows are found under
// EXPIRED and left out of PENDING pages.
func (s *invitationService) listChecked(
	ctx context.Context,
	filter repository.InvitationFilter,
	find func(context.Context, repository.UnitOfWork, repository.InvitationFilter) ([]*domain.Invitation, error),
) ([]*domain.Invitation, error) {
	now := s.now()
	filter.AsOf = now

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	found, err := find(ctx, uow, filter)
	if err != nil {
		return nil, err
	}

	invitations := make([]*domain.Invitation, 0, len(found))
	for _, inv := range found {
		if ev, changed := inv.CheckExpiration(now); changed {
			if err := uow.Invitations().Update(ctx, inv); err != nil {
				return nil, err
			}
			uow.Record(ev)
		}
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		invitations = append(invitations, inv)
	}

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return invitations, nil
}
