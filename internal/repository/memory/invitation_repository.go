package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type invitationRepository struct {
	st *state
}

func (r *invitationRepository) pendingConflict(inv *domain.Invitation) bool {
	if inv.Status != domain.InvitationPending {
		return false
	}
	for id, other := range r.st.invitations {
		if id != inv.ID && other.Status == domain.InvitationPending &&
			other.CompetitionID == inv.CompetitionID && other.InviteeEmail == inv.InviteeEmail {
			return true
		}
	}
	return false
}

func (r *invitationRepository) Add(_ context.Context, inv *domain.Invitation) error {
	if _, ok := r.st.invitations[inv.ID]; ok {
		return fmt.Errorf("%w: invitations_pkey", repository.ErrConflict)
	}
	if _, ok := r.st.competitions[inv.CompetitionID]; !ok {
		return fmt.Errorf("competition %s does not exist", inv.CompetitionID)
	}
	if r.pendingConflict(inv) {
		return fmt.Errorf("%w: uq_invitations_pending_email", repository.ErrConflict)
	}
	r.st.invitations[inv.ID] = copyInvitation(*inv)
	return nil
}

func (r *invitationRepository) Update(_ context.Context, inv *domain.Invitation) error {
	if _, ok := r.st.invitations[inv.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.pendingConflict(inv) {
		return fmt.Errorf("%w: uq_invitations_pending_email", repository.ErrConflict)
	}
	r.st.invitations[inv.ID] = copyInvitation(*inv)
	return nil
}

func (r *invitationRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Invitation, error) {
	inv, ok := r.st.invitations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyInvitation(inv)
	return &out, nil
}

func effectiveStatus(inv domain.Invitation, asOf time.Time) domain.InvitationStatus {
	if asOf.IsZero() {
		return inv.Status
	}
	return inv.StatusAt(asOf)
}

func (r *invitationRepository) collect(filter repository.InvitationFilter, match func(domain.Invitation) bool) []*domain.Invitation {
	var out []*domain.Invitation
	for _, inv := range r.st.invitations {
		if filter.Status != nil && effectiveStatus(inv, filter.AsOf) != *filter.Status {
			continue
		}
		if !match(inv) {
			continue
		}
		cp := copyInvitation(inv)
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Invitation) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, filter.Limit, filter.Offset)
}

func (r *invitationRepository) FindByCompetition(_ context.Context, competitionID uuid.UUID, filter repository.InvitationFilter) ([]*domain.Invitation, error) {
	return r.collect(filter, func(inv domain.Invitation) bool { return inv.CompetitionID == competitionID }), nil
}

func (r *invitationRepository) FindByInvitee(_ context.Context, userID uuid.UUID, email string, filter repository.InvitationFilter) ([]*domain.Invitation, error) {
	return r.collect(filter, func(inv domain.Invitation) bool {
		if inv.InviteeUserID != nil && *inv.InviteeUserID == userID {
			return true
		}
		return inv.InviteeEmail == email
	}), nil
}

func (r *invitationRepository) FindPending(_ context.Context, competitionID uuid.UUID, email string) (*domain.Invitation, error) {
	for _, inv := range r.st.invitations {
		if inv.CompetitionID == competitionID && inv.InviteeEmail == email && inv.Status == domain.InvitationPending {
			out := copyInvitation(inv)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *invitationRepository) CountByCompetition(_ context.Context, competitionID uuid.UUID, since *time.Time) (int, error) {
	n := 0
	for _, inv := range r.st.invitations {
		if inv.CompetitionID != competitionID {
			continue
		}
		if since != nil && inv.CreatedAt.Before(*since) {
			continue
		}
		n++
	}
	return n, nil
}
