package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// InvitationTTL is fixed; invitations are never extended.
const InvitationTTL = 7 * 24 * time.Hour

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

var invitationTransitions = map[InvitationStatus][]InvitationStatus{
	InvitationPending:  {InvitationAccepted, InvitationDeclined, InvitationExpired},
	InvitationAccepted: {},
	InvitationDeclined: {},
	InvitationExpired:  {},
}

func ParseInvitationStatus(raw string) (InvitationStatus, error) {
	s := InvitationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := invitationTransitions[s]; !ok {
		return "", Newf(ErrInvalidStatus, "unknown invitation status %q", raw)
	}
	return s, nil
}

func CanTransitionInvitation(from, to InvitationStatus) bool {
	for _, next := range invitationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Invitation is a creator's time-boxed offer to join a competition.
//
// Expiry is evaluated lazily: a PENDING row may outlive ExpiresAt in storage until
// something reads it. Any code that branches on Status must call CheckExpiration
// first (and persist when it reports a change), or use StatusAt.
type Invitation struct {
	ID              uuid.UUID
	CompetitionID   uuid.UUID
	InviterID       uuid.UUID
	InviteeEmail    string
	InviteeUserID   *uuid.UUID
	PersonalMessage *string
	Status          InvitationStatus
	EnrollmentID    *uuid.UUID
	ExpiresAt       time.Time
	RespondedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type NewInvitationParams struct {
	CompetitionID   uuid.UUID
	InviterID       uuid.UUID
	InviteeEmail    string
	InviteeUserID   *uuid.UUID
	PersonalMessage *string
}

func NewInvitation(p NewInvitationParams, now time.Time) (*Invitation, Event, error) {
	if err := RequireID(p.CompetitionID, "competition id"); err != nil {
		return nil, nil, err
	}
	if err := RequireID(p.InviterID, "inviter id"); err != nil {
		return nil, nil, err
	}
	email, err := NormalizeEmail(p.InviteeEmail)
	if err != nil {
		return nil, nil, err
	}
	msg, err := ValidatePersonalMessage(p.PersonalMessage)
	if err != nil {
		return nil, nil, err
	}

	inv := &Invitation{
		ID:              uuid.New(),
		CompetitionID:   p.CompetitionID,
		InviterID:       p.InviterID,
		InviteeEmail:    email,
		PersonalMessage: msg,
		Status:          InvitationPending,
		ExpiresAt:       now.Add(InvitationTTL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.InviteeUserID != nil && *p.InviteeUserID != uuid.Nil {
		id := *p.InviteeUserID
		inv.InviteeUserID = &id
	}
	return inv, InvitationSentEvent{
		eventBase:     inv.event(now),
		CompetitionID: inv.CompetitionID,
		InviterID:     inv.InviterID,
		InviteeEmail:  inv.InviteeEmail,
	}, nil
}

func (i *Invitation) event(now time.Time) eventBase {
	return eventBase{ID: i.ID, At: now}
}

// IsExpired is true from ExpiresAt onward, inclusive.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// StatusAt derives the effective status without mutating the invitation.
func (i *Invitation) StatusAt(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && i.IsExpired(now) {
		return InvitationExpired
	}
	return i.Status
}

// CheckExpiration moves a lapsed PENDING invitation to EXPIRED. It reports whether the
// status changed; repeated calls after the first are no-ops without an event.
func (i *Invitation) CheckExpiration(now time.Time) (Event, bool) {
	if i.Status != InvitationPending || !i.IsExpired(now) {
		return nil, false
	}
	i.Status = InvitationExpired
	i.UpdatedAt = now
	return InvitationExpiredEvent{eventBase: i.event(now), CompetitionID: i.CompetitionID}, true
}

// IsFor matches the responder by user id or, for invites sent before the invitee
// registered, by normalized email.
func (i *Invitation) IsFor(userID uuid.UUID, email string) bool {
	if i.InviteeUserID != nil && userID != uuid.Nil && *i.InviteeUserID == userID {
		return true
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	return normalized != "" && normalized == i.InviteeEmail
}

// respond runs the shared accept/decline steps. When the invitation has lapsed it
// is moved to EXPIRED and the expiry event is returned together with ErrInvitationExpired,
// so the caller can persist the new status.
func (i *Invitation) respond(to InvitationStatus, now time.Time) (Event, error) {
	if ev, changed := i.CheckExpiration(now); changed {
		return ev, Newf(ErrInvitationExpired, "invitation expired at %s", i.ExpiresAt.Format(time.RFC3339))
	}
	if i.Status == InvitationExpired {
		return nil, Newf(ErrInvitationExpired, "invitation expired at %s", i.ExpiresAt.Format(time.RFC3339))
	}
	if !CanTransitionInvitation(i.Status, to) {
		return nil, Newf(ErrInvitationState, "cannot move invitation from %s to %s", i.Status, to)
	}
	i.Status = to
	i.RespondedAt = &now
	i.UpdatedAt = now
	return nil, nil
}

func (i *Invitation) Accept(enrollmentID uuid.UUID, now time.Time) (Event, error) {
	if err := RequireID(enrollmentID, "enrollment id"); err != nil {
		return nil, err
	}
	if ev, err := i.respond(InvitationAccepted, now); err != nil {
		return ev, err
	}
	i.EnrollmentID = &enrollmentID
	return InvitationAcceptedEvent{eventBase: i.event(now), CompetitionID: i.CompetitionID, EnrollmentID: enrollmentID}, nil
}

func (i *Invitation) Decline(now time.Time) (Event, error) {
	if ev, err := i.respond(InvitationDeclined, now); err != nil {
		return ev, err
	}
	return InvitationDeclinedEvent{eventBase: i.event(now), CompetitionID: i.CompetitionID}, nil
}

// LinkInvitee attaches a registered user to an invitation sent by email.
func (i *Invitation) LinkInvitee(userID uuid.UUID, now time.Time) {
	if i.InviteeUserID != nil || userID == uuid.Nil {
		return
	}
	i.InviteeUserID = &userID
	i.UpdatedAt = now
}
