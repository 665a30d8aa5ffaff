package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a fact produced by a successful mutation. Mutations return their event
// instead of keeping it on the entity; the unit of work collects them.
type Event interface {
	EventName() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

type eventBase struct {
	ID uuid.UUID
	At time.Time
}

func (e eventBase) AggregateID() uuid.UUID { return e.ID }
func (e eventBase) OccurredAt() time.Time  { return e.At }

// Competition events

type CompetitionCreatedEvent struct {
	eventBase
	CreatorID uuid.UUID
	Name      string
}

func (CompetitionCreatedEvent) EventName() string { return "competition.created" }

type CompetitionActivatedEvent struct {
	eventBase
}

func (CompetitionActivatedEvent) EventName() string { return "competition.activated" }

type CompetitionEnrollmentsClosedEvent struct {
	eventBase
	TotalEnrollments int
}

func (CompetitionEnrollmentsClosedEvent) EventName() string { return "competition.enrollments_closed" }

type CompetitionEnrollmentsReopenedEvent struct {
	eventBase
}

func (CompetitionEnrollmentsReopenedEvent) EventName() string {
	return "competition.enrollments_reopened"
}

type CompetitionStartedEvent struct {
	eventBase
}

func (CompetitionStartedEvent) EventName() string { return "competition.started" }

type CompetitionRevertedEvent struct {
	eventBase
}

func (CompetitionRevertedEvent) EventName() string { return "competition.reverted_to_closed" }

type CompetitionCompletedEvent struct {
	eventBase
}

func (CompetitionCompletedEvent) EventName() string { return "competition.completed" }

type CompetitionCancelledEvent struct {
	eventBase
	PreviousStatus CompetitionStatus
	Reason         *string
}

func (CompetitionCancelledEvent) EventName() string { return "competition.cancelled" }

type CompetitionUpdatedEvent struct {
	eventBase
	ChangedFields []string
}

func (CompetitionUpdatedEvent) EventName() string { return "competition.updated" }

// Enrollment events

type EnrollmentRequestedEvent struct {
	eventBase
	CompetitionID uuid.UUID
	UserID        uuid.UUID
}

func (EnrollmentRequestedEvent) EventName() string { return "enrollment.requested" }

type EnrollmentDirectlyEnrolledEvent struct {
	eventBase
	CompetitionID  uuid.UUID
	UserID         uuid.UUID
	CustomHandicap *float64
}

func (EnrollmentDirectlyEnrolledEvent) EventName() string { return "enrollment.direct_enrolled" }

type EnrollmentApprovedEvent struct {
	eventBase
	CompetitionID uuid.UUID
	UserID        uuid.UUID
}

func (EnrollmentApprovedEvent) EventName() string { return "enrollment.approved" }

type EnrollmentWithdrawnEvent struct {
	eventBase
	CompetitionID uuid.UUID
	UserID        uuid.UUID
	Reason        *string
}

func (EnrollmentWithdrawnEvent) EventName() string { return "enrollment.withdrawn" }

type EnrollmentCancelledEvent struct {
	eventBase
	CompetitionID uuid.UUID
	UserID        uuid.UUID
	Reason        *string
}

func (EnrollmentCancelledEvent) EventName() string { return "enrollment.cancelled" }

// Invitation events

type InvitationSentEvent struct {
	eventBase
	CompetitionID uuid.UUID
	InviterID     uuid.UUID
	InviteeEmail  string
}

func (InvitationSentEvent) EventName() string { return "invitation.sent" }

type InvitationAcceptedEvent struct {
	eventBase
	CompetitionID uuid.UUID
	EnrollmentID  uuid.UUID
}

func (InvitationAcceptedEvent) EventName() string { return "invitation.accepted" }

type InvitationDeclinedEvent struct {
	eventBase
	CompetitionID uuid.UUID
}

func (InvitationDeclinedEvent) EventName() string { return "invitation.declined" }

type InvitationExpiredEvent struct {
	eventBase
	CompetitionID uuid.UUID
}

func (InvitationExpiredEvent) EventName() string { return "invitation.expired" }
