package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentRequested EnrollmentStatus = "REQUESTED"
	EnrollmentInvited   EnrollmentStatus = "INVITED"
	EnrollmentApproved  EnrollmentStatus = "APPROVED"
	EnrollmentRejected  EnrollmentStatus = "REJECTED"
	EnrollmentWithdrawn EnrollmentStatus = "WITHDRAWN"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
)

var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentRequested: {EnrollmentApproved, EnrollmentRejected, EnrollmentCancelled},
	EnrollmentInvited:   {EnrollmentApproved, EnrollmentRejected, EnrollmentCancelled},
	EnrollmentApproved:  {EnrollmentWithdrawn},
	EnrollmentRejected:  {},
	EnrollmentWithdrawn: {},
	EnrollmentCancelled: {},
}

func ParseEnrollmentStatus(raw string) (EnrollmentStatus, error) {
	s := EnrollmentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := enrollmentTransitions[s]; !ok {
		return "", Newf(ErrInvalidStatus, "unknown enrollment status %q", raw)
	}
	return s, nil
}

func CanTransitionEnrollment(from, to EnrollmentStatus) bool {
	for _, next := range enrollmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsPending is true while the enrollment waits for a decision.
func (s EnrollmentStatus) IsPending() bool {
	return s == EnrollmentRequested || s == EnrollmentInvited
}

// IsActive reports whether the enrollment still counts toward the player's limit.
func (s EnrollmentStatus) IsActive() bool {
	return s.IsPending() || s == EnrollmentApproved
}

type Enrollment struct {
	ID             uuid.UUID
	CompetitionID  uuid.UUID
	UserID         uuid.UUID
	Status         EnrollmentStatus
	TeamID         *string
	CustomHandicap *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func newEnrollment(competitionID, userID uuid.UUID, status EnrollmentStatus, now time.Time) (*Enrollment, error) {
	if err := RequireID(competitionID, "competition id"); err != nil {
		return nil, err
	}
	if err := RequireID(userID, "user id"); err != nil {
		return nil, err
	}
	return &Enrollment{
		ID:            uuid.New(),
		CompetitionID: competitionID,
		UserID:        userID,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// RequestEnrollment is the player-initiated path.
func RequestEnrollment(competitionID, userID uuid.UUID, now time.Time) (*Enrollment, Event, error) {
	e, err := newEnrollment(competitionID, userID, EnrollmentRequested, now)
	if err != nil {
		return nil, nil, err
	}
	return e, EnrollmentRequestedEvent{eventBase: e.event(now), CompetitionID: competitionID, UserID: userID}, nil
}

// InviteEnrollment is the creator-initiated path. It produces no event.
func InviteEnrollment(competitionID, userID uuid.UUID, now time.Time) (*Enrollment, error) {
	return newEnrollment(competitionID, userID, EnrollmentInvited, now)
}

// DirectEnroll lets the creator bypass the approval step.
func DirectEnroll(competitionID, userID uuid.UUID, customHandicap *float64, now time.Time) (*Enrollment, Event, error) {
	if customHandicap != nil {
		if err := ValidateHandicap(*customHandicap); err != nil {
			return nil, nil, err
		}
	}
	e, err := newEnrollment(competitionID, userID, EnrollmentApproved, now)
	if err != nil {
		return nil, nil, err
	}
	if customHandicap != nil {
		h := *customHandicap
		e.CustomHandicap = &h
	}
	return e, EnrollmentDirectlyEnrolledEvent{
		eventBase:      e.event(now),
		CompetitionID:  competitionID,
		UserID:         userID,
		CustomHandicap: e.CustomHandicap,
	}, nil
}

func (e *Enrollment) event(now time.Time) eventBase {
	return eventBase{ID: e.ID, At: now}
}

func (e *Enrollment) IsOwnedBy(userID uuid.UUID) bool {
	return e.UserID == userID
}

func (e *Enrollment) transition(to EnrollmentStatus, now time.Time) error {
	if !CanTransitionEnrollment(e.Status, to) {
		return Newf(ErrEnrollmentState, "cannot move enrollment from %s to %s", e.Status, to)
	}
	e.Status = to
	e.UpdatedAt = now
	return nil
}

func (e *Enrollment) Approve(now time.Time) (Event, error) {
	if err := e.transition(EnrollmentApproved, now); err != nil {
		return nil, err
	}
	return EnrollmentApprovedEvent{eventBase: e.event(now), CompetitionID: e.CompetitionID, UserID: e.UserID}, nil
}

// Reject does not produce an event.
func (e *Enrollment) Reject(now time.Time) error {
	return e.transition(EnrollmentRejected, now)
}

// Cancel withdraws a request or invitation before it was approved.
func (e *Enrollment) Cancel(reason *string, now time.Time) (Event, error) {
	if !e.Status.IsPending() {
		return nil, Newf(ErrEnrollmentState, "only pending enrollments can be cancelled (status %s)", e.Status)
	}
	if err := e.transition(EnrollmentCancelled, now); err != nil {
		return nil, err
	}
	return EnrollmentCancelledEvent{
		eventBase:     e.event(now),
		CompetitionID: e.CompetitionID,
		UserID:        e.UserID,
		Reason:        trimmedReason(reason),
	}, nil
}

// Withdraw leaves a competition after having been approved.
func (e *Enrollment) Withdraw(reason *string, now time.Time) (Event, error) {
	if e.Status != EnrollmentApproved {
		return nil, Newf(ErrEnrollmentState, "only approved enrollments can be withdrawn (status %s)", e.Status)
	}
	if err := e.transition(EnrollmentWithdrawn, now); err != nil {
		return nil, err
	}
	return EnrollmentWithdrawnEvent{
		eventBase:     e.event(now),
		CompetitionID: e.CompetitionID,
		UserID:        e.UserID,
		Reason:        trimmedReason(reason),
	}, nil
}

// AssignToTeam does not produce an event.
func (e *Enrollment) AssignToTeam(teamID string, now time.Time) error {
	if e.Status != EnrollmentApproved {
		return Newf(ErrEnrollmentState, "only approved enrollments can be assigned to a team (status %s)", e.Status)
	}
	id := strings.TrimSpace(teamID)
	if id == "" {
		return ErrInvalidTeamID
	}
	e.TeamID = &id
	e.UpdatedAt = now
	return nil
}

// SetCustomHandicap only checks the range; callers decide which statuses allow it.
func (e *Enrollment) SetCustomHandicap(value float64, now time.Time) error {
	if err := ValidateHandicap(value); err != nil {
		return err
	}
	e.CustomHandicap = &value
	e.UpdatedAt = now
	return nil
}

func trimmedReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	r := strings.TrimSpace(*reason)
	if r == "" {
		return nil
	}
	return &r
}
