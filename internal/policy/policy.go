// Package policy holds the cross-entity business rules for competitions.
//
// Every guard takes facts the caller has already loaded and never touches storage,
// and every failure is a *domain.DomainError of kind BusinessRule.
package policy

import (
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

const (
	MaxCompetitionsPerCreator  = 50
	MaxEnrollmentsPerUser      = 20
	MaxCompetitionDurationDays = 365
)

var enrollableStatuses = map[domain.CompetitionStatus]bool{
	domain.CompetitionActive: true,
	domain.CompetitionClosed: true,
}

var invitableStatuses = map[domain.CompetitionStatus]bool{
	domain.CompetitionActive:     true,
	domain.CompetitionClosed:     true,
	domain.CompetitionInProgress: true,
}

func CanCreateCompetition(existingCount int) error {
	if existingCount >= MaxCompetitionsPerCreator {
		return domain.Newf(domain.ErrMaxCompetitionsExceeded,
			"creator already has %d competitions (max %d)", existingCount, MaxCompetitionsPerCreator)
	}
	return nil
}

// CanEnroll checks, in order: duplicate enrollment, the player's enrollment limit,
// the competition status and the start date.
func CanEnroll(
	existingEnrollmentID *uuid.UUID,
	status domain.CompetitionStatus,
	startDate time.Time,
	userTotalEnrollments int,
	today time.Time,
) error {
	if existingEnrollmentID != nil {
		return domain.Newf(domain.ErrDuplicateEnrollment,
			"user is already enrolled in this competition (enrollment %s)", existingEnrollmentID)
	}
	if userTotalEnrollments >= MaxEnrollmentsPerUser {
		return domain.Newf(domain.ErrMaxEnrollmentsExceeded,
			"user already has %d enrollments (max %d)", userTotalEnrollments, MaxEnrollmentsPerUser)
	}
	if !enrollableStatuses[status] {
		return domain.Newf(domain.ErrEnrollmentsNotOpen,
			"competition status %s does not allow enrollments", status)
	}
	if !domain.DateOf(today).Before(domain.DateOf(startDate)) {
		return domain.Newf(domain.ErrCompetitionStarted,
			"competition started on %s", startDate.Format(time.DateOnly))
	}
	return nil
}

func ValidateCapacity(currentApproved, maxPlayers int) error {
	if currentApproved >= maxPlayers {
		return domain.Newf(domain.ErrCompetitionFull,
			"competition is full (%d/%d)", currentApproved, maxPlayers)
	}
	return nil
}

func CanSendInvitation(status domain.CompetitionStatus) error {
	if !invitableStatuses[status] {
		return domain.Newf(domain.ErrInvitationNotAllowed,
			"cannot send invitations while competition is %s", status)
	}
	return nil
}

func CanAcceptInvitation(status domain.CompetitionStatus) error {
	if !invitableStatuses[status] {
		return domain.Newf(domain.ErrInvitationNotAllowed,
			"cannot accept invitations while competition is %s", status)
	}
	return nil
}

// ValidateInvitationRate ties the hourly ceiling to the competition's capacity.
func ValidateInvitationRate(recentInvitationsLastHour, maxPlayers int) error {
	if recentInvitationsLastHour >= maxPlayers {
		return domain.Newf(domain.ErrInvitationRateLimit,
			"%d invitations sent in the last hour (max %d)", recentInvitationsLastHour, maxPlayers)
	}
	return nil
}

func ValidateDateRange(start, end time.Time, field string) error {
	if !start.Before(end) {
		return domain.Newf(domain.ErrInvalidDateRange,
			"%s: start date must be before end date", field)
	}
	if days := int(end.Sub(start) / (24 * time.Hour)); days > MaxCompetitionDurationDays {
		return domain.Newf(domain.ErrInvalidDateRange,
			"%s: range of %d days exceeds %d", field, days, MaxCompetitionDurationDays)
	}
	return nil
}
