package domain

import (
	"errors"
	"fmt"
)

// ErrorKind groups domain errors so transports can map them without looking at codes.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindAuthorization
	KindState
	KindBusinessRule
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindBusinessRule:
		return "business_rule"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches by code, so a sentinel with a contextual message still satisfies errors.Is.
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

// withMessage copies the sentinel and replaces its message.
func (e *DomainError) withMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Newf returns a copy of sentinel carrying a formatted message.
func Newf(sentinel *DomainError, format string, args ...any) *DomainError {
	return sentinel.withMessage(format, args...)
}

// KindOf reports the kind of a domain error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return 0, false
}

// IsBusinessRuleViolation reports whether err is any policy violation.
func IsBusinessRuleViolation(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindBusinessRule
}

func IsNotFound(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindNotFound
}

func IsStateError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindState
}

func IsValidationError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindValidation
}

func IsAuthorizationError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindAuthorization
}

// Not found
var (
	ErrCompetitionNotFound = &DomainError{Kind: KindNotFound, Code: "COMPETITION_NOT_FOUND", Message: "competition not found"}
	ErrEnrollmentNotFound  = &DomainError{Kind: KindNotFound, Code: "ENROLLMENT_NOT_FOUND", Message: "enrollment not found"}
	ErrInvitationNotFound  = &DomainError{Kind: KindNotFound, Code: "INVITATION_NOT_FOUND", Message: "invitation not found"}
	ErrUserNotFound        = &DomainError{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}
)

// Authorization
var (
	ErrNotCreator         = &DomainError{Kind: KindAuthorization, Code: "NOT_CREATOR", Message: "only the competition creator can perform this action"}
	ErrNotEnrollmentOwner = &DomainError{Kind: KindAuthorization, Code: "NOT_ENROLLMENT_OWNER", Message: "only the enrolled player can perform this action"}
	ErrNotInvitee         = &DomainError{Kind: KindAuthorization, Code: "NOT_INVITEE", Message: "invitation is addressed to someone else"}
)

// State
var (
	ErrCompetitionState = &DomainError{Kind: KindState, Code: "INVALID_COMPETITION_TRANSITION", Message: "invalid competition status transition"}
	ErrEnrollmentState  = &DomainError{Kind: KindState, Code: "INVALID_ENROLLMENT_TRANSITION", Message: "invalid enrollment status transition"}
	ErrInvitationState  = &DomainError{Kind: KindState, Code: "INVALID_INVITATION_TRANSITION", Message: "invalid invitation status transition"}
)

// Business rule violations
var (
	ErrMaxCompetitionsExceeded  = &DomainError{Kind: KindBusinessRule, Code: "MAX_COMPETITIONS_EXCEEDED", Message: "competition limit reached"}
	ErrDuplicateCompetitionName = &DomainError{Kind: KindBusinessRule, Code: "DUPLICATE_COMPETITION_NAME", Message: "competition name already used"}
	ErrDuplicateEnrollment      = &DomainError{Kind: KindBusinessRule, Code: "DUPLICATE_ENROLLMENT", Message: "user is already enrolled in this competition"}
	ErrMaxEnrollmentsExceeded   = &DomainError{Kind: KindBusinessRule, Code: "MAX_ENROLLMENTS_EXCEEDED", Message: "enrollment limit reached"}
	ErrEnrollmentsNotOpen       = &DomainError{Kind: KindBusinessRule, Code: "ENROLLMENTS_NOT_OPEN", Message: "competition is not accepting enrollments"}
	ErrCompetitionStarted       = &DomainError{Kind: KindBusinessRule, Code: "COMPETITION_ALREADY_STARTED", Message: "competition has already started"}
	ErrCompetitionFull          = &DomainError{Kind: KindBusinessRule, Code: "COMPETITION_FULL", Message: "competition is full"}
	ErrInvitationNotAllowed     = &DomainError{Kind: KindBusinessRule, Code: "INVITATION_NOT_ALLOWED", Message: "competition does not accept invitations"}
	ErrInvitationRateLimit      = &DomainError{Kind: KindBusinessRule, Code: "INVITATION_RATE_LIMIT", Message: "too many invitations sent in the last hour"}
	ErrDuplicateInvitation      = &DomainError{Kind: KindBusinessRule, Code: "DUPLICATE_INVITATION", Message: "a pending invitation already exists for this email"}
	ErrInvitationExpired        = &DomainError{Kind: KindBusinessRule, Code: "INVITATION_EXPIRED", Message: "invitation has expired"}
	ErrInvalidDateRange         = &DomainError{Kind: KindBusinessRule, Code: "INVALID_DATE_RANGE", Message: "invalid date range"}
	ErrTeamAssignmentMode       = &DomainError{Kind: KindBusinessRule, Code: "TEAM_ASSIGNMENT_MODE", Message: "operation not allowed for the competition team assignment mode"}
)

// Validation
var (
	ErrEmptyID            = &DomainError{Kind: KindValidation, Code: "EMPTY_ID", Message: "id must not be empty"}
	ErrInvalidName        = &DomainError{Kind: KindValidation, Code: "INVALID_NAME", Message: "invalid name"}
	ErrInvalidMaxPlayers  = &DomainError{Kind: KindValidation, Code: "INVALID_MAX_PLAYERS", Message: "invalid max players"}
	ErrInvalidCountryCode = &DomainError{Kind: KindValidation, Code: "INVALID_COUNTRY_CODE", Message: "invalid country code"}
	ErrInvalidLocation    = &DomainError{Kind: KindValidation, Code: "INVALID_LOCATION", Message: "invalid location"}
	ErrInvalidHandicap    = &DomainError{Kind: KindValidation, Code: "INVALID_HANDICAP", Message: "invalid handicap"}
	ErrInvalidPlayMode    = &DomainError{Kind: KindValidation, Code: "INVALID_PLAY_MODE", Message: "invalid play mode"}
	ErrInvalidTeamMode    = &DomainError{Kind: KindValidation, Code: "INVALID_TEAM_ASSIGNMENT", Message: "invalid team assignment"}
	ErrInvalidTeamNames   = &DomainError{Kind: KindValidation, Code: "INVALID_TEAM_NAMES", Message: "invalid team names"}
	ErrInvalidTeamID      = &DomainError{Kind: KindValidation, Code: "INVALID_TEAM_ID", Message: "team id must not be blank"}
	ErrInvalidEmail       = &DomainError{Kind: KindValidation, Code: "INVALID_EMAIL", Message: "invalid email"}
	ErrInvalidMessage     = &DomainError{Kind: KindValidation, Code: "INVALID_MESSAGE", Message: "personal message is too long"}
	ErrInvalidDate        = &DomainError{Kind: KindValidation, Code: "INVALID_DATE", Message: "invalid date"}
	ErrNoUpdateFields     = &DomainError{Kind: KindValidation, Code: "NO_UPDATE_FIELDS", Message: "at least one field must be provided"}
	ErrInvalidStatus      = &DomainError{Kind: KindValidation, Code: "INVALID_STATUS", Message: "unknown status"}
)

// NewNotFoundError returns a copy of sentinel naming the missing resource.
func NewNotFoundError(sentinel *DomainError, resource string) *DomainError {
	return sentinel.withMessage("%s not found", resource)
}
