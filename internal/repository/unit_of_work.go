package repository

import (
	"context"

	"github.com/fairway/competitions/internal/domain"
)

// UnitOfWork scopes a use case to one storage transaction. Every repository it
// hands out runs against that transaction.
//
// Callers own the handle: defer Rollback right after Begin and call Commit as the
// explicit last step. Rollback after a successful Commit is a no-op. Commit and
// Rollback may also be called mid-flow when a use case needs more than one commit
// point; after Commit the handle is finished and a new scope must be opened.
// Scopes do not nest and two scopes are never atomic with each other.
type UnitOfWork interface {
	Competitions() CompetitionRepository
	Enrollments() EnrollmentRepository
	Invitations() InvitationRepository
	Countries() CountryRepository

	// Flush forces pending constraint checks without ending the transaction.
	Flush(ctx context.Context) error
	Commit() error
	Rollback() error

	// Record collects events produced inside the scope; nil events are ignored.
	Record(events ...domain.Event)
	// Events returns the recorded events in the order they were recorded.
	Events() []domain.Event
}

type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
