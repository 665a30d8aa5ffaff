package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/metrics"
	"github.com/fairway/competitions/internal/repository"
)

const defaultUnitOfWorkTimeout = 10 * time.Second

type UnitOfWorkFactory struct {
	db      *sql.DB
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewUnitOfWorkFactory opens one *sql.Tx per scope. m may be nil.
func NewUnitOfWorkFactory(db *sql.DB, m *metrics.Metrics) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, metrics: m, timeout: defaultUnitOfWorkTimeout}
}

func (f *UnitOfWorkFactory) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("unit of work aborted: %w", err)
	}

	var cancel context.CancelFunc = func() {}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && f.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
	}

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &unitOfWork{
		tx:           tx,
		cancel:       cancel,
		metrics:      f.metrics,
		competitions: NewCompetitionRepositoryWithTx(tx),
		enrollments:  NewEnrollmentRepositoryWithTx(tx),
		invitations:  NewInvitationRepositoryWithTx(tx),
		countries:    NewCountryRepositoryWithTx(tx),
	}, nil
}

type unitOfWork struct {
	tx      *sql.Tx
	cancel  context.CancelFunc
	metrics *metrics.Metrics
	done    bool
	events  []domain.Event

	competitions *competitionRepository
	enrollments  *enrollmentRepository
	invitations  *invitationRepository
	countries    *countryRepository
}

func (u *unitOfWork) Competitions() repository.CompetitionRepository { return u.competitions }
func (u *unitOfWork) Enrollments() repository.EnrollmentRepository   { return u.enrollments }
func (u *unitOfWork) Invitations() repository.InvitationRepository   { return u.invitations }
func (u *unitOfWork) Countries() repository.CountryRepository        { return u.countries }

// Flush checks deferrable constraints now so violations surface before Commit.
// Statements already fail on non-deferrable constraints as they run, so Flush only
// matters for DEFERRABLE ones; they stay immediate for the rest of the scope.
func (u *unitOfWork) Flush(ctx context.Context) error {
	if u.done {
		return sql.ErrTxDone
	}
	_, err := u.tx.ExecContext(ctx, `SET CONSTRAINTS ALL IMMEDIATE`)
	return mapError(err)
}

func (u *unitOfWork) Commit() error {
	if u.done {
		return sql.ErrTxDone
	}
	u.done = true
	defer u.cancel()

	if err := u.tx.Commit(); err != nil {
		u.metrics.IncUnitOfWork(metrics.OutcomeRollback)
		return fmt.Errorf("failed to commit transaction: %w", mapError(err))
	}
	u.metrics.IncUnitOfWork(metrics.OutcomeCommit)
	return nil
}

// Rollback is a no-op once the scope has been committed or rolled back.
func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	defer u.cancel()

	u.events = nil
	u.metrics.IncUnitOfWork(metrics.OutcomeRollback)
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) Record(events ...domain.Event) {
	for _, ev := range events {
		if ev != nil {
			u.events = append(u.events, ev)
		}
	}
}

func (u *unitOfWork) Events() []domain.Event {
	out := make([]domain.Event, len(u.events))
	copy(out, u.events)
	return out
}
