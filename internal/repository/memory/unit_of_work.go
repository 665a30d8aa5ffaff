package memory

import (
	"context"
	"errors"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/metrics"
	"github.com/fairway/competitions/internal/repository"
)

var ErrScopeClosed = errors.New("unit of work already finished")

type UnitOfWorkFactory struct {
	store   *Store
	metrics *metrics.Metrics
}

// NewUnitOfWorkFactory serializes scopes over store. m may be nil.
func NewUnitOfWorkFactory(store *Store, m *metrics.Metrics) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, metrics: m}
}

// Begin blocks until no other scope holds the store.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	if err := f.store.acquire(ctx); err != nil {
		return nil, err
	}
	work := f.store.data.clone()
	return &unitOfWork{
		store:        f.store,
		metrics:      f.metrics,
		work:         work,
		competitions: &competitionRepository{st: work},
		enrollments:  &enrollmentRepository{st: work},
		invitations:  &invitationRepository{st: work},
		countries:    &countryRepository{st: work},
	}, nil
}

type unitOfWork struct {
	store   *Store
	metrics *metrics.Metrics
	work    *state
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

// Flush has nothing to do: uniqueness is checked on every write.
func (u *unitOfWork) Flush(context.Context) error {
	if u.done {
		return ErrScopeClosed
	}
	return nil
}

func (u *unitOfWork) Commit() error {
	if u.done {
		return ErrScopeClosed
	}
	u.done = true
	u.store.data = u.work
	u.store.release()
	u.metrics.IncUnitOfWork(metrics.OutcomeCommit)
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.events = nil
	u.store.release()
	u.metrics.IncUnitOfWork(metrics.OutcomeRollback)
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
