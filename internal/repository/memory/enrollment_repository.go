package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type enrollmentRepository struct {
	st *state
}

func (r *enrollmentRepository) find(userID, competitionID uuid.UUID) (domain.Enrollment, bool) {
	for _, e := range r.st.enrollments {
		if e.UserID == userID && e.CompetitionID == competitionID {
			return e, true
		}
	}
	return domain.Enrollment{}, false
}

func (r *enrollmentRepository) Add(_ context.Context, e *domain.Enrollment) error {
	if _, ok := r.st.enrollments[e.ID]; ok {
		return fmt.Errorf("%w: enrollments_pkey", repository.ErrConflict)
	}
	if _, ok := r.st.competitions[e.CompetitionID]; !ok {
		return fmt.Errorf("competition %s does not exist", e.CompetitionID)
	}
	if _, ok := r.find(e.UserID, e.CompetitionID); ok {
		return fmt.Errorf("%w: uq_enrollments_user_competition", repository.ErrConflict)
	}
	r.st.enrollments[e.ID] = copyEnrollment(*e)
	return nil
}

func (r *enrollmentRepository) Update(_ context.Context, e *domain.Enrollment) error {
	if _, ok := r.st.enrollments[e.ID]; !ok {
		return repository.ErrNotFound
	}
	r.st.enrollments[e.ID] = copyEnrollment(*e)
	return nil
}

func (r *enrollmentRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	e, ok := r.st.enrollments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyEnrollment(e)
	return &out, nil
}

func (r *enrollmentRepository) collect(filter repository.EnrollmentFilter, match func(domain.Enrollment) bool) []*domain.Enrollment {
	var out []*domain.Enrollment
	for _, e := range r.st.enrollments {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if !match(e) {
			continue
		}
		cp := copyEnrollment(e)
		out = append(out, &cp)
	}
	return out
}

func (r *enrollmentRepository) FindByCompetition(_ context.Context, competitionID uuid.UUID, filter repository.EnrollmentFilter) ([]*domain.Enrollment, error) {
	out := r.collect(filter, func(e domain.Enrollment) bool { return e.CompetitionID == competitionID })
	slices.SortFunc(out, func(a, b *domain.Enrollment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *enrollmentRepository) FindByUser(_ context.Context, userID uuid.UUID, filter repository.EnrollmentFilter) ([]*domain.Enrollment, error) {
	out := r.collect(filter, func(e domain.Enrollment) bool { return e.UserID == userID })
	slices.SortFunc(out, func(a, b *domain.Enrollment) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *enrollmentRepository) FindByUserAndCompetition(_ context.Context, userID, competitionID uuid.UUID) (*domain.Enrollment, error) {
	e, ok := r.find(userID, competitionID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyEnrollment(e)
	return &out, nil
}

func (r *enrollmentRepository) count(match func(domain.Enrollment) bool) int {
	n := 0
	for _, e := range r.st.enrollments {
		if match(e) {
			n++
		}
	}
	return n
}

func (r *enrollmentRepository) CountApproved(_ context.Context, competitionID uuid.UUID) (int, error) {
	return r.count(func(e domain.Enrollment) bool {
		return e.CompetitionID == competitionID && e.Status == domain.EnrollmentApproved
	}), nil
}

func (r *enrollmentRepository) CountPending(_ context.Context, competitionID uuid.UUID) (int, error) {
	return r.count(func(e domain.Enrollment) bool {
		return e.CompetitionID == competitionID && e.Status.IsPending()
	}), nil
}

func (r *enrollmentRepository) ExistsForUserInCompetition(_ context.Context, userID, competitionID uuid.UUID) (bool, error) {
	_, ok := r.find(userID, competitionID)
	return ok, nil
}

func (r *enrollmentRepository) CountActiveByUser(_ context.Context, userID uuid.UUID) (int, error) {
	return r.count(func(e domain.Enrollment) bool {
		return e.UserID == userID && e.Status.IsActive()
	}), nil
}
