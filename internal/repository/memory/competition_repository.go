package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type competitionRepository struct {
	st *state
}

func (r *competitionRepository) nameTaken(c *domain.Competition) bool {
	for id, other := range r.st.competitions {
		if id != c.ID && other.CreatorID == c.CreatorID && strings.EqualFold(other.Name, c.Name) {
			return true
		}
	}
	return false
}

func (r *competitionRepository) Add(_ context.Context, c *domain.Competition) error {
	if _, ok := r.st.competitions[c.ID]; ok {
		return fmt.Errorf("%w: competitions_pkey", repository.ErrConflict)
	}
	if r.nameTaken(c) {
		return fmt.Errorf("%w: uq_competitions_creator_name", repository.ErrConflict)
	}
	r.st.competitions[c.ID] = copyCompetition(*c)
	return nil
}

func (r *competitionRepository) Update(_ context.Context, c *domain.Competition) error {
	if _, ok := r.st.competitions[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(c) {
		return fmt.Errorf("%w: uq_competitions_creator_name", repository.ErrConflict)
	}
	r.st.competitions[c.ID] = copyCompetition(*c)
	return nil
}

// Delete cascades to the competition's enrollments and invitations like the SQL schema.
func (r *competitionRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.competitions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.st.competitions, id)
	for eid, e := range r.st.enrollments {
		if e.CompetitionID == id {
			delete(r.st.enrollments, eid)
		}
	}
	for iid, inv := range r.st.invitations {
		if inv.CompetitionID == id {
			delete(r.st.invitations, iid)
		}
	}
	return nil
}

func (r *competitionRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Competition, error) {
	c, ok := r.st.competitions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyCompetition(c)
	return &out, nil
}

// FindByIDForUpdate needs no extra locking: the scope already owns the store.
func (r *competitionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Competition, error) {
	return r.FindByID(ctx, id)
}

func (r *competitionRepository) collect(filter repository.CompetitionFilter, match func(domain.Competition) bool) []*domain.Competition {
	var out []*domain.Competition
	for _, c := range r.st.competitions {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if !match(c) {
			continue
		}
		cp := copyCompetition(c)
		out = append(out, &cp)
	}
	return out
}

func (r *competitionRepository) FindByCreator(_ context.Context, creatorID uuid.UUID, filter repository.CompetitionFilter) ([]*domain.Competition, error) {
	out := r.collect(filter, func(c domain.Competition) bool { return c.CreatorID == creatorID })
	slices.SortFunc(out, func(a, b *domain.Competition) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *competitionRepository) List(_ context.Context, filter repository.CompetitionFilter) ([]*domain.Competition, error) {
	out := r.collect(filter, func(domain.Competition) bool { return true })
	slices.SortFunc(out, func(a, b *domain.Competition) int {
		if c := a.Dates.Start.Compare(b.Dates.Start); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *competitionRepository) CountByCreator(_ context.Context, creatorID uuid.UUID) (int, error) {
	count := 0
	for _, c := range r.st.competitions {
		if c.CreatorID == creatorID {
			count++
		}
	}
	return count, nil
}

func (r *competitionRepository) ExistsWithName(_ context.Context, creatorID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	return r.nameTaken(&domain.Competition{ID: excludeID, CreatorID: creatorID, Name: name}), nil
}
