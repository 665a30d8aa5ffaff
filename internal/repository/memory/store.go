package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

// Store keeps every aggregate in process. A unit of work holds the store for its
// whole scope, works on a copy and swaps it in on commit.
type Store struct {
	sem  chan struct{}
	data *state

	usersMu sync.RWMutex
	users   map[uuid.UUID]domain.User
}

type adjacency [2]domain.CountryCode

type state struct {
	competitions map[uuid.UUID]domain.Competition
	enrollments  map[uuid.UUID]domain.Enrollment
	invitations  map[uuid.UUID]domain.Invitation
	countries    map[domain.CountryCode]domain.Country
	adjacent     map[adjacency]bool
}

func NewStore() *Store {
	return &Store{
		sem: make(chan struct{}, 1),
		data: &state{
			competitions: make(map[uuid.UUID]domain.Competition),
			enrollments:  make(map[uuid.UUID]domain.Enrollment),
			invitations:  make(map[uuid.UUID]domain.Invitation),
			countries:    make(map[domain.CountryCode]domain.Country),
			adjacent:     make(map[adjacency]bool),
		},
		users: make(map[uuid.UUID]domain.User),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for store: %w", ctx.Err())
	}
}

func (s *Store) release() {
	<-s.sem
}

// AddCountry registers a country outside of any unit of work.
func (s *Store) AddCountry(code domain.CountryCode, nameEN, nameES string) {
	s.sem <- struct{}{}
	defer s.release()
	s.data.countries[code] = domain.Country{Code: code, NameEN: nameEN, NameES: nameES}
}

// AddAdjacency records that a and b share a border, in both directions.
func (s *Store) AddAdjacency(a, b domain.CountryCode) {
	s.sem <- struct{}{}
	defer s.release()
	s.data.adjacent[adjacency{a, b}] = true
	s.data.adjacent[adjacency{b, a}] = true
}

// AddUser registers an account so invitations can resolve it by email.
func (s *Store) AddUser(u domain.User) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	s.users[u.ID] = u
}

func (st *state) clone() *state {
	out := &state{
		competitions: make(map[uuid.UUID]domain.Competition, len(st.competitions)),
		enrollments:  make(map[uuid.UUID]domain.Enrollment, len(st.enrollments)),
		invitations:  make(map[uuid.UUID]domain.Invitation, len(st.invitations)),
		countries:    st.countries,
		adjacent:     st.adjacent,
	}
	for id, c := range st.competitions {
		out.competitions[id] = copyCompetition(c)
	}
	for id, e := range st.enrollments {
		out.enrollments[id] = copyEnrollment(e)
	}
	for id, inv := range st.invitations {
		out.invitations[id] = copyInvitation(inv)
	}
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyCompetition(c domain.Competition) domain.Competition {
	c.Location.Secondary = append([]domain.CountryCode(nil), c.Location.Secondary...)
	c.CancellationReason = copyPtr(c.CancellationReason)
	return c
}

func copyEnrollment(e domain.Enrollment) domain.Enrollment {
	e.TeamID = copyPtr(e.TeamID)
	e.CustomHandicap = copyPtr(e.CustomHandicap)
	return e
}

func copyInvitation(inv domain.Invitation) domain.Invitation {
	inv.InviteeUserID = copyPtr(inv.InviteeUserID)
	inv.PersonalMessage = copyPtr(inv.PersonalMessage)
	inv.EnrollmentID = copyPtr(inv.EnrollmentID)
	inv.RespondedAt = copyPtr(inv.RespondedAt)
	return inv
}

// page applies offset and a positive limit to an already sorted slice.
func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
