package service

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

const (
	Team1ID = "1"
	Team2ID = "2"
)

// TeamCandidate is an approved player with the handicap used for balancing.
type TeamCandidate struct {
	EnrollmentID uuid.UUID
	Handicap     float64
}

// BalanceTeams orders candidates from lowest to highest handicap and deals them
// out in a snake (1, 2, 2, 1, 1, 2, ...) so both sides end with similar strength.
// Ties keep a stable order by enrollment id.
func BalanceTeams(candidates []TeamCandidate) map[uuid.UUID]string {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b TeamCandidate) int {
		if c := cmp.Compare(a.Handicap, b.Handicap); c != 0 {
			return c
		}
		return slices.Compare(a.EnrollmentID[:], b.EnrollmentID[:])
	})

	assignment := make(map[uuid.UUID]string, len(sorted))
	for i, candidate := range sorted {
		team := Team1ID
		if round := i / 2; (round%2 == 0) != (i%2 == 0) {
			team = Team2ID
		}
		assignment[candidate.EnrollmentID] = team
	}
	return assignment
}

// candidateHandicap prefers the handicap set for this competition, then the
// player's own, and falls back to the highest allowed handicap.
func candidateHandicap(e *domain.Enrollment, u *domain.User) float64 {
	if e.CustomHandicap != nil {
		return *e.CustomHandicap
	}
	if u != nil && u.Handicap != nil {
		return *u.Handicap
	}
	return domain.MaxHandicap
}
