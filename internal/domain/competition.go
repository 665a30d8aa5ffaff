package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CompetitionStatus string

const (
	CompetitionDraft      CompetitionStatus = "DRAFT"
	CompetitionActive     CompetitionStatus = "ACTIVE"
	CompetitionClosed     CompetitionStatus = "CLOSED"
	CompetitionInProgress CompetitionStatus = "IN_PROGRESS"
	CompetitionCompleted  CompetitionStatus = "COMPLETED"
	CompetitionCancelled  CompetitionStatus = "CANCELLED"
)

// competitionTransitions is the full edge list of the competition lifecycle.
var competitionTransitions = map[CompetitionStatus][]CompetitionStatus{
	CompetitionDraft:      {CompetitionActive, CompetitionCancelled},
	CompetitionActive:     {CompetitionClosed, CompetitionCancelled},
	CompetitionClosed:     {CompetitionActive, CompetitionInProgress, CompetitionCancelled},
	CompetitionInProgress: {CompetitionClosed, CompetitionCompleted, CompetitionCancelled},
	CompetitionCompleted:  {},
	CompetitionCancelled:  {},
}

func ParseCompetitionStatus(raw string) (CompetitionStatus, error) {
	s := CompetitionStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := competitionTransitions[s]; !ok {
		return "", Newf(ErrInvalidStatus, "unknown competition status %q", raw)
	}
	return s, nil
}

// CanTransitionCompetition reports whether from -> to is an edge of the lifecycle.
func CanTransitionCompetition(from, to CompetitionStatus) bool {
	for _, next := range competitionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CompetitionStatus) IsTerminal() bool {
	return s == CompetitionCompleted || s == CompetitionCancelled
}

type Competition struct {
	ID                 uuid.UUID
	CreatorID          uuid.UUID
	Name               string
	Dates              DateRange
	Location           Location
	Handicap           HandicapSettings
	MaxPlayers         int
	TeamAssignment     TeamAssignment
	Teams              TeamNames
	Status             CompetitionStatus
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewCompetitionParams carries already-parsed value objects. Date ordering and the
// location's adjacency are checked by the caller through policy and the country lookup.
type NewCompetitionParams struct {
	CreatorID      uuid.UUID
	Name           string
	Dates          DateRange
	Location       Location
	Handicap       HandicapSettings
	MaxPlayers     int
	TeamAssignment TeamAssignment
	Teams          TeamNames
}

func NewCompetition(p NewCompetitionParams, now time.Time) (*Competition, Event, error) {
	if err := RequireID(p.CreatorID, "creator id"); err != nil {
		return nil, nil, err
	}
	name, err := NormalizeCompetitionName(p.Name)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateMaxPlayers(p.MaxPlayers); err != nil {
		return nil, nil, err
	}
	if p.Location.Primary == "" {
		return nil, nil, Newf(ErrInvalidLocation, "primary country is required")
	}
	if p.TeamAssignment != TeamAssignmentManual && p.TeamAssignment != TeamAssignmentAutomatic {
		return nil, nil, Newf(ErrInvalidTeamMode, "unknown team assignment %q", p.TeamAssignment)
	}
	if p.Teams.Team1 == "" || p.Teams.Team2 == "" {
		return nil, nil, Newf(ErrInvalidTeamNames, "team names are required")
	}

	c := &Competition{
		ID:             uuid.New(),
		CreatorID:      p.CreatorID,
		Name:           name,
		Dates:          p.Dates,
		Location:       p.Location,
		Handicap:       p.Handicap,
		MaxPlayers:     p.MaxPlayers,
		TeamAssignment: p.TeamAssignment,
		Teams:          p.Teams,
		Status:         CompetitionDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return c, CompetitionCreatedEvent{eventBase: c.event(now), CreatorID: c.CreatorID, Name: c.Name}, nil
}

func (c *Competition) IsCreator(userID uuid.UUID) bool {
	return c.CreatorID == userID
}

// CanBeDeleted is true only while the competition is still a draft.
func (c *Competition) CanBeDeleted() bool {
	return c.Status == CompetitionDraft
}

// AcceptsEnrollments reports whether players may still ask to join.
func (c *Competition) AcceptsEnrollments() bool {
	return c.Status == CompetitionActive
}

func (c *Competition) event(now time.Time) eventBase {
	return eventBase{ID: c.ID, At: now}
}

func (c *Competition) transition(to CompetitionStatus, now time.Time) error {
	if !CanTransitionCompetition(c.Status, to) {
		return Newf(ErrCompetitionState, "cannot move competition from %s to %s", c.Status, to)
	}
	c.Status = to
	c.UpdatedAt = now
	return nil
}

func (c *Competition) Activate(now time.Time) (Event, error) {
	if c.Status != CompetitionDraft {
		return nil, Newf(ErrCompetitionState, "only draft competitions can be activated (status %s)", c.Status)
	}
	if err := c.transition(CompetitionActive, now); err != nil {
		return nil, err
	}
	return CompetitionActivatedEvent{eventBase: c.event(now)}, nil
}

// CloseEnrollments records the approved count at the moment of closing.
func (c *Competition) CloseEnrollments(totalEnrollments int, now time.Time) (Event, error) {
	if c.Status != CompetitionActive {
		return nil, Newf(ErrCompetitionState, "only active competitions can close enrollments (status %s)", c.Status)
	}
	if err := c.transition(CompetitionClosed, now); err != nil {
		return nil, err
	}
	return CompetitionEnrollmentsClosedEvent{eventBase: c.event(now), TotalEnrollments: totalEnrollments}, nil
}

func (c *Competition) ReopenEnrollments(now time.Time) (Event, error) {
	if c.Status != CompetitionClosed {
		return nil, Newf(ErrCompetitionState, "only closed competitions can reopen enrollments (status %s)", c.Status)
	}
	if err := c.transition(CompetitionActive, now); err != nil {
		return nil, err
	}
	return CompetitionEnrollmentsReopenedEvent{eventBase: c.event(now)}, nil
}

func (c *Competition) Start(now time.Time) (Event, error) {
	if c.Status != CompetitionClosed {
		return nil, Newf(ErrCompetitionState, "only closed competitions can start (status %s)", c.Status)
	}
	if err := c.transition(CompetitionInProgress, now); err != nil {
		return nil, err
	}
	return CompetitionStartedEvent{eventBase: c.event(now)}, nil
}

func (c *Competition) RevertToClosed(now time.Time) (Event, error) {
	if c.Status != CompetitionInProgress {
		return nil, Newf(ErrCompetitionState, "only in-progress competitions can be reverted (status %s)", c.Status)
	}
	if err := c.transition(CompetitionClosed, now); err != nil {
		return nil, err
	}
	return CompetitionRevertedEvent{eventBase: c.event(now)}, nil
}

func (c *Competition) Complete(now time.Time) (Event, error) {
	if c.Status != CompetitionInProgress {
		return nil, Newf(ErrCompetitionState, "only in-progress competitions can be completed (status %s)", c.Status)
	}
	if err := c.transition(CompetitionCompleted, now); err != nil {
		return nil, err
	}
	return CompetitionCompletedEvent{eventBase: c.event(now)}, nil
}

func (c *Competition) Cancel(reason *string, now time.Time) (Event, error) {
	if c.Status.IsTerminal() {
		return nil, Newf(ErrCompetitionState, "competition is already %s", c.Status)
	}
	previous := c.Status
	if err := c.transition(CompetitionCancelled, now); err != nil {
		return nil, err
	}
	if reason != nil {
		if r := strings.TrimSpace(*reason); r != "" {
			c.CancellationReason = &r
		}
	}
	return CompetitionCancelledEvent{eventBase: c.event(now), PreviousStatus: previous, Reason: c.CancellationReason}, nil
}

// CompetitionUpdate is a partial update; nil fields are left untouched.
type CompetitionUpdate struct {
	Name           *string
	Dates          *DateRange
	Location       *Location
	Handicap       *HandicapSettings
	MaxPlayers     *int
	TeamAssignment *TeamAssignment
	Teams          *TeamNames
}

func (u CompetitionUpdate) IsEmpty() bool {
	return u.Name == nil && u.Dates == nil && u.Location == nil && u.Handicap == nil &&
		u.MaxPlayers == nil && u.TeamAssignment == nil && u.Teams == nil
}

// UpdateInfo applies u while the competition is a draft. Nothing is applied if any
// field is invalid.
// RequireEditable fails with a state error once the competition has left DRAFT.
func (c *Competition) RequireEditable() error {
	if c.Status != CompetitionDraft {
		return Newf(ErrCompetitionState, "only draft competitions can be edited (status %s)", c.Status)
	}
	return nil
}

func (c *Competition) UpdateInfo(u CompetitionUpdate, now time.Time) (Event, error) {
	if err := c.RequireEditable(); err != nil {
		return nil, err
	}
	if u.IsEmpty() {
		return nil, ErrNoUpdateFields
	}

	next := *c
	var changed []string
	if u.Name != nil {
		name, err := NormalizeCompetitionName(*u.Name)
		if err != nil {
			return nil, err
		}
		next.Name = name
		changed = append(changed, "name")
	}
	if u.Dates != nil {
		next.Dates = *u.Dates
		changed = append(changed, "dates")
	}
	if u.Location != nil {
		if u.Location.Primary == "" {
			return nil, Newf(ErrInvalidLocation, "primary country is required")
		}
		next.Location = *u.Location
		changed = append(changed, "location")
	}
	if u.Handicap != nil {
		next.Handicap = *u.Handicap
		changed = append(changed, "play_mode")
	}
	if u.MaxPlayers != nil {
		if err := ValidateMaxPlayers(*u.MaxPlayers); err != nil {
			return nil, err
		}
		next.MaxPlayers = *u.MaxPlayers
		changed = append(changed, "max_players")
	}
	if u.TeamAssignment != nil {
		next.TeamAssignment = *u.TeamAssignment
		changed = append(changed, "team_assignment")
	}
	if u.Teams != nil {
		next.Teams = *u.Teams
		changed = append(changed, "team_names")
	}

	next.UpdatedAt = now
	*c = next
	return CompetitionUpdatedEvent{eventBase: c.event(now), ChangedFields: changed}, nil
}
