package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/events"
	"github.com/fairway/competitions/internal/policy"
	"github.com/fairway/competitions/internal/repository"
)

const (
	defaultTeam1Name = "Team 1"
	defaultTeam2Name = "Team 2"
)

type competitionService struct {
	uow       repository.UnitOfWorkFactory
	users     repository.UserRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewCompetitionService(
	uow repository.UnitOfWorkFactory,
	users repository.UserRepository,
	publisher events.Publisher,
	opts ...Option,
) CompetitionService {
	o := buildOptions(opts)
	return &competitionService{uow: uow, users: users, publisher: publisher, now: o.now}
}

func (s *competitionService) Create(ctx context.Context, creatorID uuid.UUID, in CreateCompetitionInput) (*domain.Competition, error) {
	if err := domain.RequireID(creatorID, "creator id"); err != nil {
		return nil, err
	}
	now := s.now()

	name, err := domain.NormalizeCompetitionName(in.Name)
	if err != nil {
		return nil, err
	}
	dates, err := parseDates(in.StartDate, in.EndDate, now)
	if err != nil {
		return nil, err
	}
	location, err := domain.NewLocation(in.CountryCode, in.SecondaryCountries...)
	if err != nil {
		return nil, err
	}
	handicap, err := domain.NewHandicapSettings(domain.PlayMode(strings.ToUpper(strings.TrimSpace(in.PlayMode))), in.HandicapPercentage)
	if err != nil {
		return nil, err
	}
	assignment := domain.TeamAssignmentManual
	if strings.TrimSpace(in.TeamAssignment) != "" {
		if assignment, err = domain.ParseTeamAssignment(in.TeamAssignment); err != nil {
			return nil, err
		}
	}
	team1, team2 := in.Team1Name, in.Team2Name
	if strings.TrimSpace(team1) == "" && strings.TrimSpace(team2) == "" {
		team1, team2 = defaultTeam1Name, defaultTeam2Name
	}
	teams, err := domain.NewTeamNames(team1, team2)
	if err != nil {
		return nil, err
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.Competitions().CountByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanCreateCompetition(existing); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, uow, creatorID, name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := validateLocation(ctx, uow.Countries(), location); err != nil {
		return nil, err
	}

	c, ev, err := domain.NewCompetition(domain.NewCompetitionParams{
		CreatorID:      creatorID,
		Name:           name,
		Dates:          dates,
		Location:       location,
		Handicap:       handicap,
		MaxPlayers:     in.MaxPlayers,
		TeamAssignment: assignment,
		Teams:          teams,
	}, now)
	if err != nil {
		return nil, err
	}
	if err := uow.Competitions().Add(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.Newf(domain.ErrDuplicateCompetitionName, "competition %q already exists", name)
		}
		return nil, err
	}
	uow.Record(ev)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return c, nil
}

// parseDates builds the range and applies the duration policy. A competition may
// not be scheduled to start in the past.
func parseDates(start, end, now time.Time) (domain.DateRange, error) {
	dates, err := domain.NewDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, err
	}
	if err := policy.ValidateDateRange(dates.Start, dates.End, "competition dates"); err != nil {
		return domain.DateRange{}, err
	}
	if dates.Start.Before(domain.DateOf(now)) {
		return domain.DateRange{}, domain.Newf(domain.ErrInvalidDateRange, "start date %s is in the past", dates.Start.Format(time.DateOnly))
	}
	return dates, nil
}

func (s *competitionService) ensureUniqueName(ctx context.Context, uow repository.UnitOfWork, creatorID uuid.UUID, name string, excludeID uuid.UUID) error {
	exists, err := uow.Competitions().ExistsWithName(ctx, creatorID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Newf(domain.ErrDuplicateCompetitionName, "competition %q already exists", name)
	}
	return nil
}

func (s *competitionService) Get(ctx context.Context, id uuid.UUID) (*domain.Competition, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return loadCompetition(ctx, uow, id, false)
}

func (s *competitionService) ListMine(ctx context.Context, creatorID uuid.UUID, filter repository.CompetitionFilter) ([]*domain.Competition, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.Competitions().FindByCreator(ctx, creatorID, filter)
}

// ListPublic never returns drafts; without a status filter it lists ACTIVE competitions.
func (s *competitionService) ListPublic(ctx context.Context, filter repository.CompetitionFilter) ([]*domain.Competition, error) {
	if filter.Status == nil {
		active := domain.CompetitionActive
		filter.Status = &active
	}
	if *filter.Status == domain.CompetitionDraft {
		return []*domain.Competition{}, nil
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.Competitions().List(ctx, filter)
}

func (s *competitionService) Update(ctx context.Context, actorID, id uuid.UUID, in UpdateCompetitionInput) (*domain.Competition, error) {
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, id, true)
	if err != nil {
		return nil, err
	}
	if err := requireCreator(c, actorID); err != nil {
		return nil, err
	}
	if err := c.RequireEditable(); err != nil {
		return nil, err
	}

	update, err := buildUpdate(c, in, now)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		name, err := domain.NormalizeCompetitionName(*update.Name)
		if err != nil {
			return nil, err
		}
		if err := s.ensureUniqueName(ctx, uow, c.CreatorID, name, c.ID); err != nil {
			return nil, err
		}
	}
	if update.Location != nil {
		if err := validateLocation(ctx, uow.Countries(), *update.Location); err != nil {
			return nil, err
		}
	}

	ev, err := c.UpdateInfo(update, now)
	if err != nil {
		return nil, err
	}
	if err := uow.Competitions().Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.Newf(domain.ErrDuplicateCompetitionName, "competition %q already exists", c.Name)
		}
		return nil, err
	}
	uow.Record(ev)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return c, nil
}

// buildUpdate parses the provided fields and merges half-specified pairs with the
// stored values.
func buildUpdate(c *domain.Competition, in UpdateCompetitionInput, now time.Time) (domain.CompetitionUpdate, error) {
	var u domain.CompetitionUpdate
	u.Name = in.Name
	u.MaxPlayers = in.MaxPlayers

	if in.StartDate != nil || in.EndDate != nil {
		start, end := c.Dates.Start, c.Dates.End
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		dates, err := parseDates(start, end, now)
		if err != nil {
			return u, err
		}
		u.Dates = &dates
	}

	if in.CountryCode != nil || in.SecondaryCountries != nil {
		primary := string(c.Location.Primary)
		if in.CountryCode != nil {
			primary = *in.CountryCode
		}
		var secondary []string
		if in.SecondaryCountries != nil {
			secondary = *in.SecondaryCountries
		} else {
			for _, code := range c.Location.Secondary {
				secondary = append(secondary, string(code))
			}
		}
		loc, err := domain.NewLocation(primary, secondary...)
		if err != nil {
			return u, err
		}
		u.Location = &loc
	}

	if in.PlayMode != nil || in.HandicapPercentage != nil {
		mode, pct := c.Handicap.PlayMode, c.Handicap.Percentage
		if in.PlayMode != nil {
			mode = domain.PlayMode(strings.ToUpper(strings.TrimSpace(*in.PlayMode)))
			if in.HandicapPercentage == nil && mode == domain.PlayModeScratch {
				pct = 0
			}
		}
		if in.HandicapPercentage != nil {
			pct = *in.HandicapPercentage
		}
		settings, err := domain.NewHandicapSettings(mode, pct)
		if err != nil {
			return u, err
		}
		u.Handicap = &settings
	}

	if in.TeamAssignment != nil {
		assignment, err := domain.ParseTeamAssignment(*in.TeamAssignment)
		if err != nil {
			return u, err
		}
		u.TeamAssignment = &assignment
	}

	if in.Team1Name != nil || in.Team2Name != nil {
		team1, team2 := c.Teams.Team1, c.Teams.Team2
		if in.Team1Name != nil {
			team1 = *in.Team1Name
		}
		if in.Team2Name != nil {
			team2 = *in.Team2Name
		}
		teams, err := domain.NewTeamNames(team1, team2)
		if err != nil {
			return u, err
		}
		u.Teams = &teams
	}
	return u, nil
}

func (s *competitionService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, id, true)
	if err != nil {
		return err
	}
	if err := requireCreator(c, actorID); err != nil {
		return err
	}
	if !c.CanBeDeleted() {
		return domain.Newf(domain.ErrCompetitionState, "only draft competitions can be deleted (status %s)", c.Status)
	}
	if err := uow.Competitions().Delete(ctx, c.ID); err != nil {
		return mapNotFound(err, domain.ErrCompetitionNotFound, "competition "+id.String())
	}

	return commit(ctx, uow, s.publisher)
}

type competitionStep func(ctx context.Context, uow repository.UnitOfWork, c *domain.Competition, now time.Time) (domain.Event, error)

// transition runs one creator-only lifecycle step in its own unit of work.
func (s *competitionService) transition(ctx context.Context, actorID, id uuid.UUID, step competitionStep) (*domain.Competition, error) {
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, id, true)
	if err != nil {
		return nil, err
	}
	if err := requireCreator(c, actorID); err != nil {
		return nil, err
	}

	ev, err := step(ctx, uow, c, now)
	if err != nil {
		return nil, err
	}
	if err := uow.Competitions().Update(ctx, c); err != nil {
		return nil, err
	}
	uow.Record(ev)

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *competitionService) Activate(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error) {
	return s.transition(ctx, actorID, id, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, now time.Time) (domain.Event, error) {
		return c.Activate(now)
	})
}

func (s *competitionService) CloseEnrollments(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error) {
	return s.transition(ctx, actorID, id, func(ctx context.Context, uow repository.UnitOfWork, c *domain.Competition, now time.Time) (domain.Event, error) {
		approved, err := uow.Enrollments().CountApproved(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		return c.CloseEnrollments(approved, now)
	})
}

func (s *competitionService) ReopenEnrollments(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error) {
	return s.transition(ctx, actorID, id, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, now time.Time) (domain.Event, error) {
		return c.ReopenEnrollments(now)
	})
}

func (s *competitionService) Start(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error) {
	return s.transition(ctx, actorID, id, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, now time.Time) (domain.Event, error) {
		return c.Start(now)
	})
}

func (s *competitionService) RevertToClosed(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error) {
	return s.transition(ctx, actorID, id, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, now time.Time) (domain.Event, error) {
		return c.RevertToClosed(now)
	})
}

func (s *competitionService) Complete(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error) {
	return s.transition(ctx, actorID, id, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, now time.Time) (domain.Event, error) {
		return c.Complete(now)
	})
}

func (s *competitionService) Cancel(ctx context.Context, actorID, id uuid.UUID, reason *string) (*domain.Competition, error) {
	return s.transition(ctx, actorID, id, func(_ context.Context, _ repository.UnitOfWork, c *domain.Competition, now time.Time) (domain.Event, error) {
		return c.Cancel(reason, now)
	})
}

func (s *competitionService) AssignTeams(ctx context.Context, actorID, id uuid.UUID) ([]*domain.Enrollment, error) {
	now := s.now()

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	c, err := loadCompetition(ctx, uow, id, true)
	if err != nil {
		return nil, err
	}
	if err := requireCreator(c, actorID); err != nil {
		return nil, err
	}
	if c.TeamAssignment != domain.TeamAssignmentAutomatic {
		return nil, domain.Newf(domain.ErrTeamAssignmentMode, "competition %s assigns teams manually", c.ID)
	}
	if c.Status != domain.CompetitionClosed {
		return nil, domain.Newf(domain.ErrCompetitionState, "teams are assigned once enrollments are closed (status %s)", c.Status)
	}

	approved := domain.EnrollmentApproved
	enrollments, err := uow.Enrollments().FindByCompetition(ctx, c.ID, repository.EnrollmentFilter{Status: &approved})
	if err != nil {
		return nil, err
	}

	candidates := make([]TeamCandidate, 0, len(enrollments))
	for _, e := range enrollments {
		var user *domain.User
		if e.CustomHandicap == nil {
			user, err = s.users.GetByID(ctx, e.UserID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
		candidates = append(candidates, TeamCandidate{EnrollmentID: e.ID, Handicap: candidateHandicap(e, user)})
	}

	teams := BalanceTeams(candidates)
	for _, e := range enrollments {
		if err := e.AssignToTeam(teams[e.ID], now); err != nil {
			return nil, err
		}
		if err := uow.Enrollments().Update(ctx, e); err != nil {
			return nil, err
		}
	}

	if err := commit(ctx, uow, s.publisher); err != nil {
		return nil, err
	}
	return enrollments, nil
}
