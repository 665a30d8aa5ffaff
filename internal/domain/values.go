package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinCompetitionNameLength = 3
	MaxCompetitionNameLength = 100
	MinPlayers               = 2
	MaxPlayers               = 100
	MaxSecondaryCountries    = 2
	MaxTeamNameLength        = 50
	MaxPersonalMessageLength = 500

	MinHandicap = -10.0
	MaxHandicap = 54.0
)

// RequireID rejects the zero uuid.
func RequireID(id uuid.UUID, field string) error {
	if id == uuid.Nil {
		return Newf(ErrEmptyID, "%s must not be empty", field)
	}
	return nil
}

// CountryCode is an ISO 3166-1 alpha-2 code.
type CountryCode string

func NewCountryCode(raw string) (CountryCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 {
		return "", Newf(ErrInvalidCountryCode, "country code %q must have two letters", raw)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", Newf(ErrInvalidCountryCode, "country code %q must be alphabetic", raw)
		}
	}
	return CountryCode(code), nil
}

func (c CountryCode) String() string {
	return string(c)
}

type Country struct {
	Code   CountryCode
	NameEN string
	NameES string
}

// Location is where a competition is played: one primary country and up to two
// secondary countries that must border it.
type Location struct {
	Primary   CountryCode
	Secondary []CountryCode
}

func NewLocation(primary string, secondary ...string) (Location, error) {
	p, err := NewCountryCode(primary)
	if err != nil {
		return Location{}, err
	}
	if len(secondary) > MaxSecondaryCountries {
		return Location{}, Newf(ErrInvalidLocation, "at most %d secondary countries allowed", MaxSecondaryCountries)
	}

	loc := Location{Primary: p}
	seen := map[CountryCode]bool{p: true}
	for _, raw := range secondary {
		c, err := NewCountryCode(raw)
		if err != nil {
			return Location{}, err
		}
		if seen[c] {
			return Location{}, Newf(ErrInvalidLocation, "country %s is repeated", c)
		}
		seen[c] = true
		loc.Secondary = append(loc.Secondary, c)
	}
	return loc, nil
}

// Codes returns the primary code followed by the secondaries.
func (l Location) Codes() []CountryCode {
	codes := make([]CountryCode, 0, 1+len(l.Secondary))
	codes = append(codes, l.Primary)
	return append(codes, l.Secondary...)
}

func (l Location) IsMultiCountry() bool {
	return len(l.Secondary) > 0
}

// DateRange holds calendar dates normalized to UTC midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both ends to dates. Ordering and duration are checked by policy.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, Newf(ErrInvalidDate, "start and end dates are required")
	}
	return DateRange{Start: DateOf(start), End: DateOf(end)}, nil
}

// Days is the whole number of days between start and end.
func (d DateRange) Days() int {
	return int(d.End.Sub(d.Start) / (24 * time.Hour))
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

type PlayMode string

const (
	PlayModeScratch  PlayMode = "SCRATCH"
	PlayModeHandicap PlayMode = "HANDICAP"
)

// HandicapSettings configures how handicaps apply to the competition.
type HandicapSettings struct {
	PlayMode   PlayMode
	Percentage int
}

var allowedHandicapPercentages = map[int]bool{90: true, 95: true, 100: true}

func NewHandicapSettings(mode PlayMode, percentage int) (HandicapSettings, error) {
	switch mode {
	case PlayModeScratch:
		if percentage != 0 {
			return HandicapSettings{}, Newf(ErrInvalidPlayMode, "scratch play does not take a handicap percentage")
		}
	case PlayModeHandicap:
		if !allowedHandicapPercentages[percentage] {
			return HandicapSettings{}, Newf(ErrInvalidPlayMode, "handicap percentage must be 90, 95 or 100, got %d", percentage)
		}
	default:
		return HandicapSettings{}, Newf(ErrInvalidPlayMode, "unknown play mode %q", mode)
	}
	return HandicapSettings{PlayMode: mode, Percentage: percentage}, nil
}

type TeamAssignment string

const (
	TeamAssignmentManual    TeamAssignment = "MANUAL"
	TeamAssignmentAutomatic TeamAssignment = "AUTOMATIC"
)

func ParseTeamAssignment(raw string) (TeamAssignment, error) {
	switch TeamAssignment(strings.ToUpper(strings.TrimSpace(raw))) {
	case TeamAssignmentManual:
		return TeamAssignmentManual, nil
	case TeamAssignmentAutomatic:
		return TeamAssignmentAutomatic, nil
	}
	return "", Newf(ErrInvalidTeamMode, "unknown team assignment %q", raw)
}

// TeamNames are the display names of the two sides.
type TeamNames struct {
	Team1 string
	Team2 string
}

func NewTeamNames(team1, team2 string) (TeamNames, error) {
	t1, t2 := strings.TrimSpace(team1), strings.TrimSpace(team2)
	for _, name := range []string{t1, t2} {
		if name == "" || utf8.RuneCountInString(name) > MaxTeamNameLength {
			return TeamNames{}, Newf(ErrInvalidTeamNames, "team names must have between 1 and %d characters", MaxTeamNameLength)
		}
	}
	if strings.EqualFold(t1, t2) {
		return TeamNames{}, Newf(ErrInvalidTeamNames, "team names must be different")
	}
	return TeamNames{Team1: t1, Team2: t2}, nil
}

func NormalizeCompetitionName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < MinCompetitionNameLength || n > MaxCompetitionNameLength {
		return "", Newf(ErrInvalidName, "name must have between %d and %d characters", MinCompetitionNameLength, MaxCompetitionNameLength)
	}
	return name, nil
}

func ValidateMaxPlayers(n int) error {
	if n < MinPlayers || n > MaxPlayers {
		return Newf(ErrInvalidMaxPlayers, "max players must be between %d and %d, got %d", MinPlayers, MaxPlayers, n)
	}
	return nil
}

func ValidateHandicap(value float64) error {
	if value < MinHandicap || value > MaxHandicap {
		return Newf(ErrInvalidHandicap, "handicap must be between %.1f and %.1f, got %.1f", MinHandicap, MaxHandicap, value)
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address and checks its shape.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", Newf(ErrInvalidEmail, "email must not be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", Newf(ErrInvalidEmail, "invalid email %q", raw)
	}
	return email, nil
}

func ValidatePersonalMessage(msg *string) (*string, error) {
	if msg == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*msg)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxPersonalMessageLength {
		return nil, Newf(ErrInvalidMessage, "personal message must have at most %d characters", MaxPersonalMessageLength)
	}
	return &trimmed, nil
}
