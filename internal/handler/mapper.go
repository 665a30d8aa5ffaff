package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatOptionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func domainCompetitionToHTTP(c *domain.Competition) CompetitionResponse {
	secondary := make([]string, 0, len(c.Location.Secondary))
	for _, code := range c.Location.Secondary {
		secondary = append(secondary, code.String())
	}

	return CompetitionResponse{
		ID:        c.ID.String(),
		CreatorID: c.CreatorID.String(),
		Name:      c.Name,
		StartDate: c.Dates.Start.Format(time.DateOnly),
		EndDate:   c.Dates.End.Format(time.DateOnly),
		Location: LocationResponse{
			CountryCode:        c.Location.Primary.String(),
			SecondaryCountries: secondary,
		},
		PlayMode:           string(c.Handicap.PlayMode),
		HandicapPercentage: c.Handicap.Percentage,
		MaxPlayers:         c.MaxPlayers,
		TeamAssignment:     string(c.TeamAssignment),
		Team1Name:          c.Teams.Team1,
		Team2Name:          c.Teams.Team2,
		Status:             string(c.Status),
		CancellationReason: c.CancellationReason,
		CreatedAt:          formatTime(c.CreatedAt),
		UpdatedAt:          formatTime(c.UpdatedAt),
	}
}

func domainEnrollmentToHTTP(e *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:             e.ID.String(),
		CompetitionID:  e.CompetitionID.String(),
		UserID:         e.UserID.String(),
		Status:         string(e.Status),
		TeamID:         e.TeamID,
		CustomHandicap: e.CustomHandicap,
		CreatedAt:      formatTime(e.CreatedAt),
		UpdatedAt:      formatTime(e.UpdatedAt),
	}
}

func domainInvitationToHTTP(inv *domain.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:              inv.ID.String(),
		CompetitionID:   inv.CompetitionID.String(),
		InviterID:       inv.InviterID.String(),
		InviteeEmail:    inv.InviteeEmail,
		InviteeUserID:   formatOptionalID(inv.InviteeUserID),
		PersonalMessage: inv.PersonalMessage,
		Status:          string(inv.Status),
		EnrollmentID:    formatOptionalID(inv.EnrollmentID),
		ExpiresAt:       formatTime(inv.ExpiresAt),
		RespondedAt:     formatOptionalTime(inv.RespondedAt),
		CreatedAt:       formatTime(inv.CreatedAt),
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
