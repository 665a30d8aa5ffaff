package handler

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCompetitionRequest struct {
	Name               string   `json:"name"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	CountryCode        string   `json:"country_code"`
	SecondaryCountries []string `json:"secondary_countries"`
	PlayMode           string   `json:"play_mode"`
	HandicapPercentage int      `json:"handicap_percentage"`
	MaxPlayers         int      `json:"max_players"`
	TeamAssignment     string   `json:"team_assignment"`
	Team1Name          string   `json:"team_1_name"`
	Team2Name          string   `json:"team_2_name"`
}

type UpdateCompetitionRequest struct {
	Name               *string   `json:"name"`
	StartDate          *string   `json:"start_date"`
	EndDate            *string   `json:"end_date"`
	CountryCode        *string   `json:"country_code"`
	SecondaryCountries *[]string `json:"secondary_countries"`
	PlayMode           *string   `json:"play_mode"`
	HandicapPercentage *int      `json:"handicap_percentage"`
	MaxPlayers         *int      `json:"max_players"`
	TeamAssignment     *string   `json:"team_assignment"`
	Team1Name          *string   `json:"team_1_name"`
	Team2Name          *string   `json:"team_2_name"`
}

type CancelRequest struct {
	Reason *string `json:"reason"`
}

type LocationResponse struct {
	CountryCode        string   `json:"country_code"`
	SecondaryCountries []string `json:"secondary_countries"`
}

type CompetitionResponse struct {
	ID                 string           `json:"id"`
	CreatorID          string           `json:"creator_id"`
	Name               string           `json:"name"`
	StartDate          string           `json:"start_date"`
	EndDate            string           `json:"end_date"`
	Location           LocationResponse `json:"location"`
	PlayMode           string           `json:"play_mode"`
	HandicapPercentage int              `json:"handicap_percentage"`
	MaxPlayers         int              `json:"max_players"`
	TeamAssignment     string           `json:"team_assignment"`
	Team1Name          string           `json:"team_1_name"`
	Team2Name          string           `json:"team_2_name"`
	Status             string           `json:"status"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	CreatedAt          string           `json:"created_at"`
	UpdatedAt          string           `json:"updated_at"`
}

type CompetitionListResponse struct {
	Competitions []CompetitionResponse `json:"competitions"`
}

type EnrollPlayerRequest struct {
	UserID         string   `json:"user_id"`
	CustomHandicap *float64 `json:"custom_handicap"`
}

type AssignTeamRequest struct {
	TeamID string `json:"team_id"`
}

type SetHandicapRequest struct {
	Handicap *float64 `json:"handicap"`
}

type EnrollmentResponse struct {
	ID             string   `json:"id"`
	CompetitionID  string   `json:"competition_id"`
	UserID         string   `json:"user_id"`
	Status         string   `json:"status"`
	TeamID         *string  `json:"team_id,omitempty"`
	CustomHandicap *float64 `json:"custom_handicap,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type EnrollmentListResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
}

type SendInvitationRequest struct {
	InviteeEmail    string  `json:"invitee_email"`
	PersonalMessage *string `json:"personal_message"`
}

type InvitationResponse struct {
	ID              string  `json:"id"`
	CompetitionID   string  `json:"competition_id"`
	InviterID       string  `json:"inviter_id"`
	InviteeEmail    string  `json:"invitee_email"`
	InviteeUserID   *string `json:"invitee_user_id,omitempty"`
	PersonalMessage *string `json:"personal_message,omitempty"`
	Status          string  `json:"status"`
	EnrollmentID    *string `json:"enrollment_id,omitempty"`
	ExpiresAt       string  `json:"expires_at"`
	RespondedAt     *string `json:"responded_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

type AcceptInvitationResponse struct {
	Invitation InvitationResponse `json:"invitation"`
	Enrollment EnrollmentResponse `json:"enrollment"`
}

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type StatsResponse struct {
	Stats []StatusCountResponse `json:"stats"`
}
