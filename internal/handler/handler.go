package handler

import (
	"github.com/rs/zerolog"

	"github.com/fairway/competitions/internal/service"
)

type Handler struct {
	competitionService service.CompetitionService
	enrollmentService  service.EnrollmentService
	invitationService  service.InvitationService
	statsService       service.StatsService
	log                zerolog.Logger
}

func NewHandler(
	competitionService service.CompetitionService,
	enrollmentService service.EnrollmentService,
	invitationService service.InvitationService,
	statsService service.StatsService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		competitionService: competitionService,
		enrollmentService:  enrollmentService,
		invitationService:  invitationService,
		statsService:       statsService,
		log:                log,
	}
}
