package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
	"github.com/fairway/competitions/internal/service"
)

func (h *Handler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req CreateCompetitionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.competitionService.Create(r.Context(), a.UserID, service.CreateCompetitionInput{
		Name:               req.Name,
		StartDate:          start,
		EndDate:            end,
		CountryCode:        req.CountryCode,
		SecondaryCountries: req.SecondaryCountries,
		PlayMode:           req.PlayMode,
		HandicapPercentage: req.HandicapPercentage,
		MaxPlayers:         req.MaxPlayers,
		TeamAssignment:     req.TeamAssignment,
		Team1Name:          req.Team1Name,
		Team2Name:          req.Team2Name,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainCompetitionToHTTP(c))
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.competitionService.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainCompetitionToHTTP(c))
}

func competitionFilter(r *http.Request) (repository.CompetitionFilter, error) {
	status, err := parseStatus(r, domain.ParseCompetitionStatus)
	if err != nil {
		return repository.CompetitionFilter{}, err
	}
	p, err := parsePage(r)
	if err != nil {
		return repository.CompetitionFilter{}, err
	}
	return repository.CompetitionFilter{Status: status, Limit: p.limit, Offset: p.offset}, nil
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	filter, err := competitionFilter(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	list, err := h.competitionService.ListPublic(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CompetitionListResponse{Competitions: mapSlice(list, domainCompetitionToHTTP)})
}

func (h *Handler) ListMyCompetitions(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	filter, err := competitionFilter(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	list, err := h.competitionService.ListMine(r.Context(), a.UserID, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CompetitionListResponse{Competitions: mapSlice(list, domainCompetitionToHTTP)})
}

func (h *Handler) UpdateCompetition(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req UpdateCompetitionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	start, err := parseOptionalDate(req.StartDate, "start_date")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	end, err := parseOptionalDate(req.EndDate, "end_date")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.competitionService.Update(r.Context(), a.UserID, id, service.UpdateCompetitionInput{
		Name:               req.Name,
		StartDate:          start,
		EndDate:            end,
		CountryCode:        req.CountryCode,
		SecondaryCountries: req.SecondaryCountries,
		PlayMode:           req.PlayMode,
		HandicapPercentage: req.HandicapPercentage,
		MaxPlayers:         req.MaxPlayers,
		TeamAssignment:     req.TeamAssignment,
		Team1Name:          req.Team1Name,
		Team2Name:          req.Team2Name,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainCompetitionToHTTP(c))
}

func (h *Handler) DeleteCompetition(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.competitionService.Delete(r.Context(), a.UserID, id); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type competitionTransition func(ctx context.Context, actorID, id uuid.UUID) (*domain.Competition, error)

// transitionCompetition runs a lifecycle use case on the competition in the path.
func (h *Handler) transitionCompetition(w http.ResponseWriter, r *http.Request, step competitionTransition) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := step(r.Context(), a.UserID, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainCompetitionToHTTP(c))
}

func (h *Handler) ActivateCompetition(w http.ResponseWriter, r *http.Request) {
	h.transitionCompetition(w, r, h.competitionService.Activate)
}

func (h *Handler) CloseEnrollments(w http.ResponseWriter, r *http.Request) {
	h.transitionCompetition(w, r, h.competitionService.CloseEnrollments)
}

func (h *Handler) ReopenEnrollments(w http.ResponseWriter, r *http.Request) {
	h.transitionCompetition(w, r, h.competitionService.ReopenEnrollments)
}

func (h *Handler) StartCompetition(w http.ResponseWriter, r *http.Request) {
	h.transitionCompetition(w, r, h.competitionService.Start)
}

func (h *Handler) RevertCompetition(w http.ResponseWriter, r *http.Request) {
	h.transitionCompetition(w, r, h.competitionService.RevertToClosed)
}

func (h *Handler) CompleteCompetition(w http.ResponseWriter, r *http.Request) {
	h.transitionCompetition(w, r, h.competitionService.Complete)
}

func (h *Handler) CancelCompetition(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var req CancelRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.competitionService.Cancel(r.Context(), a.UserID, id, req.Reason)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainCompetitionToHTTP(c))
}

func (h *Handler) AssignTeams(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	assigned, err := h.competitionService.AssignTeams(r.Context(), a.UserID, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EnrollmentListResponse{Enrollments: mapSlice(assigned, domainEnrollmentToHTTP)})
}
