package handler

import (
	"net/http"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
	"github.com/fairway/competitions/internal/service"
)

func invitationFilter(r *http.Request) (repository.InvitationFilter, error) {
	status, err := parseStatus(r, domain.ParseInvitationStatus)
	if err != nil {
		return repository.InvitationFilter{}, err
	}
	p, err := parsePage(r)
	if err != nil {
		return repository.InvitationFilter{}, err
	}
	return repository.InvitationFilter{Status: status, Limit: p.limit, Offset: p.offset}, nil
}

func (h *Handler) SendInvitation(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	competitionID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var req SendInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	inv, err := h.invitationService.Send(r.Context(), a.UserID, service.SendInvitationInput{
		CompetitionID:   competitionID,
		InviteeEmail:    req.InviteeEmail,
		PersonalMessage: req.PersonalMessage,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainInvitationToHTTP(inv))
}

func (h *Handler) GetInvitation(w http.ResponseWriter, r *http.Request) {
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

	inv, err := h.invitationService.Get(r.Context(), a, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainInvitationToHTTP(inv))
}

func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
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

	inv, e, err := h.invitationService.Accept(r.Context(), a, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AcceptInvitationResponse{
		Invitation: domainInvitationToHTTP(inv),
		Enrollment: domainEnrollmentToHTTP(e),
	})
}

func (h *Handler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
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

	inv, err := h.invitationService.Decline(r.Context(), a, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainInvitationToHTTP(inv))
}

func (h *Handler) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	filter, err := invitationFilter(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	list, err := h.invitationService.ListMine(r.Context(), a, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, InvitationListResponse{Invitations: mapSlice(list, domainInvitationToHTTP)})
}

func (h *Handler) ListCompetitionInvitations(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	competitionID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	filter, err := invitationFilter(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	list, err := h.invitationService.ListByCompetition(r.Context(), a.UserID, competitionID, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, InvitationListResponse{Invitations: mapSlice(list, domainInvitationToHTTP)})
}
