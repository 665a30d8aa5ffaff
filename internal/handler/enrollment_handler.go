package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

func enrollmentFilter(r *http.Request) (repository.EnrollmentFilter, error) {
	status, err := parseStatus(r, domain.ParseEnrollmentStatus)
	if err != nil {
		return repository.EnrollmentFilter{}, err
	}
	p, err := parsePage(r)
	if err != nil {
		return repository.EnrollmentFilter{}, err
	}
	return repository.EnrollmentFilter{Status: status, Limit: p.limit, Offset: p.offset}, nil
}

func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Newf(errBadRequest, "user_id must be a uuid")
	}
	return id, nil
}

func (h *Handler) RequestEnrollment(w http.ResponseWriter, r *http.Request) {
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

	e, err := h.enrollmentService.Request(r.Context(), a.UserID, competitionID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainEnrollmentToHTTP(e))
}

func (h *Handler) InvitePlayer(w http.ResponseWriter, r *http.Request) {
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
	var req EnrollPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	userID, err := parseUserID(req.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	e, err := h.enrollmentService.Invite(r.Context(), a.UserID, competitionID, userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainEnrollmentToHTTP(e))
}

func (h *Handler) DirectEnroll(w http.ResponseWriter, r *http.Request) {
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
	var req EnrollPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	userID, err := parseUserID(req.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	e, err := h.enrollmentService.DirectEnroll(r.Context(), a.UserID, competitionID, userID, req.CustomHandicap)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainEnrollmentToHTTP(e))
}

// enrollmentAction runs a use case on the enrollment named in the path.
func (h *Handler) enrollmentAction(
	w http.ResponseWriter,
	r *http.Request,
	run func(actorID, enrollmentID uuid.UUID) (*domain.Enrollment, error),
) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	enrollmentID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	e, err := run(a.UserID, enrollmentID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainEnrollmentToHTTP(e))
}

func (h *Handler) ApproveEnrollment(w http.ResponseWriter, r *http.Request) {
	h.enrollmentAction(w, r, func(actorID, id uuid.UUID) (*domain.Enrollment, error) {
		return h.enrollmentService.Approve(r.Context(), actorID, id)
	})
}

func (h *Handler) RejectEnrollment(w http.ResponseWriter, r *http.Request) {
	h.enrollmentAction(w, r, func(actorID, id uuid.UUID) (*domain.Enrollment, error) {
		return h.enrollmentService.Reject(r.Context(), actorID, id)
	})
}

func (h *Handler) CancelEnrollment(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.enrollmentAction(w, r, func(actorID, id uuid.UUID) (*domain.Enrollment, error) {
		return h.enrollmentService.Cancel(r.Context(), actorID, id, req.Reason)
	})
}

func (h *Handler) WithdrawEnrollment(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.enrollmentAction(w, r, func(actorID, id uuid.UUID) (*domain.Enrollment, error) {
		return h.enrollmentService.Withdraw(r.Context(), actorID, id, req.Reason)
	})
}

func (h *Handler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	var req AssignTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.enrollmentAction(w, r, func(actorID, id uuid.UUID) (*domain.Enrollment, error) {
		return h.enrollmentService.AssignTeam(r.Context(), actorID, id, req.TeamID)
	})
}

func (h *Handler) SetCustomHandicap(w http.ResponseWriter, r *http.Request) {
	var req SetHandicapRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if req.Handicap == nil {
		h.handleError(w, r, domain.Newf(errBadRequest, "handicap is required"))
		return
	}
	h.enrollmentAction(w, r, func(actorID, id uuid.UUID) (*domain.Enrollment, error) {
		return h.enrollmentService.SetCustomHandicap(r.Context(), actorID, id, *req.Handicap)
	})
}

func (h *Handler) ListCompetitionEnrollments(w http.ResponseWriter, r *http.Request) {
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
	filter, err := enrollmentFilter(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	list, err := h.enrollmentService.ListByCompetition(r.Context(), a.UserID, competitionID, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EnrollmentListResponse{Enrollments: mapSlice(list, domainEnrollmentToHTTP)})
}

func (h *Handler) ListMyEnrollments(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	filter, err := enrollmentFilter(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	list, err := h.enrollmentService.ListMine(r.Context(), a.UserID, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EnrollmentListResponse{Enrollments: mapSlice(list, domainEnrollmentToHTTP)})
}
