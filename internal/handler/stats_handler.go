package handler

import (
	"net/http"
)

func (h *Handler) GetEnrollmentStats(w http.ResponseWriter, r *http.Request) {
	competitionID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	stats, err := h.statsService.GetEnrollmentStats(r.Context(), competitionID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response := StatsResponse{Stats: make([]StatusCountResponse, len(stats))}
	for i, stat := range stats {
		response.Stats[i] = StatusCountResponse{
			Status: string(stat.Status),
			Count:  stat.Count,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetCompetitionStats(w http.ResponseWriter, r *http.Request) {
	a, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	stats, err := h.statsService.GetCompetitionStats(r.Context(), a.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response := StatsResponse{Stats: make([]StatusCountResponse, len(stats))}
	for i, stat := range stats {
		response.Stats[i] = StatusCountResponse{
			Status: string(stat.Status),
			Count:  stat.Count,
		}
	}

	writeJSON(w, http.StatusOK, response)
}
