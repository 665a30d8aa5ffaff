package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairway/competitions/internal/handler"
)

func SetupRoutes(mux *http.ServeMux, h *handler.Handler) {
	mux.HandleFunc("POST /competitions", h.CreateCompetition)
	mux.HandleFunc("GET /competitions", h.ListCompetitions)
	mux.HandleFunc("GET /competitions/mine", h.ListMyCompetitions)
	mux.HandleFunc("GET /competitions/{id}", h.GetCompetition)
	mux.HandleFunc("PATCH /competitions/{id}", h.UpdateCompetition)
	mux.HandleFunc("DELETE /competitions/{id}", h.DeleteCompetition)
	mux.HandleFunc("POST /competitions/{id}/activate", h.ActivateCompetition)
	mux.HandleFunc("POST /competitions/{id}/close-enrollments", h.CloseEnrollments)
	mux.HandleFunc("POST /competitions/{id}/reopen-enrollments", h.ReopenEnrollments)
	mux.HandleFunc("POST /competitions/{id}/start", h.StartCompetition)
	mux.HandleFunc("POST /competitions/{id}/revert", h.RevertCompetition)
	mux.HandleFunc("POST /competitions/{id}/complete", h.CompleteCompetition)
	mux.HandleFunc("POST /competitions/{id}/cancel", h.CancelCompetition)
	mux.HandleFunc("POST /competitions/{id}/assign-teams", h.AssignTeams)

	mux.HandleFunc("POST /competitions/{id}/enrollments", h.RequestEnrollment)
	mux.HandleFunc("POST /competitions/{id}/enrollments/invite", h.InvitePlayer)
	mux.HandleFunc("POST /competitions/{id}/enrollments/direct", h.DirectEnroll)
	mux.HandleFunc("GET /competitions/{id}/enrollments", h.ListCompetitionEnrollments)
	mux.HandleFunc("GET /enrollments/mine", h.ListMyEnrollments)
	mux.HandleFunc("POST /enrollments/{id}/approve", h.ApproveEnrollment)
	mux.HandleFunc("POST /enrollments/{id}/reject", h.RejectEnrollment)
	mux.HandleFunc("POST /enrollments/{id}/cancel", h.CancelEnrollment)
	mux.HandleFunc("POST /enrollments/{id}/withdraw", h.WithdrawEnrollment)
	mux.HandleFunc("PUT /enrollments/{id}/team", h.AssignTeam)
	mux.HandleFunc("PUT /enrollments/{id}/handicap", h.SetCustomHandicap)

	mux.HandleFunc("POST /competitions/{id}/invitations", h.SendInvitation)
	mux.HandleFunc("GET /competitions/{id}/invitations", h.ListCompetitionInvitations)
	mux.HandleFunc("GET /invitations/mine", h.ListMyInvitations)
	mux.HandleFunc("GET /invitations/{id}", h.GetInvitation)
	mux.HandleFunc("POST /invitations/{id}/accept", h.AcceptInvitation)
	mux.HandleFunc("POST /invitations/{id}/decline", h.DeclineInvitation)

	mux.HandleFunc("GET /competitions/{id}/stats", h.GetEnrollmentStats)
	mux.HandleFunc("GET /stats/competitions", h.GetCompetitionStats)
}

// SetupOperationalRoutes mounts liveness and the Prometheus scrape endpoint.
func SetupOperationalRoutes(mux *http.ServeMux, gatherer prometheus.Gatherer) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
