package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/events"
	"github.com/fairway/competitions/internal/handler"
	"github.com/fairway/competitions/internal/metrics"
	"github.com/fairway/competitions/internal/repository/memory"
	"github.com/fairway/competitions/internal/service"
)

type testAPI struct {
	t       *testing.T
	mux     http.Handler
	store   *memory.Store
	creator uuid.UUID
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := zerolog.Nop()

	store := memory.NewStore()
	store.SeedCountries()
	uow := memory.NewUnitOfWorkFactory(store, m)
	publisher := events.NewLogPublisher(log, m)

	h := handler.NewHandler(
		service.NewCompetitionService(uow, store.Users(), publisher),
		service.NewEnrollmentService(uow, publisher),
		service.NewInvitationService(uow, store.Users(), publisher),
		service.NewStatsService(store.Stats()),
		log,
	)
	return &testAPI{t: t, mux: NewMux(h, reg, log), store: store, creator: uuid.New()}
}

type caller struct {
	id    uuid.UUID
	email string
}

func (a *testAPI) do(method, path string, who *caller, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if who != nil {
		req.Header.Set(handler.HeaderUserID, who.id.String())
		if who.email != "" {
			req.Header.Set(handler.HeaderUserEmail, who.email)
		}
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) creatorCaller() *caller {
	return &caller{id: a.creator}
}

func (a *testAPI) createCompetition(name string, maxPlayers int) handler.CompetitionResponse {
	a.t.Helper()
	start := time.Now().UTC().AddDate(0, 0, 30)
	rec := a.do(http.MethodPost, "/competitions", a.creatorCaller(), handler.CreateCompetitionRequest{
		Name:               name,
		StartDate:          start.Format(time.DateOnly),
		EndDate:            start.AddDate(0, 0, 2).Format(time.DateOnly),
		CountryCode:        "es",
		SecondaryCountries: []string{"PT"},
		PlayMode:           "HANDICAP",
		HandicapPercentage: 95,
		MaxPlayers:         maxPlayers,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[handler.CompetitionResponse](a.t, rec)
}

func (a *testAPI) activeCompetition(name string, maxPlayers int) handler.CompetitionResponse {
	a.t.Helper()
	c := a.createCompetition(name, maxPlayers)
	rec := a.do(http.MethodPost, "/competitions/"+c.ID+"/activate", a.creatorCaller(), nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[handler.CompetitionResponse](a.t, rec)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

func TestCompetitionEndpoints(t *testing.T) {
	api := newTestAPI(t)

	c := api.createCompetition("Atlantic Cup", 24)
	assert.Equal(t, "DRAFT", c.Status)
	assert.Equal(t, "ES", c.Location.CountryCode)
	assert.Equal(t, []string{"PT"}, c.Location.SecondaryCountries)
	assert.Equal(t, "Team 1", c.Team1Name)

	t.Run("get", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/competitions/"+c.ID, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, c.ID, decode[handler.CompetitionResponse](t, rec).ID)
	})

	t.Run("patch", func(t *testing.T) {
		name := "Atlantic Cup 2026"
		rec := api.do(http.MethodPatch, "/competitions/"+c.ID, api.creatorCaller(), handler.UpdateCompetitionRequest{Name: &name})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, name, decode[handler.CompetitionResponse](t, rec).Name)
	})

	t.Run("public list hides drafts", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/competitions", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[handler.CompetitionListResponse](t, rec).Competitions)

		rec = api.do(http.MethodGet, "/competitions/mine?status=draft", api.creatorCaller(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[handler.CompetitionListResponse](t, rec).Competitions, 1)
	})

	t.Run("lifecycle", func(t *testing.T) {
		for _, step := range []struct{ path, status string }{
			{"activate", "ACTIVE"},
			{"close-enrollments", "CLOSED"},
			{"reopen-enrollments", "ACTIVE"},
			{"close-enrollments", "CLOSED"},
			{"start", "IN_PROGRESS"},
			{"revert", "CLOSED"},
			{"start", "IN_PROGRESS"},
			{"complete", "COMPLETED"},
		} {
			rec := api.do(http.MethodPost, "/competitions/"+c.ID+"/"+step.path, api.creatorCaller(), nil)
			require.Equal(t, http.StatusOK, rec.Code, step.path+": "+rec.Body.String())
			assert.Equal(t, step.status, decode[handler.CompetitionResponse](t, rec).Status)
		}
	})

	t.Run("cancel with reason and delete", func(t *testing.T) {
		other := api.activeCompetition("Pyrenees Trophy", 10)
		rec := api.do(http.MethodPost, "/competitions/"+other.ID+"/cancel", api.creatorCaller(), handler.CancelRequest{Reason: ptr("snow")})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[handler.CompetitionResponse](t, rec)
		assert.Equal(t, "CANCELLED", resp.Status)
		assert.Equal(t, "snow", *resp.CancellationReason)

		draft := api.createCompetition("Short Lived", 4)
		rec = api.do(http.MethodDelete, "/competitions/"+draft.ID, api.creatorCaller(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = api.do(http.MethodGet, "/competitions/"+draft.ID, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestErrorMapping(t *testing.T) {
	api := newTestAPI(t)
	c := api.createCompetition("Mapping Open", 2)
	stranger := &caller{id: uuid.New()}

	tests := []struct {
		name   string
		method string
		path   string
		who    *caller
		body   any
		status int
		code   string
	}{
		{"missing identity", http.MethodPost, "/competitions/" + c.ID + "/activate", nil, nil, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"bad path id", http.MethodGet, "/competitions/not-a-uuid", nil, nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown competition", http.MethodGet, "/competitions/" + uuid.NewString(), nil, nil, http.StatusNotFound, "COMPETITION_NOT_FOUND"},
		{"not the creator", http.MethodPost, "/competitions/" + c.ID + "/activate", stranger, nil, http.StatusForbidden, "NOT_CREATOR"},
		{"illegal transition", http.MethodPost, "/competitions/" + c.ID + "/start", api.creatorCaller(), nil, http.StatusConflict, "INVALID_COMPETITION_TRANSITION"},
		{"enroll in draft", http.MethodPost, "/competitions/" + c.ID + "/enrollments", stranger, nil, http.StatusUnprocessableEntity, "ENROLLMENTS_NOT_OPEN"},
		{"bad status filter", http.MethodGet, "/competitions?status=archived", nil, nil, http.StatusBadRequest, "INVALID_STATUS"},
		{"bad limit", http.MethodGet, "/competitions?limit=-1", nil, nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown body field", http.MethodPost, "/competitions", api.creatorCaller(), map[string]any{"nme": "typo"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad date", http.MethodPost, "/competitions", api.creatorCaller(), map[string]any{"start_date": "01/05/2026"}, http.StatusBadRequest, "INVALID_DATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.who, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestEnrollmentEndpoints(t *testing.T) {
	api := newTestAPI(t)
	c := api.activeCompetition("Capacity Classic", 2)
	base := "/competitions/" + c.ID

	first := &caller{id: uuid.New()}
	rec := api.do(http.MethodPost, base+"/enrollments", first, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	requested := decode[handler.EnrollmentResponse](t, rec)
	assert.Equal(t, "REQUESTED", requested.Status)

	t.Run("duplicate request", func(t *testing.T) {
		rec := api.do(http.MethodPost, base+"/enrollments", first, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "DUPLICATE_ENROLLMENT", errorCode(t, rec))
	})

	t.Run("others only see approved players", func(t *testing.T) {
		rec := api.do(http.MethodGet, base+"/enrollments", first, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[handler.EnrollmentListResponse](t, rec).Enrollments)

		rec = api.do(http.MethodGet, base+"/enrollments", api.creatorCaller(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[handler.EnrollmentListResponse](t, rec).Enrollments, 1)
	})

	t.Run("approve and fill up", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/enrollments/"+requested.ID+"/approve", api.creatorCaller(), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "APPROVED", decode[handler.EnrollmentResponse](t, rec).Status)

		rec = api.do(http.MethodPost, base+"/enrollments/direct", api.creatorCaller(),
			handler.EnrollPlayerRequest{UserID: uuid.NewString(), CustomHandicap: ptr(7.5)})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		direct := decode[handler.EnrollmentResponse](t, rec)
		assert.Equal(t, 7.5, *direct.CustomHandicap)

		rec = api.do(http.MethodPost, base+"/enrollments/direct", api.creatorCaller(),
			handler.EnrollPlayerRequest{UserID: uuid.NewString()})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "COMPETITION_FULL", errorCode(t, rec))
	})

	t.Run("team and handicap", func(t *testing.T) {
		rec := api.do(http.MethodPut, "/enrollments/"+requested.ID+"/team", api.creatorCaller(), handler.AssignTeamRequest{TeamID: "2"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "2", *decode[handler.EnrollmentResponse](t, rec).TeamID)

		rec = api.do(http.MethodPut, "/enrollments/"+requested.ID+"/handicap", api.creatorCaller(), handler.SetHandicapRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = api.do(http.MethodPut, "/enrollments/"+requested.ID+"/handicap", api.creatorCaller(), handler.SetHandicapRequest{Handicap: ptr(60.0)})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_HANDICAP", errorCode(t, rec))
	})

	t.Run("withdraw and list mine", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/enrollments/"+requested.ID+"/cancel", first, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = api.do(http.MethodPost, "/enrollments/"+requested.ID+"/withdraw", first, handler.CancelRequest{Reason: ptr("injury")})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "WITHDRAWN", decode[handler.EnrollmentResponse](t, rec).Status)

		rec = api.do(http.MethodGet, "/enrollments/mine?status=withdrawn", first, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[handler.EnrollmentListResponse](t, rec).Enrollments, 1)
	})

	t.Run("stats", func(t *testing.T) {
		rec := api.do(http.MethodGet, base+"/stats", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		stats := decode[handler.StatsResponse](t, rec).Stats
		assert.ElementsMatch(t, []handler.StatusCountResponse{
			{Status: "APPROVED", Count: 1},
			{Status: "WITHDRAWN", Count: 1},
		}, stats)

		rec = api.do(http.MethodGet, "/stats/competitions", api.creatorCaller(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []handler.StatusCountResponse{{Status: "ACTIVE", Count: 1}}, decode[handler.StatsResponse](t, rec).Stats)
	})
}

func TestInvitationEndpoints(t *testing.T) {
	api := newTestAPI(t)
	c := api.activeCompetition("Invitational", 8)
	invitee := &caller{id: uuid.New(), email: "Guest@Example.com"}

	rec := api.do(http.MethodPost, "/competitions/"+c.ID+"/invitations", api.creatorCaller(), handler.SendInvitationRequest{
		InviteeEmail:    "guest@example.com",
		PersonalMessage: ptr("we need a fourth"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inv := decode[handler.InvitationResponse](t, rec)
	assert.Equal(t, "PENDING", inv.Status)
	assert.Nil(t, inv.InviteeUserID)

	t.Run("duplicate pending invitation", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/competitions/"+c.ID+"/invitations", api.creatorCaller(),
			handler.SendInvitationRequest{InviteeEmail: "GUEST@example.com"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "DUPLICATE_INVITATION", errorCode(t, rec))
	})

	t.Run("someone else cannot answer", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/invitations/"+inv.ID+"/accept", &caller{id: uuid.New(), email: "other@example.com"}, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invitee lists and accepts", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/invitations/mine?status=pending", invitee, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[handler.InvitationListResponse](t, rec).Invitations, 1)

		rec = api.do(http.MethodPost, "/invitations/"+inv.ID+"/accept", invitee, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[handler.AcceptInvitationResponse](t, rec)
		assert.Equal(t, "ACCEPTED", resp.Invitation.Status)
		assert.Equal(t, "APPROVED", resp.Enrollment.Status)
		assert.Equal(t, invitee.id.String(), resp.Enrollment.UserID)
		require.NotNil(t, resp.Invitation.EnrollmentID)
		assert.Equal(t, resp.Enrollment.ID, *resp.Invitation.EnrollmentID)

		rec = api.do(http.MethodPost, "/invitations/"+inv.ID+"/decline", invitee, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("creator lists competition invitations", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/competitions/"+c.ID+"/invitations", api.creatorCaller(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[handler.InvitationListResponse](t, rec).Invitations
		require.Len(t, list, 1)
		assert.Equal(t, "ACCEPTED", list[0].Status)

		rec = api.do(http.MethodGet, "/invitations/"+inv.ID, invitee, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOperationalEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.createCompetition("Metrics Open", 4)

	rec := api.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = api.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `competitions_domain_events_total{event="competition.created"} 1`)
	assert.True(t, strings.Contains(body, `competitions_units_of_work_total{outcome="commit"}`))
}

type failingStats struct{}

func (failingStats) GetEnrollmentStats(context.Context, uuid.UUID) ([]*domain.EnrollmentStatusStat, error) {
	return nil, errors.New("connection refused")
}

func (failingStats) GetCompetitionStats(context.Context, uuid.UUID) ([]*domain.CompetitionStatusStat, error) {
	return nil, errors.New("connection refused")
}

func TestUnexpectedErrorsAreHidden(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)
	h := handler.NewHandler(nil, nil, nil, failingStats{}, log)
	mux := NewMux(h, prometheus.NewRegistry(), log)

	req := httptest.NewRequest(http.MethodGet, "/competitions/"+uuid.NewString()+"/stats", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, rec))
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, logs.String(), "connection refused")
}

func ptr[T any](v T) *T {
	return &v
}
