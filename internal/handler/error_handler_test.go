package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/competitions/internal/domain"
)

func TestHandleError(t *testing.T) {
	h := &Handler{log: zerolog.Nop()}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthenticated", errUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"wrapped unauthenticated", fmt.Errorf("actor: %w", errUnauthenticated), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"bad request", errBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", domain.ErrCompetitionNotFound, http.StatusNotFound, domain.ErrCompetitionNotFound.Code},
		{"state", domain.Newf(domain.ErrCompetitionState, "already active"), http.StatusConflict, domain.ErrCompetitionState.Code},
		{"business rule", domain.ErrCompetitionFull, http.StatusUnprocessableEntity, domain.ErrCompetitionFull.Code},
		{"domain error without a kind", &domain.DomainError{Code: "ODD", Message: "odd"}, http.StatusInternalServerError, "ODD"},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/competitions", nil)

			h.handleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}
