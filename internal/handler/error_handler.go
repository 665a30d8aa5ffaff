package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairway/competitions/internal/domain"
)

// Request-level failures detected before a use case runs.
var (
	errUnauthenticated = &domain.DomainError{Code: "UNAUTHENTICATED", Message: "missing or invalid X-User-ID header"}
	errBadRequest      = &domain.DomainError{Kind: domain.KindValidation, Code: "BAD_REQUEST", Message: "malformed request"}
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errUnauthenticated) {
		writeDomainError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		writeDomainError(w, getStatusCode(domainErr), domainErr)
		return
	}

	h.log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		},
	})
}

func writeDomainError(w http.ResponseWriter, status int, err *domain.DomainError) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    err.Code,
			Message: err.Message,
		},
	})
}

func getStatusCode(err *domain.DomainError) int {
	switch err.Kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindState:
		return http.StatusConflict
	case domain.KindBusinessRule:
		return http.StatusUnprocessableEntity
	case domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}
