package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/service"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"

	maxBodyBytes = 1 << 20
	maxPageSize  = 100
)

// actor reads the caller identity set by the upstream gateway.
func actor(r *http.Request) (service.Actor, error) {
	id, err := uuid.Parse(strings.TrimSpace(r.Header.Get(HeaderUserID)))
	if err != nil || id == uuid.Nil {
		return service.Actor{}, errUnauthenticated
	}
	return service.Actor{UserID: id, Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail))}, nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Newf(errBadRequest, "%s must be a uuid", name)
	}
	return id, nil
}

// decodeJSON accepts an empty body as the zero value of dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.Newf(errBadRequest, "invalid request body: %v", err)
	}
	return nil
}

func parseDate(raw, field string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, domain.Newf(domain.ErrInvalidDate, "%s must be formatted as YYYY-MM-DD", field)
	}
	return t, nil
}

func parseOptionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseDate(*raw, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type pageParams struct {
	limit  int
	offset int
}

func parsePage(r *http.Request) (pageParams, error) {
	q := r.URL.Query()
	var p pageParams
	for _, f := range []struct {
		name string
		dst  *int
	}{{"limit", &p.limit}, {"offset", &p.offset}} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return pageParams{}, domain.Newf(errBadRequest, "%s must be a non-negative integer", f.name)
		}
		*f.dst = n
	}
	if p.limit > maxPageSize {
		p.limit = maxPageSize
	}
	return p, nil
}

// parseStatus returns nil when the status query parameter is absent.
func parseStatus[S ~string](r *http.Request, parse func(string) (S, error)) (*S, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	s, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
