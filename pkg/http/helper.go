package http

import (
	"net/http"
	"strconv"
	"time"

	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
)

// ExtractLimitOffset parses and normalizes the limit/offset query
// parameters shared by every list endpoint.
func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = n
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = n
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// MissingParam builds the invalid-input error for a required query
// parameter that was not supplied.
func MissingParam(name string) error {
	return apperrors.InvalidInput("missing required query parameter: " + name)
}

// ExtractTime parses an optional RFC3339 query parameter. Returns nil when
// the parameter is absent.
func ExtractTime(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " format, must be RFC3339")
	}
	return &parsed, nil
}
