package utils

import (
	"net/http"
	"strconv"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ParsePagination čita page i limit parametre iz upita.
// page mora biti >= 1, limit u opsegu [1, 100].
func ParsePagination(r *http.Request) (int, int, error) {
	page := 1
	limit := defaultLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, NewValidation("Invalid pagination parameters", "page must be a positive integer")
		}
		page = parsed
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLimit {
			return 0, 0, NewValidation("Invalid pagination parameters", "limit must be between 1 and 100")
		}
		limit = parsed
	}

	return page, limit, nil
}
