package v1

import (
	"fmt"
	"net/http"
	"strconv"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed page size.
const MaxLimit = 100

// PaginationParams holds pagination parameters parsed from query strings.
type PaginationParams struct {
	limit  int
	offset int
}

// NewPaginationParams creates pagination params with defaults.
func NewPaginationParams() PaginationParams {
	return PaginationParams{limit: DefaultLimit}
}

// ParsePagination parses the limit and offset query parameters.
// Default: limit=20, offset=0. Max limit: 100.
func ParsePagination(r *http.Request) (PaginationParams, error) {
	params := NewPaginationParams()
	q := r.URL.Query()

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			return params, fmt.Errorf("limit must be a positive integer, got %q", s)
		}
		params = params.WithLimit(limit)
	}

	if s := q.Get("offset"); s != "" {
		offset, err := strconv.Atoi(s)
		if err != nil || offset < 0 {
			return params, fmt.Errorf("offset must be a non-negative integer, got %q", s)
		}
		params.offset = offset
	}

	return params, nil
}

// Limit returns the page size.
func (p PaginationParams) Limit() int { return p.limit }

// Offset returns the number of items skipped.
func (p PaginationParams) Offset() int { return p.offset }

// WithLimit returns a copy with the specified limit, clamped to MaxLimit.
func (p PaginationParams) WithLimit(limit int) PaginationParams {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	p.limit = limit
	return p
}
