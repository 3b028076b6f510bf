// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qa

import (
	"net/url"
	"strconv"

	"github.com/samber/oops"
)

// Pagination selects a window of a newest-first listing.
// A nil Limit means no cap.
type Pagination struct {
	Limit  *int
	Offset int
}

// Page returns a Pagination with both bounds set.
func Page(limit, offset int) Pagination {
	return Pagination{Limit: &limit, Offset: offset}
}

// ParsePagination reads "limit" and "offset" from query values.
// Neither present selects everything. Exactly one present is an error,
// never a default.
func ParsePagination(values url.Values) (Pagination, error) {
	_, hasLimit := values["limit"]
	_, hasOffset := values["offset"]

	switch {
	case !hasLimit && !hasOffset:
		return Pagination{}, nil
	case !hasLimit || !hasOffset:
		return Pagination{}, oops.Code("PAGINATION_MISSING_PARAMETERS").
			With("has_limit", hasLimit).
			With("has_offset", hasOffset).
			Errorf("limit and offset must be given together")
	}

	limit, err := parseBound("limit", values.Get("limit"))
	if err != nil {
		return Pagination{}, err
	}
	offset, err := parseBound("offset", values.Get("offset"))
	if err != nil {
		return Pagination{}, err
	}
	return Page(limit, offset), nil
}

func parseBound(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, oops.Code("PAGINATION_INVALID").With("param", name).Wrap(err)
	}
	if n < 0 {
		return 0, oops.Code("PAGINATION_INVALID").With("param", name).Errorf("%s must be non-negative, got %d", name, n)
	}
	return n, nil
}

// Window applies the pagination to a slice length, returning the [start, end)
// bounds to keep. Limits up to math.MaxInt are clamped without overflow.
func (p Pagination) Window(n int) (start, end int) {
	start = min(p.Offset, n)
	end = n
	if p.Limit != nil && *p.Limit < n-start {
		end = start + *p.Limit
	}
	return start, end
}
