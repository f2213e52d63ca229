package pagination

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size used when the client sends none.
	DefaultLimit = 12
	// MaxLimit caps the page size; larger requests are clamped, not rejected.
	MaxLimit = 50
)

// Params holds listing parameters extracted from the query string. Page and
// Limit are always in their valid ranges after FromRequest.
type Params struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Query string `json:"-"`
}

// Offset returns the number of records to skip for the current page. The
// multiplication saturates at the int ceiling so absurdly large page numbers
// cannot wrap into a negative offset; the store then returns zero rows, which
// is the defined behavior for pages past the end of the data.
func (p Params) Offset() int {
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// FromRequest extracts page, limit, and q from an HTTP request.
// Non-numeric or non-positive page coerces to 1. Limit defaults to 12 and is
// clamped into [1, MaxLimit]. There is no upper bound on page itself; pages
// past the end of the data simply come back empty.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	return Params{
		Page:  parsePage(q.Get("page")),
		Limit: parseLimit(q.Get("limit")),
		Query: strings.TrimSpace(q.Get("q")),
	}
}

func parsePage(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 1
	}
	return v
}

func parseLimit(raw string) int {
	if raw == "" {
		return DefaultLimit
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}
	if v < 1 {
		return 1
	}
	if v > MaxLimit {
		return MaxLimit
	}
	return v
}

// Result is the listing response envelope.
type Result[T any] struct {
	Data    []T  `json:"data"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
}

// NewResult builds a Result. HasNext is exactly page*limit < total; this
// formula is part of the API contract and must not be replaced with a
// "got a full page" heuristic.
func NewResult[T any](data []T, total int, p Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Data:    data,
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		HasNext: hasNextPage(p.Page, p.Limit, total),
	}
}

// hasNextPage is page*limit < total with the product saturated at the int
// ceiling: once page*limit would overflow it already exceeds any possible
// total, so there is no next page. Non-overflowing inputs evaluate the exact
// formula.
func hasNextPage(page, limit, total int) bool {
	if page > math.MaxInt/limit {
		return false
	}
	return page*limit < total
}
