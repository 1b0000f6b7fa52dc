package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is applied when the request does not specify one.
	DefaultLimit = 20
	// MaxLimit caps the page size regardless of what the client asks for.
	MaxLimit = 100
)

// Params holds limit/offset pagination parameters extracted from query strings.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{Limit: DefaultLimit, Offset: 0}
}

// FromRequest extracts limit/offset from an HTTP request. Out-of-range or
// unparseable values fall back to defaults: limit is clamped to [1, MaxLimit],
// offset to >= 0.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			p.Limit = Clamp(v)
		}
	}

	if offset := r.URL.Query().Get("offset"); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil && v >= 0 {
			p.Offset = v
		}
	}

	return p
}

// Clamp forces a requested limit into [1, MaxLimit]. Non-positive values
// fall back to DefaultLimit.
func Clamp(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Result wraps a paginated list response, echoing the effective limit and
// offset so clients can page without re-deriving them.
type Result[T any] struct {
	Data   []T `json:"data"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewResult creates a paginated result. A nil data slice becomes an empty
// slice so the JSON output is always an array.
func NewResult[T any](data []T, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Data:   data,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
}
