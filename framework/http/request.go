package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryInt returns a query-string value parsed as an int, clamped to
// [lo, hi]. Missing or malformed values yield fallback.
func (req *Request) QueryInt(key string, fallback, lo, hi int) int {
	n, err := strconv.Atoi(req.raw.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return min(max(n, lo), hi)
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}
