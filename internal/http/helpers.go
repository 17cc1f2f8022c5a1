package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"expenses/internal/core"
)

// ParseListFilter reads category and sort from a query string. The
// category is matched exactly, surrounding spaces included; an empty or
// absent category means no filter. Unknown sort values fall back to
// date_asc.
func ParseListFilter(query url.Values) core.ListFilter {
	return core.ListFilter{
		Category: query.Get("category"),
		Sort:     core.ParseSortOrder(strings.TrimSpace(query.Get("sort"))),
	}
}

func parseErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func parseErrorMessage(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return "request body too large"
	case errors.Is(err, ErrNotObject):
		return "request body must be a JSON object"
	case errors.Is(err, ErrInvalidForm):
		return "invalid form body"
	default:
		return "invalid JSON body"
	}
}
