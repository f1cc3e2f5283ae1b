// Package query turns request query strings into typed filters, orderings and
// page windows, and applies them to GORM statements.
package query

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidPage is returned for a page number that is not a positive integer
// or lies past the last page.
var ErrInvalidPage = errors.New("Invalid page.")

// FieldErrors maps a query parameter name to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid query: " + strings.Join(parts, "; ")
}

func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
