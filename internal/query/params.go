package query

import (
	"net/url"
	"strconv"
	"strings"
)

const msgInteger = "A valid integer is required."

// ParseID reads an optional positive integer parameter. An absent or empty
// value yields nil.
func ParseID(values url.Values, key string) (*uint, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}

	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return nil, FieldErrors{key: msgInteger}
	}

	id := uint(n)
	return &id, nil
}
