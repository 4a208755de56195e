package util

import (
	"strconv"
)

// MustParseUint parses an id path segment, returning 0 when it is not a
// number. Callers treat 0 as "not found".
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}
