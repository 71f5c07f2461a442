package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

// HashParts folds a list of values into one deterministic key string.
// Each part is JSON-encoded (encoding/json sorts map keys), so equal
// inputs always hash equal.
func HashParts(parts ...interface{}) string {
	var b strings.Builder
	for _, part := range parts {
		encoded, err := json.Marshal(part)
		if err != nil {
			b.WriteString(fmt.Sprintf("%v", part))
		} else {
			b.Write(encoded)
		}
		b.WriteByte('|')
	}
	return b.String()
}

// Clamp bounds v to [lo,hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
