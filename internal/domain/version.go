package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// IsValidVersion reports whether v is exactly three dot-separated numeric
// components, e.g. "1.2.3".
func IsValidVersion(v string) bool {
	return versionPattern.MatchString(v)
}

// IncrementVersion bumps the patch component of v. Input that is not a valid
// version, or one whose patch cannot grow, is returned unchanged.
func IncrementVersion(v string) string {
	if !IsValidVersion(v) {
		return v
	}
	parts := strings.Split(v, ".")
	patch, err := strconv.Atoi(parts[2])
	if err != nil || patch == math.MaxInt {
		return v
	}
	parts[2] = strconv.Itoa(patch + 1)
	return strings.Join(parts, ".")
}
