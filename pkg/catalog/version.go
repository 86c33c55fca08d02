package catalog

import (
	"slices"
	"strings"
)

// CompareVersions compares two version strings and returns -1, 0 or +1.
//
// Both strings are split into maximal digit and non-digit runs. Runs are
// compared pairwise: two digit runs by numeric value (any length, leading
// zeros ignored), anything else byte-wise. When all shared runs are equal
// the string with fewer runs sorts first.
func CompareVersions(a, b string) int {
	for a != "" && b != "" {
		ra, restA := nextRun(a)
		rb, restB := nextRun(b)

		var c int
		if isDigit(ra[0]) && isDigit(rb[0]) {
			c = compareNumeric(ra, rb)
		} else {
			c = strings.Compare(ra, rb)
		}
		if c != 0 {
			return c
		}
		a, b = restA, restB
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// SortDescending sorts records by version, greatest first. The sort is
// stable, so equal versions keep their input order.
func SortDescending(records []Record) {
	slices.SortStableFunc(records, func(x, y Record) int {
		return CompareVersions(y.Version, x.Version)
	})
}

// nextRun splits off the leading digit or non-digit run of a non-empty s.
func nextRun(s string) (run, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
