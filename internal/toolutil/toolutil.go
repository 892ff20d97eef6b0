// Package toolutil provides shared helpers for go_pathway MCP tools.
package toolutil

import (
	"strconv"
	"strings"
)

// ParseBucketValue converts a stated bucket string to a representative
// number: "1-3" gives the midpoint, "16+" gives 17, a plain number gives
// itself. Unparsable input gives 0 so downstream factor tables apply
// their defaults.
func ParseBucketValue(s string) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "hours")
	s = strings.TrimSuffix(s, "years")
	s = strings.TrimSpace(strings.TrimSuffix(s, "h"))

	if strings.HasSuffix(s, "+") {
		if n, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64); err == nil {
			return n + 1
		}
		return 0
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		a, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		b, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err1 == nil && err2 == nil {
			return (a + b) / 2
		}
		return 0
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return 0
}

// NormSource normalises a skill-source field: empty string means resume.
func NormSource(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "resume"
	}
	return s
}
