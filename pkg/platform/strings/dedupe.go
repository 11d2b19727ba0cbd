// Package strings provides string slice normalization helpers for config
// values such as broker lists and classifier type tokens.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each element and drops blanks and repeats, keeping
// first-seen order.
//
//	DedupeAndTrim([]string{" kafka-1:9092", "kafka-2:9092", "kafka-1:9092 ", ""})
//	// []string{"kafka-1:9092", "kafka-2:9092"}
func DedupeAndTrim(values []string) []string {
	return normalize(values, strings.TrimSpace)
}

// DedupeAndTrimUpper is DedupeAndTrim with upper-casing, so tokens that
// differ only in case collapse into one.
//
//	DedupeAndTrimUpper([]string{" paper", "PAPER", "Book"})
//	// []string{"PAPER", "BOOK"}
func DedupeAndTrimUpper(values []string) []string {
	return normalize(values, func(s string) string {
		return strings.ToUpper(strings.TrimSpace(s))
	})
}

// SplitList splits a comma-separated value and normalizes it with
// DedupeAndTrim. An empty input yields nil.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(value, ","))
}

func normalize(values []string, fn func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		n := fn(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}
