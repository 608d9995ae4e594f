// Package selector holds the pure filtering applied to admin tables that
// load their full row set into memory (coupons, inventory, returns). The
// same rows/query/predicates always yield the same result, so handlers can
// recompute it per request without imperative bookkeeping.
package selector

import "strings"

// Predicate is an equality-style filter such as a status or category match.
type Predicate[T any] func(T) bool

// Fields extracts the searchable string fields of a row.
type Fields[T any] func(T) []string

// Apply filters rows by case-insensitive substring match of query against
// any searchable field, then by every predicate. An empty query matches all
// rows, and applying the same filter twice equals applying it once.
func Apply[T any](rows []T, query string, fields Fields[T], preds ...Predicate[T]) []T {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if query != "" && !matches(query, fields(row)) {
			continue
		}
		if !allow(row, preds) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matches(query string, fields []string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func allow[T any](row T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(row) {
			return false
		}
	}
	return true
}

// Equals builds a predicate comparing an extracted field to want. An empty
// want disables the filter, mirroring an "all" dropdown option.
func Equals[T any](extract func(T) string, want string) Predicate[T] {
	if want == "" {
		return nil
	}
	return func(row T) bool {
		return strings.EqualFold(extract(row), want)
	}
}
