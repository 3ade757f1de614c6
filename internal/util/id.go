// Package util provides shared utility functions.
package util

// DefaultShortIDLength is the default number of characters for short IDs.
const DefaultShortIDLength = 8

// ShortID returns a shortened version of an ID for display. If n is 0 or
// negative, DefaultShortIDLength is used.
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}
