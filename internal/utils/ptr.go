package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

func OrZero[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// Coalesce returns the first value that is not empty after trimming whitespace
func Coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
