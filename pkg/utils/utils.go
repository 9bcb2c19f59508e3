package utils

import "strings"

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

func ToPointer[T any](value T) *T {
	return &value
}

// NormalizeTicker upper-cases and trims a ticker symbol or security name.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
