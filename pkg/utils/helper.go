package utils

import (
	"strconv"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseID converts a path or query parameter to a positive int64 identifier.
// Returns 0 when the value is missing or not a positive integer.
func ParseID(value string) int64 {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}

// CalculateTotalPages returns the page count for a total row count
func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
