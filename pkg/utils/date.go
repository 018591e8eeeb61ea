package utils

import (
	"fmt"
	"time"
)

// ParseTimestamp accepts either RFC3339 timestamps or plain dates (interpreted as UTC midnight).
func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: expected RFC3339 or YYYY-MM-DD", value)
	}

	return t.UTC(), nil
}
