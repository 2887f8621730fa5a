package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatGPSPair renders window bounds as the comma-joined integer pair used
// in persisted records, e.g. "1264312000,1264312010".
func FormatGPSPair(start, end float64) string {
	return fmt.Sprintf("%d,%d", int64(start), int64(end))
}

// ParseGPSPair parses a comma-joined pair of integer GPS bounds.
func ParseGPSPair(value string) (int64, int64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed gps pair %q", value)
	}
	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse gps start: %w", err)
	}
	end, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse gps end: %w", err)
	}
	return start, end, nil
}
