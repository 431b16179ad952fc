package server

import "time"

// Duration parses value and returns fallback when it is empty, malformed or not positive.
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
