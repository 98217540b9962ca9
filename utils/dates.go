package utils

import "time"

// FormatShortDate renders a calendar date like "Jan 10, 2024" (document layout).
func FormatShortDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatLongDate renders a calendar date like "January 10, 2024" (email display).
func FormatLongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
