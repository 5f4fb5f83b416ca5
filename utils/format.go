package utils

import "time"

// FormatDateTime renders timestamps the way the panel displays them,
// e.g. "01 May 2024, 10:00 AM".
func FormatDateTime(t time.Time) string {
	return t.Format("02 Jan 2006, 03:04 PM")
}
