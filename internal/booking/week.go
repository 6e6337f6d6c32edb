package booking

import (
	"fmt"
	"time"
)

// WeekWindow computes the Monday-to-Sunday window containing pivot, in
// pivot's location. The window starts Monday 00:00:00 and ends Sunday
// 23:59:59.999; it is the sole date range sent to the appointments
// backend. A Sunday pivot wraps back six days instead of producing a
// negative offset.
func WeekWindow(pivot time.Time) (start, end time.Time) {
	back := (int(pivot.Weekday()) + 6) % 7
	y, m, d := pivot.AddDate(0, 0, -back).Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, pivot.Location())
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// ParseServerTime parses a timestamp string from the appointments backend.
// The backend is the source of truth for timezone and emits UTC; strings
// that lack a zone designator get a "Z" appended so they are never
// misread as local time.
func ParseServerTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s+"Z"); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
