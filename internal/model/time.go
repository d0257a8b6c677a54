package model

import (
	"fmt"
	"time"
)

// TimeWindow is the time range a query is bounded to. Start is inclusive,
// End is exclusive.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Today returns the window from the start of the local day of now until now.
func Today(now time.Time) TimeWindow {
	return TimeWindow{
		Start: startOfDay(now),
		End:   now,
	}
}

// ISOWeek returns the window of the ISO week of now, from Monday 00:00
// local time and 7 days long.
func ISOWeek(now time.Time) TimeWindow {
	day := startOfDay(now)
	// ISO weeks start on monday, time.Weekday starts on sunday.
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return TimeWindow{
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}
}

// Duration returns the length of the window.
func (t TimeWindow) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Contains returns true if ts is inside the window.
func (t TimeWindow) Contains(ts time.Time) bool {
	return !ts.Before(t.Start) && ts.Before(t.End)
}

func (t TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s)", t.Start.Format(time.RFC3339), t.End.Format(time.RFC3339))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
