package subscription

import "time"

// ReminderOffsets are the lead times, in days, scanned on every run.
var ReminderOffsets = []int{1, 3, 7, 14}

// DefaultReminderDays is shown in the reminder text when a subscription has no lead time set.
const DefaultReminderDays = 3

// Window is a closed interval [Start, End] over NextBillDate.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the closed window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// TargetDate returns the calendar date offsetDays after the date of now in homeZone.
func TargetDate(now time.Time, homeZone *time.Location, offsetDays int) (int, time.Month, int) {
	local := now.In(homeZone)
	target := time.Date(local.Year(), local.Month(), local.Day()+offsetDays, 12, 0, 0, 0, homeZone)
	return target.Date()
}

// WindowFor returns the UTC day covering the target date. The date itself is
// picked in homeZone; bill dates are stored as UTC-midnight calendar dates, so
// the edges are expressed in UTC.
func WindowFor(now time.Time, homeZone *time.Location, offsetDays int) Window {
	y, m, d := TargetDate(now, homeZone, offsetDays)
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return Window{Start: start, End: end}
}
