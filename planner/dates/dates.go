// Package dates has the UTC calendar-day helpers used to materialize the
// schedule of whole-day and multi-day events.
package dates

import "time"

// StartOfDayUTC returns midnight UTC of the calendar day t falls on in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EnumerateDaysInclusiveUTC returns every UTC midnight from the day of start
// to the day of end, both included. It returns nil when end falls on an
// earlier day than start.
func EnumerateDaysInclusiveUTC(start, end time.Time) []time.Time {
	cur := StartOfDayUTC(start)
	last := StartOfDayUTC(end)

	var days []time.Time
	for !cur.After(last) {
		days = append(days, cur)
		cur = cur.AddDate(0, 0, 1)
	}
	return days
}

// SameUTCDay reports whether a and b fall on the same UTC calendar day.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
