package entity

import "time"

// WeekTarget selects the week an on-duty batch applies to.
type WeekTarget string

const (
	WeekCurrent WeekTarget = "current"
	WeekNext    WeekTarget = "next"
)

// WeekRange is an ISO week, Monday 00:00:00 through Sunday 23:59:59.
type WeekRange struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the Monday-start week containing t, in t's location.
func WeekOf(t time.Time) WeekRange {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// time.Sunday == 0, so shift to make Monday the first day
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 7).Add(-time.Second)
	return WeekRange{Start: start, End: end}
}

// ResolveWeek returns the current or next week relative to now.
func ResolveWeek(now time.Time, target WeekTarget) WeekRange {
	if target == WeekNext {
		return WeekOf(now.AddDate(0, 0, 7))
	}
	return WeekOf(now)
}

// StartDate is the Monday as a calendar date, detached from any timezone.
func (w WeekRange) StartDate() time.Time {
	return CalendarDate(w.Start)
}

// EndDate is the Sunday as a calendar date.
func (w WeekRange) EndDate() time.Time {
	return CalendarDate(w.End)
}

// CalendarDate keeps the year/month/day of t and pins it to midnight UTC,
// which is how date columns are stored.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
