package memo

import "time"

// nextOccurrence advances a fire time by one recurrence interval. Monthly and
// yearly stepping use calendar arithmetic, so a Jan 31 monthly reminder
// normalizes forward the way time.AddDate does.
func nextOccurrence(t time.Time, repeat RepeatType) time.Time {
	switch repeat {
	case RepeatDaily:
		return t.AddDate(0, 0, 1)
	case RepeatWeekly:
		return t.AddDate(0, 0, 7)
	case RepeatMonthly:
		return t.AddDate(0, 1, 0)
	case RepeatYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// latestOccurrence computes the most recent fire instance at or before now.
// The base fire time is the first occurrence; recurrence steps forward from
// there, bounded by the optional until date (inclusive). Returns false when
// no occurrence has fired yet. All comparisons are wall-clock in the zone
// the fire times are stored in; the reminder's timezone_offset is display
// metadata for clients, not an input here.
func latestOccurrence(base time.Time, repeat RepeatType, until *time.Time, now time.Time) (time.Time, bool) {
	if base.After(now) {
		return time.Time{}, false
	}
	if repeat == RepeatNone {
		return base, true
	}

	occ := base
	for {
		next := nextOccurrence(occ, repeat)
		if next.After(now) || !withinUntil(next, until) {
			return occ, true
		}
		occ = next
	}
}

// withinUntil reports whether an occurrence falls on or before the until
// date. until carries no time component, so the whole final day counts.
func withinUntil(occ time.Time, until *time.Time) bool {
	if until == nil {
		return true
	}
	return occ.Before(until.AddDate(0, 0, 1))
}
