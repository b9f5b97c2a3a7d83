// Package views computes read-only projections over a document: overdue
// status, hierarchy lookups, calendar spans, Gantt bars, to-do buckets and
// dashboard figures. Every function takes the reference date explicitly.
package views

import (
	"time"

	"cloud.google.com/go/civil"
)

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// WeekStart returns the Monday on or before d.
func WeekStart(d civil.Date) civil.Date {
	offset := (int(weekday(d)) + 6) % 7
	return d.AddDays(-offset)
}

func WeekEnd(d civil.Date) civil.Date {
	return WeekStart(d).AddDays(6)
}

func MonthStart(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

func MonthEnd(d civil.Date) civil.Date {
	return addMonths(MonthStart(d), 1).AddDays(-1)
}

// addMonths moves a first-of-month date by n months.
func addMonths(first civil.Date, n int) civil.Date {
	month := int(first.Month) - 1 + n
	year := first.Year + month/12
	month %= 12
	if month < 0 {
		month += 12
		year--
	}
	return civil.Date{Year: year, Month: time.Month(month + 1), Day: 1}
}

func within(d, start, end civil.Date) bool {
	return !d.Before(start) && !d.After(end)
}

func minDate(a, b civil.Date) civil.Date {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDate(a, b civil.Date) civil.Date {
	if a.After(b) {
		return a
	}
	return b
}

// DaysBetween lists every date from start to end inclusive.
func DaysBetween(start, end civil.Date) []civil.Date {
	if end.Before(start) {
		return nil
	}
	days := make([]civil.Date, 0, end.DaysSince(start)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
