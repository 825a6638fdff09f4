package service

import (
	"time"

	"go-bookkeeping-ws/internal/repository"
)

// PeriodRanges pairs the current window with the one it is compared against.
type PeriodRanges struct {
	Current  repository.DateSpan
	Previous repository.DateSpan
}

// calendarDate takes the wall-clock date of t in loc and returns it as UTC midnight,
// the representation used for transaction_date.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// DailyRanges: today vs yesterday.
func DailyRanges(now time.Time, loc *time.Location) PeriodRanges {
	today := calendarDate(now, loc)
	yesterday := today.AddDate(0, 0, -1)
	return PeriodRanges{
		Current:  repository.DateSpan{Start: today, End: today},
		Previous: repository.DateSpan{Start: yesterday, End: yesterday},
	}
}

// MonthlyRanges: [1st, last day] of this month vs the previous calendar month.
// January rolls back to December of the prior year.
func MonthlyRanges(now time.Time, loc *time.Location) PeriodRanges {
	today := calendarDate(now, loc)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return PeriodRanges{
		Current: repository.DateSpan{
			Start: first,
			End:   first.AddDate(0, 1, -1),
		},
		Previous: repository.DateSpan{
			Start: first.AddDate(0, -1, 0),
			End:   first.AddDate(0, 0, -1),
		},
	}
}
