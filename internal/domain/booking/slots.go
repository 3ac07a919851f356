package booking

import (
	"time"

	"github.com/glowpoint/salon-api/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DayFilter narrows a date range during batch free-time generation.
type DayFilter string

const (
	DaysAll      DayFilter = "all"
	DaysWorkdays DayFilter = "workdays"
	DaysWeekends DayFilter = "weekends"
)

func (f DayFilter) matches(d time.Weekday) bool {
	switch f {
	case DaysWorkdays:
		return d != time.Saturday && d != time.Sunday
	case DaysWeekends:
		return d == time.Saturday || d == time.Sunday
	default:
		return true
	}
}

// ExpandDates lists every date in [from, to] matching the filter, in wire
// format and ascending order.
func ExpandDates(from, to string, filter DayFilter) ([]string, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if end.Before(start) {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if filter.matches(d.Weekday()) {
			dates = append(dates, d.Format(DateLayout))
		}
	}
	return dates, nil
}

// MinutesOfDay converts "15:04" into minutes since midnight.
func MinutesOfDay(tm string) (int, error) {
	t, err := time.Parse(TimeLayout, tm)
	if err != nil {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	return t.Hour()*60 + t.Minute(), nil
}

// TooClose reports whether candidate falls within gapMinutes of any existing
// time on the same specialist/date. The scheduling buffer between adjacent
// slots is configurable; it defaults to 5 minutes.
func TooClose(existing []string, candidate string, gapMinutes int) bool {
	cm, err := MinutesOfDay(candidate)
	if err != nil {
		return true
	}

	for _, e := range existing {
		em, err := MinutesOfDay(e)
		if err != nil {
			continue
		}
		diff := cm - em
		if diff < 0 {
			diff = -diff
		}
		if diff < gapMinutes {
			return true
		}
	}
	return false
}
