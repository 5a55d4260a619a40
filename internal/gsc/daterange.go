package gsc

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
)

// isoDate is the wire format for startDate and endDate.
const isoDate = "2006-01-02"

// Date keywords resolved against the clock at call time.
const (
	KeywordToday     = "today"
	KeywordYesterday = "yesterday"
)

// ResolveDateRange turns the flexible date inputs accepted by Query.Range
// into the inclusive ISO pair the API expects.
//
// start and stop each accept a time.Time, a parseable date string, or the
// keywords "today" and "yesterday"; nil or "" leaves the endpoint unset.
// An unset start defaults to yesterday, the freshest day the API is
// guaranteed to have finalized. An unset stop collapses the range to the
// single start day.
//
// Non-zero days/months place stop relative to start instead; combining
// them with an explicit stop is an error. Because the API treats both
// endpoints as inclusive, the day offset is shortened by one toward
// start: days=7 covers seven calendar days, and months=1 from Jan 1 ends
// on Jan 31. Negative offsets reach into the past the same way.
//
// The returned pair is always ordered earliest-first; reversed inputs are
// swapped, never rejected.
func ResolveDateRange(start, stop any, days, months int) (string, string, error) {
	from, fromSet, err := normalizeDate(start)
	if err != nil {
		return "", "", err
	}

	to, toSet, err := normalizeDate(stop)
	if err != nil {
		return "", "", err
	}

	if !fromSet {
		from = dateOnly(time.Now().AddDate(0, 0, -1))
	}

	if days != 0 || months != 0 {
		if toSet {
			return "", "", fmt.Errorf("%w: a date range cannot be defined alongside months or days", domain.ErrInvalidConfiguration)
		}

		// Shorten the day offset by one so the inclusive window spans
		// exactly |days| calendar days. Month offsets shift first, then
		// take the same adjustment.
		adjusted := days
		if days < 0 || months < 0 {
			adjusted++
		} else {
			adjusted--
		}

		to = addMonthsClamped(from, months).AddDate(0, 0, adjusted)
		toSet = true
	}

	if !toSet {
		to = from
	}

	if to.Before(from) {
		from, to = to, from
	}

	return from.Format(isoDate), to.Format(isoDate), nil
}

// normalizeDate coerces one endpoint input to a calendar date. The second
// return value reports whether the input carried a date at all.
func normalizeDate(v any) (time.Time, bool, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return dateOnly(d), true, nil
	case string:
		switch d {
		case "":
			return time.Time{}, false, nil
		case KeywordToday:
			return dateOnly(time.Now()), true, nil
		case KeywordYesterday:
			return dateOnly(time.Now().AddDate(0, 0, -1)), true, nil
		}

		parsed, err := dateparse.ParseAny(d)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: %q: %w", domain.ErrDateParse, d, err)
		}

		return dateOnly(parsed), true, nil
	default:
		return time.Time{}, false, fmt.Errorf("%w: unsupported date type %T", domain.ErrDateParse, v)
	}
}

// addMonthsClamped shifts t by whole calendar months, clamping the day of
// month to the target month's last day. time.AddDate alone would roll
// Jan 31 + 1 month over to Mar 3.
func addMonthsClamped(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}

	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())

	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// dateOnly truncates a timestamp to a UTC calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
