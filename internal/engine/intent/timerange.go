// internal/engine/intent/timerange.go
package intent

import (
	"strings"
	"time"
)

// Relative date vocabulary, FR+EN, checked in order. First match wins so the
// more specific phrases come first ("last month" before "month").
var timePhrases = []struct {
	phrases []string
	resolve func(now time.Time) TimeRange
}{
	{
		phrases: []string{"aujourd'hui", "aujourd hui", "today"},
		resolve: func(now time.Time) TimeRange {
			return TimeRange{Start: startOfDay(now), End: endOfDay(now)}
		},
	},
	{
		phrases: []string{"demain", "tomorrow"},
		resolve: func(now time.Time) TimeRange {
			d := now.AddDate(0, 0, 1)
			return TimeRange{Start: startOfDay(d), End: endOfDay(d)}
		},
	},
	{
		phrases: []string{"hier", "yesterday"},
		resolve: func(now time.Time) TimeRange {
			d := now.AddDate(0, 0, -1)
			return TimeRange{Start: startOfDay(d), End: endOfDay(d)}
		},
	},
	{
		phrases: []string{"semaine dernière", "semaine derniere", "la semaine passée", "last week"},
		resolve: func(now time.Time) TimeRange {
			monday := mostRecentMonday(now).AddDate(0, 0, -7)
			return TimeRange{Start: monday, End: endOfDay(monday.AddDate(0, 0, 6))}
		},
	},
	{
		phrases: []string{"cette semaine", "this week"},
		resolve: func(now time.Time) TimeRange {
			return TimeRange{Start: mostRecentMonday(now), End: now}
		},
	},
	{
		phrases: []string{"mois dernier", "le mois passé", "last month"},
		resolve: func(now time.Time) TimeRange {
			first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
			last := first.AddDate(0, 1, -1)
			return TimeRange{Start: first, End: endOfDay(last)}
		},
	},
	{
		phrases: []string{"ce mois", "this month"},
		resolve: func(now time.Time) TimeRange {
			first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			return TimeRange{Start: first, End: now}
		},
	},
	{
		phrases: []string{"année dernière", "annee derniere", "l'an dernier", "last year"},
		resolve: func(now time.Time) TimeRange {
			first := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
			last := time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, now.Location())
			return TimeRange{Start: first, End: endOfDay(last)}
		},
	},
	{
		phrases: []string{"cette année", "cette annee", "this year"},
		resolve: func(now time.Time) TimeRange {
			first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
			return TimeRange{Start: first, End: now}
		},
	},
}

// ExtractTimeRange maps a relative date phrase in the query to absolute
// bounds. Returns nil when no phrase matches; callers then fall back to a
// domain-specific default window.
func ExtractTimeRange(query string, now time.Time) *TimeRange {
	q := strings.ToLower(query)
	for _, tp := range timePhrases {
		for _, phrase := range tp.phrases {
			if strings.Contains(q, phrase) {
				r := tp.resolve(now)
				return &r
			}
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay is 23:59:59.999999 of the given date, microsecond precision.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999000, t.Location())
}

func mostRecentMonday(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
