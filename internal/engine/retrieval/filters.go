// internal/engine/retrieval/filters.go
package retrieval

import (
	"strings"
	"time"

	"crm-context-engine/internal/engine/domains"
	"crm-context-engine/internal/engine/intent"
)

// isGeneral reports whether the query targets the whole domain rather than a
// filtered subset ("how many clients do we have"). Keyword filtering on such
// queries would return nothing, so the fetchers bypass it and return the
// full capped set.
func isGeneral(q Query, domain string) bool {
	if q.Intent.IsCounting || q.Intent.IsListing {
		return true
	}
	spec, ok := domains.Lookup(domain)
	if !ok {
		return false
	}
	for _, kw := range q.Intent.Keywords {
		trigger := false
		for _, dk := range spec.Keywords {
			if strings.Contains(kw, dk) || strings.Contains(dk, kw) {
				trigger = true
				break
			}
		}
		if !trigger {
			return false
		}
	}
	return true
}

// matchesKeywords reports whether any keyword appears in any of the given
// text fields (case-insensitive).
func matchesKeywords(keywords []string, fields ...string) bool {
	for _, f := range fields {
		low := strings.ToLower(f)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(low, kw) {
				return true
			}
		}
	}
	return false
}

// matchesNames reports whether any candidate name appears in any field.
func matchesNames(names []string, fields ...string) bool {
	for _, f := range fields {
		low := strings.ToLower(f)
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if n != "" && strings.Contains(low, n) {
				return true
			}
		}
	}
	return false
}

// inRange reports whether t falls inside the window, inclusive.
func inRange(t time.Time, tr *intent.TimeRange) bool {
	if tr == nil {
		return true
	}
	return !t.Before(tr.Start) && !t.After(tr.End)
}

// defaultRange returns the intent's window when present, otherwise the given
// fallback.
func defaultRange(q Query, fallback *intent.TimeRange) *intent.TimeRange {
	if q.Intent.TimeRange != nil {
		return q.Intent.TimeRange
	}
	return fallback
}

// lastDays builds a [now-days, now] window.
func lastDays(now time.Time, days int) *intent.TimeRange {
	return &intent.TimeRange{Start: now.AddDate(0, 0, -days), End: now}
}

// nextDays builds a [now, now+days] window.
func nextDays(now time.Time, days int) *intent.TimeRange {
	return &intent.TimeRange{Start: now, End: now.AddDate(0, 0, days)}
}

// capRecords truncates to the orchestrator's limit.
func capRecords(records []Record, limit int) []Record {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

func queryContains(q Query, phrases ...string) bool {
	low := strings.ToLower(q.Raw)
	for _, p := range phrases {
		if strings.Contains(low, p) {
			return true
		}
	}
	return false
}
