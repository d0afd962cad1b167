// internal/engine/intent/models.go
package intent

import "time"

// TimeRange is an absolute [Start, End] window resolved from a relative
// date phrase.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Intent is the structured classification of one free-text query. Immutable
// once produced; consumed by the orchestrator and the serializer.
type Intent struct {
	Domains        map[string]bool `json:"domains"`
	Keywords       []string        `json:"keywords"` // at most 5, original order
	Names          []string        `json:"names"`    // candidate proper names, original casing
	TimeRange      *TimeRange      `json:"timeRange,omitempty"`
	IsCounting     bool            `json:"isCounting"`
	IsListing      bool            `json:"isListing"`
	IsNavigation   bool            `json:"isNavigation"`
	RequestedCount int             `json:"requestedCount"` // explicit number in the query, 0 if none
	NeedsForecast  bool            `json:"needsForecast"`
	ForecastDays   int             `json:"forecastDays"`
	NeedsRatios    bool            `json:"needsRatios"`
	SubQueries     []string        `json:"subQueries,omitempty"`
}

// AnyDomain reports whether at least one domain flag is set.
func (i *Intent) AnyDomain() bool {
	for _, v := range i.Domains {
		if v {
			return true
		}
	}
	return false
}
