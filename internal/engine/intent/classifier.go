// internal/engine/intent/classifier.go
package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"crm-context-engine/internal/common/config"
	"crm-context-engine/internal/engine/domains"
)

var countingPhrases = []string{
	"combien", "nombre", "how many", "count", "total",
}

var listingPhrases = []string{
	"liste", "lister", "list", "tous les", "toutes les", "all ", "show me",
	"montre", "affiche", "donne-moi les", "give me the",
}

var forecastPhrases = []string{
	"cash flow", "cash-flow", "trésorerie", "tresorerie", "forecast",
	"prévision", "prevision", "prévisionnel", "previsionnel",
}

var ratioPhrases = []string{
	"marge", "margin", "profit", "bénéfice", "benefice", "rentabilité",
	"rentabilite", "taux de conversion", "conversion rate", "ratio",
}

var navigationPhrases = []string{
	"où trouver", "ou trouver", "où se trouve", "where can i find",
	"where do i find", "how do i find", "comment naviguer", "comment accéder",
	"comment acceder", "quels modules", "what modules", "structure du système",
	"structure du systeme", "system structure",
}

var (
	numberRe   = regexp.MustCompile(`\b(\d{1,3})\b`)
	horizonRe  = regexp.MustCompile(`(\d{1,3})\s*(jours?|days?)`)
	splitMarks = []string{" et ", " and ", " puis ", ";"}
)

// Question markers used by the conservative multi-query splitter: a
// conjunction only splits when both sides look like standalone questions.
var questionMarkers = []string{
	"combien", "comment", "qui ", "quel", "quelle", "quels", "quelles",
	"how ", "what ", "who ", "which ", "where ", "when ", "liste", "list ",
	"show ", "montre", "affiche", "?",
}

// Classifier turns a raw query into an Intent. Capability flags are injected
// once at construction; unavailable domains can never be flagged.
type Classifier struct {
	caps         config.CapabilitiesConfig
	forecastDays int
	now          func() time.Time
}

func NewClassifier(caps config.CapabilitiesConfig, defaultForecastDays int) *Classifier {
	if defaultForecastDays <= 0 {
		defaultForecastDays = 30
	}
	return &Classifier{caps: caps, forecastDays: defaultForecastDays, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (c *Classifier) WithClock(now func() time.Time) *Classifier {
	c.now = now
	return c
}

// Classify builds the Intent for a query. When the text contains two
// independent questions joined by a strong conjunction, each part is
// classified separately and the flags are OR-ed together.
func (c *Classifier) Classify(query string) *Intent {
	query = strings.TrimSpace(query)

	parts := splitQuery(query)
	if len(parts) <= 1 {
		return c.classifyOne(query)
	}

	merged := c.classifyOne(parts[0])
	merged.SubQueries = parts
	for _, part := range parts[1:] {
		sub := c.classifyOne(part)
		for name, v := range sub.Domains {
			if v {
				merged.Domains[name] = true
			}
		}
		merged.Keywords = mergeCapped(merged.Keywords, sub.Keywords, maxKeywords)
		merged.Names = mergeCapped(merged.Names, sub.Names, len(merged.Names)+len(sub.Names))
		if merged.TimeRange == nil {
			merged.TimeRange = sub.TimeRange
		}
		merged.IsCounting = merged.IsCounting || sub.IsCounting
		merged.IsListing = merged.IsListing || sub.IsListing
		merged.IsNavigation = merged.IsNavigation || sub.IsNavigation
		if merged.RequestedCount == 0 {
			merged.RequestedCount = sub.RequestedCount
		}
		if sub.NeedsForecast {
			merged.NeedsForecast = true
			merged.ForecastDays = sub.ForecastDays
		}
		merged.NeedsRatios = merged.NeedsRatios || sub.NeedsRatios
	}
	return merged
}

func (c *Classifier) classifyOne(query string) *Intent {
	lowered := strings.ToLower(query)

	out := &Intent{
		Domains:  make(map[string]bool, len(domains.Registry)),
		Keywords: ExtractKeywords(query),
		Names:    ExtractNames(query),
	}

	// The flag map always carries the full fixed key set; unavailable
	// domains stay false.
	for _, spec := range domains.Registry {
		out.Domains[spec.Name] = spec.Enabled(c.caps) && matchesAny(lowered, spec.Keywords)
	}

	out.TimeRange = ExtractTimeRange(query, c.now())
	out.IsCounting = matchesAny(lowered, countingPhrases)
	out.IsListing = matchesAny(lowered, listingPhrases)
	out.IsNavigation = matchesAny(lowered, navigationPhrases)

	if matchesAny(lowered, forecastPhrases) && (c.caps.Transactions || c.caps.Invoices) {
		out.NeedsForecast = true
		out.ForecastDays = c.forecastDays
		if m := horizonRe.FindStringSubmatch(lowered); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				if n > 365 {
					n = 365
				}
				out.ForecastDays = n
			}
		}
	}

	// An explicit count ("les 10 derniers clients") implies listing. A number
	// that is only a forecast horizon ("sur 60 jours") does not.
	countable := horizonRe.ReplaceAllString(lowered, "")
	if m := numberRe.FindStringSubmatch(countable); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			out.RequestedCount = n
			out.IsListing = true
		}
	}

	if matchesAny(lowered, ratioPhrases) && (c.caps.Transactions || c.caps.Opportunities) {
		out.NeedsRatios = true
	}

	return out
}

// splitQuery splits on strong conjunction markers only when both sides carry
// a question marker of their own. Ambiguous inputs stay single queries.
func splitQuery(query string) []string {
	lowered := strings.ToLower(query)
	for _, mark := range splitMarks {
		idx := strings.Index(lowered, mark)
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(query[:idx])
		right := strings.TrimSpace(query[idx+len(mark):])
		if left == "" || right == "" {
			continue
		}
		if hasQuestionMarker(strings.ToLower(left)) && hasQuestionMarker(strings.ToLower(right)) {
			return []string{left, right}
		}
	}
	return []string{query}
}

func hasQuestionMarker(lowered string) bool {
	return matchesAny(lowered, questionMarkers)
}

func matchesAny(lowered string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

func mergeCapped(dst, src []string, max int) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if len(dst) >= max {
			break
		}
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}
