package intent

import (
	"testing"
	"time"

	"crm-context-engine/internal/common/config"
	"crm-context-engine/internal/engine/domains"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCaps() config.CapabilitiesConfig {
	return config.CapabilitiesConfig{
		Opportunities: true,
		Pipelines:     true,
		Projects:      true,
		Tasks:         true,
		Vacations:     true,
		Expenses:      true,
		Transactions:  true,
		TimeEntries:   true,
		Invoices:      true,
		Quotes:        true,
		Calendar:      true,
		Employees:     true,
	}
}

func newTestClassifier(caps config.CapabilitiesConfig) *Classifier {
	return NewClassifier(caps, 30).WithClock(func() time.Time { return testNow })
}

func TestClassify_FixedDomainKeySet(t *testing.T) {
	c := newTestClassifier(allCaps())
	for _, query := range []string{
		"combien de clients avons-nous ?",
		"",
		"random text without any trigger",
		"liste des factures et des devis",
	} {
		it := c.Classify(query)
		assert.Len(t, it.Domains, len(domains.Registry), query)
		for _, name := range domains.Names() {
			_, ok := it.Domains[name]
			assert.True(t, ok, "missing flag %s for %q", name, query)
		}
	}
}

func TestClassify_FrenchCountingQuery(t *testing.T) {
	it := newTestClassifier(allCaps()).Classify("Combien de clients avons-nous ?")
	assert.True(t, it.Domains[domains.Companies])
	assert.True(t, it.IsCounting)
	assert.False(t, it.IsListing)
	assert.Empty(t, it.SubQueries)
}

func TestClassify_BareCountingVocabulary(t *testing.T) {
	c := newTestClassifier(allCaps())
	for _, query := range []string{
		"le nombre total de clients",
		"quel est le total des factures impayées ?",
		"nombre d'employés actifs",
	} {
		it := c.Classify(query)
		assert.True(t, it.IsCounting, query)
	}
}

func TestClassify_UnavailableDomainNeverFlagged(t *testing.T) {
	caps := allCaps()
	caps.Opportunities = false
	it := newTestClassifier(caps).Classify("liste des opportunités gagnées")
	assert.False(t, it.Domains[domains.Opportunities])
}

func TestClassify_ListingWithExplicitCount(t *testing.T) {
	it := newTestClassifier(allCaps()).Classify("les 10 derniers projets")
	assert.True(t, it.IsListing)
	assert.Equal(t, 10, it.RequestedCount)
	assert.True(t, it.Domains[domains.Projects])
}

func TestClassify_ForecastHorizon(t *testing.T) {
	it := newTestClassifier(allCaps()).Classify("prévision de trésorerie sur 60 jours")
	require.True(t, it.NeedsForecast)
	assert.Equal(t, 60, it.ForecastDays)
	// The horizon number is not a listing count.
	assert.Equal(t, 0, it.RequestedCount)
}

func TestClassify_ForecastDefaultHorizon(t *testing.T) {
	it := newTestClassifier(allCaps()).Classify("quel est le cash flow prévu ?")
	require.True(t, it.NeedsForecast)
	assert.Equal(t, 30, it.ForecastDays)
}

func TestClassify_ForecastNeedsFinancialCapability(t *testing.T) {
	caps := config.CapabilitiesConfig{}
	it := newTestClassifier(caps).Classify("prévision de trésorerie sur 60 jours")
	assert.False(t, it.NeedsForecast)
}

func TestClassify_Ratios(t *testing.T) {
	it := newTestClassifier(allCaps()).Classify("quelle est notre marge ce mois ?")
	assert.True(t, it.NeedsRatios)
	require.NotNil(t, it.TimeRange)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), it.TimeRange.Start)
}

func TestClassify_SplitsTwoQuestions(t *testing.T) {
	it := newTestClassifier(allCaps()).Classify(
		"combien de clients avons-nous et combien de factures impayées ?")
	require.Len(t, it.SubQueries, 2)
	// Flags are OR-ed across sub-queries.
	assert.True(t, it.Domains[domains.Companies])
	assert.True(t, it.Domains[domains.Invoices])
	assert.True(t, it.IsCounting)
}

func TestClassify_AmbiguousConjunctionStaysSingle(t *testing.T) {
	it := newTestClassifier(allCaps()).Classify("les projets de recherche et développement")
	assert.Empty(t, it.SubQueries)
}

func TestClassify_Navigation(t *testing.T) {
	it := newTestClassifier(allCaps()).Classify("où trouver les devis dans l'application ?")
	assert.True(t, it.IsNavigation)
}
