package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"crm-context-engine/internal/common/config"
	"crm-context-engine/internal/common/database"
	stderrors "crm-context-engine/internal/common/errors"
	"crm-context-engine/internal/common/logger"
	"crm-context-engine/internal/models"
	"crm-context-engine/internal/store/storetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 12, 14, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			DefaultLimit:  20,
			ListingLimit:  50,
			CountingLimit: 500,
			ContextBudget: 8000,
			ForecastDays:  30,
			RatiosPeriod:  30,
		},
		Capabilities: config.CapabilitiesConfig{
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
		},
	}
}

func newEngine(t *testing.T, fake *storetest.Fake, cache *database.RedisClient) *Engine {
	t.Helper()
	cfg := testConfig()
	if cache != nil {
		cfg.Engine.CacheTTLSeconds = 60
	}
	e := New(fake, cache, cfg, logger.NewTestLogger(t))
	return e.WithClock(func() time.Time { return testNow })
}

func TestBuildContext_FrenchCountingQuery(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{
			{ID: "c-1", Name: "Acme", IsClient: true},
			{ID: "c-2", Name: "Globex", IsClient: true},
			{ID: "c-3", Name: "Initech", IsProspect: true},
		},
	}
	e := newEngine(t, fake, nil)

	out, err := e.BuildContext(context.Background(), "t1", "Combien de clients avons-nous ?")
	require.NoError(t, err)

	assert.Contains(t, out, "ENTREPRISES: 2")
	// Terse summary only: at most example rows, never one line per company.
	assert.LessOrEqual(t, strings.Count(out, "ex: "), 3)
	assert.NotContains(t, out, "- Acme")
}

func TestBuildContext_SixtyDayForecast(t *testing.T) {
	fake := &storetest.Fake{
		TransactionRows: []models.Transaction{
			{ID: "t-1", Type: models.TransactionRevenue, Status: models.TransactionPending, Amount: 1000, ExpectedDate: testNow.AddDate(0, 0, 5)},
			{ID: "t-2", Type: models.TransactionExpense, Status: models.TransactionPending, Amount: 200, ExpectedDate: testNow.AddDate(0, 0, 12)},
		},
	}
	e := newEngine(t, fake, nil)

	out, err := e.BuildContext(context.Background(), "t1", "Prévision de trésorerie sur 60 jours")
	require.NoError(t, err)

	assert.Contains(t, out, "60 jours")
	assert.Equal(t, 61, strings.Count(out, "(solde "))
	assert.Contains(t, out, "Entrées attendues: 1000.00")
	assert.Contains(t, out, "Sorties attendues: 200.00")
}

func TestBuildContext_FatalInputErrors(t *testing.T) {
	e := newEngine(t, &storetest.Fake{}, nil)

	_, err := e.BuildContext(context.Background(), "t1", "   ")
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeInvalidQuery, stdErr.Code)

	_, err = e.BuildContext(context.Background(), "", "combien de clients")
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeInvalidTenant, stdErr.Code)
}

func TestBuildContext_DomainFailureDegradesGracefully(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{{ID: "c-1", Name: "Acme", IsClient: true}},
		Errs:        map[string]error{"opportunities": errors.New("pq: connection refused")},
	}
	e := newEngine(t, fake, nil)

	out, err := e.BuildContext(context.Background(), "t1", "liste des clients et liste des opportunités")
	require.NoError(t, err)

	assert.Contains(t, out, "ENTREPRISES (1)")
	assert.NotContains(t, out, "OPPORTUNITÉS")
}

func TestBuildContext_CacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	fake := &storetest.Fake{
		CompanyRows: []models.Company{{ID: "c-1", Name: "Acme", IsClient: true}},
	}
	e := newEngine(t, fake, cache)

	first, err := e.BuildContext(context.Background(), "t1", "combien de clients")
	require.NoError(t, err)

	// Data changes, but the cached context is served until the TTL expires.
	fake.CompanyRows = append(fake.CompanyRows, models.Company{ID: "c-2", Name: "Globex", IsClient: true})
	second, err := e.BuildContext(context.Background(), "t1", "combien de clients")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	mr.FastForward(2 * time.Minute)
	third, err := e.BuildContext(context.Background(), "t1", "combien de clients")
	require.NoError(t, err)
	assert.Contains(t, third, "ENTREPRISES: 2")
}

func TestBuildContext_NavigationQuery(t *testing.T) {
	e := newEngine(t, &storetest.Fake{}, nil)

	out, err := e.BuildContext(context.Background(), "t1", "Où trouver les factures ?")
	require.NoError(t, err)

	assert.Contains(t, out, "STRUCTURE DU SYSTÈME")
}

func TestBuildContext_TwoQuestionsMergedWithDedup(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{
			{ID: "c-1", Name: "Acme", IsClient: true},
		},
		InvoiceRows: []models.Invoice{
			{ID: "i-1", Number: "F-001", CompanyName: "Acme", Total: 900, Status: "sent", DueDate: testNow.AddDate(0, 0, 5)},
		},
	}
	e := newEngine(t, fake, nil)

	out, err := e.BuildContext(context.Background(), "t1", "combien de clients et combien de factures impayées ?")
	require.NoError(t, err)

	assert.Contains(t, out, "ENTREPRISES: 1")
	assert.Contains(t, out, "FACTURES: 1")
}
