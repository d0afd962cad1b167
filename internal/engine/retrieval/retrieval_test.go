package retrieval

import (
	"context"
	"testing"
	"time"

	"crm-context-engine/internal/engine/domains"
	"crm-context-engine/internal/engine/intent"
	"crm-context-engine/internal/models"
	"crm-context-engine/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 12, 14, 0, 0, 0, time.UTC)

func testQuery(raw string, it *intent.Intent) Query {
	if it.Domains == nil {
		it.Domains = map[string]bool{}
	}
	return Query{TenantID: "t1", Raw: raw, Intent: it, Now: now}
}

func TestFetchCompanies_ClientCountingBypassesKeywords(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{
			{ID: "c-1", Name: "Acme", IsClient: true},
			{ID: "c-2", Name: "Globex", IsClient: true},
			{ID: "c-3", Name: "Initech", IsProspect: true},
		},
	}
	reg := New(fake)

	q := testQuery("combien de clients avons-nous ?", &intent.Intent{
		IsCounting: true,
		Keywords:   []string{"clients"},
	})
	records, _, err := reg.fetchCompanies(context.Background(), q, 500)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, domains.Companies, r.Domain)
		assert.True(t, r.Fields["isClient"].(bool))
	}
}

func TestFetchCompanies_ResolvedNameFirst(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{
			{ID: "c-1", Name: "Zeta Industries"},
			{ID: "c-2", Name: "Acme"},
		},
	}
	reg := New(fake)

	q := testQuery("informations sur Acme", &intent.Intent{
		Names:    []string{"Acme"},
		Keywords: []string{"informations"},
	})
	records, _, err := reg.fetchCompanies(context.Background(), q, 20)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "c-2", records[0].ID)
}

func TestFetchOpportunities_WonFilter(t *testing.T) {
	closed := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	fake := &storetest.Fake{
		OpportunityRows: []models.Opportunity{
			{ID: "o-1", Title: "Refonte site", StageName: "Closed Won", Amount: 10000, ClosedAt: &closed},
			{ID: "o-2", Title: "Audit", StageName: "Closed Lost", Amount: 5000, ClosedAt: &closed},
			{ID: "o-3", Title: "Maintenance", StageName: "Negotiation", Amount: 2000},
		},
	}
	reg := New(fake)

	q := testQuery("opportunités gagnées", &intent.Intent{Keywords: []string{"opportunités", "gagnées"}})
	records, meta, err := reg.fetchOpportunities(context.Background(), q, 20)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "o-1", records[0].ID)
	assert.Equal(t, 10000.0, meta["totalAmount"])
}

func TestFetchContacts_ResolvedNamePinnedFirst(t *testing.T) {
	fake := &storetest.Fake{
		ContactRows: []models.Contact{
			{ID: "p-1", FirstName: "Anne", LastName: "Durand", CompanyName: "Acme"},
			{ID: "p-2", FirstName: "Marie", LastName: "Dupont", CompanyName: "Globex"},
		},
	}
	reg := New(fake)

	q := testQuery("qui est Marie Dupont ?", &intent.Intent{Names: []string{"Marie Dupont"}})
	records, _, err := reg.fetchContacts(context.Background(), q, 20)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "p-2", records[0].ID)
}

func TestFetchInvoices_UnpaidFilter(t *testing.T) {
	fake := &storetest.Fake{
		InvoiceRows: []models.Invoice{
			{ID: "i-1", Number: "F-001", Total: 1200, Status: "sent", DueDate: now.AddDate(0, 0, 10)},
			{ID: "i-2", Number: "F-002", Total: 800, Status: "paid", DueDate: now.AddDate(0, 0, -10)},
			{ID: "i-3", Number: "F-003", Total: 450, Status: "sent", DueDate: now.AddDate(0, 0, -3)},
		},
	}
	reg := New(fake)

	q := testQuery("factures impayées", &intent.Intent{Keywords: []string{"factures", "impayées"}})
	records, meta, err := reg.fetchInvoices(context.Background(), q, 20)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1650.0, meta["outstandingTotal"])
}

func TestFetchInvoices_OverdueFilter(t *testing.T) {
	fake := &storetest.Fake{
		InvoiceRows: []models.Invoice{
			{ID: "i-1", Number: "F-001", Total: 1200, Status: "sent", DueDate: now.AddDate(0, 0, 10)},
			{ID: "i-3", Number: "F-003", Total: 450, Status: "sent", DueDate: now.AddDate(0, 0, -3)},
		},
	}
	reg := New(fake)

	q := testQuery("factures en retard", &intent.Intent{Keywords: []string{"factures", "retard"}})
	records, _, err := reg.fetchInvoices(context.Background(), q, 20)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "i-3", records[0].ID)
}

func TestFetchTimeEntries_AggregationMetadata(t *testing.T) {
	fake := &storetest.Fake{
		TimeEntryRows: []models.TimeEntry{
			{ID: "te-1", EmployeeName: "Luc Brun", Hours: 4, Date: now.AddDate(0, 0, -1), ProjectName: "Refonte"},
			{ID: "te-2", EmployeeName: "Luc Brun", Hours: 3.5, Date: now.AddDate(0, 0, -2), ProjectName: "Refonte"},
			{ID: "te-3", EmployeeName: "Anne Roy", Hours: 8, Date: now.AddDate(0, 0, -2), ProjectName: "Audit"},
			{ID: "te-old", EmployeeName: "Anne Roy", Hours: 6, Date: now.AddDate(0, 0, -30), ProjectName: "Audit"},
		},
	}
	reg := New(fake)

	q := testQuery("temps passé cette semaine", &intent.Intent{})
	records, meta, err := reg.fetchTimeEntries(context.Background(), q, 50)
	require.NoError(t, err)
	assert.Len(t, records, 3) // default window excludes the 30-day-old entry
	assert.Equal(t, 15.5, meta["totalHours"])
	per := meta["perEmployee"].(map[string]float64)
	assert.Equal(t, 7.5, per["Luc Brun"])
	assert.Equal(t, 8.0, per["Anne Roy"])
}

func TestFetch_LimitAlwaysApplied(t *testing.T) {
	var companies []models.Company
	for i := 0; i < 40; i++ {
		companies = append(companies, models.Company{
			ID: string(rune('a' + i)), Name: "Client", IsClient: true,
		})
	}
	fake := &storetest.Fake{CompanyRows: companies}
	reg := New(fake)

	q := testQuery("liste des clients", &intent.Intent{IsListing: true})
	records, _, err := reg.fetchCompanies(context.Background(), q, 20)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestFetchTransactions_TypeFilter(t *testing.T) {
	fake := &storetest.Fake{
		TransactionRows: []models.Transaction{
			{ID: "t-1", Label: "Abonnement", Type: "revenue", Status: "paid", Amount: 500, ExpectedDate: now.AddDate(0, 0, -5)},
			{ID: "t-2", Label: "Loyer", Type: "expense", Status: "paid", Amount: 900, ExpectedDate: now.AddDate(0, 0, -5)},
		},
	}
	reg := New(fake)

	q := testQuery("dépenses du mois", &intent.Intent{Keywords: []string{"dépenses", "mois"}})
	records, meta, err := reg.fetchTransactions(context.Background(), q, 20)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "t-2", records[0].ID)
	assert.Equal(t, 900.0, meta["totalExpense"])
}

func TestIsGeneral(t *testing.T) {
	counting := testQuery("combien de clients", &intent.Intent{IsCounting: true, Keywords: []string{"clients"}})
	assert.True(t, isGeneral(counting, domains.Companies))

	// Only domain trigger words left after stripping: still general.
	plain := testQuery("nos clients", &intent.Intent{Keywords: []string{"clients"}})
	assert.True(t, isGeneral(plain, domains.Companies))

	// An extra discriminating keyword makes it specific.
	specific := testQuery("clients bordeaux", &intent.Intent{Keywords: []string{"clients", "bordeaux"}})
	assert.False(t, isGeneral(specific, domains.Companies))
}
