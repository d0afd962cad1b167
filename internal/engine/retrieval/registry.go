// Package retrieval holds one fetch function per data domain. Each function
// turns an Intent plus the raw query into a capped list of normalized
// records; expected "no result" cases return an empty list, only
// infrastructure failures propagate (the orchestrator isolates them).
package retrieval

import (
	"context"
	"time"

	"crm-context-engine/internal/engine/domains"
	"crm-context-engine/internal/engine/intent"
	"crm-context-engine/internal/engine/resolver"
	"crm-context-engine/internal/store"
)

// Record is one normalized retrieved business object: domain-tagged,
// id-stable for de-duplication, with a preformatted one-line summary and the
// raw fields for aggregation.
type Record struct {
	Domain  string                 `json:"domain"`
	ID      string                 `json:"id"`
	Summary string                 `json:"summary"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Query carries the per-request retrieval inputs. Read-only.
type Query struct {
	TenantID string
	Raw      string
	Intent   *intent.Intent
	Now      time.Time
}

// FetchFunc retrieves up to limit records for one domain. The metadata map
// carries optional domain aggregates (total amounts, hours, subtotals).
type FetchFunc func(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error)

// Registry binds the static domain table to its fetch functions.
type Registry struct {
	reader   store.Reader
	resolver *resolver.Resolver
	fetchers map[string]FetchFunc
}

func New(reader store.Reader) *Registry {
	r := &Registry{
		reader:   reader,
		resolver: resolver.New(reader),
	}
	r.fetchers = map[string]FetchFunc{
		domains.Contacts:      r.fetchContacts,
		domains.Companies:     r.fetchCompanies,
		domains.Opportunities: r.fetchOpportunities,
		domains.Pipelines:     r.fetchPipelines,
		domains.Projects:      r.fetchProjects,
		domains.Tasks:         r.fetchTasks,
		domains.Vacations:     r.fetchVacations,
		domains.Expenses:      r.fetchExpenses,
		domains.Transactions:  r.fetchTransactions,
		domains.TimeEntries:   r.fetchTimeEntries,
		domains.Invoices:      r.fetchInvoices,
		domains.Quotes:        r.fetchQuotes,
		domains.Calendar:      r.fetchEvents,
		domains.Employees:     r.fetchEmployees,
	}
	return r
}

// Fetcher returns the fetch function for a domain name.
func (r *Registry) Fetcher(domain string) (FetchFunc, bool) {
	f, ok := r.fetchers[domain]
	return f, ok
}
