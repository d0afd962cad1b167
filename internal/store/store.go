// Package store provides tenant-scoped read access to the persisted business
// data. The engine never reads rows any other way, and never writes.
package store

import (
	"context"

	"crm-context-engine/internal/models"
)

// Reader is the tenant-scoped read interface consumed by the retrieval
// functions and the financial calculators. Implementations must restrict
// every read to the given tenant and cap the number of returned rows.
type Reader interface {
	Companies(ctx context.Context, tenantID string) ([]models.Company, error)
	Contacts(ctx context.Context, tenantID string) ([]models.Contact, error)
	Opportunities(ctx context.Context, tenantID string) ([]models.Opportunity, error)
	Pipelines(ctx context.Context, tenantID string) ([]models.Pipeline, error)
	Projects(ctx context.Context, tenantID string) ([]models.Project, error)
	Tasks(ctx context.Context, tenantID string) ([]models.Task, error)
	Vacations(ctx context.Context, tenantID string) ([]models.VacationRequest, error)
	Expenses(ctx context.Context, tenantID string) ([]models.ExpenseAccount, error)
	Transactions(ctx context.Context, tenantID string) ([]models.Transaction, error)
	TimeEntries(ctx context.Context, tenantID string) ([]models.TimeEntry, error)
	Invoices(ctx context.Context, tenantID string) ([]models.Invoice, error)
	Quotes(ctx context.Context, tenantID string) ([]models.Quote, error)
	Events(ctx context.Context, tenantID string) ([]models.CalendarEvent, error)
	Employees(ctx context.Context, tenantID string) ([]models.Employee, error)
}
