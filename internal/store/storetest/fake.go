// Package storetest provides a map-backed store.Reader for engine tests.
package storetest

import (
	"context"

	"crm-context-engine/internal/models"
)

// Fake implements store.Reader from in-memory fixtures. Errs injects a
// per-entity failure, keyed by the entity name ("companies", "invoices", ...).
type Fake struct {
	CompanyRows     []models.Company
	ContactRows     []models.Contact
	OpportunityRows []models.Opportunity
	PipelineRows    []models.Pipeline
	ProjectRows     []models.Project
	TaskRows        []models.Task
	VacationRows    []models.VacationRequest
	ExpenseRows     []models.ExpenseAccount
	TransactionRows []models.Transaction
	TimeEntryRows   []models.TimeEntry
	InvoiceRows     []models.Invoice
	QuoteRows       []models.Quote
	EventRows       []models.CalendarEvent
	EmployeeRows    []models.Employee

	Errs map[string]error
}

func (f *Fake) err(entity string) error {
	if f.Errs == nil {
		return nil
	}
	return f.Errs[entity]
}

func (f *Fake) Companies(_ context.Context, _ string) ([]models.Company, error) {
	return f.CompanyRows, f.err("companies")
}

func (f *Fake) Contacts(_ context.Context, _ string) ([]models.Contact, error) {
	return f.ContactRows, f.err("contacts")
}

func (f *Fake) Opportunities(_ context.Context, _ string) ([]models.Opportunity, error) {
	return f.OpportunityRows, f.err("opportunities")
}

func (f *Fake) Pipelines(_ context.Context, _ string) ([]models.Pipeline, error) {
	return f.PipelineRows, f.err("pipelines")
}

func (f *Fake) Projects(_ context.Context, _ string) ([]models.Project, error) {
	return f.ProjectRows, f.err("projects")
}

func (f *Fake) Tasks(_ context.Context, _ string) ([]models.Task, error) {
	return f.TaskRows, f.err("tasks")
}

func (f *Fake) Vacations(_ context.Context, _ string) ([]models.VacationRequest, error) {
	return f.VacationRows, f.err("vacations")
}

func (f *Fake) Expenses(_ context.Context, _ string) ([]models.ExpenseAccount, error) {
	return f.ExpenseRows, f.err("expenses")
}

func (f *Fake) Transactions(_ context.Context, _ string) ([]models.Transaction, error) {
	return f.TransactionRows, f.err("transactions")
}

func (f *Fake) TimeEntries(_ context.Context, _ string) ([]models.TimeEntry, error) {
	return f.TimeEntryRows, f.err("time_entries")
}

func (f *Fake) Invoices(_ context.Context, _ string) ([]models.Invoice, error) {
	return f.InvoiceRows, f.err("invoices")
}

func (f *Fake) Quotes(_ context.Context, _ string) ([]models.Quote, error) {
	return f.QuoteRows, f.err("quotes")
}

func (f *Fake) Events(_ context.Context, _ string) ([]models.CalendarEvent, error) {
	return f.EventRows, f.err("events")
}

func (f *Fake) Employees(_ context.Context, _ string) ([]models.Employee, error) {
	return f.EmployeeRows, f.err("employees")
}
