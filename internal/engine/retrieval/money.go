// internal/engine/retrieval/money.go
package retrieval

import (
	"context"
	"fmt"

	"crm-context-engine/internal/engine/domains"
	"crm-context-engine/internal/models"
)

func (r *Registry) fetchTransactions(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	transactions, err := r.reader.Transactions(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	// Default window: the last 30 days.
	window := defaultRange(q, lastDays(q.Now, 30))

	wantRevenue := queryContains(q, "revenu", "revenue", "encaissement", "income")
	wantExpense := queryContains(q, "dépense", "depense", "expense", "décaissement", "decaissement")

	var records []Record
	var totalIn, totalOut float64
	for _, t := range transactions {
		if wantRevenue && t.Type != models.TransactionRevenue {
			continue
		}
		if wantExpense && t.Type != models.TransactionExpense {
			continue
		}
		if !inRange(t.ExpectedDate, window) {
			continue
		}
		if t.Type == models.TransactionRevenue {
			totalIn += t.Amount
		} else {
			totalOut += t.Amount
		}
		records = append(records, Record{
			Domain: domains.Transactions,
			ID:     t.ID,
			Summary: fmt.Sprintf("%s — %s %.2f (%s, %s)",
				t.ExpectedDate.Format("2006-01-02"), t.Label, t.Amount, t.Type, t.Status),
			Fields: map[string]interface{}{
				"label":  t.Label,
				"type":   t.Type,
				"status": t.Status,
				"amount": t.Amount,
			},
		})
	}

	meta := map[string]interface{}{
		"totalRevenue": totalIn,
		"totalExpense": totalOut,
	}
	return capRecords(records, limit), meta, nil
}

func (r *Registry) fetchInvoices(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	invoices, err := r.reader.Invoices(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	wantUnpaid := queryContains(q, "impayé", "impaye", "unpaid", "outstanding", "en attente")
	wantOverdue := queryContains(q, "retard", "overdue", "échue", "echue")
	general := isGeneral(q, domains.Invoices) && !wantUnpaid && !wantOverdue

	var records []Record
	var outstanding float64
	for _, inv := range invoices {
		if wantOverdue && !inv.Overdue(q.Now) {
			continue
		}
		if wantUnpaid && !wantOverdue && !inv.Outstanding() {
			continue
		}
		if q.Intent.TimeRange != nil &&
			!inRange(inv.IssuedAt, q.Intent.TimeRange) && !inRange(inv.DueDate, q.Intent.TimeRange) {
			continue
		}
		if !general && !wantUnpaid && !wantOverdue &&
			!matchesKeywords(q.Intent.Keywords, inv.Number, inv.CompanyName) &&
			!matchesNames(q.Intent.Names, inv.CompanyName) {
			continue
		}
		if inv.Outstanding() {
			outstanding += inv.Total
		}
		records = append(records, Record{
			Domain: domains.Invoices,
			ID:     inv.ID,
			Summary: fmt.Sprintf("%s — %s: %.2f (%s, due %s)",
				inv.Number, inv.CompanyName, inv.Total, inv.Status,
				inv.DueDate.Format("2006-01-02")),
			Fields: map[string]interface{}{
				"number": inv.Number,
				"total":  inv.Total,
				"status": inv.Status,
			},
		})
	}

	meta := map[string]interface{}{"outstandingTotal": outstanding}
	return capRecords(records, limit), meta, nil
}

func (r *Registry) fetchExpenses(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	expenses, err := r.reader.Expenses(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	wantPending := queryContains(q, "en attente", "pending", "submitted", "soumise")
	general := isGeneral(q, domains.Expenses) && !wantPending

	var records []Record
	var total float64
	for _, x := range expenses {
		if wantPending && x.Status != "submitted" {
			continue
		}
		if q.Intent.TimeRange != nil && !inRange(x.SubmittedAt, q.Intent.TimeRange) {
			continue
		}
		if !general && !wantPending &&
			!matchesKeywords(q.Intent.Keywords, x.Label, x.EmployeeName) &&
			!matchesNames(q.Intent.Names, x.EmployeeName) {
			continue
		}
		total += x.Total
		records = append(records, Record{
			Domain: domains.Expenses,
			ID:     x.ID,
			Summary: fmt.Sprintf("%s — %s: %.2f (%s)",
				x.EmployeeName, x.Label, x.Total, x.Status),
			Fields: map[string]interface{}{
				"employee": x.EmployeeName,
				"label":    x.Label,
				"total":    x.Total,
				"status":   x.Status,
			},
		})
	}

	meta := map[string]interface{}{"totalAmount": total}
	return capRecords(records, limit), meta, nil
}
