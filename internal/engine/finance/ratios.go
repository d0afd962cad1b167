package finance

import (
	"context"
	"fmt"
	"time"

	"crm-context-engine/internal/models"
)

// RatiosResult holds period financial ratios. Every divisor is guarded: an
// empty period yields zeros, not NaN.
type RatiosResult struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	Revenue           float64   `json:"revenue"`
	Expenses          float64   `json:"expenses"`
	NetProfit         float64   `json:"netProfit"`
	GrossMarginPct    float64   `json:"grossMarginPct"`
	OpportunitiesWon  int       `json:"opportunitiesWon"`
	OpportunitiesAll  int       `json:"opportunitiesAll"`
	ConversionRatePct float64   `json:"conversionRatePct"`
	Err               error     `json:"-"`
}

// Ratios computes realized revenue/expense figures and the opportunity
// conversion rate over [start, end]. Only paid transactions count toward
// revenue and expenses; opportunities count when created or closed inside
// the period, and a win only counts with its close date in the period.
func (c *Calculator) Ratios(ctx context.Context, tenantID string, start, end time.Time) RatiosResult {
	result := RatiosResult{Start: start, End: end}

	transactions, err := c.reader.Transactions(ctx, tenantID)
	if err != nil {
		result.Err = fmt.Errorf("load transactions: %w", err)
		return result
	}
	opportunities, err := c.reader.Opportunities(ctx, tenantID)
	if err != nil {
		result.Err = fmt.Errorf("load opportunities: %w", err)
		return result
	}

	within := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}

	for _, t := range transactions {
		if t.Status != models.TransactionPaid || t.PaidAt == nil || !within(*t.PaidAt) {
			continue
		}
		switch t.Type {
		case models.TransactionRevenue:
			result.Revenue += t.Amount
		case models.TransactionExpense:
			result.Expenses += t.Amount
		}
	}
	result.NetProfit = result.Revenue - result.Expenses
	if result.Revenue > 0 {
		result.GrossMarginPct = result.NetProfit / result.Revenue * 100
	}

	for _, o := range opportunities {
		inPeriod := within(o.CreatedAt) || (o.ClosedAt != nil && within(*o.ClosedAt))
		if !inPeriod {
			continue
		}
		result.OpportunitiesAll++
		// A win only counts when the close date itself falls in the period.
		if o.Won() && o.ClosedAt != nil && within(*o.ClosedAt) {
			result.OpportunitiesWon++
		}
	}
	if result.OpportunitiesAll > 0 {
		result.ConversionRatePct = float64(result.OpportunitiesWon) / float64(result.OpportunitiesAll) * 100
	}

	return result
}
