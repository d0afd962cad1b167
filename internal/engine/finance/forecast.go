// Package finance implements the cash-flow forecast and financial ratio
// calculators. Both are best-effort: a failure produces a zeroed result
// carrying the error, never a panic, so one broken calculator cannot take
// down a context build.
package finance

import (
	"context"
	"fmt"
	"time"

	"crm-context-engine/internal/models"
	"crm-context-engine/internal/store"
)

// DayFlow is one daily bucket of the forecast.
type DayFlow struct {
	Date    time.Time `json:"date"`
	Inflow  float64   `json:"inflow"`
	Outflow float64   `json:"outflow"`
	Balance float64   `json:"balance"`
}

// ForecastResult is the projected cash position over the horizon. Days holds
// horizon+1 buckets (today included), always fully populated even when no
// movement falls on a given day.
type ForecastResult struct {
	HorizonDays  int       `json:"horizonDays"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	TotalInflow  float64   `json:"totalInflow"`
	TotalOutflow float64   `json:"totalOutflow"`
	NetChange    float64   `json:"netChange"`
	Days         []DayFlow `json:"days"`
	Err          error     `json:"-"`
}

// Calculator computes forecasts and ratios from the tenant's financial data.
type Calculator struct {
	reader store.Reader
}

func NewCalculator(reader store.Reader) *Calculator {
	return &Calculator{reader: reader}
}

// Forecast projects expected cash movements over [today, today+days].
// Inflows are pending revenue transactions (by expected date) plus
// outstanding invoices (by due date); outflows are pending expense
// transactions. Movements dated before today land in the first bucket.
func (c *Calculator) Forecast(ctx context.Context, tenantID string, days int, now time.Time) ForecastResult {
	if days <= 0 {
		days = 30
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, days)

	result := ForecastResult{
		HorizonDays: days,
		Start:       start,
		End:         end,
		Days:        make([]DayFlow, days+1),
	}
	for i := range result.Days {
		result.Days[i].Date = start.AddDate(0, 0, i)
	}

	transactions, err := c.reader.Transactions(ctx, tenantID)
	if err != nil {
		result.Err = fmt.Errorf("load transactions: %w", err)
		return result
	}
	invoices, err := c.reader.Invoices(ctx, tenantID)
	if err != nil {
		result.Err = fmt.Errorf("load invoices: %w", err)
		return result
	}

	bucket := func(t time.Time) (int, bool) {
		if t.After(end) {
			return 0, false
		}
		if t.Before(start) {
			// Overdue movements are still expected; count them today.
			return 0, true
		}
		return int(t.Sub(start).Hours() / 24), true
	}

	for _, t := range transactions {
		if t.Status != models.TransactionPending {
			continue
		}
		i, ok := bucket(t.ExpectedDate)
		if !ok {
			continue
		}
		switch t.Type {
		case models.TransactionRevenue:
			result.Days[i].Inflow += t.Amount
			result.TotalInflow += t.Amount
		case models.TransactionExpense:
			result.Days[i].Outflow += t.Amount
			result.TotalOutflow += t.Amount
		}
	}

	for _, inv := range invoices {
		if !inv.Outstanding() {
			continue
		}
		i, ok := bucket(inv.DueDate)
		if !ok {
			continue
		}
		result.Days[i].Inflow += inv.Total
		result.TotalInflow += inv.Total
	}

	running := 0.0
	for i := range result.Days {
		running += result.Days[i].Inflow - result.Days[i].Outflow
		result.Days[i].Balance = running
	}
	result.NetChange = result.TotalInflow - result.TotalOutflow
	return result
}
