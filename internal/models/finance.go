// internal/models/finance.go
package models

import "time"

// Transaction is one ledger entry, either revenue or expense.
type Transaction struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	Type         string     `json:"type"`   // "revenue" or "expense"
	Status       string     `json:"status"` // "pending" or "paid"
	Amount       float64    `json:"amount"`
	ExpectedDate time.Time  `json:"expectedDate"` // expected payment date
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	CompanyID    string     `json:"companyId"`
}

const (
	TransactionRevenue = "revenue"
	TransactionExpense = "expense"

	TransactionPending = "pending"
	TransactionPaid    = "paid"
)

type Invoice struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	CompanyID   string     `json:"companyId"`
	CompanyName string     `json:"companyName"`
	Total       float64    `json:"total"`
	Status      string     `json:"status"` // "draft", "sent", "paid", "cancelled"
	IssuedAt    time.Time  `json:"issuedAt"`
	DueDate     time.Time  `json:"dueDate"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

// Outstanding reports whether the invoice still awaits payment.
func (i Invoice) Outstanding() bool {
	return i.Status == "sent"
}

// Overdue reports whether the invoice is outstanding past its due date.
func (i Invoice) Overdue(now time.Time) bool {
	return i.Outstanding() && i.DueDate.Before(now)
}

type Quote struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	CompanyID   string    `json:"companyId"`
	CompanyName string    `json:"companyName"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"` // "draft", "sent", "accepted", "declined"
	IssuedAt    time.Time `json:"issuedAt"`
	ValidUntil  time.Time `json:"validUntil"`
}

type ExpenseAccount struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Label        string    `json:"label"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"` // "submitted", "approved", "reimbursed", "rejected"
	SubmittedAt  time.Time `json:"submittedAt"`
}
