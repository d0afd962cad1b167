// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"

	"crm-context-engine/internal/models"

	"github.com/lib/pq"
)

// PostgresReader implements Reader over a PostgreSQL schema. Every query
// filters on tenant_id and caps the row count at fetchCap.
type PostgresReader struct {
	db       *sql.DB
	fetchCap int
}

func NewPostgresReader(db *sql.DB, fetchCap int) *PostgresReader {
	if fetchCap <= 0 {
		fetchCap = 1000
	}
	return &PostgresReader{db: db, fetchCap: fetchCap}
}

func (r *PostgresReader) Companies(ctx context.Context, tenantID string) ([]models.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone, city, country, is_client, is_supplier, is_prospect, created_at
		 FROM companies WHERE tenant_id = $1 ORDER BY name LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.City, &c.Country,
			&c.IsClient, &c.IsSupplier, &c.IsProspect, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Contacts(ctx context.Context, tenantID string) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ct.id, ct.first_name, ct.last_name, ct.email, ct.phone, ct.position,
		        ct.company_id, COALESCE(co.name, '')
		 FROM contacts ct LEFT JOIN companies co ON ct.company_id = co.id
		 WHERE ct.tenant_id = $1 ORDER BY ct.last_name, ct.first_name LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		var c models.Contact
		var companyID sql.NullString
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&c.Position, &companyID, &c.CompanyName); err != nil {
			return nil, err
		}
		c.CompanyID = companyID.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Opportunities(ctx context.Context, tenantID string) ([]models.Opportunity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.title, o.amount, o.stage_id, COALESCE(s.name, ''), o.pipeline_id,
		        o.company_id, COALESCE(co.name, ''), o.created_at, o.closed_at
		 FROM opportunities o
		 LEFT JOIN stages s ON o.stage_id = s.id
		 LEFT JOIN companies co ON o.company_id = co.id
		 WHERE o.tenant_id = $1 ORDER BY o.created_at DESC LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Opportunity
	for rows.Next() {
		var o models.Opportunity
		var closedAt pq.NullTime
		if err := rows.Scan(&o.ID, &o.Title, &o.Amount, &o.StageID, &o.StageName,
			&o.PipelineID, &o.CompanyID, &o.CompanyName, &o.CreatedAt, &closedAt); err != nil {
			return nil, err
		}
		if closedAt.Valid {
			t := closedAt.Time
			o.ClosedAt = &t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Pipelines(ctx context.Context, tenantID string) ([]models.Pipeline, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, s.id, s.name, s.stage_order
		 FROM pipelines p LEFT JOIN stages s ON s.pipeline_id = p.id
		 WHERE p.tenant_id = $1 ORDER BY p.name, s.stage_order LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*models.Pipeline)
	var order []string
	for rows.Next() {
		var pID, pName string
		var sID, sName sql.NullString
		var sOrder sql.NullInt64
		if err := rows.Scan(&pID, &pName, &sID, &sName, &sOrder); err != nil {
			return nil, err
		}
		p, ok := byID[pID]
		if !ok {
			p = &models.Pipeline{ID: pID, Name: pName}
			byID[pID] = p
			order = append(order, pID)
		}
		if sID.Valid {
			p.Stages = append(p.Stages, models.Stage{
				ID:         sID.String,
				PipelineID: pID,
				Name:       sName.String,
				Order:      int(sOrder.Int64),
			})
		}
	}
	out := make([]models.Pipeline, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, rows.Err()
}

func (r *PostgresReader) Projects(ctx context.Context, tenantID string) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.status, p.company_id, COALESCE(co.name, ''), p.start_date, p.end_date
		 FROM projects p LEFT JOIN companies co ON p.company_id = co.id
		 WHERE p.tenant_id = $1 ORDER BY p.start_date DESC LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		var endDate pq.NullTime
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.CompanyID, &p.CompanyName,
			&p.StartDate, &endDate); err != nil {
			return nil, err
		}
		if endDate.Valid {
			t := endDate.Time
			p.EndDate = &t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Tasks(ctx context.Context, tenantID string) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.title, t.status, t.project_id, t.assignee_id,
		        COALESCE(e.first_name || ' ' || e.last_name, ''), t.due_date
		 FROM tasks t LEFT JOIN employees e ON t.assignee_id = e.id
		 WHERE t.tenant_id = $1 ORDER BY t.due_date NULLS LAST LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		var due pq.NullTime
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.ProjectID, &t.AssigneeID,
			&t.Assignee, &due); err != nil {
			return nil, err
		}
		if due.Valid {
			d := due.Time
			t.DueDate = &d
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Vacations(ctx context.Context, tenantID string) ([]models.VacationRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT v.id, v.employee_id, COALESCE(e.first_name || ' ' || e.last_name, ''),
		        v.status, v.start_date, v.end_date, v.days
		 FROM vacation_requests v LEFT JOIN employees e ON v.employee_id = e.id
		 WHERE v.tenant_id = $1 ORDER BY v.start_date DESC LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.VacationRequest
	for rows.Next() {
		var v models.VacationRequest
		if err := rows.Scan(&v.ID, &v.EmployeeID, &v.EmployeeName, &v.Status,
			&v.StartDate, &v.EndDate, &v.Days); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Expenses(ctx context.Context, tenantID string) ([]models.ExpenseAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT x.id, x.employee_id, COALESCE(e.first_name || ' ' || e.last_name, ''),
		        x.label, x.total, x.status, x.submitted_at
		 FROM expense_accounts x LEFT JOIN employees e ON x.employee_id = e.id
		 WHERE x.tenant_id = $1 ORDER BY x.submitted_at DESC LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ExpenseAccount
	for rows.Next() {
		var x models.ExpenseAccount
		if err := rows.Scan(&x.ID, &x.EmployeeID, &x.EmployeeName, &x.Label,
			&x.Total, &x.Status, &x.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Transactions(ctx context.Context, tenantID string) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, type, status, amount, expected_date, paid_at, company_id
		 FROM transactions WHERE tenant_id = $1 ORDER BY expected_date DESC LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var paidAt pq.NullTime
		var companyID sql.NullString
		if err := rows.Scan(&t.ID, &t.Label, &t.Type, &t.Status, &t.Amount,
			&t.ExpectedDate, &paidAt, &companyID); err != nil {
			return nil, err
		}
		if paidAt.Valid {
			p := paidAt.Time
			t.PaidAt = &p
		}
		t.CompanyID = companyID.String
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresReader) TimeEntries(ctx context.Context, tenantID string) ([]models.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT te.id, te.employee_id, COALESCE(e.first_name || ' ' || e.last_name, ''),
		        te.project_id, COALESCE(p.name, ''), te.entry_date, te.hours, COALESCE(te.note, '')
		 FROM time_entries te
		 LEFT JOIN employees e ON te.employee_id = e.id
		 LEFT JOIN projects p ON te.project_id = p.id
		 WHERE te.tenant_id = $1 ORDER BY te.entry_date DESC LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TimeEntry
	for rows.Next() {
		var te models.TimeEntry
		if err := rows.Scan(&te.ID, &te.EmployeeID, &te.EmployeeName, &te.ProjectID,
			&te.ProjectName, &te.Date, &te.Hours, &te.Note); err != nil {
			return nil, err
		}
		out = append(out, te)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Invoices(ctx context.Context, tenantID string) ([]models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.number, i.company_id, COALESCE(co.name, ''), i.total, i.status,
		        i.issued_at, i.due_date, i.paid_at
		 FROM invoices i LEFT JOIN companies co ON i.company_id = co.id
		 WHERE i.tenant_id = $1 ORDER BY i.issued_at DESC LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Invoice
	for rows.Next() {
		var i models.Invoice
		var paidAt pq.NullTime
		if err := rows.Scan(&i.ID, &i.Number, &i.CompanyID, &i.CompanyName, &i.Total,
			&i.Status, &i.IssuedAt, &i.DueDate, &paidAt); err != nil {
			return nil, err
		}
		if paidAt.Valid {
			p := paidAt.Time
			i.PaidAt = &p
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Quotes(ctx context.Context, tenantID string) ([]models.Quote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT q.id, q.number, q.company_id, COALESCE(co.name, ''), q.total, q.status,
		        q.issued_at, q.valid_until
		 FROM quotes q LEFT JOIN companies co ON q.company_id = co.id
		 WHERE q.tenant_id = $1 ORDER BY q.issued_at DESC LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Quote
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.ID, &q.Number, &q.CompanyID, &q.CompanyName, &q.Total,
			&q.Status, &q.IssuedAt, &q.ValidUntil); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Events(ctx context.Context, tenantID string) ([]models.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, starts_at, ends_at, COALESCE(location, ''), attendees
		 FROM calendar_events WHERE tenant_id = $1 ORDER BY starts_at LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		var attendees pq.StringArray
		if err := rows.Scan(&e.ID, &e.Title, &e.StartsAt, &e.EndsAt, &e.Location, &attendees); err != nil {
			return nil, err
		}
		e.Attendees = attendees
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresReader) Employees(ctx context.Context, tenantID string) ([]models.Employee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, COALESCE(position, ''), COALESCE(team, ''), active
		 FROM employees WHERE tenant_id = $1 ORDER BY last_name, first_name LIMIT $2`,
		tenantID, r.fetchCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Position,
			&e.Team, &e.Active); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
