// internal/engine/retrieval/work.go
package retrieval

import (
	"context"
	"fmt"

	"crm-context-engine/internal/engine/domains"
	"crm-context-engine/internal/engine/resolver"
	"crm-context-engine/internal/models"
)

func (r *Registry) fetchProjects(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	projects, err := r.reader.Projects(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	wantActive := queryContains(q, "en cours", "actif", "active", "ongoing")
	wantDone := queryContains(q, "terminé", "termine", "finished", "done", "closed")
	general := isGeneral(q, domains.Projects) && !wantActive && !wantDone

	var records []Record
	for _, p := range projects {
		if wantActive && p.Status != "active" {
			continue
		}
		if wantDone && p.Status != "done" {
			continue
		}
		if !general && !wantActive && !wantDone &&
			!matchesKeywords(q.Intent.Keywords, p.Name, p.CompanyName) &&
			!matchesNames(q.Intent.Names, p.Name, p.CompanyName) {
			continue
		}
		summary := fmt.Sprintf("%s (%s)", p.Name, p.Status)
		if p.CompanyName != "" {
			summary += " — " + p.CompanyName
		}
		records = append(records, Record{
			Domain:  domains.Projects,
			ID:      p.ID,
			Summary: summary,
			Fields: map[string]interface{}{
				"name":    p.Name,
				"status":  p.Status,
				"company": p.CompanyName,
			},
		})
	}

	return capRecords(records, limit), nil, nil
}

func (r *Registry) fetchTasks(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	tasks, err := r.reader.Tasks(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	wantOpen := queryContains(q, "à faire", "a faire", "todo", "open", "en attente")
	wantDone := queryContains(q, "terminé", "termine", "done", "finished")
	general := isGeneral(q, domains.Tasks) && !wantOpen && !wantDone

	var assignee string
	if len(q.Intent.Names) > 0 {
		id, ok, err := r.resolver.Resolve(ctx, resolver.DomainEmployees, q.TenantID, q.Intent.Names[0])
		if err != nil {
			return nil, nil, err
		}
		if ok {
			assignee = id
		}
	}

	var records []Record
	for _, t := range tasks {
		if wantOpen && t.Status == "done" {
			continue
		}
		if wantDone && t.Status != "done" {
			continue
		}
		if assignee != "" && t.AssigneeID != assignee {
			continue
		}
		if t.DueDate != nil && q.Intent.TimeRange != nil && !inRange(*t.DueDate, q.Intent.TimeRange) {
			continue
		}
		if !general && assignee == "" && !wantOpen && !wantDone &&
			!matchesKeywords(q.Intent.Keywords, t.Title, t.Assignee) &&
			!matchesNames(q.Intent.Names, t.Assignee) {
			continue
		}
		summary := fmt.Sprintf("%s (%s)", t.Title, t.Status)
		if t.Assignee != "" {
			summary += " — " + t.Assignee
		}
		if t.DueDate != nil {
			summary += " due " + t.DueDate.Format("2006-01-02")
		}
		records = append(records, Record{
			Domain:  domains.Tasks,
			ID:      t.ID,
			Summary: summary,
			Fields: map[string]interface{}{
				"title":    t.Title,
				"status":   t.Status,
				"assignee": t.Assignee,
			},
		})
	}

	return capRecords(records, limit), nil, nil
}

func (r *Registry) fetchVacations(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	vacations, err := r.reader.Vacations(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	wantPending := queryContains(q, "en attente", "pending")
	wantApproved := queryContains(q, "approuvé", "approuve", "approved", "validé", "valide")
	general := isGeneral(q, domains.Vacations) && !wantPending && !wantApproved

	var records []Record
	var totalDays float64
	for _, v := range vacations {
		if wantPending && v.Status != "pending" {
			continue
		}
		if wantApproved && v.Status != "approved" {
			continue
		}
		if q.Intent.TimeRange != nil &&
			(v.EndDate.Before(q.Intent.TimeRange.Start) || v.StartDate.After(q.Intent.TimeRange.End)) {
			continue
		}
		if !general && !wantPending && !wantApproved &&
			!matchesKeywords(q.Intent.Keywords, v.EmployeeName) &&
			!matchesNames(q.Intent.Names, v.EmployeeName) {
			continue
		}
		totalDays += v.Days
		records = append(records, Record{
			Domain: domains.Vacations,
			ID:     v.ID,
			Summary: fmt.Sprintf("%s: %s → %s (%.1f d, %s)",
				v.EmployeeName, v.StartDate.Format("2006-01-02"),
				v.EndDate.Format("2006-01-02"), v.Days, v.Status),
			Fields: map[string]interface{}{
				"employee": v.EmployeeName,
				"days":     v.Days,
				"status":   v.Status,
			},
		})
	}

	meta := map[string]interface{}{"totalDays": totalDays}
	return capRecords(records, limit), meta, nil
}

func (r *Registry) fetchTimeEntries(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	entries, err := r.reader.TimeEntries(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	// Default window: the running week.
	window := defaultRange(q, lastDays(q.Now, 7))

	var employee string
	if len(q.Intent.Names) > 0 {
		id, ok, err := r.resolver.Resolve(ctx, resolver.DomainEmployees, q.TenantID, q.Intent.Names[0])
		if err != nil {
			return nil, nil, err
		}
		if ok {
			employee = id
		}
	}

	var records []Record
	var totalHours float64
	perEmployee := map[string]float64{}
	for _, e := range entries {
		if !inRange(e.Date, window) {
			continue
		}
		if employee != "" && e.EmployeeID != employee {
			continue
		}
		totalHours += e.Hours
		perEmployee[e.EmployeeName] += e.Hours
		records = append(records, Record{
			Domain: domains.TimeEntries,
			ID:     e.ID,
			Summary: fmt.Sprintf("%s — %s: %.1f h on %s",
				e.Date.Format("2006-01-02"), e.EmployeeName, e.Hours, e.ProjectName),
			Fields: map[string]interface{}{
				"employee": e.EmployeeName,
				"project":  e.ProjectName,
				"hours":    e.Hours,
			},
		})
	}

	meta := map[string]interface{}{
		"totalHours":  totalHours,
		"perEmployee": perEmployee,
	}
	return capRecords(records, limit), meta, nil
}

func (r *Registry) fetchEvents(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	events, err := r.reader.Events(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	// Default window: the coming week.
	window := defaultRange(q, nextDays(q.Now, 7))

	var records []Record
	for _, e := range events {
		if !inRange(e.StartsAt, window) {
			continue
		}
		if !isGeneral(q, domains.Calendar) &&
			!matchesKeywords(q.Intent.Keywords, e.Title, e.Location) &&
			!matchesNames(q.Intent.Names, e.Attendees...) {
			continue
		}
		summary := fmt.Sprintf("%s — %s", e.StartsAt.Format("2006-01-02 15:04"), e.Title)
		if e.Location != "" {
			summary += " @ " + e.Location
		}
		records = append(records, Record{
			Domain:  domains.Calendar,
			ID:      e.ID,
			Summary: summary,
			Fields: map[string]interface{}{
				"title":    e.Title,
				"startsAt": e.StartsAt,
			},
		})
	}

	return capRecords(records, limit), nil, nil
}

func (r *Registry) fetchEmployees(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	employees, err := r.reader.Employees(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	general := isGeneral(q, domains.Employees) && len(q.Intent.Names) == 0

	var records []Record
	for _, e := range employees {
		switch {
		case general && e.Active:
		case matchesNames(q.Intent.Names, e.FullName()):
		case matchesKeywords(q.Intent.Keywords, e.FullName(), e.Position, e.Team):
		default:
			continue
		}
		records = append(records, employeeRecord(e))
	}

	return capRecords(records, limit), nil, nil
}

func employeeRecord(e models.Employee) Record {
	summary := e.FullName()
	if e.Position != "" {
		summary += " — " + e.Position
	}
	if e.Team != "" {
		summary += " (" + e.Team + ")"
	}
	return Record{
		Domain:  domains.Employees,
		ID:      e.ID,
		Summary: summary,
		Fields: map[string]interface{}{
			"name":     e.FullName(),
			"position": e.Position,
			"team":     e.Team,
			"active":   e.Active,
		},
	}
}
