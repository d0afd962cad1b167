// internal/models/work.go
package models

import (
	"strings"
	"time"
)

type Employee struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Position  string `json:"position"`
	Team      string `json:"team"`
	Active    bool   `json:"active"`
}

func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"` // "active", "on_hold", "done"
	CompanyID   string     `json:"companyId"`
	CompanyName string     `json:"companyName"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"` // "todo", "in_progress", "done"
	ProjectID  string     `json:"projectId"`
	AssigneeID string     `json:"assigneeId"`
	Assignee   string     `json:"assignee"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
}

type VacationRequest struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Status       string    `json:"status"` // "pending", "approved", "rejected"
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Days         float64   `json:"days"`
}

type TimeEntry struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	ProjectID    string    `json:"projectId"`
	ProjectName  string    `json:"projectName"`
	Date         time.Time `json:"date"`
	Hours        float64   `json:"hours"`
	Note         string    `json:"note"`
}

type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Location  string    `json:"location"`
	Attendees []string  `json:"attendees"`
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
