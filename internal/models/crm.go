// internal/models/crm.go
package models

import "time"

type Company struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	IsClient   bool      `json:"isClient"`
	IsSupplier bool      `json:"isSupplier"`
	IsProspect bool      `json:"isProspect"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Contact struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
}

// FullName returns "First Last" with single-name contacts handled.
func (c Contact) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type Opportunity struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Amount      float64    `json:"amount"`
	StageID     string     `json:"stageId"`
	StageName   string     `json:"stageName"`
	PipelineID  string     `json:"pipelineId"`
	CompanyID   string     `json:"companyId"`
	CompanyName string     `json:"companyName"`
	CreatedAt   time.Time  `json:"createdAt"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
}

// Won reports whether the opportunity sits in a Closed Won stage.
func (o Opportunity) Won() bool {
	return containsFold(o.StageName, "closed won") || containsFold(o.StageName, "gagn")
}

// Lost reports whether the opportunity sits in a Closed Lost stage.
func (o Opportunity) Lost() bool {
	return containsFold(o.StageName, "closed lost") || containsFold(o.StageName, "perdu")
}

type Pipeline struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Stages []Stage `json:"stages"`
}

type Stage struct {
	ID         string `json:"id"`
	PipelineID string `json:"pipelineId"`
	Name       string `json:"name"`
	Order      int    `json:"order"`
}
