// internal/engine/retrieval/crm.go
package retrieval

import (
	"context"
	"fmt"

	"crm-context-engine/internal/engine/domains"
	"crm-context-engine/internal/engine/resolver"
	"crm-context-engine/internal/models"
)

func (r *Registry) fetchContacts(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	contacts, err := r.reader.Contacts(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	// A resolved name pins its contact to the front of the results.
	var resolvedID string
	if len(q.Intent.Names) > 0 {
		id, ok, err := r.resolver.Resolve(ctx, resolver.DomainContacts, q.TenantID, q.Intent.Names[0])
		if err != nil {
			return nil, nil, err
		}
		if ok {
			resolvedID = id
		}
	}

	var records []Record
	seen := map[string]bool{}
	add := func(c models.Contact) {
		if seen[c.ID] {
			return
		}
		seen[c.ID] = true
		records = append(records, contactRecord(c))
	}

	if resolvedID != "" {
		for _, c := range contacts {
			if c.ID == resolvedID {
				add(c)
			}
		}
	}

	general := isGeneral(q, domains.Contacts) && len(q.Intent.Names) == 0
	for _, c := range contacts {
		switch {
		case general:
			add(c)
		case matchesNames(q.Intent.Names, c.FullName(), c.CompanyName):
			add(c)
		case matchesKeywords(q.Intent.Keywords, c.FullName(), c.Email, c.Position, c.CompanyName):
			add(c)
		}
	}

	return capRecords(records, limit), nil, nil
}

func (r *Registry) fetchCompanies(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	companies, err := r.reader.Companies(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	wantClients := queryContains(q, "client")
	wantSuppliers := queryContains(q, "fournisseur", "supplier")
	wantProspects := queryContains(q, "prospect")
	roleFiltered := wantClients || wantSuppliers || wantProspects

	var resolvedID string
	if len(q.Intent.Names) > 0 {
		id, ok, err := r.resolver.Resolve(ctx, resolver.DomainCompanies, q.TenantID, q.Intent.Names[0])
		if err != nil {
			return nil, nil, err
		}
		if ok {
			resolvedID = id
		}
	}

	general := isGeneral(q, domains.Companies) && len(q.Intent.Names) == 0

	var records []Record
	seen := map[string]bool{}
	add := func(c models.Company) {
		if seen[c.ID] {
			return
		}
		seen[c.ID] = true
		records = append(records, companyRecord(c))
	}

	for _, c := range companies {
		if c.ID == resolvedID {
			add(c)
		}
	}

	for _, c := range companies {
		if roleFiltered {
			keep := (wantClients && c.IsClient) ||
				(wantSuppliers && c.IsSupplier) ||
				(wantProspects && c.IsProspect)
			if !keep {
				continue
			}
		}
		switch {
		case general:
			add(c)
		case matchesNames(q.Intent.Names, c.Name):
			add(c)
		case matchesKeywords(q.Intent.Keywords, c.Name, c.City, c.Country):
			add(c)
		}
	}

	return capRecords(records, limit), nil, nil
}

func contactRecord(c models.Contact) Record {
	summary := c.FullName()
	if c.Position != "" {
		summary += " — " + c.Position
	}
	if c.CompanyName != "" {
		summary += " @ " + c.CompanyName
	}
	if c.Email != "" {
		summary += " <" + c.Email + ">"
	}
	return Record{
		Domain:  domains.Contacts,
		ID:      c.ID,
		Summary: summary,
		Fields: map[string]interface{}{
			"name":    c.FullName(),
			"email":   c.Email,
			"phone":   c.Phone,
			"company": c.CompanyName,
		},
	}
}

func companyRecord(c models.Company) Record {
	role := "prospect"
	switch {
	case c.IsClient:
		role = "client"
	case c.IsSupplier:
		role = "supplier"
	}
	summary := fmt.Sprintf("%s (%s)", c.Name, role)
	if c.City != "" {
		summary += " — " + c.City
	}
	return Record{
		Domain:  domains.Companies,
		ID:      c.ID,
		Summary: summary,
		Fields: map[string]interface{}{
			"name":       c.Name,
			"email":      c.Email,
			"isClient":   c.IsClient,
			"isSupplier": c.IsSupplier,
			"isProspect": c.IsProspect,
		},
	}
}
