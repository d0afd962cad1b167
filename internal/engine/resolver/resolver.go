// Package resolver maps free-text names to entity ids through a
// deterministic cascade of match strategies, first success wins:
//
//  1. exact case-insensitive match on the full composite key,
//  2. companies only: match after stripping legal-entity suffixes from both sides,
//  3. substring containment (either direction) against the cleaned name,
//  4. substring containment against the uncleaned name.
//
// Ties within a step resolve to the shortest candidate name, then the
// lexicographically smallest, so the outcome never depends on load order.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"crm-context-engine/internal/store"
)

const (
	DomainCompanies = "companies"
	DomainContacts  = "contacts"
	DomainEmployees = "employees"
)

// Legal-entity suffixes stripped in step 2.
var legalSuffixes = []string{
	"sarl", "sasu", "sas", "sa", "eurl", "sci", "snc",
	"inc", "llc", "ltd", "gmbh", "corp", "co",
}

type candidate struct {
	id   string
	keys []string // composite keys for exact matching (name, email, ...)
	name string   // display name used by the substring steps
}

// Resolver performs fuzzy name→id lookups over the tenant's candidate sets.
type Resolver struct {
	reader store.Reader
}

func New(reader store.Reader) *Resolver {
	return &Resolver{reader: reader}
}

// Resolve returns the id matching nameText in the given domain, or ok=false
// when nothing matches. Only infrastructure failures return an error.
func (r *Resolver) Resolve(ctx context.Context, domain, tenantID, nameText string) (string, bool, error) {
	nameText = strings.TrimSpace(nameText)
	if nameText == "" {
		return "", false, nil
	}

	candidates, err := r.load(ctx, domain, tenantID)
	if err != nil {
		return "", false, fmt.Errorf("load %s candidates: %w", domain, err)
	}

	needle := strings.ToLower(nameText)

	// Step 1: exact match on any composite key.
	if id, ok := pick(candidates, func(c candidate) bool {
		for _, k := range c.keys {
			if strings.ToLower(k) == needle {
				return true
			}
		}
		return false
	}); ok {
		return id, true, nil
	}

	// Step 2: companies only, legal suffixes stripped from both sides.
	if domain == DomainCompanies {
		cleanNeedle := stripLegalSuffix(needle)
		if id, ok := pick(candidates, func(c candidate) bool {
			return stripLegalSuffix(strings.ToLower(c.name)) == cleanNeedle
		}); ok {
			return id, true, nil
		}

		// Step 3 against the cleaned name.
		if id, ok := pick(candidates, func(c candidate) bool {
			clean := stripLegalSuffix(strings.ToLower(c.name))
			return contains(clean, cleanNeedle)
		}); ok {
			return id, true, nil
		}
	} else {
		// Step 3 for people: cleaned name is the plain full name.
		if id, ok := pick(candidates, func(c candidate) bool {
			return contains(strings.ToLower(c.name), needle)
		}); ok {
			return id, true, nil
		}
	}

	// Step 4: fallback against the uncleaned name.
	if id, ok := pick(candidates, func(c candidate) bool {
		return contains(strings.ToLower(c.name), needle)
	}); ok {
		return id, true, nil
	}

	return "", false, nil
}

// contains tests substring containment in either direction.
func contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// pick applies the deterministic tie-break over every candidate matching the
// predicate: shortest name first, then lexicographic.
func pick(candidates []candidate, match func(candidate) bool) (string, bool) {
	best := -1
	for i, c := range candidates {
		if !match(c) {
			continue
		}
		if best == -1 || better(c, candidates[best]) {
			best = i
		}
	}
	if best == -1 {
		return "", false
	}
	return candidates[best].id, true
}

func better(a, b candidate) bool {
	if len(a.name) != len(b.name) {
		return len(a.name) < len(b.name)
	}
	return a.name < b.name
}

func stripLegalSuffix(name string) string {
	fields := strings.Fields(name)
	for len(fields) > 1 {
		last := strings.Trim(fields[len(fields)-1], ".,")
		stripped := false
		for _, suffix := range legalSuffixes {
			if last == suffix {
				fields = fields[:len(fields)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.Join(fields, " ")
}

func (r *Resolver) load(ctx context.Context, domain, tenantID string) ([]candidate, error) {
	switch domain {
	case DomainCompanies:
		companies, err := r.reader.Companies(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		out := make([]candidate, 0, len(companies))
		for _, c := range companies {
			out = append(out, candidate{
				id:   c.ID,
				keys: []string{c.Name, c.Email},
				name: c.Name,
			})
		}
		return out, nil

	case DomainContacts:
		contacts, err := r.reader.Contacts(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		out := make([]candidate, 0, len(contacts))
		for _, c := range contacts {
			out = append(out, candidate{
				id:   c.ID,
				keys: []string{c.FullName(), c.Email},
				name: c.FullName(),
			})
		}
		return out, nil

	case DomainEmployees:
		employees, err := r.reader.Employees(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		out := make([]candidate, 0, len(employees))
		for _, e := range employees {
			out = append(out, candidate{
				id:   e.ID,
				keys: []string{e.FullName(), e.Email},
				name: e.FullName(),
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown resolver domain: %s", domain)
}
