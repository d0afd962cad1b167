// internal/engine/retrieval/sales.go
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"crm-context-engine/internal/engine/domains"
	"crm-context-engine/internal/engine/resolver"
	"crm-context-engine/internal/models"
)

func (r *Registry) fetchOpportunities(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	opportunities, err := r.reader.Opportunities(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	wantWon := queryContains(q, "won", "gagné", "gagne")
	wantLost := queryContains(q, "lost", "perdu")

	var resolvedCompany string
	if len(q.Intent.Names) > 0 {
		id, ok, err := r.resolver.Resolve(ctx, resolver.DomainCompanies, q.TenantID, q.Intent.Names[0])
		if err != nil {
			return nil, nil, err
		}
		if ok {
			resolvedCompany = id
		}
	}

	general := isGeneral(q, domains.Opportunities) && !wantWon && !wantLost &&
		len(q.Intent.Names) == 0

	var records []Record
	var total float64
	for _, o := range opportunities {
		if wantWon && !o.Won() {
			continue
		}
		if wantLost && !o.Lost() {
			continue
		}
		if resolvedCompany != "" && o.CompanyID != resolvedCompany {
			continue
		}
		if q.Intent.TimeRange != nil && !inRange(o.CreatedAt, q.Intent.TimeRange) &&
			(o.ClosedAt == nil || !inRange(*o.ClosedAt, q.Intent.TimeRange)) {
			continue
		}
		if !general && !wantWon && !wantLost && resolvedCompany == "" &&
			!matchesKeywords(q.Intent.Keywords, o.Title, o.CompanyName, o.StageName) &&
			!matchesNames(q.Intent.Names, o.Title, o.CompanyName) {
			continue
		}
		total += o.Amount
		records = append(records, opportunityRecord(o))
	}

	meta := map[string]interface{}{"totalAmount": total}
	return capRecords(records, limit), meta, nil
}

func (r *Registry) fetchPipelines(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	pipelines, err := r.reader.Pipelines(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	general := isGeneral(q, domains.Pipelines)

	var records []Record
	for _, p := range pipelines {
		if !general && !matchesKeywords(q.Intent.Keywords, p.Name) {
			continue
		}
		stages := make([]string, 0, len(p.Stages))
		for _, s := range p.Stages {
			stages = append(stages, s.Name)
		}
		records = append(records, Record{
			Domain:  domains.Pipelines,
			ID:      p.ID,
			Summary: fmt.Sprintf("%s: %s", p.Name, strings.Join(stages, " > ")),
			Fields: map[string]interface{}{
				"name":       p.Name,
				"stageCount": len(p.Stages),
			},
		})
	}

	return capRecords(records, limit), nil, nil
}

func (r *Registry) fetchQuotes(ctx context.Context, q Query, limit int) ([]Record, map[string]interface{}, error) {
	quotes, err := r.reader.Quotes(ctx, q.TenantID)
	if err != nil {
		return nil, nil, err
	}

	wantAccepted := queryContains(q, "accepté", "accepte", "accepted")
	wantPending := queryContains(q, "en attente", "pending", "sent", "envoyé", "envoye")
	general := isGeneral(q, domains.Quotes) && !wantAccepted && !wantPending

	var records []Record
	var total float64
	for _, quote := range quotes {
		if wantAccepted && quote.Status != "accepted" {
			continue
		}
		if wantPending && quote.Status != "sent" {
			continue
		}
		if q.Intent.TimeRange != nil && !inRange(quote.IssuedAt, q.Intent.TimeRange) {
			continue
		}
		if !general && !wantAccepted && !wantPending &&
			!matchesKeywords(q.Intent.Keywords, quote.Number, quote.CompanyName) &&
			!matchesNames(q.Intent.Names, quote.CompanyName) {
			continue
		}
		total += quote.Total
		records = append(records, Record{
			Domain: domains.Quotes,
			ID:     quote.ID,
			Summary: fmt.Sprintf("%s — %s: %.2f (%s)",
				quote.Number, quote.CompanyName, quote.Total, quote.Status),
			Fields: map[string]interface{}{
				"number": quote.Number,
				"total":  quote.Total,
				"status": quote.Status,
			},
		})
	}

	meta := map[string]interface{}{"totalAmount": total}
	return capRecords(records, limit), meta, nil
}

func opportunityRecord(o models.Opportunity) Record {
	summary := fmt.Sprintf("%s — %s: %.2f", o.Title, o.CompanyName, o.Amount)
	if o.StageName != "" {
		summary += " [" + o.StageName + "]"
	}
	return Record{
		Domain:  domains.Opportunities,
		ID:      o.ID,
		Summary: summary,
		Fields: map[string]interface{}{
			"title":   o.Title,
			"amount":  o.Amount,
			"stage":   o.StageName,
			"company": o.CompanyName,
		},
	}
}
