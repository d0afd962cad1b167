// Package render serializes the gathered results into the bounded context
// text block. Verbosity adapts to the query intent: counting queries get
// terse per-domain summaries, listings get capped row sections, navigation
// queries get the structural overview instead of data.
package render

import (
	"fmt"
	"strings"

	"crm-context-engine/internal/engine/domains"
	"crm-context-engine/internal/engine/finance"
	"crm-context-engine/internal/engine/intent"
	"crm-context-engine/internal/engine/orchestrator"
	"crm-context-engine/internal/engine/retrieval"
)

const (
	defaultRowCap   = 15
	countingExample = 3
)

// Per-domain row caps for listing sections. Domains without an entry use
// defaultRowCap.
var rowCaps = map[string]int{
	domains.Contacts:     20,
	domains.Companies:    20,
	domains.Transactions: 10,
	domains.TimeEntries:  10,
	domains.Calendar:     10,
}

var sectionTitles = map[string]string{
	domains.Contacts:      "CONTACTS",
	domains.Companies:     "ENTREPRISES",
	domains.Opportunities: "OPPORTUNITÉS",
	domains.Pipelines:     "PIPELINES",
	domains.Projects:      "PROJETS",
	domains.Tasks:         "TÂCHES",
	domains.Vacations:     "CONGÉS",
	domains.Expenses:      "NOTES DE FRAIS",
	domains.Transactions:  "TRANSACTIONS",
	domains.TimeEntries:   "TEMPS PASSÉ",
	domains.Invoices:      "FACTURES",
	domains.Quotes:        "DEVIS",
	domains.Calendar:      "AGENDA",
	domains.Employees:     "ÉQUIPE",
}

// Aggregate metadata keys worth surfacing, with their display labels.
var metaLabels = []struct{ key, label string }{
	{"totalAmount", "montant total"},
	{"totalRevenue", "revenus"},
	{"totalExpense", "dépenses"},
	{"outstandingTotal", "encours"},
	{"totalHours", "heures totales"},
	{"totalDays", "jours totaux"},
}

const systemReference = `RÉFÉRENCE SYSTÈME — modules disponibles:
CRM (entreprises, contacts, opportunités, pipelines) | Projets (projets, tâches) | RH (équipe, congés, temps passé) | Finance (transactions, factures, devis, notes de frais) | Agenda (événements)`

const navigationOverview = `STRUCTURE DU SYSTÈME
Modules et entités:
- CRM: entreprises (clients, fournisseurs, prospects), contacts rattachés à une entreprise, opportunités positionnées sur une étape d'un pipeline.
- Projets: projets liés à une entreprise cliente, tâches assignées à un membre de l'équipe avec échéance.
- RH: fiches équipe (poste, équipe), demandes de congés (en attente/approuvées), saisies de temps par projet.
- Finance: transactions (revenus/dépenses, en attente/payées), factures et devis émis aux entreprises, notes de frais soumises par l'équipe.
- Agenda: événements avec participants et lieu.
Relations clés: contact → entreprise; opportunité → entreprise + étape de pipeline; facture/devis → entreprise; tâche/temps/congé/frais → membre de l'équipe; projet → entreprise.`

// Renderer serializes gather results within a soft byte budget.
type Renderer struct {
	budget int
}

func New(budget int) *Renderer {
	if budget <= 0 {
		budget = 8000
	}
	return &Renderer{budget: budget}
}

// Render builds the context text. Output size stays bounded regardless of
// how many sub-queries were merged: row caps bound each section and the soft
// budget stops section emission when exceeded.
func (r *Renderer) Render(it *intent.Intent, res *orchestrator.Result) string {
	// The overview is a superset of the system-reference footer, so the
	// navigation branch skips the footer.
	if it.IsNavigation {
		return navigationOverview + "\n"
	}

	var b strings.Builder

	if it.IsCounting {
		r.renderCounting(&b, res)
	} else {
		r.renderSections(&b, res)
	}

	if res.Forecast != nil {
		renderForecast(&b, res.Forecast)
	}
	if res.Ratios != nil {
		renderRatios(&b, res.Ratios)
	}

	if b.Len() == 0 {
		b.WriteString("Aucune donnée correspondante trouvée.\n")
	}

	b.WriteString("\n")
	b.WriteString(systemReference)
	b.WriteString("\n")
	return b.String()
}

// renderCounting emits one terse line per non-empty domain: the count, the
// surfaced aggregates, and a handful of example rows.
func (r *Renderer) renderCounting(b *strings.Builder, res *orchestrator.Result) {
	for _, spec := range domains.Registry {
		records := res.Domains[spec.Name]
		if len(records) == 0 {
			continue
		}
		line := fmt.Sprintf("%s: %d", sectionTitles[spec.Name], len(records))
		if extra := formatMeta(res.Meta[spec.Name]); extra != "" {
			line += " (" + extra + ")"
		}
		b.WriteString(line)
		b.WriteString("\n")
		for i, rec := range records {
			if i >= countingExample {
				break
			}
			b.WriteString("  ex: " + rec.Summary + "\n")
		}
	}
}

// renderSections emits the full per-domain sections with row caps and
// truncation markers.
func (r *Renderer) renderSections(b *strings.Builder, res *orchestrator.Result) {
	for _, spec := range domains.Registry {
		records := res.Domains[spec.Name]
		if len(records) == 0 {
			continue
		}
		if b.Len() > r.budget {
			b.WriteString("… (contexte tronqué)\n")
			return
		}
		writeSection(b, spec.Name, records, res.Meta[spec.Name])
	}
}

func writeSection(b *strings.Builder, domain string, records []retrieval.Record, meta map[string]interface{}) {
	capN := defaultRowCap
	if c, ok := rowCaps[domain]; ok {
		capN = c
	}

	header := fmt.Sprintf("%s (%d)", sectionTitles[domain], len(records))
	if extra := formatMeta(meta); extra != "" {
		header += " — " + extra
	}
	b.WriteString(header)
	b.WriteString("\n")

	shown := records
	if len(shown) > capN {
		shown = shown[:capN]
	}
	for _, rec := range shown {
		b.WriteString("- " + rec.Summary + "\n")
	}
	if rest := len(records) - len(shown); rest > 0 {
		fmt.Fprintf(b, "…et %d de plus\n", rest)
	}
	b.WriteString("\n")
}

func renderForecast(b *strings.Builder, fc *finance.ForecastResult) {
	fmt.Fprintf(b, "PRÉVISION DE TRÉSORERIE (%s → %s, %d jours)\n",
		fc.Start.Format("2006-01-02"), fc.End.Format("2006-01-02"), fc.HorizonDays)
	if fc.Err != nil {
		b.WriteString("Calcul indisponible pour le moment.\n\n")
		return
	}
	fmt.Fprintf(b, "Entrées attendues: %.2f | Sorties attendues: %.2f | Variation nette: %+.2f\n",
		fc.TotalInflow, fc.TotalOutflow, fc.NetChange)
	for _, d := range fc.Days {
		fmt.Fprintf(b, "  %s: +%.2f / -%.2f (solde %+.2f)\n",
			d.Date.Format("2006-01-02"), d.Inflow, d.Outflow, d.Balance)
	}
	b.WriteString("\n")
}

func renderRatios(b *strings.Builder, r *finance.RatiosResult) {
	fmt.Fprintf(b, "RATIOS FINANCIERS (%s → %s)\n",
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	if r.Err != nil {
		b.WriteString("Calcul indisponible pour le moment.\n\n")
		return
	}
	fmt.Fprintf(b, "Revenus: %.2f | Dépenses: %.2f | Résultat net: %+.2f | Marge brute: %.1f%%\n",
		r.Revenue, r.Expenses, r.NetProfit, r.GrossMarginPct)
	fmt.Fprintf(b, "Opportunités gagnées: %d/%d | Taux de conversion: %.1f%%\n",
		r.OpportunitiesWon, r.OpportunitiesAll, r.ConversionRatePct)
	b.WriteString("\n")
}

func formatMeta(meta map[string]interface{}) string {
	if len(meta) == 0 {
		return ""
	}
	var parts []string
	for _, ml := range metaLabels {
		v, ok := meta[ml.key]
		if !ok {
			continue
		}
		f, ok := v.(float64)
		if !ok || f == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %.2f", ml.label, f))
	}
	return strings.Join(parts, ", ")
}
