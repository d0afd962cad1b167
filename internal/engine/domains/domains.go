// Package domains holds the static registry of data domains: one entry per
// business entity category, with its trigger vocabulary and availability rule.
// The classifier and the orchestrator iterate this table; nothing dispatches
// on ad hoc conditionals.
package domains

import "crm-context-engine/internal/common/config"

const (
	Contacts      = "contacts"
	Companies     = "companies"
	Opportunities = "opportunities"
	Pipelines     = "pipelines"
	Projects      = "projects"
	Tasks         = "tasks"
	Vacations     = "vacations"
	Expenses      = "expenses"
	Transactions  = "transactions"
	TimeEntries   = "time_entries"
	Invoices      = "invoices"
	Quotes        = "quotes"
	Calendar      = "calendar"
	Employees     = "employees"
)

// Spec describes one domain: its trigger keywords (FR+EN, matched lowercase)
// and whether the deployment carries it.
type Spec struct {
	Name     string
	Keywords []string
	Enabled  func(config.CapabilitiesConfig) bool
}

func always(config.CapabilitiesConfig) bool { return true }

// Registry is the fixed, ordered domain table. Order is the render order of
// the serialized context.
var Registry = []Spec{
	{
		Name:     Contacts,
		Keywords: []string{"contact", "qui est", "who is", "personne", "interlocuteur"},
		Enabled:  always,
	},
	{
		Name: Companies,
		Keywords: []string{"client", "company", "companies", "société", "societe",
			"entreprise", "fournisseur", "supplier", "prospect"},
		Enabled: always,
	},
	{
		Name: Opportunities,
		Keywords: []string{"opportunit", "deal", "vente", "sale", "affaire",
			"gagné", "gagne", "perdu", "won", "lost"},
		Enabled: func(c config.CapabilitiesConfig) bool { return c.Opportunities },
	},
	{
		Name:     Pipelines,
		Keywords: []string{"pipeline", "stage", "étape", "etape", "entonnoir", "funnel"},
		Enabled:  func(c config.CapabilitiesConfig) bool { return c.Pipelines },
	},
	{
		Name:     Projects,
		Keywords: []string{"projet", "project", "chantier"},
		Enabled:  func(c config.CapabilitiesConfig) bool { return c.Projects },
	},
	{
		Name:     Tasks,
		Keywords: []string{"tâche", "tache", "task", "todo", "à faire"},
		Enabled:  func(c config.CapabilitiesConfig) bool { return c.Tasks },
	},
	{
		Name: Vacations,
		Keywords: []string{"congé", "conge", "vacance", "vacation", "absence",
			"leave", "holiday"},
		Enabled: func(c config.CapabilitiesConfig) bool { return c.Vacations },
	},
	{
		Name: Expenses,
		Keywords: []string{"note de frais", "notes de frais", "frais", "expense",
			"dépense", "depense", "remboursement", "reimbursement"},
		Enabled: func(c config.CapabilitiesConfig) bool { return c.Expenses },
	},
	{
		Name: Transactions,
		Keywords: []string{"transaction", "paiement", "payment", "écriture", "ecriture",
			"ledger", "revenu", "revenue", "encaissement", "décaissement", "decaissement"},
		Enabled: func(c config.CapabilitiesConfig) bool { return c.Transactions },
	},
	{
		Name: TimeEntries,
		Keywords: []string{"temps passé", "temps passe", "heures", "hours", "timesheet",
			"pointage", "time entr", "feuille de temps"},
		Enabled: func(c config.CapabilitiesConfig) bool { return c.TimeEntries },
	},
	{
		Name: Invoices,
		Keywords: []string{"facture", "invoice", "impayé", "impaye", "unpaid",
			"overdue", "échéance", "echeance", "billing"},
		Enabled: func(c config.CapabilitiesConfig) bool { return c.Invoices },
	},
	{
		Name:     Quotes,
		Keywords: []string{"devis", "quote", "quotation", "proposal", "proposition commerciale"},
		Enabled:  func(c config.CapabilitiesConfig) bool { return c.Quotes },
	},
	{
		Name: Calendar,
		Keywords: []string{"rendez-vous", "rdv", "meeting", "réunion", "reunion",
			"agenda", "calendrier", "calendar", "event", "événement", "evenement"},
		Enabled: func(c config.CapabilitiesConfig) bool { return c.Calendar },
	},
	{
		Name: Employees,
		Keywords: []string{"employé", "employe", "salarié", "salarie", "employee",
			"staff", "équipe", "equipe", "team", "collaborateur"},
		Enabled: func(c config.CapabilitiesConfig) bool { return c.Employees },
	},
}

// Names returns the fixed ordered list of domain names.
func Names() []string {
	out := make([]string, len(Registry))
	for i, s := range Registry {
		out[i] = s.Name
	}
	return out
}

// Lookup returns the spec for a domain name.
func Lookup(name string) (Spec, bool) {
	for _, s := range Registry {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}
