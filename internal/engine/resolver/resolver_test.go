package resolver

import (
	"context"
	"errors"
	"testing"

	"crm-context-engine/internal/models"
	"crm-context-engine/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(fake *storetest.Fake) *Resolver {
	return New(fake)
}

func TestResolve_ExactMatchBeatsSubstring(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{
			{ID: "c-2", Name: "Acme Corp Inc"},
			{ID: "c-1", Name: "Acme"},
		},
	}
	id, ok, err := newTestResolver(fake).Resolve(context.Background(), DomainCompanies, "t1", "Acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c-1", id)
}

func TestResolve_LegalSuffixStripped(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{
			{ID: "c-1", Name: "Dubois SARL"},
			{ID: "c-2", Name: "Martin SAS"},
		},
	}
	id, ok, err := newTestResolver(fake).Resolve(context.Background(), DomainCompanies, "t1", "dubois")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c-1", id)
}

func TestResolve_SubstringEitherDirection(t *testing.T) {
	fake := &storetest.Fake{
		ContactRows: []models.Contact{
			{ID: "p-1", FirstName: "Marie", LastName: "Dupont-Lavigne"},
		},
	}
	r := newTestResolver(fake)

	// Query shorter than candidate.
	id, ok, err := r.Resolve(context.Background(), DomainContacts, "t1", "Marie Dupont")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p-1", id)
}

func TestResolve_EmailAsCompositeKey(t *testing.T) {
	fake := &storetest.Fake{
		ContactRows: []models.Contact{
			{ID: "p-1", FirstName: "Jean", LastName: "Roche", Email: "j.roche@acme.fr"},
			{ID: "p-2", FirstName: "Julie", LastName: "Rocher", Email: "julie@acme.fr"},
		},
	}
	id, ok, err := newTestResolver(fake).Resolve(context.Background(), DomainContacts, "t1", "j.roche@acme.fr")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p-1", id)
}

func TestResolve_DeterministicTieBreak(t *testing.T) {
	// Both contain "tech"; shortest name wins regardless of load order.
	fake := &storetest.Fake{
		CompanyRows: []models.Company{
			{ID: "c-long", Name: "Technologie Avancée"},
			{ID: "c-short", Name: "Techno"},
		},
	}
	r := newTestResolver(fake)
	id, ok, err := r.Resolve(context.Background(), DomainCompanies, "t1", "tech")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c-short", id)

	// Reversed load order, same answer.
	fake.CompanyRows[0], fake.CompanyRows[1] = fake.CompanyRows[1], fake.CompanyRows[0]
	id2, ok2, err := r.Resolve(context.Background(), DomainCompanies, "t1", "tech")
	require.NoError(t, err)
	require.True(t, ok2)
	assert.Equal(t, id, id2)
}

func TestResolve_NotFoundIsNotAnError(t *testing.T) {
	fake := &storetest.Fake{
		EmployeeRows: []models.Employee{{ID: "e-1", FirstName: "Luc", LastName: "Brun"}},
	}
	_, ok, err := newTestResolver(fake).Resolve(context.Background(), DomainEmployees, "t1", "nobody at all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolve_EmptyName(t *testing.T) {
	_, ok, err := newTestResolver(&storetest.Fake{}).Resolve(context.Background(), DomainCompanies, "t1", "   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolve_InfraFailurePropagates(t *testing.T) {
	fake := &storetest.Fake{Errs: map[string]error{"companies": errors.New("connection refused")}}
	_, _, err := newTestResolver(fake).Resolve(context.Background(), DomainCompanies, "t1", "Acme")
	assert.Error(t, err)
}

func TestStripLegalSuffix(t *testing.T) {
	assert.Equal(t, "acme", stripLegalSuffix("acme sarl"))
	assert.Equal(t, "acme", stripLegalSuffix("acme corp inc"))
	assert.Equal(t, "acme", stripLegalSuffix("acme"))
	// Never strips down to nothing.
	assert.Equal(t, "sa", stripLegalSuffix("sa"))
}
