package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockReader(t *testing.T) (*PostgresReader, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresReader(db, 1000), mock
}

func TestCompanies_TenantScopedAndCapped(t *testing.T) {
	reader, mock := newMockReader(t)

	created := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, name, email, phone, city, country, is_client`).
		WithArgs("t1", 1000).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "city", "country",
			"is_client", "is_supplier", "is_prospect", "created_at",
		}).
			AddRow("c-1", "Acme", "hello@acme.fr", "", "Bordeaux", "FR", true, false, false, created).
			AddRow("c-2", "Globex", "", "", "Lyon", "FR", false, false, true, created))

	companies, err := reader.Companies(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.True(t, companies[0].IsClient)
	assert.Equal(t, "Bordeaux", companies[0].City)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunities_NullClosedAt(t *testing.T) {
	reader, mock := newMockReader(t)

	created := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM opportunities o`).
		WithArgs("t1", 1000).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "amount", "stage_id", "stage_name", "pipeline_id",
			"company_id", "company_name", "created_at", "closed_at",
		}).
			AddRow("o-1", "Refonte", 10000.0, "s-1", "Closed Won", "pl-1", "c-1", "Acme", created, closed).
			AddRow("o-2", "Audit", 5000.0, "s-2", "Negotiation", "pl-1", "c-2", "Globex", created, nil))

	opportunities, err := reader.Opportunities(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, opportunities, 2)
	require.NotNil(t, opportunities[0].ClosedAt)
	assert.Equal(t, closed, *opportunities[0].ClosedAt)
	assert.Nil(t, opportunities[1].ClosedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPipelines_GroupsStagesInOrder(t *testing.T) {
	reader, mock := newMockReader(t)

	mock.ExpectQuery(`FROM pipelines p`).
		WithArgs("t1", 1000).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "stage_id", "stage_name", "stage_order"}).
			AddRow("pl-1", "Ventes", "s-1", "Qualification", 1).
			AddRow("pl-1", "Ventes", "s-2", "Proposition", 2).
			AddRow("pl-2", "Partenariats", nil, nil, nil))

	pipelines, err := reader.Pipelines(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, pipelines, 2)
	require.Len(t, pipelines[0].Stages, 2)
	assert.Equal(t, "Qualification", pipelines[0].Stages[0].Name)
	assert.Empty(t, pipelines[1].Stages)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvents_ScansAttendeeArray(t *testing.T) {
	reader, mock := newMockReader(t)

	starts := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM calendar_events`).
		WithArgs("t1", 1000).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "starts_at", "ends_at", "location", "attendees"}).
			AddRow("ev-1", "Point client", starts, starts.Add(time.Hour), "Salle A", `{"Marie Dupont","Luc Brun"}`))

	events, err := reader.Events(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"Marie Dupont", "Luc Brun"}, events[0].Attendees)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanies_PropagatesQueryError(t *testing.T) {
	reader, mock := newMockReader(t)

	mock.ExpectQuery(`FROM companies`).
		WithArgs("t1", 1000).
		WillReturnError(assert.AnError)

	_, err := reader.Companies(context.Background(), "t1")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
