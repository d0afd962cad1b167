package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crm-context-engine/internal/common/config"
	"crm-context-engine/internal/common/logger"
	"crm-context-engine/internal/common/observability"
	"crm-context-engine/internal/engine"
	"crm-context-engine/internal/models"
	"crm-context-engine/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, fake *storetest.Fake) *Server {
	t.Helper()
	cfg := &config.Config{
		Engine: config.EngineConfig{
			DefaultLimit:  20,
			ListingLimit:  50,
			CountingLimit: 500,
			ContextBudget: 8000,
			ForecastDays:  30,
			RatiosPeriod:  30,
		},
		Capabilities: config.CapabilitiesConfig{Invoices: true, Transactions: true},
	}
	eng := engine.New(fake, nil, cfg, logger.NewTestLogger(t))
	return New(config.ServerConfig{Address: ":0"}, eng, nil, logger.NewTestLogger(t))
}

func postContext(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/assistant/context", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestBuildContextEndpoint_OK(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{{ID: "c-1", Name: "Acme", IsClient: true}},
	}
	srv := newTestServer(t, fake)

	rec := postContext(t, srv, `{"tenant_id":"t1","query":"combien de clients"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp contextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Contains(t, resp.Context, "ENTREPRISES: 1")
}

func TestBuildContextEndpoint_SchemaValidation(t *testing.T) {
	srv := newTestServer(t, &storetest.Fake{})

	cases := []struct {
		name string
		body string
	}{
		{"missing query", `{"tenant_id":"t1"}`},
		{"empty tenant", `{"tenant_id":"","query":"clients"}`},
		{"extra field", `{"tenant_id":"t1","query":"clients","x":1}`},
		{"not json", `tenant=t1`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postContext(t, srv, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRequestMetricsMiddleware(t *testing.T) {
	fake := &storetest.Fake{
		CompanyRows: []models.Company{{ID: "c-1", Name: "Acme", IsClient: true}},
	}
	cfg := &config.Config{
		Engine: config.EngineConfig{
			DefaultLimit:  20,
			ListingLimit:  50,
			CountingLimit: 500,
			ContextBudget: 8000,
			ForecastDays:  30,
			RatiosPeriod:  30,
		},
	}
	eng := engine.New(fake, nil, cfg, logger.NewTestLogger(t))
	obs := observability.New("server-test")
	defer obs.Shutdown()
	srv := New(config.ServerConfig{Address: ":0"}, eng, obs, logger.NewTestLogger(t))

	rec := postContext(t, srv, `{"tenant_id":"t1","query":"combien de clients"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &storetest.Fake{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &storetest.Fake{})

	// Counter vecs only surface once incremented.
	postContext(t, srv, `{"tenant_id":"t1","query":"combien de clients"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "context_builds_total")
}
