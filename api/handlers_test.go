package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forma/training-engine/api"
	"github.com/forma/training-engine/factory"
	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
	"github.com/forma/training-engine/records/store"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

var testNow = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, records.Store) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveSettings(context.Background(), factory.DefaultSettings()))

	h := api.NewHandler(mem)
	h.Clock = func() time.Time { return testNow }

	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings_GetAndUpdate(t *testing.T) {
	srv, _ := newTestServer(t)

	var settings records.Settings
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/settings", nil, &settings)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, finance.D(30).Equal(settings.MarginTarget))

	settings.MarginTarget = finance.D(40)
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/settings", settings, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated records.Settings
	doJSON(t, http.MethodGet, srv.URL+"/api/settings", nil, &updated)
	assert.True(t, finance.D(40).Equal(updated.MarginTarget))
}

// =============================================================================
// OPERATOR CRUD
// =============================================================================

func TestOperator_CRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	var created records.Operator
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/operators", records.Operator{
		Name: "Alice Martin", Status: finance.StatusFreelance,
		CostMode: records.CostModeNet, DailyAmount: finance.D(250), Active: true,
	}, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID, "server assigns an id")

	var got records.Operator
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/operators/"+string(created.ID), nil, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice Martin", got.Name)

	got.Active = false
	doJSON(t, http.MethodPut, srv.URL+"/api/operators/"+string(created.ID), got, nil)

	var list []records.Operator
	doJSON(t, http.MethodGet, srv.URL+"/api/operators", nil, &list)
	require.Len(t, list, 1)
	assert.False(t, list[0].Active)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/operators/"+string(created.ID), nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/operators/"+string(created.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// MODULE SAVE - INCOMPATIBILITY SYNC
// =============================================================================

func TestSaveModule_SyncsIncompatibilities(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, mem.PutModule(ctx, records.Module{ID: "mod-a", Name: "A"}))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/modules", records.Module{
		ID: "mod-b", Name: "B", IncompatibleWith: []records.ModuleID{"mod-a"},
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The reverse edge appeared on mod-a.
	a, err := mem.GetModule(ctx, "mod-a")
	require.NoError(t, err)
	assert.Equal(t, []records.ModuleID{"mod-b"}, a.IncompatibleWith)
}

// =============================================================================
// SESSION CREATE - PREFILL AND COSTING
// =============================================================================

func TestCreateSession_PrefillsVariableCostsAndCosts(t *testing.T) {
	srv, mem := newTestServer(t)
	require.NoError(t, mem.PutOperator(context.Background(), records.Operator{
		ID: "op-1", Name: "Alice", Status: finance.StatusFreelance,
		CostMode: records.CostModeMaxCost, DailyAmount: finance.D(300), Active: true,
	}))

	var out api.SessionSaveResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", records.Session{
		Date:        testNow.AddDate(0, 0, 7),
		OperatorIDs: []records.OperatorID{"op-1"},
		Price:       finance.D(900),
	}, &out)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, records.SessionPlanned, out.Session.Status, "defaults to planned")
	assert.Len(t, out.Session.VariableCosts, 2, "default variable-cost lines prefilled")
	assert.True(t, finance.D(300).Equal(out.Cost.Breakdown.Staff))
	assert.True(t, out.Cost.Breakdown.Total.IsPositive())
}

func TestUpdateSession_CannotChangeStatus(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, mem.PutSession(ctx, records.Session{
		ID: "ses-1", Date: testNow, Status: records.SessionPlanned, Price: finance.D(500),
	}))

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/sessions/ses-1", records.Session{
		Status: records.SessionCompleted, Price: finance.D(500),
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Omitting the status keeps the stored one and the update goes through.
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/sessions/ses-1", records.Session{
		Price: finance.D(650),
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sess, err := mem.GetSession(ctx, "ses-1")
	require.NoError(t, err)
	assert.Equal(t, records.SessionPlanned, sess.Status)
	assert.True(t, finance.D(650).Equal(sess.Price))
}

// =============================================================================
// SESSION LIFECYCLE - SUBSCRIPTION CONSUMPTION
// =============================================================================

func TestUpdateSessionStatus_ConsumesSubscription(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, mem.PutOffer(ctx, records.Offer{
		ID: "off-1", Name: "Abonnement", Type: records.OfferSubscription,
		Price: finance.D(5000), SessionCount: 10, Consumed: 4, Active: true,
	}))
	require.NoError(t, mem.PutSession(ctx, records.Session{
		ID: "ses-1", Date: testNow, Status: records.SessionConfirmed,
		OfferID: "off-1", Price: finance.D(500),
	}))

	var out api.StatusTransitionResponse
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/sessions/ses-1/status",
		api.SessionStatusRequest{Status: records.SessionCompleted}, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, records.SessionCompleted, out.Session.Status)
	require.NotNil(t, out.Offer)
	assert.Equal(t, 5, out.Offer.Consumed)

	// Reverting the completion gives the prepaid session back.
	doJSON(t, http.MethodPut, srv.URL+"/api/sessions/ses-1/status",
		api.SessionStatusRequest{Status: records.SessionCancelled}, &out)
	require.NotNil(t, out.Offer)
	assert.Equal(t, 4, out.Offer.Consumed)
}

func TestUpdateSessionStatus_RejectsUnknownStatus(t *testing.T) {
	srv, mem := newTestServer(t)
	require.NoError(t, mem.PutSession(context.Background(), records.Session{
		ID: "ses-1", Date: testNow, Status: records.SessionPlanned, Price: finance.D(0),
	}))

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/sessions/ses-1/status",
		api.SessionStatusRequest{Status: "archived"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// COSTING ENDPOINTS
// =============================================================================

func TestCostDraftSession_NoPersistence(t *testing.T) {
	srv, mem := newTestServer(t)

	var out api.SessionSaveResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/cost", records.Session{
		Date:  testNow,
		Price: finance.D(400),
	}, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Cost.Breakdown.FloorPrice.IsPositive(), "fixed share alone yields a floor")

	sessions, err := mem.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions, "what-if costing writes nothing")
}

func TestEstimateOfferFloor(t *testing.T) {
	srv, mem := newTestServer(t)
	require.NoError(t, mem.PutModule(context.Background(), records.Module{
		ID: "mod-1", Name: "SST", FixedCost: finance.D(60), VariableCost: finance.D(40),
	}))

	var out struct {
		PerSessionCost string `json:"per_session_cost"`
		FloorPrice     string `json:"floor_price"`
		SessionCount   int    `json:"session_count"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/offers/floor", api.OfferFloorRequest{
		ModuleIDs:    []records.ModuleID{"mod-1"},
		SessionCount: 10,
	}, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, out.SessionCount)
	// Defaults: 21,000 fixed over 150 sessions = 140 share; +100 module
	// cost -> 240 per session; x10 x1.05 = 2520.
	assert.Equal(t, "2520", out.FloorPrice)
}

// =============================================================================
// COMPUTATION ENDPOINTS
// =============================================================================

func TestListAlerts_EmptyStoreIsEmptyArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/alerts")
	require.NoError(t, err)
	defer resp.Body.Close()

	var found []records.Alert
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestGetDashboard(t *testing.T) {
	srv, mem := newTestServer(t)
	require.NoError(t, mem.PutSession(context.Background(), records.Session{
		ID: "ses-1", Date: testNow.AddDate(0, 0, -5),
		Status: records.SessionCompleted, Price: finance.D(1000),
	}))

	var out map[string]any
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard", nil, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), out["past_sessions"])
	assert.Contains(t, out, "break_even")
	assert.Contains(t, out, "cash_position")
}

func TestCompareStatuses(t *testing.T) {
	srv, _ := newTestServer(t)

	var out api.StatusComparisonDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/simulator/status-comparison?net=200", nil, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Conversions, 5)
	assert.Equal(t, finance.StatusFreelance, out.Conversions[0].Status, "cheapest first at default rates")

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/simulator/status-comparison?net=-3", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenarios_ListAndLoad(t *testing.T) {
	srv, mem := newTestServer(t)

	var list []api.ScenarioDTO
	doJSON(t, http.MethodGet, srv.URL+"/api/scenarios", nil, &list)
	require.NotEmpty(t, list)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ScenarioID: "starter"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ops, err := mem.ListOperators(context.Background())
	require.NoError(t, err)
	assert.Len(t, ops, 2)

	var current api.ScenarioDTO
	doJSON(t, http.MethodGet, srv.URL+"/api/scenarios/current", nil, &current)
	assert.Equal(t, "starter", current.ID)
}

func TestScenarios_OverloadedMonthTriggersStaffingAlerts(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ScenarioID: "overloaded-month"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var found []records.Alert
	doJSON(t, http.MethodGet, srv.URL+"/api/alerts", nil, &found)

	codes := make(map[string]bool)
	for _, a := range found {
		codes[a.Code] = true
	}
	assert.True(t, codes["OPERATOR_OVERLOAD"], fmt.Sprintf("codes: %v", codes))
	assert.True(t, codes["SUGGEST_PERMANENT_CONTRACT"])
	assert.True(t, codes["OPERATOR_DEPENDENCY"])
}

func TestScenarios_UnknownID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ScenarioID: "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
