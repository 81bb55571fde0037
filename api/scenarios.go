/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates operators, modules,
	clients, offers and sessions that demonstrate specific engine
	behaviors.

AVAILABLE SCENARIOS:

	starter:          Small training company with a healthy pipeline
	overloaded-month: One freelance trainer carrying far too much
	expiring-bundle:  Subscription nearly exhausted and about to expire

HOW SCENARIOS WORK:
 1. Reset the store (clear all records)
 2. Save default settings
 3. Create records relative to the handler clock so the alerts and
    dashboard the scenario is meant to demonstrate actually fire

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overloaded-month"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: shared helpers and handler context
  - factory/settings.go: the default settings every scenario starts from
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/forma/training-engine/factory"
	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "starter",
		Name:        "Petite structure",
		Description: "Two trainers, two modules, a healthy session pipeline",
		Category:    "baseline",
	},
	{
		ID:          "overloaded-month",
		Name:        "Mois surchargé",
		Description: "One freelance trainer over every staffing threshold at once",
		Category:    "alerts",
	},
	{
		ID:          "expiring-bundle",
		Name:        "Abonnement en fin de vie",
		Description: "Subscription nearly exhausted and expiring within a month",
		Category:    "alerts",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.resetStore(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "starter":
		err = h.loadStarterScenario(ctx)
	case "overloaded-month":
		err = h.loadOverloadedMonthScenario(ctx)
	case "expiring-bundle":
		err = h.loadExpiringBundleScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "loaded",
		"scenario_id": req.ScenarioID,
	})
}

// resetStore deletes every record and restores default settings.
func (h *Handler) resetStore(ctx context.Context) error {
	ops, err := h.Store.ListOperators(ctx)
	if err != nil {
		return err
	}
	for _, o := range ops {
		if err := h.Store.DeleteOperator(ctx, o.ID); err != nil {
			return err
		}
	}
	mods, err := h.Store.ListModules(ctx)
	if err != nil {
		return err
	}
	for _, m := range mods {
		if err := h.Store.DeleteModule(ctx, m.ID); err != nil {
			return err
		}
	}
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return err
	}
	for _, c := range clients {
		if err := h.Store.DeleteClient(ctx, c.ID); err != nil {
			return err
		}
	}
	locs, err := h.Store.ListLocations(ctx)
	if err != nil {
		return err
	}
	for _, l := range locs {
		if err := h.Store.DeleteLocation(ctx, l.ID); err != nil {
			return err
		}
	}
	offers, err := h.Store.ListOffers(ctx)
	if err != nil {
		return err
	}
	for _, o := range offers {
		if err := h.Store.DeleteOffer(ctx, o.ID); err != nil {
			return err
		}
	}
	sessions, err := h.Store.ListSessions(ctx)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if err := h.Store.DeleteSession(ctx, s.ID); err != nil {
			return err
		}
	}
	return h.Store.SaveSettings(ctx, factory.DefaultSettings())
}

// =============================================================================
// SCENARIO: STARTER
// =============================================================================

func (h *Handler) loadStarterScenario(ctx context.Context) error {
	operators := []records.Operator{
		{ID: "op-claire", Name: "Claire Dubois", Status: finance.StatusPermanent,
			CostMode: records.CostModeNet, DailyAmount: finance.D(140), Active: true},
		{ID: "op-marc", Name: "Marc Lefevre", Status: finance.StatusFreelance,
			CostMode: records.CostModeNet, DailyAmount: finance.D(250), Active: true},
	}
	for _, o := range operators {
		if err := h.Store.PutOperator(ctx, o); err != nil {
			return err
		}
	}

	modules := []records.Module{
		{ID: "mod-sst", Name: "Sauveteur secouriste du travail",
			FixedCost: finance.D(60), VariableCost: finance.D(18), RequiredOperators: 1},
		{ID: "mod-incendie", Name: "Équipier de première intervention",
			FixedCost: finance.D(90), VariableCost: finance.D(25), RequiredOperators: 1},
	}
	for _, m := range modules {
		if err := h.Store.PutModule(ctx, m); err != nil {
			return err
		}
	}

	if err := h.Store.PutLocation(ctx, records.Location{
		ID: "loc-centre", Name: "Centre de formation", Cost: finance.D(120),
		SupportedModules: []records.ModuleID{"mod-sst", "mod-incendie"},
	}); err != nil {
		return err
	}
	if err := h.Store.PutClient(ctx, records.Client{
		ID: "cli-acme", Name: "Acme Industrie", Billing: records.BillingBusiness, Active: true,
	}); err != nil {
		return err
	}

	now := h.now()
	sessions := []records.Session{
		{ID: "ses-done-1", Date: now.AddDate(0, 0, -20), Status: records.SessionCompleted,
			OperatorIDs: []records.OperatorID{"op-claire"}, ModuleIDs: []records.ModuleID{"mod-sst"},
			LocationID: "loc-centre", ClientID: "cli-acme", Price: finance.D(950)},
		{ID: "ses-done-2", Date: now.AddDate(0, 0, -10), Status: records.SessionCompleted,
			OperatorIDs: []records.OperatorID{"op-marc"}, ModuleIDs: []records.ModuleID{"mod-incendie"},
			LocationID: "loc-centre", ClientID: "cli-acme", Price: finance.D(1100)},
		{ID: "ses-next", Date: now.AddDate(0, 0, 7), Status: records.SessionConfirmed,
			OperatorIDs: []records.OperatorID{"op-claire"}, ModuleIDs: []records.ModuleID{"mod-sst"},
			LocationID: "loc-centre", ClientID: "cli-acme", Price: finance.D(980)},
	}
	for _, s := range sessions {
		if err := h.Store.PutSession(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO: OVERLOADED MONTH
// =============================================================================

// One freelance trainer staffed on nearly everything: trips the monthly
// overload, the permanent-contract suggestion, the dependency
// concentration and the requalification-risk rules in a single scan.
func (h *Handler) loadOverloadedMonthScenario(ctx context.Context) error {
	if err := h.Store.PutOperator(ctx, records.Operator{
		ID: "op-solo", Name: "Nadia Benali", Status: finance.StatusFreelance,
		CostMode: records.CostModeNet, DailyAmount: finance.D(280), Active: true,
	}); err != nil {
		return err
	}
	if err := h.Store.PutOperator(ctx, records.Operator{
		ID: "op-backup", Name: "Paul Girard", Status: finance.StatusDayContract,
		CostMode: records.CostModeNet, DailyAmount: finance.D(160), Active: true,
	}); err != nil {
		return err
	}
	if err := h.Store.PutModule(ctx, records.Module{
		ID: "mod-sst", Name: "Sauveteur secouriste du travail",
		FixedCost: finance.D(60), VariableCost: finance.D(18), RequiredOperators: 1,
	}); err != nil {
		return err
	}

	// 22 completed sessions this month for the freelance, a token 2 for
	// the backup, plus enough spread over the year to cross the
	// permanent-suggestion threshold.
	now := h.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 9, 0, 0, 0, time.UTC)
	n := 0
	put := func(day time.Time, op records.OperatorID) error {
		n++
		return h.Store.PutSession(ctx, records.Session{
			ID:          records.SessionID(fmt.Sprintf("ses-%03d", n)),
			Date:        day,
			Status:      records.SessionCompleted,
			OperatorIDs: []records.OperatorID{op},
			ModuleIDs:   []records.ModuleID{"mod-sst"},
			Price:       finance.D(850),
		})
	}
	for i := 0; i < 22; i++ {
		if err := put(monthStart.AddDate(0, 0, i%27), "op-solo"); err != nil {
			return err
		}
	}
	for i := 0; i < 2; i++ {
		if err := put(monthStart.AddDate(0, 0, i+3), "op-backup"); err != nil {
			return err
		}
	}
	yearStart := time.Date(now.Year(), time.January, 5, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 80 && yearStart.AddDate(0, 0, i*2).Before(monthStart); i++ {
		if err := put(yearStart.AddDate(0, 0, i*2), "op-solo"); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO: EXPIRING BUNDLE
// =============================================================================

func (h *Handler) loadExpiringBundleScenario(ctx context.Context) error {
	if err := h.Store.PutModule(ctx, records.Module{
		ID: "mod-sst", Name: "Sauveteur secouriste du travail",
		FixedCost: finance.D(60), VariableCost: finance.D(18), RequiredOperators: 1,
	}); err != nil {
		return err
	}
	if err := h.Store.PutClient(ctx, records.Client{
		ID: "cli-acme", Name: "Acme Industrie", Billing: records.BillingBusiness, Active: true,
	}); err != nil {
		return err
	}

	now := h.now()
	expires := now.AddDate(0, 0, 20)
	if err := h.Store.PutOffer(ctx, records.Offer{
		ID:           "off-bundle",
		Name:         "Abonnement 10 sessions SST",
		Type:         records.OfferSubscription,
		Price:        finance.D(7800),
		SessionCount: 10,
		Consumed:     9,
		ModuleIDs:    []records.ModuleID{"mod-sst"},
		Active:       true,
		ExpiresAt:    &expires,
	}); err != nil {
		return err
	}

	// The one remaining prepaid session, already scheduled.
	return h.Store.PutSession(ctx, records.Session{
		ID:        "ses-last",
		Date:      now.AddDate(0, 0, 10),
		Status:    records.SessionPlanned,
		ModuleIDs: []records.ModuleID{"mod-sst"},
		ClientID:  "cli-acme",
		OfferID:   "off-bundle",
		Price:     finance.D(780),
	})
}
