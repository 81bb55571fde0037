/*
handlers.go - HTTP API handlers for the economic computation engine

PURPOSE:
  Exposes the engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates every computation to the pure engine
  packages (finance, costing, alerts, kpi) over one snapshot per
  request.

ENDPOINTS:
  Settings:
    GET    /api/settings               Read configuration
    PUT    /api/settings               Replace configuration

  Records (operators, modules, clients, locations, offers):
    GET/POST on the collection, GET/PUT/DELETE on /{id}

  Sessions:
    POST   /api/sessions               Create (prefills variable costs)
    PUT    /api/sessions/{id}/status   Lifecycle transition + offer consumption
    GET    /api/sessions/{id}/cost     Cost breakdown + pricing alerts
    POST   /api/sessions/cost          Cost a draft (what-if, no persistence)

  Computation:
    GET    /api/alerts                 Full alert scan
    GET    /api/dashboard              KPI rollup
    GET    /api/simulator/status-comparison?net=X

ARCHITECTURE:
  Handler holds the store and a clock. Every computation endpoint loads
  one snapshot and hands it to the engine, so a single response is
  internally consistent even while other requests write.

SIDE EFFECTS:
  The only cross-record write is the subscription consumption counter,
  driven exclusively by the status-transition endpoint through the
  lifecycle contract. Plain session PUT cannot move it.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/alerts"
	"github.com/forma/training-engine/costing"
	"github.com/forma/training-engine/factory"
	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/kpi"
	"github.com/forma/training-engine/records"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store records.Store

	// Clock supplies "now" for every snapshot; swapped in tests.
	Clock func() time.Time

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store records.Store) *Handler {
	return &Handler{
		Store: store,
		Clock: time.Now,
	}
}

func (h *Handler) now() time.Time {
	return h.Clock().UTC()
}

func (h *Handler) snapshot(ctx context.Context) (records.Snapshot, error) {
	return records.LoadSnapshot(ctx, h.Store, h.now())
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the configuration record, defaults before first save.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.Settings(r.Context())
	if errors.Is(err, records.ErrNotFound) {
		settings = factory.DefaultSettings()
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the configuration record.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings records.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Store.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// =============================================================================
// OPERATOR HANDLERS
// =============================================================================

func (h *Handler) ListOperators(w http.ResponseWriter, r *http.Request) {
	ops, err := h.Store.ListOperators(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list operators", err)
		return
	}
	writeJSON(w, http.StatusOK, ops)
}

func (h *Handler) GetOperator(w http.ResponseWriter, r *http.Request) {
	op, err := h.Store.GetOperator(r.Context(), records.OperatorID(chi.URLParam(r, "id")))
	if errors.Is(err, records.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Operator not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get operator", err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func (h *Handler) CreateOperator(w http.ResponseWriter, r *http.Request) {
	var op records.Operator
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if op.ID == "" {
		op.ID = records.OperatorID(newID("op"))
	}
	if err := h.Store.PutOperator(r.Context(), op); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save operator", err)
		return
	}
	writeJSON(w, http.StatusCreated, op)
}

func (h *Handler) UpdateOperator(w http.ResponseWriter, r *http.Request) {
	var op records.Operator
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	op.ID = records.OperatorID(chi.URLParam(r, "id"))
	if err := h.Store.PutOperator(r.Context(), op); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save operator", err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func (h *Handler) DeleteOperator(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteOperator(r.Context(), records.OperatorID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete operator", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// MODULE HANDLERS
// =============================================================================

func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	mods, err := h.Store.ListModules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list modules", err)
		return
	}
	writeJSON(w, http.StatusOK, mods)
}

func (h *Handler) GetModule(w http.ResponseWriter, r *http.Request) {
	mod, err := h.Store.GetModule(r.Context(), records.ModuleID(chi.URLParam(r, "id")))
	if errors.Is(err, records.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Module not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get module", err)
		return
	}
	writeJSON(w, http.StatusOK, mod)
}

// SaveModule creates or updates a module and keeps the incompatibility
// relation symmetric: every module the edited one names gains the
// reverse edge, every module it no longer names loses it.
func (h *Handler) SaveModule(w http.ResponseWriter, r *http.Request) {
	var mod records.Module
	if err := json.NewDecoder(r.Body).Decode(&mod); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		mod.ID = records.ModuleID(id)
	}
	created := false
	if mod.ID == "" {
		mod.ID = records.ModuleID(newID("mod"))
		created = true
	}

	ctx := r.Context()
	all, err := h.Store.ListModules(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list modules", err)
		return
	}
	if err := h.Store.PutModule(ctx, mod); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save module", err)
		return
	}
	for _, changed := range records.SyncIncompatibilities(all, mod) {
		if err := h.Store.PutModule(ctx, changed); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to sync incompatibilities", err)
			return
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, mod)
}

func (h *Handler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteModule(r.Context(), records.ModuleID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete module", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetClient(r.Context(), records.ClientID(chi.URLParam(r, "id")))
	if errors.Is(err, records.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) SaveClient(w http.ResponseWriter, r *http.Request) {
	var c records.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		c.ID = records.ClientID(id)
	}
	created := false
	if c.ID == "" {
		c.ID = records.ClientID(newID("cli"))
		created = true
	}
	if err := h.Store.PutClient(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save client", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, c)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteClient(r.Context(), records.ClientID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete client", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LOCATION HANDLERS
// =============================================================================

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Store.ListLocations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list locations", err)
		return
	}
	writeJSON(w, http.StatusOK, locs)
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.Store.GetLocation(r.Context(), records.LocationID(chi.URLParam(r, "id")))
	if errors.Is(err, records.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Location not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get location", err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (h *Handler) SaveLocation(w http.ResponseWriter, r *http.Request) {
	var loc records.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		loc.ID = records.LocationID(id)
	}
	created := false
	if loc.ID == "" {
		loc.ID = records.LocationID(newID("loc"))
		created = true
	}
	if err := h.Store.PutLocation(r.Context(), loc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save location", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, loc)
}

func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteLocation(r.Context(), records.LocationID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete location", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OFFER HANDLERS
// =============================================================================

func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Store.ListOffers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list offers", err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := h.Store.GetOffer(r.Context(), records.OfferID(chi.URLParam(r, "id")))
	if errors.Is(err, records.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Offer not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get offer", err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// SaveOffer creates or updates an offer. The response carries the floor
// estimate so the client can surface underpricing immediately; a price
// below floor never blocks the save.
func (h *Handler) SaveOffer(w http.ResponseWriter, r *http.Request) {
	var offer records.Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		offer.ID = records.OfferID(id)
	}
	created := false
	if offer.ID == "" {
		offer.ID = records.OfferID(newID("off"))
		created = true
	}
	if err := h.Store.PutOffer(r.Context(), offer); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save offer", err)
		return
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, OfferSaveResponse{
		Offer: offer,
		Floor: costing.OfferFloorFor(offer, snap),
	})
}

func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteOffer(r.Context(), records.OfferID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete offer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EstimateOfferFloor prices a draft offer without persisting anything.
func (h *Handler) EstimateOfferFloor(w http.ResponseWriter, r *http.Request) {
	var req OfferFloorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}
	writeJSON(w, http.StatusOK, costing.OfferFloor(req.ModuleIDs, req.SessionCount, snap))
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Store.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Store.GetSession(r.Context(), records.SessionID(chi.URLParam(r, "id")))
	if errors.Is(err, records.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get session", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SaveSession creates or updates a session. New sessions default to
// "planned" and inherit the configured default variable-cost lines when
// none are given. The response bundles the cost breakdown, its pricing
// alerts and the advisory compatibility warnings.
//
// Status changes are rejected here: the lifecycle endpoint is the only
// path that may move a session's status, because it owns the linked
// subscription's consumption side effect.
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	var sess records.Session
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		sess.ID = records.SessionID(id)
	}

	ctx := r.Context()
	created := sess.ID == ""
	if created {
		sess.ID = records.SessionID(newID("ses"))
	} else if existing, err := h.Store.GetSession(ctx, sess.ID); err == nil {
		if sess.Status != "" && sess.Status != existing.Status {
			writeError(w, http.StatusBadRequest, "Status changes go through the status endpoint", nil)
			return
		}
		sess.Status = existing.Status
	} else if errors.Is(err, records.ErrNotFound) {
		created = true
	} else {
		writeError(w, http.StatusInternalServerError, "Failed to get session", err)
		return
	}

	if sess.Status == "" {
		sess.Status = records.SessionPlanned
	} else if !validSessionStatus(sess.Status) {
		writeError(w, http.StatusBadRequest, "Unknown session status", nil)
		return
	}

	snap, err := h.snapshot(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}
	if created && len(sess.VariableCosts) == 0 {
		sess.VariableCosts = append([]records.CostLine(nil), snap.Settings.DefaultVariableCosts...)
	}

	if err := h.Store.PutSession(ctx, sess); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save session", err)
		return
	}

	// Cost against the snapshot plus the just-saved session.
	breakdown, costAlerts := costing.SessionCost(sess, snap)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, SessionSaveResponse{
		Session:  sess,
		Cost:     SessionCostResponse{Breakdown: breakdown, Alerts: costAlerts},
		Warnings: alerts.CompatibilityWarnings(sess, snap),
	})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteSession(r.Context(), records.SessionID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSessionStatus moves a session through its lifecycle and applies
// the subscription consumption side effect: completing a session draws
// one prepaid session from its linked subscription, leaving "completed"
// gives it back.
func (h *Handler) UpdateSessionStatus(w http.ResponseWriter, r *http.Request) {
	var req SessionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !validSessionStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Unknown session status", nil)
		return
	}

	ctx := r.Context()
	sess, err := h.Store.GetSession(ctx, records.SessionID(chi.URLParam(r, "id")))
	if errors.Is(err, records.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get session", err)
		return
	}

	oldStatus := sess.Status
	sess.Status = req.Status
	if err := h.Store.PutSession(ctx, sess); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save session", err)
		return
	}

	resp := StatusTransitionResponse{Session: sess}
	if sess.OfferID != "" {
		offer, err := h.Store.GetOffer(ctx, sess.OfferID)
		if err == nil {
			if records.ApplyTransition(&offer, oldStatus, req.Status) {
				if err := h.Store.PutOffer(ctx, offer); err != nil {
					writeError(w, http.StatusInternalServerError, "Failed to update offer", err)
					return
				}
			}
			resp.Offer = &offer
		} else if !errors.Is(err, records.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "Failed to get offer", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetSessionCost returns the cost breakdown of a stored session.
func (h *Handler) GetSessionCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.Store.GetSession(ctx, records.SessionID(chi.URLParam(r, "id")))
	if errors.Is(err, records.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get session", err)
		return
	}

	snap, err := h.snapshot(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	breakdown, costAlerts := costing.SessionCost(sess, snap)
	writeJSON(w, http.StatusOK, SessionCostResponse{Breakdown: breakdown, Alerts: costAlerts})
}

// CostDraftSession costs a session that is not persisted: what-if
// pricing during authoring.
func (h *Handler) CostDraftSession(w http.ResponseWriter, r *http.Request) {
	var sess records.Session
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	breakdown, costAlerts := costing.SessionCost(sess, snap)
	writeJSON(w, http.StatusOK, SessionSaveResponse{
		Session:  sess,
		Cost:     SessionCostResponse{Breakdown: breakdown, Alerts: costAlerts},
		Warnings: alerts.CompatibilityWarnings(sess, snap),
	})
}

func validSessionStatus(s records.SessionStatus) bool {
	switch s {
	case records.SessionPlanned, records.SessionConfirmed, records.SessionInProgress,
		records.SessionCompleted, records.SessionCancelled:
		return true
	}
	return false
}

// =============================================================================
// COMPUTATION HANDLERS
// =============================================================================

// ListAlerts runs the full alert scan over one snapshot.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}
	found := alerts.Scan(snap)
	if found == nil {
		found = []records.Alert{}
	}
	writeJSON(w, http.StatusOK, found)
}

// GetDashboard returns the KPI rollup.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}
	writeJSON(w, http.StatusOK, kpi.Compute(snap))
}

// CompareStatuses ranks every hireable status for a desired net daily
// pay, under the configured rates.
func (h *Handler) CompareStatuses(w http.ResponseWriter, r *http.Request) {
	net, err := decimal.NewFromString(r.URL.Query().Get("net"))
	if err != nil || !net.IsPositive() {
		writeError(w, http.StatusBadRequest, "Query parameter 'net' must be a positive amount", err)
		return
	}

	settings, err := h.Store.Settings(r.Context())
	if errors.Is(err, records.ErrNotFound) {
		settings = factory.DefaultSettings()
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	writeJSON(w, http.StatusOK, StatusComparisonDTO{
		NetDaily:    net,
		Conversions: finance.CompareAllStatuses(net, settings.Payroll),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
