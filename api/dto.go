/*
dto.go - Request and response shapes for the HTTP API

PURPOSE:
  The stored record types already carry JSON tags and are returned
  directly where a response is just the record. This file holds the
  shapes that are NOT plain records: request bodies, composite save
  responses that bundle a record with its derived economics, and the
  error envelope.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *Response: composite response wrappers
  - *DTO: response-only types with no stored counterpart

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - records/types.go: the record types returned directly
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/costing"
	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SessionStatusRequest drives a session lifecycle transition.
type SessionStatusRequest struct {
	Status records.SessionStatus `json:"status"`
}

// OfferFloorRequest asks for the minimum viable price of a draft offer
// that may not be persisted yet.
type OfferFloorRequest struct {
	ModuleIDs    []records.ModuleID `json:"module_ids"`
	SessionCount int                `json:"session_count"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// SessionCostResponse bundles a session's cost breakdown with the
// alerts that breakdown triggers.
type SessionCostResponse struct {
	Breakdown costing.Breakdown `json:"breakdown"`
	Alerts    []records.Alert   `json:"alerts"`
}

// SessionSaveResponse is returned by session create/update: the saved
// record, its economics, and advisory compatibility warnings. Warnings
// never block the save.
type SessionSaveResponse struct {
	Session  records.Session     `json:"session"`
	Cost     SessionCostResponse `json:"cost"`
	Warnings []records.Alert     `json:"warnings"`
}

// OfferSaveResponse is returned by offer create/update with the floor
// estimate alongside.
type OfferSaveResponse struct {
	Offer records.Offer              `json:"offer"`
	Floor costing.OfferFloorEstimate `json:"floor"`
}

// StatusTransitionResponse reports a lifecycle transition and, when the
// session draws on a subscription, the adjusted offer.
type StatusTransitionResponse struct {
	Session records.Session `json:"session"`
	Offer   *records.Offer  `json:"offer,omitempty"`
}

// StatusComparisonDTO ranks every hireable status for one desired net
// daily pay, cheapest company cost first.
type StatusComparisonDTO struct {
	NetDaily    decimal.Decimal      `json:"net_daily"`
	Conversions []finance.Conversion `json:"conversions"`
}

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
