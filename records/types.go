/*
Package records defines the stored record types the engine computes over
and the contracts around them.

PURPOSE:
  The engine (finance, costing, alerts, kpi) is a set of pure functions
  over snapshots of these records. This package holds:
  - The record types themselves (Settings, Operator, Module, Location,
    Client, Offer, Session) with their enums
  - The Alert type every alert-producing pass emits
  - The Snapshot passed into every engine call
  - The Store interface the persistence collaborator implements
  - The offer-consumption lifecycle contract
  - Presentation-adjacent formatting helpers

DESIGN PRINCIPLES:
  1. Records are immutable snapshots for the duration of one computation
  2. Typed string IDs prevent mixing identifier kinds
  3. Missing references resolve to nothing, never to an error

SEE ALSO:
  - store.go: Store interface and Snapshot loading
  - lifecycle.go: subscription consumption side effect contract
  - format.go: display labels and French number formatting
*/
package records

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/finance"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type (
	OperatorID string
	ModuleID   string
	ClientID   string
	LocationID string
	OfferID    string
	SessionID  string
)

// =============================================================================
// SETTINGS - Single configuration record
// =============================================================================

// CostLine is a labeled amount: annual for fixed costs, per-session for
// variable cost lines.
type CostLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// EquipmentLine is an equipment purchase amortized over a number of years.
type EquipmentLine struct {
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	DurationYears int             `json:"duration_years"`
}

// Settings is the single configuration record every computation reads.
// Created once with defaults, mutated only via explicit update.
type Settings struct {
	// Annual fixed charges (rent, insurance, software, ...).
	FixedCosts []CostLine `json:"fixed_costs"`

	// Itemized contribution schedule. Present for a future precise
	// payroll model; the conversion formulas use Payroll instead.
	RateTable finance.RateTable `json:"rate_table"`

	// Flat legacy rates consumed by the per-status formulas.
	Payroll finance.LegacyRates `json:"payroll"`

	// Margin thresholds, in percent of price.
	MarginTarget decimal.Decimal `json:"margin_target"`
	MarginAlert  decimal.Decimal `json:"margin_alert"`

	// Sessions per operator per month before an overload warning.
	MonthlyOverloadThreshold int `json:"monthly_overload_threshold"`

	// Annual sessions beyond which a contractor should be offered a
	// permanent contract.
	PermanentSuggestionThreshold int `json:"permanent_suggestion_threshold"`

	// Denominator for per-session fixed-cost allocation.
	EstimatedAnnualSessions int `json:"estimated_annual_sessions"`

	// Break-even floor denominator.
	TargetAnnualSessions int `json:"target_annual_sessions"`

	// Equipment amortization lines.
	Equipment []EquipmentLine `json:"equipment"`

	// Variable-cost lines prefilled on new sessions.
	DefaultVariableCosts []CostLine `json:"default_variable_costs"`
}

// =============================================================================
// OPERATOR
// =============================================================================

// CostMode says which daily amount an operator declared.
type CostMode string

const (
	// CostModeNet: DailyAmount is the desired net pay; company cost is
	// derived through the payroll converter.
	CostModeNet CostMode = "net"

	// CostModeMaxCost: DailyAmount is the maximum company cost, used as-is.
	CostModeMaxCost CostMode = "max_cost"
)

// Operator is a trainer the company can staff on sessions.
type Operator struct {
	ID          OperatorID      `json:"id"`
	Name        string          `json:"name"`
	Status      finance.Status  `json:"status"`
	CostMode    CostMode        `json:"cost_mode"`
	DailyAmount decimal.Decimal `json:"daily_amount"`
	Active      bool            `json:"active"`
}

// DailyCompanyCost resolves the operator's all-in daily cost under the
// given rates, honoring the declared cost mode.
func (o Operator) DailyCompanyCost(rates finance.LegacyRates) decimal.Decimal {
	if o.CostMode == CostModeMaxCost {
		return o.DailyAmount
	}
	return finance.NetToCompanyCost(o.DailyAmount, o.Status, rates).CompanyCost
}

// =============================================================================
// MODULE / LOCATION / CLIENT
// =============================================================================

// Module is a training unit with per-session costs.
// IncompatibleWith is a symmetric relation; SyncIncompatibilities keeps
// the reverse edges consistent whenever one side changes.
type Module struct {
	ID                ModuleID        `json:"id"`
	Name              string          `json:"name"`
	FixedCost         decimal.Decimal `json:"fixed_cost"`
	VariableCost      decimal.Decimal `json:"variable_cost"`
	RequiredOperators int             `json:"required_operators"`
	IncompatibleWith  []ModuleID      `json:"incompatible_with"`
}

// Location is a training venue. Its per-session cost and supported
// modules are advisory data surfaced as warnings, never hard failures.
type Location struct {
	ID               LocationID      `json:"id"`
	Name             string          `json:"name"`
	Cost             decimal.Decimal `json:"cost"`
	SupportedModules []ModuleID      `json:"supported_modules"`
}

// BillingCategory affects tax display only.
type BillingCategory string

const (
	BillingBusiness BillingCategory = "b2b"
	BillingConsumer BillingCategory = "b2c"
)

type Client struct {
	ID      ClientID        `json:"id"`
	Name    string          `json:"name"`
	Billing BillingCategory `json:"billing"`
	Active  bool            `json:"active"`
}

// =============================================================================
// OFFER
// =============================================================================

type OfferType string

const (
	OfferSingle       OfferType = "single"
	OfferSubscription OfferType = "subscription"
	OfferCustom       OfferType = "custom"
)

// Offer is a commercial bundle. For subscriptions, Consumed tracks how
// many of SessionCount prepaid sessions have completed; it moves only
// through the lifecycle contract in lifecycle.go, never by direct edit.
type Offer struct {
	ID           OfferID         `json:"id"`
	Name         string          `json:"name"`
	Type         OfferType       `json:"type"`
	Price        decimal.Decimal `json:"price"`
	SessionCount int             `json:"session_count"`
	Consumed     int             `json:"consumed"`
	ModuleIDs    []ModuleID      `json:"module_ids"`
	Active       bool            `json:"active"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
}

// =============================================================================
// SESSION - The central fact record
// =============================================================================

type SessionStatus string

const (
	SessionPlanned    SessionStatus = "planned"
	SessionConfirmed  SessionStatus = "confirmed"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

type Session struct {
	ID            SessionID       `json:"id"`
	Date          time.Time       `json:"date"`
	Status        SessionStatus   `json:"status"`
	OperatorIDs   []OperatorID    `json:"operator_ids"`
	ModuleIDs     []ModuleID      `json:"module_ids"`
	LocationID    LocationID      `json:"location_id,omitempty"`
	ClientID      ClientID        `json:"client_id,omitempty"`
	OfferID       OfferID         `json:"offer_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	VariableCosts []CostLine      `json:"variable_costs"`
}

// Cancelled reports whether the session is excluded from every
// financial rollup and alert rule.
func (s Session) Cancelled() bool { return s.Status == SessionCancelled }

// =============================================================================
// ALERTS
// =============================================================================

// AlertLevel is an independent severity, not a ladder: one entity may
// carry alerts of several levels at once.
type AlertLevel string

const (
	AlertCritical AlertLevel = "critical"
	AlertWarning  AlertLevel = "warning"
	AlertInfo     AlertLevel = "info"
)

// Alert is one business alert. Entity ID fields are set when the alert
// is about that entity, left empty otherwise.
type Alert struct {
	Level      AlertLevel `json:"level"`
	Code       string     `json:"code"`
	Message    string     `json:"message"`
	Context    string     `json:"context,omitempty"`
	SessionID  SessionID  `json:"session_id,omitempty"`
	OperatorID OperatorID `json:"operator_id,omitempty"`
	ModuleID   ModuleID   `json:"module_id,omitempty"`
	OfferID    OfferID    `json:"offer_id,omitempty"`
}

// =============================================================================
// MODULE INCOMPATIBILITY SYNC
// =============================================================================

// SyncIncompatibilities makes the incompatibility relation symmetric
// around a just-edited module: every module it names gains the reverse
// edge, every module it no longer names loses it. Returns the modules
// (other than the edited one) whose edges changed and need re-saving.
func SyncIncompatibilities(all []Module, edited Module) []Module {
	named := make(map[ModuleID]bool, len(edited.IncompatibleWith))
	for _, id := range edited.IncompatibleWith {
		named[id] = true
	}

	var changed []Module
	for _, other := range all {
		if other.ID == edited.ID {
			continue
		}
		has := false
		for _, id := range other.IncompatibleWith {
			if id == edited.ID {
				has = true
				break
			}
		}
		switch {
		case named[other.ID] && !has:
			other.IncompatibleWith = append(other.IncompatibleWith, edited.ID)
			changed = append(changed, other)
		case !named[other.ID] && has:
			kept := make([]ModuleID, 0, len(other.IncompatibleWith)-1)
			for _, id := range other.IncompatibleWith {
				if id != edited.ID {
					kept = append(kept, id)
				}
			}
			other.IncompatibleWith = kept
			changed = append(changed, other)
		}
	}
	return changed
}
