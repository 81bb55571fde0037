/*
Package costing computes the financial picture of sessions and offers.

PURPOSE:
  SessionCost is the single source of truth for any session's cost,
  margin and per-session alerts - historical, upcoming, or what-if
  sessions alike, persisted or not. The alert engine and the KPI engine
  both delegate here rather than re-deriving cost, so the dashboard and
  the per-session view can never disagree.

COST COMPONENTS (fixed order, each rounded to 2 decimals):
  1. Staff:        sum of assigned operators' daily company cost
  2. Modules:      sum of fixed + variable cost of assigned modules
  3. Variable:     sum of the session's own ad-hoc cost lines
  4. Fixed share:  annual fixed charges / estimated annual sessions
  5. Amortization: annual equipment amortization / estimated sessions

  Total = sum of the five, floor price = total * 1.05.
  Margin% is 0 when the price is 0 - never a division by zero.

ERROR MODEL:
  Total function. Unresolved operator/module references contribute
  nothing; divisors are clamped with max(value, 1).

SEE ALSO:
  - offer.go: same amortization logic for offer floor estimates
  - alerts/engine.go: forwards the per-session alerts emitted here
*/
package costing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// floorMarkup is the flat 5% safety margin over break-even cost.
var floorMarkup = finance.D(1.05)

// =============================================================================
// BREAKDOWN
// =============================================================================

// Breakdown is the full cost/margin picture of one session.
type Breakdown struct {
	Staff        decimal.Decimal `json:"staff"`
	Modules      decimal.Decimal `json:"modules"`
	Variable     decimal.Decimal `json:"variable"`
	FixedShare   decimal.Decimal `json:"fixed_share"`
	Amortization decimal.Decimal `json:"amortization"`

	Total      decimal.Decimal `json:"total"`
	FloorPrice decimal.Decimal `json:"floor_price"`

	Price         decimal.Decimal `json:"price"`
	Margin        decimal.Decimal `json:"margin"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// =============================================================================
// SESSION COST
// =============================================================================

// SessionCost computes the breakdown and per-session alerts for one
// session against a record snapshot. Pure; the session need not be part
// of the snapshot (what-if costing of an unsaved edit).
func SessionCost(sess records.Session, snap records.Snapshot) (Breakdown, []records.Alert) {
	settings := snap.Settings

	staff := decimal.Zero
	for _, id := range sess.OperatorIDs {
		if op, ok := snap.Operator(id); ok {
			staff = staff.Add(op.DailyCompanyCost(settings.Payroll))
		}
	}
	staff = finance.Round2(staff)

	modules := decimal.Zero
	for _, id := range sess.ModuleIDs {
		if mod, ok := snap.Module(id); ok {
			modules = modules.Add(mod.FixedCost).Add(mod.VariableCost)
		}
	}
	modules = finance.Round2(modules)

	variable := decimal.Zero
	for _, line := range sess.VariableCosts {
		variable = variable.Add(line.Amount)
	}
	variable = finance.Round2(variable)

	b := Breakdown{
		Staff:        staff,
		Modules:      modules,
		Variable:     variable,
		FixedShare:   FixedCostShare(settings),
		Amortization: AmortizationShare(settings),
		Price:        sess.Price,
	}

	b.Total = finance.Round2(b.Staff.Add(b.Modules).Add(b.Variable).Add(b.FixedShare).Add(b.Amortization))
	b.FloorPrice = finance.Round2(b.Total.Mul(floorMarkup))
	b.Margin = finance.Round2(sess.Price.Sub(b.Total))
	if sess.Price.IsPositive() {
		b.MarginPercent = finance.Round2(b.Margin.Div(sess.Price).Mul(finance.D(100)))
	} else {
		b.MarginPercent = decimal.Zero
	}

	return b, sessionAlerts(sess, b, settings)
}

// sessionAlerts emits the per-session alerts in their fixed order. Each
// rule is independent: a session can carry several at once.
func sessionAlerts(sess records.Session, b Breakdown, settings records.Settings) []records.Alert {
	var alerts []records.Alert
	priced := sess.Price.IsPositive()

	if priced && sess.Price.LessThan(b.FloorPrice) {
		alerts = append(alerts, records.Alert{
			Level:     records.AlertCritical,
			Code:      "PRICE_BELOW_FLOOR",
			Message:   fmt.Sprintf("Prix de vente %s sous le prix plancher %s", records.FormatEuro(sess.Price), records.FormatEuro(b.FloorPrice)),
			SessionID: sess.ID,
		})
	}

	if priced && b.MarginPercent.LessThan(settings.MarginAlert) {
		alerts = append(alerts, records.Alert{
			Level:     records.AlertWarning,
			Code:      "MARGIN_BELOW_ALERT",
			Message:   fmt.Sprintf("Marge %s sous le seuil d'alerte %s", records.FormatPercent(b.MarginPercent), records.FormatPercent(settings.MarginAlert)),
			SessionID: sess.ID,
		})
	}

	if priced &&
		b.MarginPercent.GreaterThanOrEqual(settings.MarginAlert) &&
		b.MarginPercent.LessThan(settings.MarginTarget) {
		alerts = append(alerts, records.Alert{
			Level:     records.AlertInfo,
			Code:      "MARGIN_BELOW_TARGET",
			Message:   fmt.Sprintf("Marge %s sous l'objectif %s", records.FormatPercent(b.MarginPercent), records.FormatPercent(settings.MarginTarget)),
			SessionID: sess.ID,
		})
	}

	return alerts
}

// =============================================================================
// SHARED OVERHEAD ALLOCATION
// =============================================================================

// FixedCostShare is the per-session allocation of annual fixed charges.
func FixedCostShare(settings records.Settings) decimal.Decimal {
	total := decimal.Zero
	for _, line := range settings.FixedCosts {
		total = total.Add(line.Amount)
	}
	return finance.Round2(total.Div(sessionsDenominator(settings)))
}

// AmortizationShare is the per-session allocation of annual equipment
// amortization (each line's amount spread over its duration).
func AmortizationShare(settings records.Settings) decimal.Decimal {
	annual := decimal.Zero
	for _, line := range settings.Equipment {
		years := line.DurationYears
		if years < 1 {
			years = 1
		}
		annual = annual.Add(line.Amount.Div(decimal.NewFromInt(int64(years))))
	}
	return finance.Round2(annual.Div(sessionsDenominator(settings)))
}

// AnnualCharges is the undivided annual total of fixed charges plus
// equipment amortization, the numerator of the break-even computation.
func AnnualCharges(settings records.Settings) decimal.Decimal {
	total := decimal.Zero
	for _, line := range settings.FixedCosts {
		total = total.Add(line.Amount)
	}
	for _, line := range settings.Equipment {
		years := line.DurationYears
		if years < 1 {
			years = 1
		}
		total = total.Add(line.Amount.Div(decimal.NewFromInt(int64(years))))
	}
	return finance.Round2(total)
}

func sessionsDenominator(settings records.Settings) decimal.Decimal {
	n := settings.EstimatedAnnualSessions
	if n < 1 {
		n = 1
	}
	return decimal.NewFromInt(int64(n))
}
