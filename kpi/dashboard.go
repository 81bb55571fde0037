/*
Package kpi computes dashboard-level rollups over a record snapshot.

PURPOSE:
  Pure aggregation relative to "now": realized vs forecast revenue, net
  result, average realized margin, operator load, break-even session
  count (point mort) and a theoretical cash position (trésorerie).
  Session economics come from costing.SessionCost - never re-derived.

PARTITIONING:
  Sessions split into past (date < now) and upcoming (date >= now);
  cancelled sessions are excluded from both partitions.

BREAK-EVEN:
  Annual fixed charges (fixed lines + equipment amortization, undivided)
  divided by the average margin of the current year's past priced
  sessions. A non-positive average margin makes break-even unreachable
  ("Impossible") rather than a division by a non-positive number.

CASH POSITION:
  Current-year realized cash-in, minus annual charges prorated by the
  elapsed fraction of the year (day-of-year / 365), minus the realized
  sessions' direct costs (staff + modules + variable only - the fixed
  and amortization shares are already inside the prorated term, counting
  them again would double-charge).

SEE ALSO:
  - costing/session.go: the single source of session cost
  - alerts/engine.go: the sibling alert pass over the same snapshot
*/
package kpi

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/costing"
	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// Break-even display statuses.
const (
	BreakEvenReached     = "Atteint"
	BreakEvenInProgress  = "En cours"
	BreakEvenUnreachable = "Impossible"
)

// BreakEven is the point-mort picture for the current year.
type BreakEven struct {
	AnnualCharges     decimal.Decimal `json:"annual_charges"`
	AverageMargin     decimal.Decimal `json:"average_margin"`
	RequiredSessions  int             `json:"required_sessions"`
	RealizedSessions  int             `json:"realized_sessions"`
	RemainingSessions int             `json:"remaining_sessions"`
	Status            string          `json:"status"`
}

// OperatorLoad is one operator's current-month session count.
type OperatorLoad struct {
	OperatorID records.OperatorID `json:"operator_id"`
	Name       string             `json:"name"`
	Sessions   int                `json:"sessions"`
}

// Dashboard is the full KPI rollup.
type Dashboard struct {
	PastSessions     int `json:"past_sessions"`
	UpcomingSessions int `json:"upcoming_sessions"`

	RealizedRevenue decimal.Decimal `json:"realized_revenue"`
	ForecastRevenue decimal.Decimal `json:"forecast_revenue"`
	NetResult       decimal.Decimal `json:"net_result"`

	AverageMarginPercent decimal.Decimal `json:"average_margin_percent"`

	OperatorLoads  []OperatorLoad `json:"operator_loads"`
	MaxMonthlyLoad int            `json:"max_monthly_load"`

	BreakEven    BreakEven       `json:"break_even"`
	CashPosition decimal.Decimal `json:"cash_position"`
}

// =============================================================================
// COMPUTE
// =============================================================================

// Compute rolls the snapshot up into the dashboard. Pure; call it with
// the same snapshot used for the alert scan to keep both views aligned.
func Compute(snap records.Snapshot) Dashboard {
	var (
		past, upcoming []records.Session
	)
	for _, sess := range snap.ActiveSessions() {
		if sess.Date.Before(snap.Now) {
			past = append(past, sess)
		} else {
			upcoming = append(upcoming, sess)
		}
	}

	d := Dashboard{
		PastSessions:     len(past),
		UpcomingSessions: len(upcoming),
	}

	realized := decimal.Zero
	pastCost := decimal.Zero
	marginPctSum := decimal.Zero
	pricedPast := 0

	for _, sess := range past {
		b, _ := costing.SessionCost(sess, snap)
		realized = realized.Add(sess.Price)
		pastCost = pastCost.Add(b.Total)
		if sess.Price.IsPositive() {
			marginPctSum = marginPctSum.Add(b.MarginPercent)
			pricedPast++
		}
	}
	d.RealizedRevenue = finance.Round2(realized)
	d.NetResult = finance.Round2(realized.Sub(pastCost))
	if pricedPast > 0 {
		d.AverageMarginPercent = finance.Round2(marginPctSum.Div(decimal.NewFromInt(int64(pricedPast))))
	}

	forecast := decimal.Zero
	for _, sess := range upcoming {
		forecast = forecast.Add(sess.Price)
	}
	d.ForecastRevenue = finance.Round2(forecast)

	d.OperatorLoads, d.MaxMonthlyLoad = monthlyLoads(snap)
	d.BreakEven = breakEven(snap, past)
	d.CashPosition = cashPosition(snap, past)

	return d
}

// =============================================================================
// OPERATOR LOAD
// =============================================================================

func monthlyLoads(snap records.Snapshot) ([]OperatorLoad, int) {
	counts := make(map[records.OperatorID]int)
	for _, sess := range snap.ActiveSessions() {
		if sess.Date.Year() == snap.Now.Year() && sess.Date.Month() == snap.Now.Month() {
			for _, id := range sess.OperatorIDs {
				counts[id]++
			}
		}
	}

	loads := make([]OperatorLoad, 0, len(snap.Operators))
	max := 0
	for _, op := range snap.Operators {
		n := counts[op.ID]
		loads = append(loads, OperatorLoad{OperatorID: op.ID, Name: op.Name, Sessions: n})
		if n > max {
			max = n
		}
	}
	return loads, max
}

// =============================================================================
// BREAK-EVEN (POINT MORT)
// =============================================================================

func breakEven(snap records.Snapshot, past []records.Session) BreakEven {
	be := BreakEven{AnnualCharges: costing.AnnualCharges(snap.Settings)}

	marginSum := decimal.Zero
	priced := 0
	realizedThisYear := 0
	for _, sess := range past {
		if sess.Date.Year() != snap.Now.Year() {
			continue
		}
		realizedThisYear++
		if !sess.Price.IsPositive() {
			continue
		}
		b, _ := costing.SessionCost(sess, snap)
		marginSum = marginSum.Add(b.Margin)
		priced++
	}
	be.RealizedSessions = realizedThisYear

	if priced > 0 {
		be.AverageMargin = finance.Round2(marginSum.Div(decimal.NewFromInt(int64(priced))))
	}

	// A non-positive average margin can never offset fixed charges.
	if !be.AverageMargin.IsPositive() {
		be.Status = BreakEvenUnreachable
		return be
	}

	ratio, _ := be.AnnualCharges.Div(be.AverageMargin).Float64()
	be.RequiredSessions = int(math.Ceil(ratio))
	be.RemainingSessions = be.RequiredSessions - be.RealizedSessions
	if be.RemainingSessions < 0 {
		be.RemainingSessions = 0
	}

	if be.RemainingSessions == 0 {
		be.Status = BreakEvenReached
	} else {
		be.Status = BreakEvenInProgress
	}
	return be
}

// =============================================================================
// THEORETICAL CASH POSITION (TRESORERIE)
// =============================================================================

func cashPosition(snap records.Snapshot, past []records.Session) decimal.Decimal {
	cashIn := decimal.Zero
	directCosts := decimal.Zero

	for _, sess := range past {
		if sess.Date.Year() != snap.Now.Year() {
			continue
		}
		cashIn = cashIn.Add(sess.Price)

		// Direct costs only: the fixed/amortization share is carried by
		// the prorated annual-charges term below.
		b, _ := costing.SessionCost(sess, snap)
		directCosts = directCosts.Add(b.Staff).Add(b.Modules).Add(b.Variable)
	}

	elapsed := decimal.NewFromInt(int64(snap.Now.YearDay())).Div(decimal.NewFromInt(365))
	prorated := finance.Round2(costing.AnnualCharges(snap.Settings).Mul(elapsed))

	return finance.Round2(cashIn.Sub(prorated).Sub(directCosts))
}
