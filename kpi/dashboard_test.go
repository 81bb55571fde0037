package kpi_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/kpi"
	"github.com/forma/training-engine/records"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// September 1st: day 244 of a non-leap year.
var now = time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

// breakEvenSettings: 50,000/year fixed charges, 100 estimated sessions
// -> 500.00 fixed share, so a bare session priced 1000 carries exactly
// 500.00 of margin.
func breakEvenSettings() records.Settings {
	return records.Settings{
		FixedCosts:              []records.CostLine{{Label: "Charges fixes", Amount: finance.D(50000)}},
		Payroll:                 finance.DefaultLegacyRates(),
		MarginTarget:            finance.D(30),
		MarginAlert:             finance.D(15),
		EstimatedAnnualSessions: 100,
		TargetAnnualSessions:    120,
	}
}

// pastSessions builds n completed sessions priced `price`, one per day
// ending the day before now (all in the current year for small n).
func pastSessions(n int, price float64) []records.Session {
	out := make([]records.Session, n)
	for i := range out {
		out[i] = records.Session{
			Date:   now.AddDate(0, 0, -(i + 1)),
			Status: records.SessionCompleted,
			Price:  finance.D(price),
		}
	}
	return out
}

func eq(t *testing.T, want float64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, finance.D(want).Equal(got), "want %v got %s", want, got)
}

// =============================================================================
// BREAK-EVEN REFERENCE EXAMPLE
// =============================================================================

func TestBreakEven_ReferenceExample(t *testing.T) {
	// GIVEN: 50,000 annual charges, 40 realized sessions at 500 margin each
	// WHEN: Computing the dashboard
	// THEN: 100 sessions required, 60 remaining, status "En cours"

	snap := records.Snapshot{
		Settings: breakEvenSettings(),
		Sessions: pastSessions(40, 1000),
		Now:      now,
	}

	d := kpi.Compute(snap)

	eq(t, 50000, d.BreakEven.AnnualCharges)
	eq(t, 500, d.BreakEven.AverageMargin)
	assert.Equal(t, 100, d.BreakEven.RequiredSessions)
	assert.Equal(t, 40, d.BreakEven.RealizedSessions)
	assert.Equal(t, 60, d.BreakEven.RemainingSessions)
	assert.Equal(t, kpi.BreakEvenInProgress, d.BreakEven.Status)
}

func TestBreakEven_NonPositiveMargin_Unreachable(t *testing.T) {
	// GIVEN: Sessions sold exactly at cost (margin 0)
	// THEN: Status "Impossible" regardless of realized count, no division

	snap := records.Snapshot{
		Settings: breakEvenSettings(),
		Sessions: pastSessions(40, 500), // price == total cost
		Now:      now,
	}

	d := kpi.Compute(snap)

	assert.Equal(t, kpi.BreakEvenUnreachable, d.BreakEven.Status)
	assert.Equal(t, 0, d.BreakEven.RequiredSessions)
	assert.Equal(t, 40, d.BreakEven.RealizedSessions)
}

func TestBreakEven_Reached(t *testing.T) {
	// 100 sessions at 500 margin cover the 50,000 charges exactly.
	snap := records.Snapshot{
		Settings: breakEvenSettings(),
		Sessions: pastSessions(100, 1000),
		Now:      now,
	}

	d := kpi.Compute(snap)

	assert.Equal(t, 0, d.BreakEven.RemainingSessions)
	assert.Equal(t, kpi.BreakEvenReached, d.BreakEven.Status)
}

// =============================================================================
// PARTITIONS AND REVENUE
// =============================================================================

func TestCompute_PartitionsAndRevenue(t *testing.T) {
	// GIVEN: 3 past, 2 upcoming, 1 cancelled session
	// THEN: Cancelled counts nowhere; revenue split past/forecast

	sessions := pastSessions(3, 1000)
	sessions = append(sessions,
		records.Session{Date: now.AddDate(0, 0, 7), Status: records.SessionPlanned, Price: finance.D(800)},
		records.Session{Date: now.AddDate(0, 0, 14), Status: records.SessionConfirmed, Price: finance.D(700)},
		records.Session{Date: now.AddDate(0, 0, -2), Status: records.SessionCancelled, Price: finance.D(9999)},
	)

	snap := records.Snapshot{Settings: breakEvenSettings(), Sessions: sessions, Now: now}
	d := kpi.Compute(snap)

	assert.Equal(t, 3, d.PastSessions)
	assert.Equal(t, 2, d.UpcomingSessions)
	eq(t, 3000, d.RealizedRevenue)
	eq(t, 1500, d.ForecastRevenue)
	// Each past session cost 500 -> net result 3000 - 1500
	eq(t, 1500, d.NetResult)
	// Margin% per past session: 500/1000 = 50%
	eq(t, 50, d.AverageMarginPercent)
}

func TestCompute_NoPricedPastSessions_ZeroAverageMargin(t *testing.T) {
	snap := records.Snapshot{
		Settings: breakEvenSettings(),
		Sessions: pastSessions(3, 0),
		Now:      now,
	}

	d := kpi.Compute(snap)

	eq(t, 0, d.AverageMarginPercent)
}

// =============================================================================
// OPERATOR LOAD
// =============================================================================

func TestCompute_MonthlyOperatorLoad(t *testing.T) {
	snap := records.Snapshot{
		Settings: breakEvenSettings(),
		Operators: []records.Operator{
			{ID: "op-1", Name: "Alice", Status: finance.StatusFreelance,
				CostMode: records.CostModeMaxCost, DailyAmount: finance.D(300), Active: true},
			{ID: "op-2", Name: "Bruno", Status: finance.StatusPermanent,
				CostMode: records.CostModeMaxCost, DailyAmount: finance.D(300), Active: true},
		},
		Sessions: []records.Session{
			{Date: time.Date(2026, time.September, 5, 9, 0, 0, 0, time.UTC),
				Status: records.SessionPlanned, OperatorIDs: []records.OperatorID{"op-1"}},
			{Date: time.Date(2026, time.September, 9, 9, 0, 0, 0, time.UTC),
				Status: records.SessionPlanned, OperatorIDs: []records.OperatorID{"op-1", "op-2"}},
			{Date: time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC),
				Status: records.SessionCompleted, OperatorIDs: []records.OperatorID{"op-1"}},
		},
		Now: now,
	}

	d := kpi.Compute(snap)

	assert.Equal(t, 2, d.MaxMonthlyLoad, "August session is outside the current month")
	assert.Equal(t, []kpi.OperatorLoad{
		{OperatorID: "op-1", Name: "Alice", Sessions: 2},
		{OperatorID: "op-2", Name: "Bruno", Sessions: 1},
	}, d.OperatorLoads)
}

// =============================================================================
// CASH POSITION
// =============================================================================

func TestCompute_CashPosition(t *testing.T) {
	// GIVEN: 40,000 cash-in this year, zero direct costs, day 244/365
	// THEN: 40,000 - round2(50,000 * 244/365) = 40,000 - 33,424.66

	snap := records.Snapshot{
		Settings: breakEvenSettings(),
		Sessions: pastSessions(40, 1000),
		Now:      now,
	}

	d := kpi.Compute(snap)

	eq(t, 6575.34, d.CashPosition)
}

func TestCompute_CashPosition_ExcludesOverheadFromDirectCosts(t *testing.T) {
	// GIVEN: One realized session with 300 staff cost
	// THEN: Only the staff cost is charged directly; the fixed share is
	//       carried by the prorated term, never double-counted

	snap := records.Snapshot{
		Settings: breakEvenSettings(),
		Operators: []records.Operator{
			{ID: "op-1", Name: "Alice", Status: finance.StatusFreelance,
				CostMode: records.CostModeMaxCost, DailyAmount: finance.D(300), Active: true},
		},
		Sessions: []records.Session{{
			Date:        now.AddDate(0, 0, -1),
			Status:      records.SessionCompleted,
			OperatorIDs: []records.OperatorID{"op-1"},
			Price:       finance.D(1000),
		}},
		Now: now,
	}

	d := kpi.Compute(snap)

	// 1000 - 33,424.66 prorated - 300 staff
	eq(t, -32724.66, d.CashPosition)
}

func TestCompute_EmptySnapshot_Totals(t *testing.T) {
	d := kpi.Compute(records.Snapshot{Settings: breakEvenSettings(), Now: now})

	assert.Equal(t, 0, d.PastSessions)
	eq(t, 0, d.RealizedRevenue)
	assert.Equal(t, kpi.BreakEvenUnreachable, d.BreakEven.Status)
	// Pure proration burn with no activity.
	eq(t, -33424.66, d.CashPosition)
}
