package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// =============================================================================
// LIFECYCLE CONTRACT
// =============================================================================

func TestConsumptionDelta(t *testing.T) {
	// Counter moves only on transitions into/out of "completed".
	cases := []struct {
		old, new records.SessionStatus
		want     int
	}{
		{records.SessionConfirmed, records.SessionCompleted, 1},
		{records.SessionPlanned, records.SessionCompleted, 1},
		{records.SessionCompleted, records.SessionCancelled, -1},
		{records.SessionCompleted, records.SessionConfirmed, -1},
		{records.SessionCompleted, records.SessionCompleted, 0},
		{records.SessionPlanned, records.SessionConfirmed, 0},
		{records.SessionCancelled, records.SessionPlanned, 0},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, records.ConsumptionDelta(c.old, c.new),
			"%s -> %s", c.old, c.new)
	}
}

func TestApplyTransition_SubscriptionOnly(t *testing.T) {
	// GIVEN: A single-session offer
	// WHEN: A linked session completes
	// THEN: No counter movement - only subscriptions consume

	offer := records.Offer{Type: records.OfferSingle, Consumed: 0}
	changed := records.ApplyTransition(&offer, records.SessionConfirmed, records.SessionCompleted)

	assert.False(t, changed)
	assert.Equal(t, 0, offer.Consumed)
}

func TestApplyTransition_IncrementAndDecrement(t *testing.T) {
	offer := records.Offer{Type: records.OfferSubscription, SessionCount: 10, Consumed: 3}

	changed := records.ApplyTransition(&offer, records.SessionConfirmed, records.SessionCompleted)
	assert.True(t, changed)
	assert.Equal(t, 4, offer.Consumed)

	changed = records.ApplyTransition(&offer, records.SessionCompleted, records.SessionCancelled)
	assert.True(t, changed)
	assert.Equal(t, 3, offer.Consumed)
}

func TestApplyTransition_ClampedAtZero(t *testing.T) {
	// GIVEN: A subscription already at 0 consumed (e.g. after a manual reset)
	// WHEN: A session moves out of completed
	// THEN: The counter never goes negative

	offer := records.Offer{Type: records.OfferSubscription, SessionCount: 10, Consumed: 0}
	records.ApplyTransition(&offer, records.SessionCompleted, records.SessionPlanned)

	assert.Equal(t, 0, offer.Consumed)
}

// =============================================================================
// MODULE INCOMPATIBILITY SYMMETRY
// =============================================================================

func TestSyncIncompatibilities_AddsReverseEdge(t *testing.T) {
	// GIVEN: Module A newly declares B incompatible
	// WHEN: Syncing after the edit
	// THEN: B gains the reverse edge to A

	a := records.Module{ID: "mod-a", IncompatibleWith: []records.ModuleID{"mod-b"}}
	b := records.Module{ID: "mod-b"}

	changed := records.SyncIncompatibilities([]records.Module{a, b}, a)

	require.Len(t, changed, 1)
	assert.Equal(t, records.ModuleID("mod-b"), changed[0].ID)
	assert.Contains(t, changed[0].IncompatibleWith, records.ModuleID("mod-a"))
}

func TestSyncIncompatibilities_RemovesStaleReverseEdge(t *testing.T) {
	// GIVEN: B still points at A but A no longer lists B
	// WHEN: Syncing after A's edit
	// THEN: B loses the stale edge

	a := records.Module{ID: "mod-a"}
	b := records.Module{ID: "mod-b", IncompatibleWith: []records.ModuleID{"mod-a", "mod-c"}}

	changed := records.SyncIncompatibilities([]records.Module{a, b}, a)

	require.Len(t, changed, 1)
	assert.Equal(t, []records.ModuleID{"mod-c"}, changed[0].IncompatibleWith)
}

func TestSyncIncompatibilities_NoChangeWhenConsistent(t *testing.T) {
	a := records.Module{ID: "mod-a", IncompatibleWith: []records.ModuleID{"mod-b"}}
	b := records.Module{ID: "mod-b", IncompatibleWith: []records.ModuleID{"mod-a"}}

	assert.Empty(t, records.SyncIncompatibilities([]records.Module{a, b}, a))
}

// =============================================================================
// OPERATOR COST RESOLUTION
// =============================================================================

func TestOperatorDailyCompanyCost_MaxCostModeBypassesConversion(t *testing.T) {
	rates := finance.DefaultLegacyRates()

	declared := records.Operator{
		Status:      finance.StatusFreelance,
		CostMode:    records.CostModeMaxCost,
		DailyAmount: finance.D(400),
	}
	assert.True(t, finance.D(400).Equal(declared.DailyCompanyCost(rates)))

	converted := records.Operator{
		Status:      finance.StatusFreelance,
		CostMode:    records.CostModeNet,
		DailyAmount: finance.D(200),
	}
	// 200 / 0.75 at the default 25% freelance rate
	assert.True(t, finance.D(266.67).Equal(converted.DailyCompanyCost(rates)))
}

// =============================================================================
// FORMATTING
// =============================================================================

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "1 234,56 €", records.FormatEuro(finance.D(1234.56)))
	assert.Equal(t, "0,00 €", records.FormatEuro(finance.D(0)))
	assert.Equal(t, "-42,10 €", records.FormatEuro(finance.D(-42.1)))
	assert.Equal(t, "1 000 000,00 €", records.FormatEuro(finance.D(1000000)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "16,67 %", records.FormatPercent(finance.D(16.67)))
}

func TestLabels_FallBackToRawValue(t *testing.T) {
	assert.Equal(t, "CDD", records.StatusLabel(finance.StatusFixedTerm))
	assert.Equal(t, "stagiaire", records.StatusLabel(finance.Status("stagiaire")))
	assert.Equal(t, "Abonnement", records.OfferTypeLabel(records.OfferSubscription))
}
