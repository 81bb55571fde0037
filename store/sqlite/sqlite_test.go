package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forma/training-engine/factory"
	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
	"github.com/forma/training-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings_MissingThenSaved(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Settings(ctx)
	assert.ErrorIs(t, err, records.ErrNotFound)

	settings := factory.DefaultSettings()
	settings.MarginTarget = finance.D(35)
	require.NoError(t, s.SaveSettings(ctx, settings))

	restored, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, finance.D(35).Equal(restored.MarginTarget))
	assert.Len(t, restored.FixedCosts, len(settings.FixedCosts))
}

func TestSettings_SecondSaveOverwrites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first := factory.DefaultSettings()
	require.NoError(t, s.SaveSettings(ctx, first))

	second := first
	second.EstimatedAnnualSessions = 999
	require.NoError(t, s.SaveSettings(ctx, second))

	restored, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 999, restored.EstimatedAnnualSessions)
}

// =============================================================================
// OPERATORS
// =============================================================================

func TestOperator_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	op := records.Operator{
		ID:          "op-1",
		Name:        "Alice Martin",
		Status:      finance.StatusFreelance,
		CostMode:    records.CostModeNet,
		DailyAmount: finance.D(312.50),
		Active:      true,
	}
	require.NoError(t, s.PutOperator(ctx, op))

	got, err := s.GetOperator(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, op.Name, got.Name)
	assert.Equal(t, finance.StatusFreelance, got.Status)
	assert.Equal(t, records.CostModeNet, got.CostMode)
	assert.True(t, op.DailyAmount.Equal(got.DailyAmount), "decimal survives TEXT round-trip")
	assert.True(t, got.Active)

	// Upsert replaces.
	op.Active = false
	require.NoError(t, s.PutOperator(ctx, op))
	got, err = s.GetOperator(ctx, "op-1")
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, s.DeleteOperator(ctx, "op-1"))
	_, err = s.GetOperator(ctx, "op-1")
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestListOperators_SortedByID(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, id := range []records.OperatorID{"op-3", "op-1", "op-2"} {
		require.NoError(t, s.PutOperator(ctx, records.Operator{
			ID: id, Name: string(id), Status: finance.StatusPermanent,
			CostMode: records.CostModeMaxCost, DailyAmount: finance.D(300),
		}))
	}

	ops, err := s.ListOperators(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, records.OperatorID("op-1"), ops[0].ID)
	assert.Equal(t, records.OperatorID("op-3"), ops[2].ID)
}

// =============================================================================
// MODULES / LOCATIONS
// =============================================================================

func TestModule_RoundTrip_JSONColumns(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	mod := records.Module{
		ID:                "mod-sst",
		Name:              "Sauveteur secouriste du travail",
		FixedCost:         finance.D(80),
		VariableCost:      finance.D(12.50),
		RequiredOperators: 2,
		IncompatibleWith:  []records.ModuleID{"mod-incendie", "mod-gestes"},
	}
	require.NoError(t, s.PutModule(ctx, mod))

	got, err := s.GetModule(ctx, "mod-sst")
	require.NoError(t, err)
	assert.Equal(t, 2, got.RequiredOperators)
	assert.True(t, mod.VariableCost.Equal(got.VariableCost))
	assert.Equal(t, mod.IncompatibleWith, got.IncompatibleWith)
}

func TestModule_EmptyIncompatibleList(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutModule(ctx, records.Module{
		ID: "mod-1", Name: "Seul", FixedCost: finance.D(0), VariableCost: finance.D(0),
	}))

	got, err := s.GetModule(ctx, "mod-1")
	require.NoError(t, err)
	assert.Empty(t, got.IncompatibleWith)
}

func TestLocation_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	loc := records.Location{
		ID:               "loc-1",
		Name:             "Salle Rivoli",
		Cost:             finance.D(150),
		SupportedModules: []records.ModuleID{"mod-sst"},
	}
	require.NoError(t, s.PutLocation(ctx, loc))

	got, err := s.GetLocation(ctx, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, loc.SupportedModules, got.SupportedModules)
	assert.True(t, loc.Cost.Equal(got.Cost))
}

// =============================================================================
// CLIENTS / OFFERS
// =============================================================================

func TestClient_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutClient(ctx, records.Client{
		ID: "cli-1", Name: "Acme Industrie", Billing: records.BillingBusiness, Active: true,
	}))

	got, err := s.GetClient(ctx, "cli-1")
	require.NoError(t, err)
	assert.Equal(t, records.BillingBusiness, got.Billing)
	assert.True(t, got.Active)
}

func TestOffer_RoundTrip_WithExpiry(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	expires := time.Date(2027, time.March, 15, 0, 0, 0, 0, time.UTC)
	offer := records.Offer{
		ID:           "off-1",
		Name:         "Abonnement 10 sessions",
		Type:         records.OfferSubscription,
		Price:        finance.D(5400),
		SessionCount: 10,
		Consumed:     3,
		ModuleIDs:    []records.ModuleID{"mod-sst"},
		Active:       true,
		ExpiresAt:    &expires,
	}
	require.NoError(t, s.PutOffer(ctx, offer))

	got, err := s.GetOffer(ctx, "off-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Consumed)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, expires.Equal(*got.ExpiresAt))
}

func TestOffer_NilExpiryStaysNil(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutOffer(ctx, records.Offer{
		ID: "off-2", Name: "Session unique", Type: records.OfferSingle,
		Price: finance.D(600), Active: true,
	}))

	got, err := s.GetOffer(ctx, "off-2")
	require.NoError(t, err)
	assert.Nil(t, got.ExpiresAt)
}

// =============================================================================
// SESSIONS
// =============================================================================

func TestSession_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	sess := records.Session{
		ID:          "ses-1",
		Date:        time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC),
		Status:      records.SessionConfirmed,
		OperatorIDs: []records.OperatorID{"op-1", "op-2"},
		ModuleIDs:   []records.ModuleID{"mod-sst"},
		LocationID:  "loc-1",
		ClientID:    "cli-1",
		OfferID:     "off-1",
		Price:       finance.D(840),
		VariableCosts: []records.CostLine{
			{Label: "Supports de formation", Amount: finance.D(25)},
		},
	}
	require.NoError(t, s.PutSession(ctx, sess))

	got, err := s.GetSession(ctx, "ses-1")
	require.NoError(t, err)
	assert.True(t, sess.Date.Equal(got.Date))
	assert.Equal(t, records.SessionConfirmed, got.Status)
	assert.Equal(t, sess.OperatorIDs, got.OperatorIDs)
	assert.Equal(t, records.OfferID("off-1"), got.OfferID)
	require.Len(t, got.VariableCosts, 1)
	assert.True(t, finance.D(25).Equal(got.VariableCosts[0].Amount))
}

func TestListSessions_Chronological(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	d1 := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, time.September, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.PutSession(ctx, records.Session{ID: "ses-b", Date: d2, Status: records.SessionPlanned, Price: finance.D(0)}))
	require.NoError(t, s.PutSession(ctx, records.Session{ID: "ses-a", Date: d1, Status: records.SessionPlanned, Price: finance.D(0)}))

	list, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, records.SessionID("ses-a"), list[0].ID)
	assert.Equal(t, records.SessionID("ses-b"), list[1].ID)
}

// =============================================================================
// SNAPSHOT LOADING
// =============================================================================

func TestLoadSnapshot_FromSQLite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSettings(ctx, factory.DefaultSettings()))
	require.NoError(t, s.PutOperator(ctx, records.Operator{
		ID: "op-1", Name: "Alice", Status: finance.StatusFreelance,
		CostMode: records.CostModeMaxCost, DailyAmount: finance.D(300), Active: true,
	}))
	require.NoError(t, s.PutSession(ctx, records.Session{
		ID: "ses-1", Date: time.Now().UTC(), Status: records.SessionPlanned,
		OperatorIDs: []records.OperatorID{"op-1"}, Price: finance.D(600),
	}))

	now := time.Now().UTC()
	snap, err := records.LoadSnapshot(ctx, s, now)
	require.NoError(t, err)

	assert.Len(t, snap.Operators, 1)
	assert.Len(t, snap.Sessions, 1)
	op, ok := snap.Operator("op-1")
	assert.True(t, ok)
	assert.Equal(t, "Alice", op.Name)
	assert.True(t, snap.Now.Equal(now))
}
