package costing

import (
	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// =============================================================================
// OFFER FLOOR - Minimum viable price for a commercial bundle
// =============================================================================

// OfferFloorEstimate is the advisory pricing picture of a draft offer.
type OfferFloorEstimate struct {
	PerSessionCost decimal.Decimal `json:"per_session_cost"`
	SessionCount   int             `json:"session_count"`
	FloorPrice     decimal.Decimal `json:"floor_price"`
}

// OfferFloor estimates the minimum viable price for an offer covering
// the given modules over the given session count: per-session module
// cost plus the same fixed-cost share as session costing, times the
// session count, with the same 5% safety markup. Advisory only, used
// both during authoring and at save time - never blocking.
//
// The offer may be partial/unpersisted; unresolved module ids
// contribute nothing.
func OfferFloor(moduleIDs []records.ModuleID, sessionCount int, snap records.Snapshot) OfferFloorEstimate {
	perSession := decimal.Zero
	for _, id := range moduleIDs {
		if mod, ok := snap.Module(id); ok {
			perSession = perSession.Add(mod.FixedCost).Add(mod.VariableCost)
		}
	}
	perSession = finance.Round2(perSession.Add(FixedCostShare(snap.Settings)))

	if sessionCount < 0 {
		sessionCount = 0
	}

	floor := finance.Round2(perSession.
		Mul(decimal.NewFromInt(int64(sessionCount))).
		Mul(floorMarkup))

	return OfferFloorEstimate{
		PerSessionCost: perSession,
		SessionCount:   sessionCount,
		FloorPrice:     floor,
	}
}

// OfferFloorFor is OfferFloor applied to an offer record, defaulting
// the session count to 1 for non-subscription offers.
func OfferFloorFor(offer records.Offer, snap records.Snapshot) OfferFloorEstimate {
	count := offer.SessionCount
	if offer.Type != records.OfferSubscription || count < 1 {
		count = 1
	}
	return OfferFloor(offer.ModuleIDs, count, snap)
}
