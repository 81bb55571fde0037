package records

// =============================================================================
// SUBSCRIPTION CONSUMPTION - Side effect contract
// =============================================================================
//
// The engine never mutates stored records. When a caller drives a
// session status change, it is responsible for adjusting the linked
// subscription offer's consumed counter using these helpers, guarded by
// comparing old vs. new status.

// ConsumptionDelta returns how a linked subscription's consumed counter
// must move for a status transition: +1 into "completed", -1 out of it,
// 0 otherwise.
func ConsumptionDelta(oldStatus, newStatus SessionStatus) int {
	switch {
	case oldStatus != SessionCompleted && newStatus == SessionCompleted:
		return 1
	case oldStatus == SessionCompleted && newStatus != SessionCompleted:
		return -1
	default:
		return 0
	}
}

// ApplyTransition adjusts the offer's consumed counter for a session
// status transition. Only subscription offers are affected; the counter
// is floored at 0. Returns true when the offer changed.
func ApplyTransition(offer *Offer, oldStatus, newStatus SessionStatus) bool {
	if offer == nil || offer.Type != OfferSubscription {
		return false
	}
	delta := ConsumptionDelta(oldStatus, newStatus)
	if delta == 0 {
		return false
	}
	offer.Consumed += delta
	if offer.Consumed < 0 {
		offer.Consumed = 0
	}
	return true
}
