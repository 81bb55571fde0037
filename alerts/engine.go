/*
Package alerts scans a full record snapshot and emits the prioritized
business alert list.

PURPOSE:
  One pure pass over (settings, records, now) producing a flat, leveled
  list of alerts. Per-session profitability alerts are NOT re-derived
  here: rule 1 delegates to costing.SessionCost, so the dashboard and
  the per-session view always agree.

RULES (fixed order, all over the non-cancelled universe):
  1. Session profitability      (delegated to costing)
  2. Monthly operator overload
  3. Permanent-contract suggestion
  4. Operator dependency concentration (>40% of the year's sessions)
  5. Unprofitable module (cumulative cost > cumulative revenue)
  6. Freelance requalification risk (trailing 3 months volume)
  7. Interim mandatory-conversion risk (lifetime volume)
  8. Subscription consumption and expiry

  Thresholds come from settings at call time. A threshold of 0 means
  the rule is not configured and is skipped, never that everything
  alerts. Missing record fields read as zero/empty; the scan is total.

SEE ALSO:
  - costing/session.go: per-session alert source
  - kpi/dashboard.go: the other consumer of costing
*/
package alerts

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/costing"
	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// Volume thresholds for the legal-risk heuristics (rules 6 and 7).
var (
	freelanceCritical = 45  // trailing 3 months
	freelanceWarning  = 30  // trailing 3 months
	interimCritical   = 365 // lifetime
	interimWarning    = 270 // lifetime
)

// dependencyShare is the concentration ceiling for rule 4.
var dependencyShare = finance.D(0.40)

// Scan evaluates every rule over the snapshot and returns the alerts in
// rule order. Pure; safe to call with any (possibly sparse) snapshot.
func Scan(snap records.Snapshot) []records.Alert {
	var out []records.Alert
	active := snap.ActiveSessions()

	// Rule 1: session profitability, delegated to costing. Breakdowns
	// are kept for rule 5 so cost is derived exactly once per session.
	breakdowns := make([]costing.Breakdown, len(active))
	for i, sess := range active {
		b, sessionAlerts := costing.SessionCost(sess, snap)
		breakdowns[i] = b
		for _, a := range sessionAlerts {
			a.Context = fmt.Sprintf("Séance du %s", sess.Date.Format("02/01/2006"))
			out = append(out, a)
		}
	}

	out = append(out, monthlyOverload(snap, active)...)
	out = append(out, permanentSuggestion(snap, active)...)
	out = append(out, dependencyConcentration(snap, active)...)
	out = append(out, unprofitableModules(snap, active, breakdowns)...)
	out = append(out, freelanceRequalification(snap, active)...)
	out = append(out, interimConversion(snap, active)...)
	out = append(out, subscriptionAlerts(snap)...)

	return out
}

// =============================================================================
// RULE 2 - MONTHLY OPERATOR OVERLOAD
// =============================================================================

func monthlyOverload(snap records.Snapshot, active []records.Session) []records.Alert {
	threshold := snap.Settings.MonthlyOverloadThreshold
	if threshold <= 0 {
		return nil
	}

	counts := make(map[records.OperatorID]int)
	for _, sess := range active {
		if sameMonth(sess.Date, snap.Now) {
			for _, id := range sess.OperatorIDs {
				counts[id]++
			}
		}
	}

	var out []records.Alert
	for _, op := range snap.Operators {
		if n := counts[op.ID]; n >= threshold {
			out = append(out, records.Alert{
				Level:      records.AlertWarning,
				Code:       "OPERATOR_OVERLOAD",
				Message:    fmt.Sprintf("%s assure %d séances ce mois-ci (seuil %d)", op.Name, n, threshold),
				OperatorID: op.ID,
			})
		}
	}
	return out
}

// =============================================================================
// RULE 3 - PERMANENT-CONTRACT SUGGESTION
// =============================================================================

func permanentSuggestion(snap records.Snapshot, active []records.Session) []records.Alert {
	threshold := snap.Settings.PermanentSuggestionThreshold
	if threshold <= 0 {
		return nil
	}

	counts := operatorCounts(active, func(s records.Session) bool {
		return s.Date.Year() == snap.Now.Year()
	})

	var out []records.Alert
	for _, op := range snap.Operators {
		if op.Status == finance.StatusFounder || op.Status == finance.StatusPermanent {
			continue
		}
		if n := counts[op.ID]; n >= threshold {
			out = append(out, records.Alert{
				Level:      records.AlertInfo,
				Code:       "SUGGEST_PERMANENT_CONTRACT",
				Message:    fmt.Sprintf("%s cumule %d séances cette année : envisager un CDI", op.Name, n),
				OperatorID: op.ID,
			})
		}
	}
	return out
}

// =============================================================================
// RULE 4 - OPERATOR DEPENDENCY CONCENTRATION
// =============================================================================

func dependencyConcentration(snap records.Snapshot, active []records.Session) []records.Alert {
	yearTotal := 0
	for _, sess := range active {
		if sess.Date.Year() == snap.Now.Year() {
			yearTotal++
		}
	}
	// Not meaningful on a handful of sessions.
	if yearTotal <= 5 {
		return nil
	}

	counts := operatorCounts(active, func(s records.Session) bool {
		return s.Date.Year() == snap.Now.Year()
	})

	var out []records.Alert
	total := decimal.NewFromInt(int64(yearTotal))
	for _, op := range snap.Operators {
		n := counts[op.ID]
		if n == 0 {
			continue
		}
		share := decimal.NewFromInt(int64(n)).Div(total)
		if share.GreaterThan(dependencyShare) {
			out = append(out, records.Alert{
				Level:      records.AlertWarning,
				Code:       "OPERATOR_DEPENDENCY",
				Message:    fmt.Sprintf("%s assure %s des séances de l'année : forte dépendance", op.Name, records.FormatPercent(share.Mul(finance.D(100)))),
				OperatorID: op.ID,
			})
		}
	}
	return out
}

// =============================================================================
// RULE 5 - UNPROFITABLE MODULES
// =============================================================================

func unprofitableModules(snap records.Snapshot, active []records.Session, breakdowns []costing.Breakdown) []records.Alert {
	revenue := make(map[records.ModuleID]decimal.Decimal)
	cost := make(map[records.ModuleID]decimal.Decimal)

	for i, sess := range active {
		n := len(sess.ModuleIDs)
		if n == 0 {
			continue
		}
		// Revenue and cost split evenly across the session's modules.
		div := decimal.NewFromInt(int64(n))
		revShare := sess.Price.Div(div)
		costShare := breakdowns[i].Total.Div(div)
		for _, id := range sess.ModuleIDs {
			revenue[id] = revenue[id].Add(revShare)
			cost[id] = cost[id].Add(costShare)
		}
	}

	var out []records.Alert
	for _, mod := range snap.Modules {
		rev := finance.Round2(revenue[mod.ID])
		c := finance.Round2(cost[mod.ID])
		if rev.IsPositive() && c.GreaterThan(rev) {
			out = append(out, records.Alert{
				Level:    records.AlertWarning,
				Code:     "UNPROFITABLE_MODULE",
				Message:  fmt.Sprintf("Le module %s coûte %s pour %s de chiffre d'affaires", mod.Name, records.FormatEuro(c), records.FormatEuro(rev)),
				ModuleID: mod.ID,
			})
		}
	}
	return out
}

// =============================================================================
// RULE 6 - FREELANCE REQUALIFICATION RISK
// =============================================================================

func freelanceRequalification(snap records.Snapshot, active []records.Session) []records.Alert {
	windowStart := snap.Now.AddDate(0, -3, 0)
	counts := operatorCounts(active, func(s records.Session) bool {
		return s.Date.After(windowStart) && !s.Date.After(snap.Now)
	})

	var out []records.Alert
	for _, op := range snap.Operators {
		if !op.Active || op.Status != finance.StatusFreelance {
			continue
		}
		n := counts[op.ID]
		switch {
		case n > freelanceCritical:
			out = append(out, records.Alert{
				Level:      records.AlertCritical,
				Code:       "FREELANCE_REQUALIFICATION",
				Message:    fmt.Sprintf("%s : %d séances sur 3 mois, risque fort de requalification en salariat", op.Name, n),
				OperatorID: op.ID,
			})
		case n > freelanceWarning:
			out = append(out, records.Alert{
				Level:      records.AlertWarning,
				Code:       "FREELANCE_REQUALIFICATION",
				Message:    fmt.Sprintf("%s : %d séances sur 3 mois, surveiller le risque de requalification", op.Name, n),
				OperatorID: op.ID,
			})
		}
	}
	return out
}

// =============================================================================
// RULE 7 - INTERIM MANDATORY-CONVERSION RISK
// =============================================================================

func interimConversion(snap records.Snapshot, active []records.Session) []records.Alert {
	counts := operatorCounts(active, func(records.Session) bool { return true })

	var out []records.Alert
	for _, op := range snap.Operators {
		if !op.Active || op.Status != finance.StatusTempAgency {
			continue
		}
		n := counts[op.ID]
		switch {
		case n > interimCritical:
			out = append(out, records.Alert{
				Level:      records.AlertCritical,
				Code:       "INTERIM_CONVERSION",
				Message:    fmt.Sprintf("%s : %d séances en intérim, embauche obligatoire à prévoir", op.Name, n),
				OperatorID: op.ID,
			})
		case n > interimWarning:
			out = append(out, records.Alert{
				Level:      records.AlertWarning,
				Code:       "INTERIM_CONVERSION",
				Message:    fmt.Sprintf("%s : %d séances en intérim, seuil d'embauche en approche", op.Name, n),
				OperatorID: op.ID,
			})
		}
	}
	return out
}

// =============================================================================
// RULE 8 - SUBSCRIPTION CONSUMPTION AND EXPIRY
// =============================================================================

var consumptionWarningRatio = finance.D(0.80)

func subscriptionAlerts(snap records.Snapshot) []records.Alert {
	var out []records.Alert
	for _, offer := range snap.Offers {
		if !offer.Active || offer.Type != records.OfferSubscription {
			continue
		}

		if offer.SessionCount > 0 {
			switch ratio := decimal.NewFromInt(int64(offer.Consumed)).
				Div(decimal.NewFromInt(int64(offer.SessionCount))); {
			case offer.Consumed >= offer.SessionCount:
				out = append(out, records.Alert{
					Level:   records.AlertCritical,
					Code:    "SUBSCRIPTION_EXHAUSTED",
					Message: fmt.Sprintf("Abonnement %s épuisé (%d/%d séances)", offer.Name, offer.Consumed, offer.SessionCount),
					OfferID: offer.ID,
				})
			case ratio.GreaterThanOrEqual(consumptionWarningRatio):
				out = append(out, records.Alert{
					Level:   records.AlertWarning,
					Code:    "SUBSCRIPTION_NEARLY_EXHAUSTED",
					Message: fmt.Sprintf("Abonnement %s consommé à %s (%d/%d séances)", offer.Name, records.FormatPercent(ratio.Mul(finance.D(100))), offer.Consumed, offer.SessionCount),
					OfferID: offer.ID,
				})
			}
		}

		if offer.ExpiresAt != nil {
			switch {
			case offer.ExpiresAt.Before(snap.Now):
				out = append(out, records.Alert{
					Level:   records.AlertCritical,
					Code:    "SUBSCRIPTION_EXPIRED",
					Message: fmt.Sprintf("Abonnement %s expiré depuis le %s", offer.Name, offer.ExpiresAt.Format("02/01/2006")),
					OfferID: offer.ID,
				})
			case !offer.ExpiresAt.After(snap.Now.AddDate(0, 0, 30)):
				out = append(out, records.Alert{
					Level:   records.AlertWarning,
					Code:    "SUBSCRIPTION_EXPIRING",
					Message: fmt.Sprintf("Abonnement %s expire le %s", offer.Name, offer.ExpiresAt.Format("02/01/2006")),
					OfferID: offer.ID,
				})
			}
		}
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

func operatorCounts(sessions []records.Session, match func(records.Session) bool) map[records.OperatorID]int {
	counts := make(map[records.OperatorID]int)
	for _, sess := range sessions {
		if !match(sess) {
			continue
		}
		for _, id := range sess.OperatorIDs {
			counts[id]++
		}
	}
	return counts
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
