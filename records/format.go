package records

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/finance"
)

// =============================================================================
// DISPLAY FORMATTING - Presentation-adjacent helpers, not core logic
// =============================================================================

// FormatEuro renders an amount the French way: "1 234,56 €".
func FormatEuro(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + fracPart + " €"
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a percentage: "16,67 %".
func FormatPercent(d decimal.Decimal) string {
	return strings.ReplaceAll(d.Round(2).StringFixed(2), ".", ",") + " %"
}

// =============================================================================
// HUMAN LABELS
// =============================================================================

var statusLabels = map[finance.Status]string{
	finance.StatusFreelance:   "Indépendant",
	finance.StatusTempAgency:  "Intérim",
	finance.StatusDayContract: "Vacataire",
	finance.StatusFixedTerm:   "CDD",
	finance.StatusPermanent:   "CDI",
	finance.StatusFounder:     "Fondateur",
}

func StatusLabel(s finance.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

var sessionStatusLabels = map[SessionStatus]string{
	SessionPlanned:    "Planifiée",
	SessionConfirmed:  "Confirmée",
	SessionInProgress: "En cours",
	SessionCompleted:  "Terminée",
	SessionCancelled:  "Annulée",
}

func SessionStatusLabel(s SessionStatus) string {
	if l, ok := sessionStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

var offerTypeLabels = map[OfferType]string{
	OfferSingle:       "Séance unique",
	OfferSubscription: "Abonnement",
	OfferCustom:       "Sur mesure",
}

func OfferTypeLabel(t OfferType) string {
	if l, ok := offerTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func BillingLabel(b BillingCategory) string {
	switch b {
	case BillingBusiness:
		return "Professionnel (HT)"
	case BillingConsumer:
		return "Particulier (TTC)"
	default:
		return string(b)
	}
}
