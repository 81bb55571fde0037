package finance

import "github.com/shopspring/decimal"

// =============================================================================
// LEGACY FLAT RATES - The rates the conversion formulas actually use
// =============================================================================

// LegacyRates are the simplified flat charge rates applied by the
// per-status conversion formulas. Percentages are expressed as whole
// numbers (42 means 42%), the interim coefficient is a plain multiplier.
type LegacyRates struct {
	// Flat employer-side charge rate applied on gross for salaried statuses.
	EmployerChargeRate decimal.Decimal `json:"employer_charge_rate"`

	// Flat rate deducted from a freelancer's invoice to reach net.
	FreelanceChargeRate decimal.Decimal `json:"freelance_charge_rate"`

	// Agency markup multiplier applied on the employer-loaded cost.
	InterimCoefficient decimal.Decimal `json:"interim_coefficient"`
}

// =============================================================================
// DETAILED RATE TABLE - Present in settings, NOT consulted by the formulas
// =============================================================================

// ContributionLine is one itemized social-charge line.
type ContributionLine struct {
	Code    string          `json:"code"`
	Label   string          `json:"label"`
	Rate    decimal.Decimal `json:"rate"`              // percent of gross
	Ceiling decimal.Decimal `json:"ceiling,omitempty"` // monthly ceiling, zero = uncapped
}

// RateTable is the itemized contribution schedule, split by who pays.
//
// The conversion formulas in payroll.go deliberately do NOT read this
// table; they use LegacyRates. The table is kept in settings as data for
// a future, more precise payroll model. Do not wire it in.
type RateTable struct {
	Employer       []ContributionLine `json:"employer"`
	Employee       []ContributionLine `json:"employee"`
	ReducedRegime  bool               `json:"reduced_regime"` // general-relief regime flag
	MonthlyCeiling decimal.Decimal    `json:"monthly_ceiling"`
}

// DefaultRateTable returns an itemized schedule with French-style
// contribution lines. Approximations, not a legal source of truth.
func DefaultRateTable() RateTable {
	return RateTable{
		Employer: []ContributionLine{
			{Code: "MAL", Label: "Assurance maladie", Rate: D(13.00)},
			{Code: "VIE-P", Label: "Vieillesse plafonnée", Rate: D(8.55), Ceiling: D(3864)},
			{Code: "VIE-D", Label: "Vieillesse déplafonnée", Rate: D(2.02)},
			{Code: "AF", Label: "Allocations familiales", Rate: D(5.25)},
			{Code: "CHO", Label: "Assurance chômage", Rate: D(4.05)},
			{Code: "RC", Label: "Retraite complémentaire", Rate: D(4.72), Ceiling: D(3864)},
			{Code: "ATMP", Label: "Accidents du travail", Rate: D(2.00)},
			{Code: "FNAL", Label: "FNAL", Rate: D(0.10), Ceiling: D(3864)},
		},
		Employee: []ContributionLine{
			{Code: "VIE-P", Label: "Vieillesse plafonnée", Rate: D(6.90), Ceiling: D(3864)},
			{Code: "VIE-D", Label: "Vieillesse déplafonnée", Rate: D(0.40)},
			{Code: "RC", Label: "Retraite complémentaire", Rate: D(3.15), Ceiling: D(3864)},
			{Code: "CSG", Label: "CSG déductible", Rate: D(6.80)},
			{Code: "CSG-ND", Label: "CSG/CRDS non déductible", Rate: D(2.90)},
		},
		ReducedRegime:  true,
		MonthlyCeiling: D(3864),
	}
}

// DefaultLegacyRates returns the flat rates used by the conversion
// formulas: 42% employer charges, 25% freelance charges, 1.9 agency
// coefficient.
func DefaultLegacyRates() LegacyRates {
	return LegacyRates{
		EmployerChargeRate:  D(42),
		FreelanceChargeRate: D(25),
		InterimCoefficient:  D(1.9),
	}
}
