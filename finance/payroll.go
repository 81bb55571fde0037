/*
payroll.go - Bidirectional net-pay / company-cost conversion

PURPOSE:
  Converts between what a worker receives (net daily pay) and what the
  company actually spends (all-in daily cost), per labor status. Both
  directions exist so an operator can either declare a desired net pay
  or a maximum company budget; the engine fills in the other side.

STATUS MODELS:
  freelance:   gross = net / (1 - freelanceRate), company cost = gross
               (the freelancer invoices gross; no employer charges)
  interim:     gross = net / 0.77, cost = gross * (1 + employerRate) * coef
  vacataire:   gross = net / 0.77, cost = gross * (1 + employerRate)
  cdd:         like vacataire, then * 1.20 (10% precarity + 10% paid
               leave, compounded as a single 20% multiplier on the
               employer-loaded cost - intentionally not additive)
  cdi:         like vacataire
  fondateur:   identity (founder pay is not a company cost in this model)
  unknown:     identity pass-through, keeps the dispatch total

  The flat 23% employee-side deduction assumed for salaried statuses is
  a modeling simplification; the itemized RateTable in settings is not
  consulted here (see rates.go).

ROUND-TRIP:
  For every non-identity status, CompanyCostToNet(NetToCompanyCost(n))
  returns n within ±0.01 despite per-step rounding. Tests pin this.

SEE ALSO:
  - rates.go: LegacyRates consumed here
  - costing/session.go: staff-cost consumer
*/
package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LABOR STATUS
// =============================================================================

// Status is a worker's contractual labor status.
type Status string

const (
	StatusFreelance   Status = "freelance" // independent, invoices the company
	StatusTempAgency  Status = "interim"   // via temporary-work agency
	StatusDayContract Status = "vacataire" // per-day engagement
	StatusFixedTerm   Status = "cdd"       // fixed-term employment contract
	StatusPermanent   Status = "cdi"       // permanent employment contract
	StatusFounder     Status = "fondateur" // founder drawing from profits
)

// ComparableStatuses are the statuses ranked by CompareAllStatuses,
// i.e. every contractual form a company can actually hire under.
var ComparableStatuses = []Status{
	StatusFreelance,
	StatusTempAgency,
	StatusDayContract,
	StatusFixedTerm,
	StatusPermanent,
}

// employeeShare is the assumed flat employee-side deduction between
// gross and net for salaried statuses (23%).
var employeeShare = D(0.23)

// =============================================================================
// CONVERSION RESULT
// =============================================================================

// Conversion is the full picture of one daily pay level under one status.
// Charges is everything between what the worker nets and what the
// company spends.
type Conversion struct {
	Status      Status          `json:"status"`
	Net         decimal.Decimal `json:"net"`
	Gross       decimal.Decimal `json:"gross"`
	Charges     decimal.Decimal `json:"charges"`
	CompanyCost decimal.Decimal `json:"company_cost"`
}

// =============================================================================
// STATUS MODELS - strategy per status, dispatch stays total
// =============================================================================

type statusModel interface {
	fromNet(net decimal.Decimal, r LegacyRates) Conversion
	fromCost(cost decimal.Decimal, r LegacyRates) Conversion
}

var statusModels = map[Status]statusModel{
	StatusFreelance:   freelanceModel{},
	StatusTempAgency:  salariedModel{agency: true},
	StatusDayContract: salariedModel{},
	StatusFixedTerm:   salariedModel{precarity: true},
	StatusPermanent:   salariedModel{},
	StatusFounder:     identityModel{},
}

// modelFor returns the model for a status, falling back to identity so
// an unrecognized status never breaks a computation.
func modelFor(status Status) statusModel {
	if m, ok := statusModels[status]; ok {
		return m
	}
	return identityModel{}
}

// --- freelance ---------------------------------------------------------------

type freelanceModel struct{}

func (freelanceModel) fromNet(net decimal.Decimal, r LegacyRates) Conversion {
	gross := Round2(safeDiv(net, one.Sub(fraction(r.FreelanceChargeRate))))
	return Conversion{
		Net:         net,
		Gross:       gross,
		Charges:     Round2(gross.Sub(net)),
		CompanyCost: gross,
	}
}

func (freelanceModel) fromCost(cost decimal.Decimal, r LegacyRates) Conversion {
	net := Round2(cost.Mul(one.Sub(fraction(r.FreelanceChargeRate))))
	return Conversion{
		Net:         net,
		Gross:       cost,
		Charges:     Round2(cost.Sub(net)),
		CompanyCost: cost,
	}
}

// --- salaried (interim / vacataire / cdd / cdi) ------------------------------

type salariedModel struct {
	agency    bool // agency coefficient applies (interim)
	precarity bool // 20% precarity+leave multiplier applies (cdd)
}

func (m salariedModel) loadFactor(r LegacyRates) decimal.Decimal {
	factor := one.Add(fraction(r.EmployerChargeRate))
	if m.agency {
		factor = factor.Mul(r.InterimCoefficient)
	}
	if m.precarity {
		factor = factor.Mul(D(1.20))
	}
	return factor
}

func (m salariedModel) fromNet(net decimal.Decimal, r LegacyRates) Conversion {
	gross := Round2(safeDiv(net, one.Sub(employeeShare)))
	cost := Round2(gross.Mul(m.loadFactor(r)))
	return Conversion{
		Net:         net,
		Gross:       gross,
		Charges:     Round2(cost.Sub(net)),
		CompanyCost: cost,
	}
}

func (m salariedModel) fromCost(cost decimal.Decimal, r LegacyRates) Conversion {
	gross := Round2(safeDiv(cost, m.loadFactor(r)))
	net := Round2(gross.Mul(one.Sub(employeeShare)))
	return Conversion{
		Net:         net,
		Gross:       gross,
		Charges:     Round2(cost.Sub(net)),
		CompanyCost: cost,
	}
}

// --- founder / unrecognized --------------------------------------------------

type identityModel struct{}

func (identityModel) fromNet(net decimal.Decimal, _ LegacyRates) Conversion {
	return Conversion{Net: net, Gross: net, Charges: decimal.Zero, CompanyCost: net}
}

func (identityModel) fromCost(cost decimal.Decimal, _ LegacyRates) Conversion {
	return Conversion{Net: cost, Gross: cost, Charges: decimal.Zero, CompanyCost: cost}
}

// =============================================================================
// PUBLIC API
// =============================================================================

// NetToCompanyCost converts a desired net daily pay into the all-in
// daily company cost under the given status.
func NetToCompanyCost(netDaily decimal.Decimal, status Status, rates LegacyRates) Conversion {
	c := modelFor(status).fromNet(netDaily, rates)
	c.Status = status
	return c
}

// CompanyCostToNet converts a maximum daily company budget into the net
// pay the worker would receive under the given status.
func CompanyCostToNet(maxCost decimal.Decimal, status Status, rates LegacyRates) Conversion {
	c := modelFor(status).fromCost(maxCost, rates)
	c.Status = status
	return c
}

// CompareAllStatuses runs NetToCompanyCost for every hireable status at
// the same net target and returns the results sorted by ascending
// company cost - cheapest contractual form first.
func CompareAllStatuses(netDaily decimal.Decimal, rates LegacyRates) []Conversion {
	out := make([]Conversion, 0, len(ComparableStatuses))
	for _, status := range ComparableStatuses {
		out = append(out, NetToCompanyCost(netDaily, status, rates))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompanyCost.LessThan(out[j].CompanyCost)
	})
	return out
}
