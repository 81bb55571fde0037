/*
Package finance provides the monetary primitives and payroll conversion
logic for the training-company economics engine.

PURPOSE:
  Everything money-related that does not depend on stored records lives
  here: decimal helpers with the engine's rounding discipline, the
  social-charge rate tables, and the bidirectional net-pay/company-cost
  converter used to price staff on a session.

ROUNDING DISCIPLINE:
  Every derived monetary value is rounded to 2 decimal places as soon as
  it is computed, never accumulated unrounded and rounded once at the
  end. Downstream totals therefore carry the rounding error of their
  intermediate steps, and tests assert against that exact behavior.

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere, never float64 for money
  2. Totality: conversion functions never return errors or panic,
     pathological inputs degrade to identity pass-through
  3. Purity: no I/O, no globals - rates are passed in explicitly

SEE ALSO:
  - rates.go: rate tables and French default values
  - payroll.go: net <-> company-cost conversion per labor status
*/
package finance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Round2 rounds a monetary value to 2 fractional digits.
// Applied after every derived computation in the engine.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// D builds a decimal from a float literal. Test/fixture convenience.
func D(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// MustParseDecimal parses a decimal string, returning zero on failure.
// Malformed stored values degrade to 0 rather than failing a computation.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// fraction converts a percentage (e.g. 42) to its fraction (0.42).
func fraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// safeDiv divides a by b, returning a unchanged when b is not positive.
// Keeps the conversion functions total even for degenerate rates.
func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if !b.IsPositive() {
		return a
	}
	return a.Div(b)
}
