/*
Package factory provides JSON to settings conversion and named presets.

PURPOSE:
  Settings are stored and edited as JSON - the store keeps one JSON
  document, the API accepts one on PUT. This package owns the codec and
  the presets used at first boot and by demo scenarios, so defaults live
  in exactly one place.

KEY FEATURES:
  - Decode fills gaps: a partial document inherits preset defaults for
    the thresholds it omits, so older stored settings keep working
  - Presets are plain Go constructors, not embedded files

USAGE:
  settings := factory.DefaultSettings()

  doc, _ := factory.EncodeSettings(settings)
  restored, err := factory.DecodeSettings(doc)

SEE ALSO:
  - records/types.go: the Settings record itself
  - finance/rates.go: rate table defaults
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// =============================================================================
// PRESETS
// =============================================================================

// DefaultSettings is the configuration a fresh install starts from:
// French-style flat rates and a realistic small training company's
// charge structure.
func DefaultSettings() records.Settings {
	return records.Settings{
		FixedCosts: []records.CostLine{
			{Label: "Loyer et charges locatives", Amount: finance.D(14400)},
			{Label: "Assurance RC professionnelle", Amount: finance.D(1800)},
			{Label: "Expert-comptable", Amount: finance.D(2400)},
			{Label: "Logiciels et abonnements", Amount: finance.D(1500)},
			{Label: "Téléphonie et internet", Amount: finance.D(900)},
		},
		RateTable:                    finance.DefaultRateTable(),
		Payroll:                      finance.DefaultLegacyRates(),
		MarginTarget:                 finance.D(30),
		MarginAlert:                  finance.D(15),
		MonthlyOverloadThreshold:     20,
		PermanentSuggestionThreshold: 100,
		EstimatedAnnualSessions:      150,
		TargetAnnualSessions:         120,
		Equipment: []records.EquipmentLine{
			{Label: "Mannequins de secourisme", Amount: finance.D(3600), DurationYears: 3},
			{Label: "Matériel de projection", Amount: finance.D(1200), DurationYears: 5},
		},
		DefaultVariableCosts: []records.CostLine{
			{Label: "Supports de formation", Amount: finance.D(25)},
			{Label: "Collations", Amount: finance.D(15)},
		},
	}
}

// =============================================================================
// CODEC
// =============================================================================

// EncodeSettings serializes settings to their stored JSON form.
func EncodeSettings(s records.Settings) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return string(raw), nil
}

// DecodeSettings parses a stored settings document. Fields the document
// omits keep their default-preset values, so partial documents and
// documents written by older versions stay usable.
func DecodeSettings(doc string) (records.Settings, error) {
	s := DefaultSettings()
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return records.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
