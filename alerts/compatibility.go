package alerts

import (
	"fmt"

	"github.com/forma/training-engine/records"
)

// =============================================================================
// SAVE-TIME COMPATIBILITY WARNINGS - advisory, never blocking
// =============================================================================

// CompatibilityWarnings reports declarative constraint violations for a
// session: incompatible module pairs assigned together, and modules not
// supported by the chosen location. The session may still be saved
// while violating them; callers attach these to the save response.
func CompatibilityWarnings(sess records.Session, snap records.Snapshot) []records.Alert {
	var out []records.Alert

	// Incompatible module pairs. The relation is symmetric, so each
	// pair is reported once, from the side that appears first.
	for i, idA := range sess.ModuleIDs {
		modA, ok := snap.Module(idA)
		if !ok {
			continue
		}
		for _, idB := range sess.ModuleIDs[i+1:] {
			for _, incompatible := range modA.IncompatibleWith {
				if incompatible == idB {
					modB, _ := snap.Module(idB)
					out = append(out, records.Alert{
						Level:     records.AlertWarning,
						Code:      "INCOMPATIBLE_MODULES",
						Message:   fmt.Sprintf("Les modules %s et %s sont déclarés incompatibles", modA.Name, modB.Name),
						SessionID: sess.ID,
						ModuleID:  idA,
					})
				}
			}
		}
	}

	if sess.LocationID == "" {
		return out
	}
	loc, ok := snap.Location(sess.LocationID)
	if !ok {
		return out
	}

	supported := make(map[records.ModuleID]bool, len(loc.SupportedModules))
	for _, id := range loc.SupportedModules {
		supported[id] = true
	}
	for _, id := range sess.ModuleIDs {
		if supported[id] {
			continue
		}
		mod, ok := snap.Module(id)
		if !ok {
			continue
		}
		out = append(out, records.Alert{
			Level:     records.AlertWarning,
			Code:      "LOCATION_UNSUPPORTED_MODULE",
			Message:   fmt.Sprintf("Le lieu %s ne prend pas en charge le module %s", loc.Name, mod.Name),
			SessionID: sess.ID,
			ModuleID:  id,
		})
	}
	return out
}
