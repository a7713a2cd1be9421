package inventory

import (
	"fmt"
	"sort"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
)

// CheckConsistency reports where instrument status, active loans and type
// counters disagree. It only reports.
func CheckConsistency(instruments []model.Instrument, types []model.InstrumentType, loans []model.Loan) []string {
	var warnings []string

	active := make(map[string]int)
	for _, l := range loans {
		if l.Active() {
			active[l.Serial.String()]++
		}
	}
	known := make(map[string]bool, len(instruments))
	counts := make(map[string]int)
	for _, in := range instruments {
		serial := in.Serial.String()
		known[serial] = true
		counts[in.TypeID]++
		n := active[serial]
		switch {
		case in.Status == model.InstrumentLoaned && n == 0:
			warnings = append(warnings, fmt.Sprintf("instrument %s is loaned but has no active loan", serial))
		case in.Status != model.InstrumentLoaned && n > 0:
			warnings = append(warnings, fmt.Sprintf("instrument %s is %s but has an active loan", serial, in.Status))
		}
		if n > 1 {
			warnings = append(warnings, fmt.Sprintf("instrument %s has %d active loans", serial, n))
		}
	}

	orphans := make([]string, 0)
	for serial := range active {
		if !known[serial] {
			orphans = append(orphans, serial)
		}
	}
	sort.Strings(orphans)
	for _, serial := range orphans {
		warnings = append(warnings, fmt.Sprintf("active loan references unknown instrument %s", serial))
	}

	for _, t := range types {
		if got := counts[t.ID]; got != t.Quantity {
			warnings = append(warnings, fmt.Sprintf("type %s quantity is %d but %d instruments exist", t.ID, t.Quantity, got))
		}
	}
	return warnings
}
