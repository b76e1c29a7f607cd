package hosts

import "strings"

// allSelector is the reserved selector that expands to the entire
// inventory.
const allSelector = "all"

// Resolve expands a user-supplied selector into an ordered, duplicate-free
// set of callsigns, per spec.md §4.2:
//
//   - "all" returns the full inventory in declared order;
//   - an exact callsign returns [master, callsign] if it has a master, else
//     [callsign];
//   - otherwise, every callsign with the selector as a prefix; if none
//     match, the entire inventory (the documented, dangerous fallback —
//     see Design Notes).
func Resolve(inv *Inventory, selector string) []string {
	if selector == allSelector {
		return dedup(inv.All())
	}

	if h, ok := inv.Get(selector); ok {
		if h.HasMaster() {
			return dedup([]string{h.MasterCallsign, h.Callsign})
		}
		return []string{h.Callsign}
	}

	var matches []string
	for _, callsign := range inv.All() {
		if strings.HasPrefix(callsign, selector) {
			matches = append(matches, callsign)
		}
	}
	if len(matches) > 0 {
		return dedup(matches)
	}

	return dedup(inv.All()) // unknown selector: degenerate fallback to all
}

// dedup collapses duplicates, preserving the first occurrence of each
// element.
func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
