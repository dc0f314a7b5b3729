// Package snapshot decides which filings from a scan are new relative
// to the previous run.
//
// The persisted state is only ever the most recent scan, never an
// accumulation. The trade-off is bounded state with a known gap: a
// filing that scrolls out of the feed's window between two runs is
// never flagged if it reappears later, and one present in two
// consecutive scans is never renotified.
package snapshot

import "github.com/TobiSchelling/insiderwatch/internal/database"

// Diff returns the refs in current whose URL is absent from previous,
// in oldest-first order so the notification stream reads
// chronologically. The caller persists the full current sequence as the
// next snapshot.
func Diff(previous, current []database.FilingRef) []database.FilingRef {
	seen := make(map[string]struct{}, len(previous))
	for _, r := range previous {
		seen[r.URL] = struct{}{}
	}

	var fresh []database.FilingRef
	for _, r := range current {
		if _, ok := seen[r.URL]; !ok {
			fresh = append(fresh, r)
		}
	}

	// The scan is newest first; reverse so notifications go out oldest first.
	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}
	return fresh
}
