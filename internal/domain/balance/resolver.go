package balance

import (
	"slices"
	"time"
)

// Edge names which end of a range a bound belongs to.
type Edge int

const (
	Start Edge = iota
	End
)

// DescriptionsByAccount maps each account id to its label. When the catalog repeats an
// id, the first label seen is kept.
func DescriptionsByAccount(accounts []Account) map[int]string {
	descriptions := make(map[int]string, len(accounts))
	for _, acc := range accounts {
		if _, ok := descriptions[acc.ID]; ok {
			continue
		}
		descriptions[acc.ID] = acc.Label
	}
	return descriptions
}

// ResolveAccount turns an account bound into a concrete account id. A set bound is used
// verbatim, even if the catalog does not contain it. Otherwise the lowest (Start) or
// highest (End) catalog id is used. It returns false when the catalog is empty.
func ResolveAccount(b Bound[int], descriptions map[int]string, edge Edge) (int, bool) {
	if v, ok := b.Get(); ok {
		return v, true
	}
	if len(descriptions) == 0 {
		return 0, false
	}

	ids := sortedIDs(descriptions)
	if edge == Start {
		return ids[0], true
	}
	return ids[len(ids)-1], true
}

// ResolvePeriod turns a period bound into a concrete timestamp. A set bound is used
// verbatim. Otherwise the earliest (Start) or latest (End) entry period is used. It
// returns false when there are no entries.
func ResolvePeriod(b Bound[time.Time], entries []JournalEntry, edge Edge) (time.Time, bool) {
	if v, ok := b.Get(); ok {
		return v, true
	}
	if len(entries) == 0 {
		return time.Time{}, false
	}

	resolved := entries[0].Period
	for _, entry := range entries[1:] {
		if edge == Start && entry.Period.Before(resolved) {
			resolved = entry.Period
		}
		if edge == End && entry.Period.After(resolved) {
			resolved = entry.Period
		}
	}
	return resolved, true
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
