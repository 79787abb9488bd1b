package stats

import (
	"fmt"
	"sort"

	"boardgame-tracker/internal/domain"
)

// HIndexQuery carries the inputs for the citation-index operations.
type HIndexQuery struct {
	Games  []domain.Game
	Plays  []domain.Play
	Metric Metric
	Year   int // AllTime spans the whole log
	// GameFilter defaults to accepting every game.
	GameFilter func(domain.Game) bool
}

// HIndexEntry is one game contributing to the h-index.
type HIndexEntry struct {
	Game  domain.Game
	Value float64 // all-time metric value
	// ThisYearValue is the metric gained during the query year.
	ThisYearValue float64
}

// HIndexFromSortedValues computes the h-index of a descending-sorted value
// sequence: the largest k such that at least k entries are each >= k.
func HIndexFromSortedValues(sorted []float64) int {
	h := 0
	for i, v := range sorted {
		if v < float64(i+1) {
			break
		}
		h = i + 1
	}
	return h
}

// HIndex computes the collection's h-index for a metric as of the end of
// q.Year (AllTime spans the whole log).
func HIndex(q HIndexQuery) int {
	ranked := q.ranked(q.Year)
	values := make([]float64, len(ranked))
	for i, e := range ranked {
		values[i] = e.Value
	}
	return HIndexFromSortedValues(values)
}

// ranked returns the filtered, played games ordered by metric value
// descending, ties broken by name then id.
func (q HIndexQuery) ranked(year int) []HIndexEntry {
	snaps := Aggregate(q.Plays, year)
	var ranked []HIndexEntry
	for _, g := range q.Games {
		if q.GameFilter != nil && !q.GameFilter(g) {
			continue
		}
		snap, ok := snaps[g.ID]
		if !ok {
			continue
		}
		ranked = append(ranked, HIndexEntry{Game: g, Value: snap.Value(q.Metric)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.Game.Name != b.Game.Name {
			return a.Game.Name < b.Game.Name
		}
		return a.Game.ID < b.Game.ID
	})
	return ranked
}

// contributors returns the games actually inside the top-h ranks as of a
// cutoff year, keyed by game id.
func (q HIndexQuery) contributors(year int) map[string]struct{} {
	ranked := q.ranked(year)
	values := make([]float64, len(ranked))
	for i, e := range ranked {
		values[i] = e.Value
	}
	h := HIndexFromSortedValues(values)
	set := make(map[string]struct{}, h)
	for _, e := range ranked[:h] {
		set[e.Game.ID] = struct{}{}
	}
	return set
}

// NewHIndexGames lists the games contributing to the h-index at the end of
// q.Year that were not contributors a year earlier. Each newcomer carries
// its all-time value and the value gained during the year. Ordered by
// all-time value descending, ties broken by name then id.
func NewHIndexGames(q HIndexQuery) ([]HIndexEntry, error) {
	if q.Year <= 0 {
		return nil, fmt.Errorf("year is required, got %d", q.Year)
	}

	curr := q.contributors(q.Year)
	prev := q.contributors(q.Year - 1)

	allTime := Aggregate(q.Plays, AllTime)
	yearSnaps := Aggregate(q.Plays, q.Year)
	prevSnaps := Aggregate(q.Plays, q.Year-1)

	var entries []HIndexEntry
	for _, g := range q.Games {
		if _, in := curr[g.ID]; !in {
			continue
		}
		if _, was := prev[g.ID]; was {
			continue
		}
		e := HIndexEntry{Game: g, Value: allTime[g.ID].Value(q.Metric)}
		e.ThisYearValue = yearSnaps[g.ID].Value(q.Metric) - prevSnaps[g.ID].Value(q.Metric)
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.Game.Name != b.Game.Name {
			return a.Game.Name < b.Game.Name
		}
		return a.Game.ID < b.Game.ID
	})
	return entries, nil
}
