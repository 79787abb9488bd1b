package stats

import (
	"fmt"
	"sort"

	"boardgame-tracker/internal/domain"
)

// GameValueFunc resolves the comparable value for a game. hasSnap is false
// when the game has no snapshot (never played before the cutoff). Returning
// ok=false marks the value as not computable and excludes the game from the
// operation entirely; it is never coerced to zero.
type GameValueFunc func(g domain.Game, snap MetricSnapshot, hasSnap bool, metric Metric) (float64, bool)

// TierQuery carries the inputs shared by every tier engine operation.
type TierQuery struct {
	Games  []domain.Game
	Plays  []domain.Play
	Year   int // AllTime allowed for CountGamesInTier only
	Metric Metric
	Tiers  TierCollection
	Tier   string

	// GameValue defaults to the snapshot's own metric value, excluding
	// games that were never played.
	GameValue GameValueFunc
	// GameFilter defaults to accepting every game.
	GameFilter func(domain.Game) bool
}

// TierEntry is one game's membership in a tier band.
type TierEntry struct {
	Game  domain.Game
	Value float64
	// ThisYearValue is the raw metric gained during the query year: the
	// current snapshot's metric value minus the prior year's (absence
	// counts as 0). For cost clubs Value is a cost while ThisYearValue is
	// still the metric delta.
	ThisYearValue float64
}

func (q TierQuery) valueFor(g domain.Game, snap MetricSnapshot, hasSnap bool) (float64, bool) {
	if q.GameValue != nil {
		return q.GameValue(g, snap, hasSnap, q.Metric)
	}
	if !hasSnap {
		return 0, false
	}
	return snap.Value(q.Metric), true
}

// resolveValues aggregates plays through year and maps each filtered game to
// its computable value. Games with no computable value are left out.
func (q TierQuery) resolveValues(year int) map[string]float64 {
	snaps := Aggregate(q.Plays, year)
	vals := make(map[string]float64)
	for _, g := range q.Games {
		if q.GameFilter != nil && !q.GameFilter(g) {
			continue
		}
		snap, hasSnap := snaps[g.ID]
		v, ok := q.valueFor(g, snap, hasSnap)
		if !ok {
			continue
		}
		vals[g.ID] = v
	}
	return vals
}

func (q TierQuery) filteredGames() []domain.Game {
	if q.GameFilter == nil {
		return q.Games
	}
	var out []domain.Game
	for _, g := range q.Games {
		if q.GameFilter(g) {
			out = append(out, g)
		}
	}
	return out
}

func (q TierQuery) validateTier() error {
	if _, err := q.Tiers.Threshold(q.Tier); err != nil {
		return err
	}
	return nil
}

func (q TierQuery) requireYear() error {
	if q.Year <= 0 {
		return fmt.Errorf("year is required, got %d", q.Year)
	}
	return nil
}

// CountGamesInTier counts the games whose value sits inside the tier's own
// band as of the end of q.Year (AllTime counts the whole log).
func CountGamesInTier(q TierQuery) (int, error) {
	if err := q.validateTier(); err != nil {
		return 0, err
	}
	count := 0
	for _, v := range q.resolveValues(q.Year) {
		if q.Tiers.InTier(v, q.Tier) {
			count++
		}
	}
	return count, nil
}

// TierIncrease is the net change in tier membership between q.Year and the
// year before. Negative when more games advanced past the tier than entered.
func TierIncrease(q TierQuery) (int, error) {
	if err := q.requireYear(); err != nil {
		return 0, err
	}
	curr, err := CountGamesInTier(q)
	if err != nil {
		return 0, err
	}
	prevQ := q
	prevQ.Year = q.Year - 1
	prev, err := CountGamesInTier(prevQ)
	if err != nil {
		return 0, err
	}
	return curr - prev, nil
}

// NewTierGames lists the games inside the tier at q.Year that had not
// reached the tier by the end of the year before. Entries are ordered by the
// complement of the collection's direction, so the most extreme
// newly-qualifying value comes first regardless of tier polarity; ties break
// on game name, then id.
func NewTierGames(q TierQuery) ([]TierEntry, error) {
	if err := q.requireYear(); err != nil {
		return nil, err
	}
	if err := q.validateTier(); err != nil {
		return nil, err
	}

	curr := q.resolveValues(q.Year)
	prev := q.resolveValues(q.Year - 1)
	currSnaps := Aggregate(q.Plays, q.Year)
	prevSnaps := Aggregate(q.Plays, q.Year-1)

	var entries []TierEntry
	for _, g := range q.filteredGames() {
		v, ok := curr[g.ID]
		if !ok || !q.Tiers.InTier(v, q.Tier) {
			continue
		}
		if pv, had := prev[g.ID]; had && q.Tiers.AtOrBeyond(pv, q.Tier) {
			continue
		}
		entries = append(entries, TierEntry{
			Game:          g,
			Value:         v,
			ThisYearValue: currSnaps[g.ID].Value(q.Metric) - prevSnaps[g.ID].Value(q.Metric),
		})
	}

	asc := q.Tiers.Direction() == Descending
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Value != b.Value {
			if asc {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		}
		if a.Game.Name != b.Game.Name {
			return a.Game.Name < b.Game.Name
		}
		return a.Game.ID < b.Game.ID
	})
	return entries, nil
}

// SkippedTierCount counts the games that went from short of this tier at the
// end of the prior year to at-or-beyond the next-harder tier at the end of
// q.Year, never registering a snapshot inside this tier's own band. The
// next-harder threshold is always derived from the collection's own
// ordering. The terminal tier cannot be skipped; it always yields 0.
func SkippedTierCount(q TierQuery) (int, error) {
	if err := q.requireYear(); err != nil {
		return 0, err
	}
	if err := q.validateTier(); err != nil {
		return 0, err
	}
	next, ok := q.Tiers.NextTier(q.Tier)
	if !ok {
		return 0, nil
	}

	curr := q.resolveValues(q.Year)
	prev := q.resolveValues(q.Year - 1)

	skips := 0
	for id, v := range curr {
		if !q.Tiers.AtOrBeyond(v, next) {
			continue
		}
		if pv, had := prev[id]; had && q.Tiers.AtOrBeyond(pv, q.Tier) {
			continue
		}
		skips++
	}
	return skips, nil
}
