package stats

import (
	"boardgame-tracker/internal/domain"
)

// AllTime disables the cutoff-year filter.
const AllTime = 0

type Metric int

const (
	MetricPlays Metric = iota
	MetricSessions
	MetricHours
)

func (m Metric) String() string {
	switch m {
	case MetricSessions:
		return "sessions"
	case MetricHours:
		return "hours"
	default:
		return "plays"
	}
}

// MetricSnapshot is a game's cumulative play aggregate as of a cutoff year.
type MetricSnapshot struct {
	PlayCount    int
	TotalMinutes int
	UniqueDays   int
}

// Value resolves the scalar for a metric kind. Hours are fractional;
// sessions count distinct calendar days played.
func (s MetricSnapshot) Value(m Metric) float64 {
	switch m {
	case MetricSessions:
		return float64(s.UniqueDays)
	case MetricHours:
		return float64(s.TotalMinutes) / 60
	default:
		return float64(s.PlayCount)
	}
}

// Aggregate replays the play log into per-game cumulative snapshots,
// including every play dated in or before cutoffYear (AllTime includes all).
// A game that was never played has no entry in the result; callers rely on
// the absent-vs-zero distinction and must not treat a missing snapshot as 0.
//
// Repeat plays on the same calendar day increment PlayCount but not
// UniqueDays. A missing duration contributes 0 minutes.
func Aggregate(plays []domain.Play, cutoffYear int) map[string]MetricSnapshot {
	type acc struct {
		snap MetricSnapshot
		days map[string]struct{}
	}

	byGame := make(map[string]*acc)
	for _, p := range plays {
		if cutoffYear != AllTime && p.Date.Year() > cutoffYear {
			continue
		}
		a := byGame[p.GameID]
		if a == nil {
			a = &acc{days: make(map[string]struct{})}
			byGame[p.GameID] = a
		}
		a.snap.PlayCount++
		a.snap.TotalMinutes += p.DurationMin
		a.days[p.Date.Format("2006-01-02")] = struct{}{}
	}

	out := make(map[string]MetricSnapshot, len(byGame))
	for id, a := range byGame {
		a.snap.UniqueDays = len(a.days)
		out[id] = a.snap
	}
	return out
}
