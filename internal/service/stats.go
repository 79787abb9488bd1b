package service

import (
	"context"

	"boardgame-tracker/internal/constants"
	"boardgame-tracker/internal/domain"
	"boardgame-tracker/internal/stats"

	"github.com/rs/zerolog"
)

// StatsService drives the tier and h-index engines over the stored
// collection. Reports carry numeric/structured data only; formatting is the
// caller's problem.
type StatsService struct {
	games  GameStore
	plays  PlayStore
	logger zerolog.Logger
}

func NewStatsService(games GameStore, plays PlayStore, logger zerolog.Logger) *StatsService {
	return &StatsService{games: games, plays: plays, logger: logger}
}

type GameEntry struct {
	GameID        string  `json:"game_id"`
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	ThisYearValue float64 `json:"this_year_value,omitempty"`
}

type TierReport struct {
	Tier      string      `json:"tier"`
	Threshold float64     `json:"threshold"`
	Count     int         `json:"count"`
	Increase  int         `json:"increase,omitempty"`
	Skipped   int         `json:"skipped,omitempty"`
	NewGames  []GameEntry `json:"new_games,omitempty"`
}

type MilestoneReport struct {
	Year   int          `json:"year,omitempty"` // 0 means all-time
	Metric string       `json:"metric"`
	Tiers  []TierReport `json:"tiers"`
}

type CostEntry struct {
	GameID        string  `json:"game_id"`
	Name          string  `json:"name"`
	CostPerMetric float64 `json:"cost_per_metric"`
	PricePaid     float64 `json:"price_paid"`
	MetricValue   float64 `json:"metric_value"`
	ThisYearValue float64 `json:"this_year_value,omitempty"`
}

type CostTierReport struct {
	Tier      string      `json:"tier"`
	Threshold float64     `json:"threshold"`
	Count     int         `json:"count"`
	Increase  int         `json:"increase,omitempty"`
	Skipped   int         `json:"skipped,omitempty"`
	NewGames  []CostEntry `json:"new_games,omitempty"`
}

type CostClubReport struct {
	Year   int              `json:"year,omitempty"`
	Metric string           `json:"metric"`
	Tiers  []CostTierReport `json:"tiers"`
}

type HIndexMetricReport struct {
	Metric   string      `json:"metric"`
	HIndex   int         `json:"h_index"`
	NewGames []GameEntry `json:"new_games,omitempty"`
}

type HIndexReport struct {
	Year    int                  `json:"year,omitempty"`
	Metrics []HIndexMetricReport `json:"metrics"`
}

// countable keeps base games and expandalones; plain expansions do not earn
// tiers of their own.
func countable(g domain.Game) bool {
	return g.IsBaseGame || g.IsExpandalone
}

// costPerMetric prices a game per metric unit from its owned copies. Games
// with no price data or no plays are not computable and stay out of the
// cost clubs entirely.
func costPerMetric(g domain.Game, snap stats.MetricSnapshot, hasSnap bool, metric stats.Metric) (float64, bool) {
	price, known := g.TotalPricePaid()
	if !known || !hasSnap {
		return 0, false
	}
	v := snap.Value(metric)
	if v == 0 {
		return 0, false
	}
	return price / v, true
}

func (s *StatsService) load(ctx context.Context) ([]domain.Game, []domain.Play, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	games, err := s.games.ListWithCopies(ctx)
	if err != nil {
		return nil, nil, err
	}
	plays, err := s.plays.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return games, plays, nil
}

// MilestoneReport builds the ascending play-milestone ladder as of the end
// of year (stats.AllTime for the whole log). Year deltas, new entrants and
// skips are included only for a concrete year.
func (s *StatsService) MilestoneReport(ctx context.Context, year int, metric stats.Metric) (*MilestoneReport, error) {
	games, plays, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	collection := stats.Milestones()
	report := &MilestoneReport{Year: year, Metric: metric.String()}

	for _, tier := range collection.Tiers() {
		q := stats.TierQuery{
			Games: games, Plays: plays, Year: year, Metric: metric,
			Tiers: collection, Tier: tier.Name, GameFilter: countable,
		}

		count, err := stats.CountGamesInTier(q)
		if err != nil {
			return nil, err
		}
		tr := TierReport{Tier: tier.Name, Threshold: tier.Threshold, Count: count}

		if year != stats.AllTime {
			if tr.Increase, err = stats.TierIncrease(q); err != nil {
				return nil, err
			}
			if tr.Skipped, err = stats.SkippedTierCount(q); err != nil {
				return nil, err
			}
			entries, err := stats.NewTierGames(q)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				tr.NewGames = append(tr.NewGames, GameEntry{
					GameID: e.Game.ID, Name: e.Game.Name,
					Value: e.Value, ThisYearValue: e.ThisYearValue,
				})
			}
		}
		report.Tiers = append(report.Tiers, tr)
	}

	s.logger.Debug().Int("year", year).Str("metric", metric.String()).Msg("milestone report built")
	return report, nil
}

// CostClubReport builds the descending price-per-metric ladder. Only games
// with known owned-copy prices and at least one play participate.
func (s *StatsService) CostClubReport(ctx context.Context, year int, metric stats.Metric) (*CostClubReport, error) {
	games, plays, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	collection := stats.CostClub()
	report := &CostClubReport{Year: year, Metric: metric.String()}

	snaps := stats.Aggregate(plays, year)

	for _, tier := range collection.Tiers() {
		q := stats.TierQuery{
			Games: games, Plays: plays, Year: year, Metric: metric,
			Tiers: collection, Tier: tier.Name,
			GameFilter: countable, GameValue: costPerMetric,
		}

		count, err := stats.CountGamesInTier(q)
		if err != nil {
			return nil, err
		}
		tr := CostTierReport{Tier: tier.Name, Threshold: tier.Threshold, Count: count}

		if year != stats.AllTime {
			if tr.Increase, err = stats.TierIncrease(q); err != nil {
				return nil, err
			}
			if tr.Skipped, err = stats.SkippedTierCount(q); err != nil {
				return nil, err
			}
			entries, err := stats.NewTierGames(q)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				price, _ := e.Game.TotalPricePaid()
				tr.NewGames = append(tr.NewGames, CostEntry{
					GameID:        e.Game.ID,
					Name:          e.Game.Name,
					CostPerMetric: e.Value,
					PricePaid:     price,
					MetricValue:   snaps[e.Game.ID].Value(metric),
					ThisYearValue: e.ThisYearValue,
				})
			}
		}
		report.Tiers = append(report.Tiers, tr)
	}

	s.logger.Debug().Int("year", year).Str("metric", metric.String()).Msg("cost club report built")
	return report, nil
}

// HIndexReport computes the collection h-index for plays, sessions and
// hours, with per-metric newcomers when a concrete year is given.
func (s *StatsService) HIndexReport(ctx context.Context, year int) (*HIndexReport, error) {
	games, plays, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	report := &HIndexReport{Year: year}
	for _, metric := range []stats.Metric{stats.MetricPlays, stats.MetricSessions, stats.MetricHours} {
		q := stats.HIndexQuery{
			Games: games, Plays: plays, Metric: metric, Year: year,
			GameFilter: countable,
		}
		mr := HIndexMetricReport{Metric: metric.String(), HIndex: stats.HIndex(q)}

		if year != stats.AllTime {
			entries, err := stats.NewHIndexGames(q)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				mr.NewGames = append(mr.NewGames, GameEntry{
					GameID: e.Game.ID, Name: e.Game.Name,
					Value: e.Value, ThisYearValue: e.ThisYearValue,
				})
			}
		}
		report.Metrics = append(report.Metrics, mr)
	}

	s.logger.Debug().Int("year", year).Msg("h-index report built")
	return report, nil
}
