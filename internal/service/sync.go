package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boardgame-tracker/internal/api"
	"boardgame-tracker/internal/constants"
	"boardgame-tracker/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SyncService pulls a user's collection and play log from BGG and persists
// them. A sync replaces game/copy rows and upserts plays; the analytics
// layer only ever reads the materialized result.
type SyncService struct {
	bgg    *api.BGGClient
	games  GameStore
	plays  PlayStore
	logger zerolog.Logger
}

func NewSyncService(bgg *api.BGGClient, games GameStore, plays PlayStore, logger zerolog.Logger) *SyncService {
	return &SyncService{bgg: bgg, games: games, plays: plays, logger: logger}
}

type SyncResult struct {
	Username string `json:"username"`
	Games    int    `json:"games"`
	Plays    int    `json:"plays"`
}

// Sync fetches the collection and every plays page concurrently and writes
// both in batches.
func (s *SyncService) Sync(ctx context.Context, username string) (*SyncResult, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	ctx, cancel := context.WithTimeout(ctx, constants.SyncTimeout)
	defer cancel()

	s.logger.Info().Str("username", username).Msg("starting bgg sync")

	var games []domain.Game
	var plays []domain.Play

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		collection, err := s.fetchCollection(gctx, username)
		if err != nil {
			return fmt.Errorf("failed to fetch collection: %w", err)
		}
		games = mapCollection(collection)
		return nil
	})
	g.Go(func() error {
		logs, err := s.fetchAllPlays(gctx, username)
		if err != nil {
			return fmt.Errorf("failed to fetch plays: %w", err)
		}
		plays = mapPlays(logs)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("bgg sync failed")
		return nil, err
	}

	if err := s.games.UpsertBatch(ctx, games); err != nil {
		return nil, fmt.Errorf("failed to store games: %w", err)
	}
	if err := s.plays.UpsertBatch(ctx, plays); err != nil {
		return nil, fmt.Errorf("failed to store plays: %w", err)
	}

	s.logger.Info().
		Str("username", username).
		Int("games", len(games)).
		Int("plays", len(plays)).
		Msg("bgg sync completed")

	return &SyncResult{Username: username, Games: len(games), Plays: len(plays)}, nil
}

// fetchCollection polls through BGG's export queue until the collection is
// ready.
func (s *SyncService) fetchCollection(ctx context.Context, username string) (*api.CollectionResponse, error) {
	for attempt := 0; attempt < constants.BGGQueueMaxRetries; attempt++ {
		collection, err := s.bgg.GetCollection(ctx, username)
		if err == nil {
			return collection, nil
		}
		if !errors.Is(err, api.ErrQueued) {
			return nil, err
		}
		s.logger.Debug().Str("username", username).Int("attempt", attempt+1).Msg("collection export queued, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(constants.BGGQueueRetryDelay):
		}
	}
	return nil, fmt.Errorf("collection export still queued after %d attempts", constants.BGGQueueMaxRetries)
}

func (s *SyncService) fetchAllPlays(ctx context.Context, username string) ([]api.PlayLog, error) {
	var logs []api.PlayLog
	for page := 1; ; page++ {
		resp, err := s.bgg.GetPlays(ctx, username, page)
		if err != nil {
			return nil, err
		}
		logs = append(logs, resp.Plays...)
		if len(logs) >= resp.Total || len(resp.Plays) < constants.BGGPlaysPageSize {
			return logs, nil
		}
	}
}

func mapCollection(collection *api.CollectionResponse) []domain.Game {
	games := make([]domain.Game, 0, len(collection.Items))
	for _, item := range collection.Items {
		g := domain.Game{
			ID:            item.ObjectID,
			Name:          item.Name,
			YearPublished: item.YearPublished,
			IsBaseGame:    item.Subtype != "boardgameexpansion",
			IsExpansion:   item.Subtype == "boardgameexpansion",
		}
		gameCopy := domain.GameCopy{
			GameID:      g.ID,
			StatusOwned: item.Status.Own == 1,
		}
		if item.PrivateInfo.PricePaid > 0 {
			price := item.PrivateInfo.PricePaid
			gameCopy.PricePaid = &price
		}
		if d, err := time.Parse("2006-01-02", item.PrivateInfo.AcquisitionDate); err == nil {
			gameCopy.AcquisitionDate = &d
		}
		g.Copies = append(g.Copies, gameCopy)
		games = append(games, g)
	}
	return games
}

func mapPlays(logs []api.PlayLog) []domain.Play {
	var plays []domain.Play
	for _, l := range logs {
		date, err := time.Parse("2006-01-02", l.Date)
		if err != nil {
			continue
		}
		quantity := l.Quantity
		if quantity < 1 {
			quantity = 1
		}
		// BGG logs quantity>1 as one entry; the engine counts individual
		// plays, so expand them.
		for i := 0; i < quantity; i++ {
			id := l.ID
			if quantity > 1 {
				id = fmt.Sprintf("%s-%d", l.ID, i+1)
			}
			plays = append(plays, domain.Play{
				ID:                id,
				GameID:            l.Item.ObjectID,
				Date:              date,
				DurationMin:       l.Length / quantity,
				DurationEstimated: l.Length == 0,
				Players:           len(l.Players),
				LocationID:        l.Location,
			})
		}
	}
	return plays
}
