package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"boardgame-tracker/internal/constants"
	"boardgame-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayRepository {
	return &PlayRepository{db: sqlDB, logger: logger}
}

// List returns the full play log ordered by date.
func (r *PlayRepository) List(ctx context.Context) ([]domain.Play, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, game_id, date, duration_min, duration_estimated, copy_id, players, location_id, created_at, updated_at
		FROM plays ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) ListByGame(ctx context.Context, gameID string) ([]domain.Play, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, game_id, date, duration_min, duration_estimated, copy_id, players, location_id, created_at, updated_at
		FROM plays WHERE game_id = ? ORDER BY date, id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func scanPlays(rows *sql.Rows) ([]domain.Play, error) {
	var plays []domain.Play
	for rows.Next() {
		var p domain.Play
		if err := rows.Scan(&p.ID, &p.GameID, &p.Date, &p.DurationMin, &p.DurationEstimated, &p.CopyID, &p.Players, &p.LocationID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// UpsertBatch writes plays inside one transaction, batched to keep statement
// counts bounded.
func (r *PlayRepository) UpsertBatch(ctx context.Context, plays []domain.Play) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i := 0; i < len(plays); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(plays) {
			end = len(plays)
		}

		for _, p := range plays[i:end] {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO plays (id, game_id, date, duration_min, duration_estimated, copy_id, players, location_id, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					game_id = excluded.game_id,
					date = excluded.date,
					duration_min = excluded.duration_min,
					duration_estimated = excluded.duration_estimated,
					copy_id = excluded.copy_id,
					players = excluded.players,
					location_id = excluded.location_id,
					updated_at = excluded.updated_at`,
				p.ID, p.GameID, p.Date, p.DurationMin, p.DurationEstimated, p.CopyID, p.Players, p.LocationID, now, now)
			if err != nil {
				return fmt.Errorf("failed to upsert play %s: %w", p.ID, err)
			}
		}
	}

	r.logger.Debug().Int("count", len(plays)).Msg("plays upserted")
	return tx.Commit()
}
