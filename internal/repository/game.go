package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"boardgame-tracker/internal/constants"
	"boardgame-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type GameRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewGameRepository(sqlDB *sql.DB, logger zerolog.Logger) *GameRepository {
	return &GameRepository{db: sqlDB, logger: logger}
}

func (r *GameRepository) Get(ctx context.Context, id string) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, year_published, is_base_game, is_expansion, is_expandalone, created_at, updated_at
		FROM games WHERE id = ?`, id)

	var g domain.Game
	if err := row.Scan(&g.ID, &g.Name, &g.YearPublished, &g.IsBaseGame, &g.IsExpansion, &g.IsExpandalone, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}

	copies, err := r.copiesFor(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Copies = copies
	return &g, nil
}

func (r *GameRepository) copiesFor(ctx context.Context, gameID string) ([]domain.GameCopy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, game_id, status_owned, acquisition_date, price_paid, created_at, updated_at
		FROM game_copies WHERE game_id = ? ORDER BY id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var copies []domain.GameCopy
	for rows.Next() {
		var c domain.GameCopy
		var acquired sql.NullTime
		var price sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.GameID, &c.StatusOwned, &acquired, &price, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if acquired.Valid {
			t := acquired.Time
			c.AcquisitionDate = &t
		}
		if price.Valid {
			p := price.Float64
			c.PricePaid = &p
		}
		copies = append(copies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return copies, nil
}

// ListWithCopies returns every game with its copies attached, ordered by name.
func (r *GameRepository) ListWithCopies(ctx context.Context) ([]domain.Game, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, year_published, is_base_game, is_expansion, is_expandalone, created_at, updated_at
		FROM games ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []domain.Game
	index := make(map[string]int)
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.YearPublished, &g.IsBaseGame, &g.IsExpansion, &g.IsExpandalone, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		index[g.ID] = len(games)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	copyRows, err := r.db.QueryContext(ctx, `
		SELECT id, game_id, status_owned, acquisition_date, price_paid, created_at, updated_at
		FROM game_copies ORDER BY game_id, id`)
	if err != nil {
		return nil, err
	}
	defer copyRows.Close()

	for copyRows.Next() {
		var c domain.GameCopy
		var acquired sql.NullTime
		var price sql.NullFloat64
		if err := copyRows.Scan(&c.ID, &c.GameID, &c.StatusOwned, &acquired, &price, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if acquired.Valid {
			t := acquired.Time
			c.AcquisitionDate = &t
		}
		if price.Valid {
			p := price.Float64
			c.PricePaid = &p
		}
		if i, ok := index[c.GameID]; ok {
			games[i].Copies = append(games[i].Copies, c)
		}
	}
	if err := copyRows.Err(); err != nil {
		return nil, err
	}

	return games, nil
}

// UpsertBatch replaces game rows and their copies inside one transaction.
// Copies with no id get a generated nanoid.
func (r *GameRepository) UpsertBatch(ctx context.Context, games []domain.Game) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i := 0; i < len(games); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(games) {
			end = len(games)
		}

		for _, g := range games[i:end] {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO games (id, name, year_published, is_base_game, is_expansion, is_expandalone, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					year_published = excluded.year_published,
					is_base_game = excluded.is_base_game,
					is_expansion = excluded.is_expansion,
					is_expandalone = excluded.is_expandalone,
					updated_at = excluded.updated_at`,
				g.ID, g.Name, g.YearPublished, g.IsBaseGame, g.IsExpansion, g.IsExpandalone, now, now)
			if err != nil {
				return fmt.Errorf("failed to upsert game %s: %w", g.ID, err)
			}

			if _, err := tx.ExecContext(ctx, `DELETE FROM game_copies WHERE game_id = ?`, g.ID); err != nil {
				return fmt.Errorf("failed to clear copies for game %s: %w", g.ID, err)
			}
			for _, c := range g.Copies {
				id := c.ID
				if id == "" {
					id, err = gonanoid.New()
					if err != nil {
						return fmt.Errorf("failed to generate nanoid: %w", err)
					}
				}
				var acquired any
				if c.AcquisitionDate != nil {
					acquired = *c.AcquisitionDate
				}
				var price any
				if c.PricePaid != nil {
					price = *c.PricePaid
				}
				_, err := tx.ExecContext(ctx, `
					INSERT INTO game_copies (id, game_id, status_owned, acquisition_date, price_paid, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?)`,
					id, g.ID, c.StatusOwned, acquired, price, now, now)
				if err != nil {
					return fmt.Errorf("failed to insert copy for game %s: %w", g.ID, err)
				}
			}
		}
	}

	r.logger.Debug().Int("count", len(games)).Msg("games upserted")
	return tx.Commit()
}
