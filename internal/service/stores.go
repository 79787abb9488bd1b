package service

import (
	"context"

	"boardgame-tracker/internal/domain"
)

// GameStore is the slice of the game repository the services depend on.
type GameStore interface {
	ListWithCopies(ctx context.Context) ([]domain.Game, error)
	UpsertBatch(ctx context.Context, games []domain.Game) error
}

// PlayStore is the slice of the play repository the services depend on.
type PlayStore interface {
	List(ctx context.Context) ([]domain.Play, error)
	UpsertBatch(ctx context.Context, plays []domain.Play) error
}
