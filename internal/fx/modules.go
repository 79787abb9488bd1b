package fx

import (
	"boardgame-tracker/internal/api"
	"boardgame-tracker/internal/config"
	"boardgame-tracker/internal/database"
	"boardgame-tracker/internal/logger"
	"boardgame-tracker/internal/repository"
	"boardgame-tracker/internal/server"
	"boardgame-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvideGameStore(r *repository.GameRepository) service.GameStore {
	return r
}

func ProvidePlayStore(r *repository.PlayRepository) service.PlayStore {
	return r
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewGameRepository),
	fx.Provide(repository.NewPlayRepository),
	fx.Provide(ProvideGameStore),
	fx.Provide(ProvidePlayStore),
	// api client
	fx.Provide(api.NewBGGClient),
	// svc
	fx.Provide(service.NewSyncService),
	fx.Provide(service.NewStatsService),
	// server
	fx.Provide(server.New),
)
