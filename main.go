package main

import (
	"context"

	"go.uber.org/fx"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/graceful_shutdown"
	"github.com/civicissues/user-management/inits"
	"github.com/civicissues/user-management/logger"
	"github.com/civicissues/user-management/points_config"
	"github.com/civicissues/user-management/repositories"
	"github.com/civicissues/user-management/servers"
	"github.com/civicissues/user-management/services"
)

func main() {
	app := fx.New(
		fx.Provide(
			app_config.NewAppConfig,
			points_config.NewPointsConfig,
			inits.NewPostgresDB,
			inits.NewRedisClient,
			repositories.NewUserRepository,
			repositories.NewLeaderboardRepository,
			services.NewAuditPublisher,
			services.NewAuthService,
			services.NewPointsService,
			services.NewLeaderboardService,
		),
		fx.Invoke(func(ac *app_config.AppConfig) { logger.InitLogger(ac) }),
		fx.Invoke(servers.RunHttpServer),
		fx.Invoke(servers.RunKafkaConsumer),
	)

	if err := app.Err(); err != nil {
		panic(err)
	}

	if err := app.Start(context.Background()); err != nil {
		panic(err)
	}

	graceful_shutdown.WaitForSignals()
}
