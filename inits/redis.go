package inits

import (
	"github.com/redis/rueidis"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/graceful_shutdown"
)

func NewRedisClient(ac *app_config.AppConfig) rueidis.Client {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{ac.RedisUrl},
		ShuffleInit: true,
	})
	if err != nil {
		panic(err)
	}
	graceful_shutdown.AddOutputShutdownFunc(client.Close)
	return client
}
