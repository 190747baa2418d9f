// Command setup creates the messenger keyspace and tables, waiting for the
// cluster to come up first. Run once before starting the service.
package main

import (
	"os"

	"github.com/duetchat/messenger-service/internal/cassandra"
	"github.com/duetchat/messenger-service/internal/config"
	"github.com/duetchat/messenger-service/pkg/log"
)

func main() {
	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger := log.L()
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	log.Init(log.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "messenger-setup",
	})

	if err := cassandra.Setup(cfg.Cassandra); err != nil {
		logger := log.L()
		logger.Fatal().Err(err).Msg("schema setup failed")
	}

	logger := log.L()
	logger.Info().Str("keyspace", cfg.Cassandra.Keyspace).Msg("schema setup completed")
}
