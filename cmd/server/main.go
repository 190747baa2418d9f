package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duetchat/messenger-service/internal/cache"
	"github.com/duetchat/messenger-service/internal/cassandra"
	"github.com/duetchat/messenger-service/internal/config"
	"github.com/duetchat/messenger-service/internal/handler"
	"github.com/duetchat/messenger-service/internal/repository"
	"github.com/duetchat/messenger-service/internal/service"
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
		ServiceName: cfg.Log.ServiceName,
	})
	logger := log.L()

	client, err := cassandra.NewClient(cfg.Cassandra)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to cassandra")
	}
	defer client.Close()

	pageCache, err := cache.NewRedisPageCache(cfg.Redis, cfg.Cache.Prefix)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer pageCache.Close()

	conversations := repository.NewCassandraConversationRepository(client)
	messages := repository.NewCassandraMessageRepository(client)
	index := repository.NewCassandraUserConversationRepository(client)

	messenger := service.NewMessengerService(conversations, messages, index, pageCache, cfg.Cache.TTL)
	httpHandler := handler.NewHTTPHandler(messenger)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(log.GinMiddleware(logger))

	httpHandler.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("starting messenger-service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
