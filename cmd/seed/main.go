// Command seed generates synthetic users, conversations and messages for
// local development. Data goes through the messenger core rather than raw
// inserts, so conversation ids and index fan-out always match what the
// service produces.
package main

import (
	"context"
	"flag"
	"math/rand"

	"github.com/duetchat/messenger-service/internal/cassandra"
	"github.com/duetchat/messenger-service/internal/config"
	"github.com/duetchat/messenger-service/internal/domain"
	"github.com/duetchat/messenger-service/internal/repository"
	"github.com/duetchat/messenger-service/internal/service"
	"github.com/duetchat/messenger-service/pkg/log"
)

var sampleMessages = []string{
	"Hey, how are you?", "What's up?", "I'm good, thanks!",
	"Did you see the new movie?", "Let's grab coffee sometime.",
	"Are you free this weekend?", "I'll get back to you soon.",
	"Can you help me with something?", "Have a great day!",
	"Sorry, I was busy.", "Sure thing!", "Maybe later?",
}

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "path to config file")
		numUsers    = flag.Int("users", 10, "number of users")
		numConvs    = flag.Int("conversations", 15, "number of conversations")
		maxMessages = flag.Int("max-messages", 50, "maximum messages per conversation")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger := log.L()
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	log.Init(log.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "messenger-seed",
	})
	logger := log.L()

	client, err := cassandra.NewClient(cfg.Cassandra)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to cassandra")
	}
	defer client.Close()

	conversations := repository.NewCassandraConversationRepository(client)
	messages := repository.NewCassandraMessageRepository(client)
	index := repository.NewCassandraUserConversationRepository(client)
	messenger := service.NewMessengerService(conversations, messages, index, nil, 0)

	ctx := context.Background()

	// Pick distinct random pairs; the deterministic id derivation keeps a
	// repeated pair from forking a second conversation anyway.
	pairs := make(map[int64]struct{})
	var messageCount int
	for len(pairs) < *numConvs {
		sender := int64(rand.Intn(*numUsers) + 1)
		receiver := int64(rand.Intn(*numUsers) + 1)
		if sender == receiver {
			continue
		}

		convID := domain.ConversationID(sender, receiver)
		if _, seen := pairs[convID]; seen {
			continue
		}
		pairs[convID] = struct{}{}

		n := rand.Intn(*maxMessages) + 1
		for i := 0; i < n; i++ {
			// Alternate direction roughly half the time.
			from, to := sender, receiver
			if rand.Intn(2) == 0 {
				from, to = receiver, sender
			}

			content := sampleMessages[rand.Intn(len(sampleMessages))]
			if _, err := messenger.SendMessage(ctx, from, to, content); err != nil {
				logger.Fatal().Err(err).Int64(log.FieldConversationID, convID).Msg("seed send failed")
			}
			messageCount++
		}
	}

	logger.Info().
		Int("users", *numUsers).
		Int("conversations", len(pairs)).
		Int("messages", messageCount).
		Msg("seed data generated")
}
