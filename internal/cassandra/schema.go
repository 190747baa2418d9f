package cassandra

import (
	"fmt"

	"github.com/duetchat/messenger-service/internal/config"
	"github.com/duetchat/messenger-service/pkg/log"
)

// Three tables, one per access pattern. The triplication is deliberate:
// every read path stays on a single partition.
var tableStatements = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		conversation_id BIGINT,
		message_id TIMEUUID,
		sender_id BIGINT,
		receiver_id BIGINT,
		content TEXT,
		created_at TIMESTAMP,
		PRIMARY KEY ((conversation_id), created_at, message_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, message_id DESC)`,

	`CREATE TABLE IF NOT EXISTS conversations_by_user (
		user_id BIGINT,
		conversation_id BIGINT,
		other_user_id BIGINT,
		last_message_at TIMESTAMP,
		last_message_content TEXT,
		PRIMARY KEY ((user_id), last_message_at, conversation_id)
	) WITH CLUSTERING ORDER BY (last_message_at DESC, conversation_id ASC)`,

	`CREATE TABLE IF NOT EXISTS conversations (
		conversation_id BIGINT PRIMARY KEY,
		user1_id BIGINT,
		user2_id BIGINT,
		created_at TIMESTAMP,
		last_message_at TIMESTAMP,
		last_message_content TEXT
	)`,
}

// Setup creates the keyspace and tables, waiting for the cluster to come up
// first. Used by cmd/setup before the service starts for the first time.
func Setup(cfg config.CassandraConfig) error {
	l := log.L()

	// Keyspace creation needs a session without a keyspace bound.
	bare := cfg
	bare.Keyspace = ""
	cluster := newCluster(bare)

	session, err := connectWithRetry(cluster, bare)
	if err != nil {
		return err
	}

	createKeyspace := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
		WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': 3}`,
		cfg.Keyspace)
	if err := session.Query(createKeyspace).Exec(); err != nil {
		session.Close()
		return fmt.Errorf("create keyspace %s: %w", cfg.Keyspace, err)
	}
	session.Close()
	l.Info().Str("keyspace", cfg.Keyspace).Msg("keyspace ready")

	client, err := NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	for _, stmt := range tableStatements {
		if err := client.Session().Query(stmt).Exec(); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	l.Info().Msg("tables ready")

	return nil
}
