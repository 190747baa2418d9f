package cassandra

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/duetchat/messenger-service/internal/config"
	"github.com/duetchat/messenger-service/pkg/log"
)

// Client wraps the single long-lived Cassandra session shared by all
// repositories. The gocql session is safe for concurrent use; the client does
// no serialization of its own.
type Client struct {
	session *gocql.Session
}

// NewClient connects to the cluster, retrying with a fixed backoff while the
// cluster is still coming up. Running out of attempts is fatal for the
// caller: without a session no operation can proceed.
func NewClient(cfg config.CassandraConfig) (*Client, error) {
	cluster := newCluster(cfg)
	cluster.Keyspace = cfg.Keyspace

	session, err := connectWithRetry(cluster, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{session: session}, nil
}

// Session returns the underlying gocql session.
func (c *Client) Session() *gocql.Session {
	return c.session
}

// Close closes the Cassandra session.
func (c *Client) Close() {
	if c.session != nil {
		c.session.Close()
	}
}

func newCluster(cfg config.CassandraConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Consistency = parseConsistency(cfg.Consistency)
	cluster.ConnectTimeout = cfg.ConnectTimeout
	cluster.Timeout = cfg.Timeout

	if cfg.Username != "" && cfg.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	cluster.RetryPolicy = &gocql.ExponentialBackoffRetryPolicy{
		NumRetries: 3,
		Min:        100 * time.Millisecond,
		Max:        2 * time.Second,
	}

	return cluster
}

func connectWithRetry(cluster *gocql.ClusterConfig, cfg config.CassandraConfig) (*gocql.Session, error) {
	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var session *gocql.Session
		session, err = cluster.CreateSession()
		if err == nil {
			return session, nil
		}

		l := log.L()
		l.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("cassandra not ready, retrying")

		if attempt < attempts {
			time.Sleep(cfg.ConnectBackoff)
		}
	}

	return nil, fmt.Errorf("cassandra unreachable after %d attempts: %w", attempts, err)
}

func parseConsistency(s string) gocql.Consistency {
	switch strings.ToUpper(s) {
	case "ANY":
		return gocql.Any
	case "ONE":
		return gocql.One
	case "TWO":
		return gocql.Two
	case "THREE":
		return gocql.Three
	case "QUORUM":
		return gocql.Quorum
	case "ALL":
		return gocql.All
	case "LOCAL_QUORUM":
		return gocql.LocalQuorum
	case "EACH_QUORUM":
		return gocql.EachQuorum
	case "LOCAL_ONE":
		return gocql.LocalOne
	default:
		return gocql.LocalQuorum
	}
}
