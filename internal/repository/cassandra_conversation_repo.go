package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/duetchat/messenger-service/internal/cassandra"
	"github.com/duetchat/messenger-service/internal/domain"
)

type CassandraConversationRepository struct {
	session *gocql.Session
}

func NewCassandraConversationRepository(client *cassandra.Client) *CassandraConversationRepository {
	return &CassandraConversationRepository{session: client.Session()}
}

func (r *CassandraConversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	query := `SELECT conversation_id, user1_id, user2_id, created_at, last_message_at, last_message_content
			  FROM conversations
			  WHERE conversation_id = ?`

	var (
		conv        domain.Conversation
		lastAt      time.Time
		lastContent string
	)
	err := r.session.Query(query, id).WithContext(ctx).Scan(
		&conv.ID,
		&conv.User1ID,
		&conv.User2ID,
		&conv.CreatedAt,
		&lastAt,
		&lastContent,
	)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, fmt.Errorf("conversation %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation %d: %w", id, err)
	}

	// A null summary scans as zero values; surface it as absent.
	if !lastAt.IsZero() {
		conv.LastMessageAt = &lastAt
		conv.LastMessageContent = &lastContent
	}

	return &conv, nil
}

func (r *CassandraConversationRepository) ResolveOrCreate(ctx context.Context, userA, userB int64) (*domain.Conversation, error) {
	id := domain.ConversationID(userA, userB)

	conv, err := r.GetByID(ctx, id)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve conversation for pair (%d,%d): %w", userA, userB, err)
	}

	// Absent: create it. A concurrent first contact for the same pair
	// derives the same id and writes an equivalent row, so losing the race
	// is harmless.
	lower, higher := domain.CanonicalPair(userA, userB)
	now := time.Now().UTC()

	insert := `INSERT INTO conversations (conversation_id, user1_id, user2_id, created_at)
			   VALUES (?, ?, ?, ?)`
	if err := r.session.Query(insert, id, lower, higher, now).WithContext(ctx).Exec(); err != nil {
		return nil, fmt.Errorf("create conversation %d: %w", id, err)
	}

	return &domain.Conversation{
		ID:        id,
		User1ID:   lower,
		User2ID:   higher,
		CreatedAt: now,
	}, nil
}

func (r *CassandraConversationRepository) UpdateLastMessage(ctx context.Context, id int64, at time.Time, content string) error {
	query := `UPDATE conversations
			  SET last_message_at = ?, last_message_content = ?
			  WHERE conversation_id = ?`

	if err := r.session.Query(query, at, content, id).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("update conversation %d summary: %w", id, err)
	}
	return nil
}
