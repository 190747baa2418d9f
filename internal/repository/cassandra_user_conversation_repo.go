package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/duetchat/messenger-service/internal/cassandra"
	"github.com/duetchat/messenger-service/internal/domain"
	"github.com/duetchat/messenger-service/internal/pagination"
)

type CassandraUserConversationRepository struct {
	session *gocql.Session
}

func NewCassandraUserConversationRepository(client *cassandra.Client) *CassandraUserConversationRepository {
	return &CassandraUserConversationRepository{session: client.Session()}
}

func (r *CassandraUserConversationRepository) Upsert(ctx context.Context, entry *domain.ConversationEntry, prevLastMessageAt *time.Time) error {
	// last_message_at is a clustering column, so a plain insert at the new
	// instant would leave the old row behind. Remove it first to keep one
	// entry per (user, conversation).
	if prevLastMessageAt != nil {
		del := `DELETE FROM conversations_by_user
				WHERE user_id = ? AND last_message_at = ? AND conversation_id = ?`
		err := r.session.Query(del, entry.UserID, *prevLastMessageAt, entry.ConversationID).
			WithContext(ctx).Exec()
		if err != nil {
			return fmt.Errorf("delete stale index entry for user %d conversation %d: %w",
				entry.UserID, entry.ConversationID, err)
		}
	}

	ins := `INSERT INTO conversations_by_user (user_id, conversation_id, other_user_id, last_message_at, last_message_content)
			VALUES (?, ?, ?, ?, ?)`
	err := r.session.Query(ins,
		entry.UserID,
		entry.ConversationID,
		entry.OtherUserID,
		entry.LastMessageAt,
		entry.LastMessageContent,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("upsert index entry for user %d conversation %d: %w",
			entry.UserID, entry.ConversationID, err)
	}

	return nil
}

func (r *CassandraUserConversationRepository) Page(ctx context.Context, userID int64, page, limit int) ([]domain.ConversationEntry, error) {
	offset, fetch, err := pagination.Window(page, limit)
	if err != nil {
		return nil, err
	}

	query := `SELECT conversation_id, other_user_id, last_message_at, last_message_content
			  FROM conversations_by_user
			  WHERE user_id = ?
			  LIMIT ?`

	iter := r.session.Query(query, userID, fetch).WithContext(ctx).Iter()

	var (
		rows  []domain.ConversationEntry
		entry domain.ConversationEntry
	)
	for iter.Scan(
		&entry.ConversationID,
		&entry.OtherUserID,
		&entry.LastMessageAt,
		&entry.LastMessageContent,
	) {
		entry.UserID = userID
		rows = append(rows, entry)
		entry = domain.ConversationEntry{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("page conversations for user %d: %w", userID, err)
	}

	return pagination.Slice(rows, offset, limit), nil
}

func (r *CassandraUserConversationRepository) Count(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM conversations_by_user WHERE user_id = ?`

	var total int64
	if err := r.session.Query(query, userID).WithContext(ctx).Scan(&total); err != nil {
		return 0, fmt.Errorf("count conversations for user %d: %w", userID, err)
	}
	return total, nil
}
