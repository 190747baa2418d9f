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

type CassandraMessageRepository struct {
	session *gocql.Session
}

func NewCassandraMessageRepository(client *cassandra.Client) *CassandraMessageRepository {
	return &CassandraMessageRepository{session: client.Session()}
}

func (r *CassandraMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	query := `INSERT INTO messages (conversation_id, message_id, sender_id, receiver_id, content, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	err := r.session.Query(query,
		msg.ConversationID,
		msg.ID,
		msg.SenderID,
		msg.ReceiverID,
		msg.Content,
		msg.CreatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert message %s in conversation %d: %w", msg.ID, msg.ConversationID, err)
	}

	return nil
}

func (r *CassandraMessageRepository) Page(ctx context.Context, conversationID int64, page, limit int) ([]domain.Message, error) {
	offset, fetch, err := pagination.Window(page, limit)
	if err != nil {
		return nil, err
	}

	query := `SELECT message_id, sender_id, receiver_id, content, created_at, conversation_id
			  FROM messages
			  WHERE conversation_id = ?
			  LIMIT ?`

	rows, err := r.scanMessages(r.session.Query(query, conversationID, fetch).WithContext(ctx).Iter())
	if err != nil {
		return nil, fmt.Errorf("page messages for conversation %d: %w", conversationID, err)
	}

	return pagination.Slice(rows, offset, limit), nil
}

func (r *CassandraMessageRepository) PageBefore(ctx context.Context, conversationID int64, before time.Time, page, limit int) ([]domain.Message, error) {
	offset, fetch, err := pagination.Window(page, limit)
	if err != nil {
		return nil, err
	}

	query := `SELECT message_id, sender_id, receiver_id, content, created_at, conversation_id
			  FROM messages
			  WHERE conversation_id = ? AND created_at < ?
			  LIMIT ?`

	rows, err := r.scanMessages(r.session.Query(query, conversationID, before, fetch).WithContext(ctx).Iter())
	if err != nil {
		return nil, fmt.Errorf("page messages before %s for conversation %d: %w", before.Format(time.RFC3339), conversationID, err)
	}

	return pagination.Slice(rows, offset, limit), nil
}

// Count walks the whole partition. O(partition size) by nature of the store.
func (r *CassandraMessageRepository) Count(ctx context.Context, conversationID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM messages WHERE conversation_id = ?`

	var total int64
	if err := r.session.Query(query, conversationID).WithContext(ctx).Scan(&total); err != nil {
		return 0, fmt.Errorf("count messages for conversation %d: %w", conversationID, err)
	}
	return total, nil
}

func (r *CassandraMessageRepository) CountBefore(ctx context.Context, conversationID int64, before time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM messages WHERE conversation_id = ? AND created_at < ?`

	var total int64
	if err := r.session.Query(query, conversationID, before).WithContext(ctx).Scan(&total); err != nil {
		return 0, fmt.Errorf("count messages before %s for conversation %d: %w", before.Format(time.RFC3339), conversationID, err)
	}
	return total, nil
}

func (r *CassandraMessageRepository) scanMessages(iter *gocql.Iter) ([]domain.Message, error) {
	var (
		rows []domain.Message
		msg  domain.Message
	)
	for iter.Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ReceiverID,
		&msg.Content,
		&msg.CreatedAt,
		&msg.ConversationID,
	) {
		rows = append(rows, msg)
		msg = domain.Message{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return rows, nil
}
