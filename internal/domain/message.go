package domain

import (
	"time"

	"github.com/gocql/gocql"
)

// Message is an immutable, append-only record owned by its conversation.
// The id is a timeuuid, so it encodes the creation instant in addition to
// being unique.
type Message struct {
	ID             gocql.UUID `json:"id"`
	ConversationID int64      `json:"conversation_id"`
	SenderID       int64      `json:"sender_id"`
	ReceiverID     int64      `json:"receiver_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
}
