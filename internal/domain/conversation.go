package domain

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"
)

// Conversation is the source of truth for a two-party conversation.
// LastMessageAt and LastMessageContent are a denormalized cache of the most
// recent message and stay nil until the first message is exchanged.
type Conversation struct {
	ID                 int64      `json:"id"`
	User1ID            int64      `json:"user1_id"`
	User2ID            int64      `json:"user2_id"`
	CreatedAt          time.Time  `json:"created_at"`
	LastMessageAt      *time.Time `json:"last_message_at"`
	LastMessageContent *string    `json:"last_message_content"`
}

// ConversationEntry is one row of the per-user conversation index. It is a
// copy of the owning Conversation's summary fields, never the source of truth.
type ConversationEntry struct {
	UserID             int64     `json:"user_id"`
	ConversationID     int64     `json:"conversation_id"`
	OtherUserID        int64     `json:"other_user_id"`
	LastMessageAt      time.Time `json:"last_message_at"`
	LastMessageContent string    `json:"last_message_content"`
}

// CanonicalPair orders two user ids as (min, max) so an unordered pair of
// participants always maps to the same key.
func CanonicalPair(a, b int64) (int64, int64) {
	if a <= b {
		return a, b
	}
	return b, a
}

// ConversationID derives the conversation id for a pair of users. The
// derivation is a pure function of the canonical pair: both sides of a racing
// first contact compute the same id, so a duplicate create targets the same
// row instead of forking the conversation.
func ConversationID(a, b int64) int64 {
	lower, higher := CanonicalPair(a, b)
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d", lower, higher)
	return int64(h.Sum64() & math.MaxInt64)
}
