package repository

import (
	"context"
	"time"

	"github.com/duetchat/messenger-service/internal/domain"
)

// ConversationRepository is the conversation directory: it owns the canonical
// conversation rows and the summary fields cached on them.
type ConversationRepository interface {
	// GetByID returns domain.ErrNotFound when the conversation does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Conversation, error)

	// ResolveOrCreate returns the conversation for an unordered pair of
	// users, creating it if absent. The id is derived deterministically from
	// the canonical pair, so concurrent first-contact sends converge on the
	// same row.
	ResolveOrCreate(ctx context.Context, userA, userB int64) (*domain.Conversation, error)

	// UpdateLastMessage refreshes the denormalized summary on the
	// conversation row.
	UpdateLastMessage(ctx context.Context, id int64, at time.Time, content string) error
}

// MessageRepository is the append-only message ledger for a conversation,
// clustered newest first.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error

	// Page returns one page of messages, newest first. Reads fetch the whole
	// prefix up to the requested page and slice in memory; cost grows with
	// the page number.
	Page(ctx context.Context, conversationID int64, page, limit int) ([]domain.Message, error)

	// PageBefore is Page restricted to messages created strictly before the
	// given instant.
	PageBefore(ctx context.Context, conversationID int64, before time.Time, page, limit int) ([]domain.Message, error)

	// Count and CountBefore are full-partition aggregates: O(partition
	// size), not O(1).
	Count(ctx context.Context, conversationID int64) (int64, error)
	CountBefore(ctx context.Context, conversationID int64, before time.Time) (int64, error)
}

// UserConversationRepository is the per-user conversation index, a
// denormalized copy of conversation summaries keyed by participant.
type UserConversationRepository interface {
	// Upsert replaces the user's entry for a conversation. The entry's
	// recency is part of the clustering key, so replacing means deleting the
	// row at the previous last-message instant (when one exists) and
	// inserting the new one.
	Upsert(ctx context.Context, entry *domain.ConversationEntry, prevLastMessageAt *time.Time) error

	Page(ctx context.Context, userID int64, page, limit int) ([]domain.ConversationEntry, error)
	Count(ctx context.Context, userID int64) (int64, error)
}
