package service

import (
	"context"
	"time"

	"github.com/duetchat/messenger-service/internal/domain"
)

// MessengerService exposes the four operation groups of the messaging core.
type MessengerService interface {
	// SendMessage appends a message, resolving the conversation for the pair
	// first and fanning the new summary out to both participants' indexes.
	SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*domain.Message, error)

	GetConversation(ctx context.Context, id int64) (*domain.Conversation, error)

	ListUserConversations(ctx context.Context, userID int64, page, limit int) (*domain.ConversationPage, error)

	ListMessages(ctx context.Context, conversationID int64, page, limit int) (*domain.MessagePage, error)

	// ListMessagesBefore restricts the history to messages created strictly
	// before the given instant, for "load older messages" scrollback.
	ListMessagesBefore(ctx context.Context, conversationID int64, before time.Time, page, limit int) (*domain.MessagePage, error)
}
