package cache

import (
	"context"
	"time"

	"github.com/duetchat/messenger-service/internal/domain"
)

// PageCache holds rendered message-history pages for a short TTL. Only deep
// pages go through it; the first page is always read from the store so a just
// sent message is immediately visible.
type PageCache interface {
	Get(ctx context.Context, key string) (*domain.MessagePage, error)
	Set(ctx context.Context, key string, page *domain.MessagePage, ttl time.Duration) error
	BuildKey(conversationID int64, before *time.Time, page, limit int) string
	Close() error
}
