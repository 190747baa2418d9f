package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/duetchat/messenger-service/internal/cache"
	"github.com/duetchat/messenger-service/internal/domain"
	"github.com/duetchat/messenger-service/internal/pagination"
	"github.com/duetchat/messenger-service/internal/repository"
	"github.com/duetchat/messenger-service/pkg/log"
)

type messengerServiceImpl struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	index         repository.UserConversationRepository
	pageCache     cache.PageCache
	cacheTTL      time.Duration
	sf            singleflight.Group
}

// NewMessengerService wires the directory, ledger and index together.
// pageCache may be nil, which disables history-page caching.
func NewMessengerService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	index repository.UserConversationRepository,
	pageCache cache.PageCache,
	cacheTTL time.Duration,
) MessengerService {
	return &messengerServiceImpl{
		conversations: conversations,
		messages:      messages,
		index:         index,
		pageCache:     pageCache,
		cacheTTL:      cacheTTL,
	}
}

// SendMessage runs the send saga: resolve the conversation, append the
// message (the source of truth), refresh the conversation summary, then
// upsert both participants' index entries. The steps after the append are
// not atomic with it; a failure there leaves a stale denormalized view that
// the next message in the conversation repairs, so the send still succeeds
// and the failed steps are only logged.
func (s *messengerServiceImpl) SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*domain.Message, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("sender and receiver are the same user %d: %w", senderID, domain.ErrInvalidArgument)
	}

	conv, err := s.conversations.ResolveOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:             gocql.TimeUUID(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}

	l := log.Ctx(ctx)

	if err := s.conversations.UpdateLastMessage(ctx, conv.ID, msg.CreatedAt, content); err != nil {
		l.Warn().
			Err(err).
			Int64(log.FieldConversationID, conv.ID).
			Str(log.FieldMessageID, msg.ID.String()).
			Str("completed_steps", "message").
			Msg("send saga: conversation summary update failed, view stale until next message")
		return msg, nil
	}

	// Fan the summary out to both participants. The previous last-message
	// instant locates the stale index rows to replace.
	prev := conv.LastMessageAt
	g, gctx := errgroup.WithContext(ctx)
	for _, pair := range [2][2]int64{{senderID, receiverID}, {receiverID, senderID}} {
		entry := &domain.ConversationEntry{
			UserID:             pair[0],
			OtherUserID:        pair[1],
			ConversationID:     conv.ID,
			LastMessageAt:      msg.CreatedAt,
			LastMessageContent: content,
		}
		g.Go(func() error {
			return s.index.Upsert(gctx, entry, prev)
		})
	}
	if err := g.Wait(); err != nil {
		l.Warn().
			Err(err).
			Int64(log.FieldConversationID, conv.ID).
			Str(log.FieldMessageID, msg.ID.String()).
			Str("completed_steps", "message,summary").
			Msg("send saga: index fan-out failed, view stale until next message")
	}

	return msg, nil
}

func (s *messengerServiceImpl) GetConversation(ctx context.Context, id int64) (*domain.Conversation, error) {
	return s.conversations.GetByID(ctx, id)
}

func (s *messengerServiceImpl) ListUserConversations(ctx context.Context, userID int64, page, limit int) (*domain.ConversationPage, error) {
	if _, _, err := pagination.Window(page, limit); err != nil {
		return nil, err
	}

	entries, err := s.index.Page(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.index.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The index rows are copies; resolve each to the owning conversation
	// record. An entry whose conversation is gone is skipped, not fatal.
	data := make([]domain.Conversation, 0, len(entries))
	for _, entry := range entries {
		conv, err := s.conversations.GetByID(ctx, entry.ConversationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger := log.Ctx(ctx)
				logger.Warn().
					Int64(log.FieldUserID, userID).
					Int64(log.FieldConversationID, entry.ConversationID).
					Msg("index entry points at missing conversation, skipping")
				continue
			}
			return nil, err
		}
		data = append(data, *conv)
	}

	return &domain.ConversationPage{
		Total: total,
		Page:  page,
		Limit: limit,
		Data:  data,
	}, nil
}

func (s *messengerServiceImpl) ListMessages(ctx context.Context, conversationID int64, page, limit int) (*domain.MessagePage, error) {
	return s.listMessages(ctx, conversationID, nil, page, limit)
}

func (s *messengerServiceImpl) ListMessagesBefore(ctx context.Context, conversationID int64, before time.Time, page, limit int) (*domain.MessagePage, error) {
	if before.IsZero() {
		return nil, fmt.Errorf("before timestamp is zero: %w", domain.ErrInvalidArgument)
	}
	return s.listMessages(ctx, conversationID, &before, page, limit)
}

func (s *messengerServiceImpl) listMessages(ctx context.Context, conversationID int64, before *time.Time, page, limit int) (*domain.MessagePage, error) {
	if _, _, err := pagination.Window(page, limit); err != nil {
		return nil, err
	}

	// The first page must always reflect the latest append, so it never goes
	// through the cache.
	if page == 1 || s.pageCache == nil {
		return s.fetchMessages(ctx, conversationID, before, page, limit)
	}

	key := s.pageCache.BuildKey(conversationID, before, page, limit)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.fetchMessagesWithCache(ctx, conversationID, before, page, limit, key)
	})
	if err != nil {
		return nil, err
	}

	pageResult, ok := result.(*domain.MessagePage)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return pageResult, nil
}

func (s *messengerServiceImpl) fetchMessagesWithCache(ctx context.Context, conversationID int64, before *time.Time, page, limit int, key string) (*domain.MessagePage, error) {
	cached, err := s.pageCache.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger := log.Ctx(ctx)
		logger.Warn().Err(err).Msg("cache get error")
	}

	result, err := s.fetchMessages(ctx, conversationID, before, page, limit)
	if err != nil {
		return nil, err
	}

	// Store in cache without blocking the response.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.pageCache.Set(cacheCtx, key, result, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("cache set error")
		}
	}()

	return result, nil
}

func (s *messengerServiceImpl) fetchMessages(ctx context.Context, conversationID int64, before *time.Time, page, limit int) (*domain.MessagePage, error) {
	var (
		rows  []domain.Message
		total int64
		err   error
	)
	if before != nil {
		rows, err = s.messages.PageBefore(ctx, conversationID, *before, page, limit)
	} else {
		rows, err = s.messages.Page(ctx, conversationID, page, limit)
	}
	if err != nil {
		return nil, err
	}

	if before != nil {
		total, err = s.messages.CountBefore(ctx, conversationID, *before)
	} else {
		total, err = s.messages.Count(ctx, conversationID)
	}
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []domain.Message{}
	}
	return &domain.MessagePage{
		Total: total,
		Page:  page,
		Limit: limit,
		Data:  rows,
	}, nil
}
