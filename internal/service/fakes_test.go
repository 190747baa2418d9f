package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/duetchat/messenger-service/internal/cache"
	"github.com/duetchat/messenger-service/internal/domain"
	"github.com/duetchat/messenger-service/internal/pagination"
)

// In-memory stand-ins for the Cassandra repositories, mirroring the store's
// ordering semantics (newest first, per-partition).

type fakeConversationRepo struct {
	mu         sync.Mutex
	rows       map[int64]*domain.Conversation
	getErr     error
	failUpdate bool
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{rows: make(map[int64]*domain.Conversation)}
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id int64) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	conv, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("conversation %d: %w", id, domain.ErrNotFound)
	}
	return copyConversation(conv), nil
}

func (f *fakeConversationRepo) ResolveOrCreate(_ context.Context, userA, userB int64) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := domain.ConversationID(userA, userB)
	if conv, ok := f.rows[id]; ok {
		return copyConversation(conv), nil
	}

	lower, higher := domain.CanonicalPair(userA, userB)
	conv := &domain.Conversation{
		ID:        id,
		User1ID:   lower,
		User2ID:   higher,
		CreatedAt: time.Now().UTC(),
	}
	f.rows[id] = conv
	return copyConversation(conv), nil
}

func (f *fakeConversationRepo) UpdateLastMessage(_ context.Context, id int64, at time.Time, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpdate {
		return errors.New("summary update failed")
	}
	conv, ok := f.rows[id]
	if !ok {
		return fmt.Errorf("conversation %d: %w", id, domain.ErrNotFound)
	}
	conv.LastMessageAt = &at
	conv.LastMessageContent = &content
	return nil
}

func copyConversation(conv *domain.Conversation) *domain.Conversation {
	out := *conv
	if conv.LastMessageAt != nil {
		at := *conv.LastMessageAt
		out.LastMessageAt = &at
	}
	if conv.LastMessageContent != nil {
		content := *conv.LastMessageContent
		out.LastMessageContent = &content
	}
	return &out
}

type fakeMessageRepo struct {
	mu         sync.Mutex
	rows       map[int64][]domain.Message
	failInsert bool
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{rows: make(map[int64][]domain.Message)}
}

func (f *fakeMessageRepo) Insert(_ context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failInsert {
		return errors.New("message insert failed")
	}

	// Prepend then stable-sort so equal timestamps keep newest-first order,
	// matching the (created_at DESC, message_id DESC) clustering.
	rows := append([]domain.Message{*msg}, f.rows[msg.ConversationID]...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	f.rows[msg.ConversationID] = rows
	return nil
}

func (f *fakeMessageRepo) Page(_ context.Context, conversationID int64, page, limit int) ([]domain.Message, error) {
	offset, fetch, err := pagination.Window(page, limit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := f.rows[conversationID]
	if len(prefix) > fetch {
		prefix = prefix[:fetch]
	}
	return pagination.Slice(prefix, offset, limit), nil
}

func (f *fakeMessageRepo) PageBefore(_ context.Context, conversationID int64, before time.Time, page, limit int) ([]domain.Message, error) {
	offset, fetch, err := pagination.Window(page, limit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var filtered []domain.Message
	for _, msg := range f.rows[conversationID] {
		if msg.CreatedAt.Before(before) {
			filtered = append(filtered, msg)
		}
	}
	if len(filtered) > fetch {
		filtered = filtered[:fetch]
	}
	return pagination.Slice(filtered, offset, limit), nil
}

func (f *fakeMessageRepo) Count(_ context.Context, conversationID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows[conversationID])), nil
}

func (f *fakeMessageRepo) CountBefore(_ context.Context, conversationID int64, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var total int64
	for _, msg := range f.rows[conversationID] {
		if msg.CreatedAt.Before(before) {
			total++
		}
	}
	return total, nil
}

type fakeIndexRepo struct {
	mu         sync.Mutex
	entries    map[int64]map[int64]domain.ConversationEntry
	failUpsert bool
}

func newFakeIndexRepo() *fakeIndexRepo {
	return &fakeIndexRepo{entries: make(map[int64]map[int64]domain.ConversationEntry)}
}

func (f *fakeIndexRepo) Upsert(_ context.Context, entry *domain.ConversationEntry, _ *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpsert {
		return errors.New("index upsert failed")
	}
	byConv, ok := f.entries[entry.UserID]
	if !ok {
		byConv = make(map[int64]domain.ConversationEntry)
		f.entries[entry.UserID] = byConv
	}
	byConv[entry.ConversationID] = *entry
	return nil
}

func (f *fakeIndexRepo) Page(_ context.Context, userID int64, page, limit int) ([]domain.ConversationEntry, error) {
	offset, fetch, err := pagination.Window(page, limit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []domain.ConversationEntry
	for _, entry := range f.entries[userID] {
		rows = append(rows, entry)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].LastMessageAt.Equal(rows[j].LastMessageAt) {
			return rows[i].LastMessageAt.After(rows[j].LastMessageAt)
		}
		return rows[i].ConversationID < rows[j].ConversationID
	})
	if len(rows) > fetch {
		rows = rows[:fetch]
	}
	return pagination.Slice(rows, offset, limit), nil
}

func (f *fakeIndexRepo) Count(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.entries[userID])), nil
}

func (f *fakeIndexRepo) entry(userID, conversationID int64) (domain.ConversationEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[userID][conversationID]
	return entry, ok
}

type fakePageCache struct {
	mu   sync.Mutex
	data map[string]*domain.MessagePage
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{data: make(map[string]*domain.MessagePage)}
}

func (f *fakePageCache) Get(_ context.Context, key string) (*domain.MessagePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page, ok := f.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return page, nil
}

func (f *fakePageCache) Set(_ context.Context, key string, page *domain.MessagePage, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = page
	return nil
}

func (f *fakePageCache) BuildKey(conversationID int64, before *time.Time, page, limit int) string {
	cutoff := "all"
	if before != nil {
		cutoff = fmt.Sprintf("%d", before.UnixMilli())
	}
	return fmt.Sprintf("test:%d:%s:%d:%d", conversationID, cutoff, page, limit)
}

func (f *fakePageCache) Close() error { return nil }
