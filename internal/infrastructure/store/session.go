package store

import (
	"context"
	"time"

	"posterforge/internal/domain"

	"github.com/patrickmn/go-cache"
)

// MemorySessionStore は、go-cacheを使った編集セッションのインメモリ実装です。
// 最後に保存してからTTLが経過したセッションは破棄されます
type MemorySessionStore struct {
	sessions *cache.Cache
}

// NewMemorySessionStore は新しいMemorySessionStoreインスタンスを作成します
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: cache.New(ttl, ttl/2+time.Second),
	}
}

// Get は、ユーザーのセッションを取得します
func (s *MemorySessionStore) Get(ctx context.Context, userID string) (*domain.EditorSession, error) {
	value, ok := s.sessions.Get(userID)
	if !ok {
		return nil, domain.ErrNoEditorSession
	}
	return value.(*domain.EditorSession), nil
}

// Put は、ユーザーのセッションを保存し、有効期限を延長します
func (s *MemorySessionStore) Put(ctx context.Context, session *domain.EditorSession) error {
	s.sessions.SetDefault(session.UserID, session)
	return nil
}

// Delete は、ユーザーのセッションを削除します
func (s *MemorySessionStore) Delete(ctx context.Context, userID string) error {
	s.sessions.Delete(userID)
	return nil
}
