package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"posterforge/internal/domain"

	"github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryStore は、go-cacheを使ったデザインとサムネイル取得記録のインメモリ実装です。
// 保存したデータは期限切れになりません
type MemoryStore struct {
	items *cache.Cache
	mutex sync.Mutex
}

// NewMemoryStore は新しいMemoryStoreインスタンスを作成します
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: cache.New(cache.NoExpiration, memoryCleanupInterval),
	}
}

func designKey(userID, designID string) string {
	return "design:" + userID + ":" + designID
}

func thumbnailKey(userID string) string {
	return "thumbnails:" + userID
}

// Save は、デザインを新規作成または更新します
func (s *MemoryStore) Save(ctx context.Context, design domain.Design) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items.Set(designKey(design.UserID, design.ID), design, cache.NoExpiration)
	return nil
}

// Load は、指定されたユーザーのデザインを取得します
func (s *MemoryStore) Load(ctx context.Context, userID, designID string) (domain.Design, error) {
	if err := ctx.Err(); err != nil {
		return domain.Design{}, err
	}

	value, ok := s.items.Get(designKey(userID, designID))
	if !ok {
		return domain.Design{}, domain.ErrDesignNotFound
	}
	return value.(domain.Design), nil
}

// List は、指定されたユーザーのデザインを新しい順に取得します
func (s *MemoryStore) List(ctx context.Context, userID string) ([]domain.Design, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := designKey(userID, "")
	designs := []domain.Design{}
	for key, item := range s.items.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		designs = append(designs, item.Object.(domain.Design))
	}

	sort.Slice(designs, func(i, j int) bool {
		return designs[i].CreatedAt.After(designs[j].CreatedAt)
	})
	return designs, nil
}

// Delete は、指定されたユーザーのデザインを削除します
func (s *MemoryStore) Delete(ctx context.Context, userID, designID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := designKey(userID, designID)
	if _, ok := s.items.Get(key); !ok {
		return domain.ErrDesignNotFound
	}
	s.items.Delete(key)
	return nil
}

// IncrementDownloads は、デザインのダウンロード数を1増やします
func (s *MemoryStore) IncrementDownloads(ctx context.Context, userID, designID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := designKey(userID, designID)
	value, ok := s.items.Get(key)
	if !ok {
		return 0, domain.ErrDesignNotFound
	}
	design := value.(domain.Design)
	design.Downloads++
	s.items.Set(key, design, cache.NoExpiration)
	return design.Downloads, nil
}

// RecordDownload は、サムネイルの取得を記録します
func (s *MemoryStore) RecordDownload(ctx context.Context, download domain.ThumbnailDownload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := thumbnailKey(download.UserID)
	var downloads []domain.ThumbnailDownload
	if value, ok := s.items.Get(key); ok {
		downloads = value.([]domain.ThumbnailDownload)
	}
	downloads = append([]domain.ThumbnailDownload{download}, downloads...)
	s.items.Set(key, downloads, cache.NoExpiration)
	return nil
}

// ListDownloads は、指定されたユーザーの取得記録を新しい順に返します
func (s *MemoryStore) ListDownloads(ctx context.Context, userID string) ([]domain.ThumbnailDownload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := s.items.Get(thumbnailKey(userID))
	if !ok {
		return []domain.ThumbnailDownload{}, nil
	}
	return append([]domain.ThumbnailDownload(nil), value.([]domain.ThumbnailDownload)...), nil
}

// Close は何もしません
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
